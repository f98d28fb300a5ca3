// Package authz turns bearer tokens into caller identities and decides
// whether an identity may use a route.
package authz

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clinichub/clinic-api/internal/core/domain"
	"github.com/clinichub/clinic-api/internal/core/ports"
)

// Policy is the set of roles admitted by a route.
type Policy []domain.Role

var (
	AdminOnly     = Policy{domain.RoleAdmin}
	AdminOrDoctor = Policy{domain.RoleAdmin, domain.RoleDoctor}
	DoctorOnly    = Policy{domain.RoleDoctor}
	AnyRole       = Policy{domain.RoleAdmin, domain.RoleDoctor, domain.RolePatient}
)

func (p Policy) String() string {
	names := make([]string, len(p))
	for i, r := range p {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}

// Gate resolves the current user from a token on every request. Nothing is
// cached between calls.
type Gate struct {
	tokens   ports.TokenValidator
	denylist ports.TokenDenylist
	log      zerolog.Logger

	// failOpen runs each time a token is accepted without a denylist answer.
	failOpen func()
}

// NewGate builds a Gate. denylist may be nil.
func NewGate(tokens ports.TokenValidator, denylist ports.TokenDenylist, log zerolog.Logger) *Gate {
	return &Gate{tokens: tokens, denylist: denylist, log: log}
}

// OnDenylistUnavailable registers fn to run whenever a denylist error makes
// CurrentUser accept a token unchecked.
func (g *Gate) OnDenylistUnavailable(fn func()) *Gate {
	g.failOpen = fn
	return g
}

// CurrentUser validates token and, when a denylist is configured, checks it
// has not been revoked. A denylist outage does not lock everyone out.
func (g *Gate) CurrentUser(ctx context.Context, token string) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	claims, err := g.tokens.Validate(token)
	if err != nil {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	if g.denylist != nil {
		revoked, err := g.denylist.IsRevoked(ctx, token)
		switch {
		case err != nil:
			g.log.Warn().Err(err).Str("user_id", claims.UserID).Msg("denylist lookup failed, accepting token")
			if g.failOpen != nil {
				g.failOpen()
			}
		case revoked:
			return domain.Claims{}, domain.ErrUnauthenticated
		}
	}
	return claims, nil
}

// RequireRole passes claims through when their role is in policy.
func RequireRole(claims domain.Claims, policy Policy) (domain.Claims, error) {
	if claims.HasRole(policy...) {
		return claims, nil
	}
	return domain.Claims{}, &domain.ForbiddenError{Required: policy}
}

// RequireSelfOrRole admits the owner of userID or any role in policy.
func RequireSelfOrRole(claims domain.Claims, userID string, policy Policy) error {
	if claims.UserID != "" && claims.UserID == userID {
		return nil
	}
	_, err := RequireRole(claims, policy)
	return err
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of actor kinds in the clinic.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole normalises s and rejects anything outside the three known roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", &ValidationError{Field: "role", Msg: fmt.Sprintf("unknown role %q", s)}
	}
	return r, nil
}

// Valid reports whether r is one of patient, doctor or admin.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// UnmarshalText makes JSON decoding (and therefore token parsing) fail on
// unknown roles instead of carrying them to the point of use.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User models an authenticated actor together with its stored credential.
type User struct {
	ID             string    `json:"user_id"                  bson:"_id"`
	Name           string    `json:"name"                     bson:"name"`
	Email          string    `json:"email"                    bson:"email"`
	Phone          string    `json:"phone,omitempty"          bson:"phone,omitempty"`
	Address        string    `json:"address,omitempty"        bson:"address,omitempty"`
	PasswordHash   string    `json:"-"                        bson:"password_hash"`
	Role           Role      `json:"role"                     bson:"role"`
	ProfileImage   string    `json:"profile_image,omitempty"  bson:"profile_image,omitempty"`
	Specialization string    `json:"specialization,omitempty" bson:"specialization,omitempty"`
	LicenseNumber  string    `json:"license_number,omitempty" bson:"license_number,omitempty"`
	CreatedAt      time.Time `json:"created_at"               bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"               bson:"updated_at"`
}

// Claims returns the identity attributes embedded in an access token for u.
func (u *User) Claims() Claims {
	return Claims{
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Phone:        u.Phone,
		Address:      u.Address,
		ProfileImage: u.ProfileImage,
	}
}

// UserPatch is a partial profile update. Nil fields are left untouched.
// Role and password are deliberately absent.
type UserPatch struct {
	Name           *string `json:"name"           validate:"omitnil,min=1"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	ProfileImage   *string `json:"profile_image"  validate:"omitnil,omitempty,url"`
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"license_number"`
}

// Fields returns the storage field names and values set on p.
func (p UserPatch) Fields() map[string]any {
	fields := make(map[string]any)
	putField(fields, "name", p.Name)
	putField(fields, "phone", p.Phone)
	putField(fields, "address", p.Address)
	putField(fields, "profile_image", p.ProfileImage)
	putField(fields, "specialization", p.Specialization)
	putField(fields, "license_number", p.LicenseNumber)
	return fields
}

func putField[V any](fields map[string]any, key string, v *V) {
	if v != nil {
		fields[key] = *v
	}
}

package handler

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"

	"github.com/clinichub/clinic-api/internal/core/relay"
)

// SignalingHandler upgrades call participants to WebSocket and forwards their
// text frames to the other peers of the same room.
type SignalingHandler struct {
	hub            *relay.Hub
	allowedOrigins []string
	writeTimeout   time.Duration
	maxMessage     int
	log            zerolog.Logger
}

func NewSignalingHandler(hub *relay.Hub, allowedOrigins []string, writeTimeout time.Duration, maxMessage int, log zerolog.Logger) *SignalingHandler {
	return &SignalingHandler{
		hub:            hub,
		allowedOrigins: allowedOrigins,
		writeTimeout:   writeTimeout,
		maxMessage:     maxMessage,
		log:            log,
	}
}

// wsConn adapts a websocket connection to relay.Conn.
type wsConn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
}

func (c *wsConn) Send(msg string) error {
	if c.writeTimeout > 0 {
		if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return websocket.Message.Send(c.ws, msg)
}

func (c *wsConn) Close() error { return c.ws.Close() }

// Serve handles GET /api/video/ws/:room_id.
//
// @Summary      Join a signaling room
// @Description  Upgrades to WebSocket. Every text frame is forwarded unchanged to the other peers in the room.
// @Tags         video
// @Param        room_id  path  string  true  "Room id"
// @Success      101
// @Failure      403
// @Router       /api/video/ws/{room_id} [get]
func (h *SignalingHandler) Serve(c echo.Context) error {
	room := c.Param("room_id")
	srv := websocket.Server{
		Handshake: h.checkOrigin,
		Handler: func(ws *websocket.Conn) {
			h.session(room, ws)
		},
	}
	srv.ServeHTTP(c.Response(), c.Request())
	return nil
}

func (h *SignalingHandler) checkOrigin(cfg *websocket.Config, req *http.Request) error {
	if slices.Contains(h.allowedOrigins, "*") {
		return nil
	}
	origin, err := websocket.Origin(cfg, req)
	if err != nil || origin == nil {
		return errors.New("missing origin")
	}
	if !slices.Contains(h.allowedOrigins, origin.Scheme+"://"+origin.Host) {
		return errors.New("origin not allowed")
	}
	cfg.Origin = origin
	return nil
}

func (h *SignalingHandler) session(room string, ws *websocket.Conn) {
	ws.MaxPayloadBytes = h.maxMessage

	peer, err := h.hub.Join(room, &wsConn{ws: ws, writeTimeout: h.writeTimeout})
	if err != nil {
		h.log.Warn().Err(err).Str("room", room).Msg("join refused")
		_ = ws.Close()
		return
	}
	defer h.hub.Leave(peer)

	for {
		var msg string
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			if errors.Is(err, websocket.ErrFrameTooLarge) {
				h.log.Debug().Str("room", room).Msg("oversized frame discarded")
				continue
			}
			return
		}
		h.hub.Relay(peer, msg)
	}
}

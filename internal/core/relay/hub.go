// Package relay forwards signaling text between the peers of a call room.
// It never inspects the payloads it moves.
package relay

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var ErrHubClosed = errors.New("relay hub closed")

// Conn is the transport side of a peer.
type Conn interface {
	Send(msg string) error
	Close() error
}

// Observer receives relay events, typically for metrics.
type Observer interface {
	RoomOpened()
	RoomClosed()
	PeerJoined()
	PeerLeft()
	Relayed()
	SendFailed()
}

// Peer is one connection registered in one room.
type Peer struct {
	room string
	conn Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (p *Peer) Room() string { return p.room }

func (p *Peer) send(msg string) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.Send(msg)
}

func (p *Peer) close() {
	p.closeOnce.Do(func() { _ = p.conn.Close() })
}

// Hub is the room registry. One mutex guards the map; sends happen after the
// recipients have been snapshotted and the lock released.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[*Peer]struct{}
	closed bool

	obs Observer
	log zerolog.Logger
}

// NewHub returns an empty hub. obs may be nil.
func NewHub(obs Observer, log zerolog.Logger) *Hub {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Hub{
		rooms: make(map[string]map[*Peer]struct{}),
		obs:   obs,
		log:   log,
	}
}

// Join registers conn in room, creating the room if needed.
func (h *Hub) Join(room string, conn Conn) (*Peer, error) {
	p := &Peer{room: room, conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	peers, ok := h.rooms[room]
	if !ok {
		peers = make(map[*Peer]struct{})
		h.rooms[room] = peers
	}
	peers[p] = struct{}{}
	size := len(peers)
	h.mu.Unlock()

	if !ok {
		h.obs.RoomOpened()
	}
	h.obs.PeerJoined()
	h.log.Debug().Str("room", room).Int("peers", size).Msg("peer joined")
	return p, nil
}

// Leave deregisters p and closes its connection. Calling it twice is harmless.
func (h *Hub) Leave(p *Peer) {
	h.mu.Lock()
	removed, emptied := h.remove(p)
	h.mu.Unlock()

	p.close()
	if !removed {
		return
	}
	h.obs.PeerLeft()
	if emptied {
		h.obs.RoomClosed()
	}
	h.log.Debug().Str("room", p.room).Bool("room_closed", emptied).Msg("peer left")
}

// remove must be called with h.mu held.
func (h *Hub) remove(p *Peer) (removed, emptied bool) {
	peers, ok := h.rooms[p.room]
	if !ok {
		return false, false
	}
	if _, ok := peers[p]; !ok {
		return false, false
	}
	delete(peers, p)
	if len(peers) == 0 {
		delete(h.rooms, p.room)
		return true, true
	}
	return true, false
}

// Relay sends msg to every peer in from's room except from. A peer whose
// send fails is dropped; delivery to the rest continues. It returns the
// number of peers that received msg.
func (h *Hub) Relay(from *Peer, msg string) int {
	h.mu.Lock()
	peers := h.rooms[from.room]
	targets := make([]*Peer, 0, len(peers))
	for p := range peers {
		if p != from {
			targets = append(targets, p)
		}
	}
	h.mu.Unlock()

	delivered := 0
	for _, p := range targets {
		if err := p.send(msg); err != nil {
			h.obs.SendFailed()
			h.log.Warn().Err(err).Str("room", p.room).Msg("dropping peer after failed send")
			h.Leave(p)
			continue
		}
		delivered++
		h.obs.Relayed()
	}
	return delivered
}

// Peers reports how many peers are in room.
func (h *Hub) Peers(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

// Rooms reports the number of live rooms.
func (h *Hub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// Close disconnects every peer and refuses further joins.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*Peer
	for _, peers := range h.rooms {
		for p := range peers {
			all = append(all, p)
		}
	}
	h.mu.Unlock()

	for _, p := range all {
		h.Leave(p)
	}
}

type nopObserver struct{}

func (nopObserver) RoomOpened() {}
func (nopObserver) RoomClosed() {}
func (nopObserver) PeerJoined() {}
func (nopObserver) PeerLeft()   {}
func (nopObserver) Relayed()    {}
func (nopObserver) SendFailed() {}

/*
Package gateway is the thin session shell between WebSocket connections and the
engine.

This file defines the Hub, which tracks which connections belong to which room
so engine notifications can be fanned out. The hub never mutates engine state;
roster truth lives in the engine, the hub only mirrors it for delivery.
*/
package gateway

import (
	"sync"

	"github.com/rs/zerolog"

	"watchsync/internal/engine"
	"watchsync/internal/pkg/logx"
)

// Hub owns the room-to-connections index used for broadcasts.
type Hub struct {
	// engine is the authoritative room registry all operations go through.
	engine *engine.Registry

	// mu protects access to the rooms index.
	mu sync.RWMutex

	// rooms maps room id -> connection id -> client.
	rooms map[string]map[string]*Client

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub delivering for the given engine registry.
func NewHub(reg *engine.Registry) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		engine: reg,
		rooms:  make(map[string]map[string]*Client),
		logger: hubLogger,
	}
}

// Engine exposes the registry for read-only HTTP queries.
func (h *Hub) Engine() *engine.Registry {
	return h.engine
}

// track records that the client's connection now belongs to the room.
func (h *Hub) track(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		conns = make(map[string]*Client)
		h.rooms[roomID] = conns
	}
	conns[c.connID] = c
}

// untrack drops the connection from the room's delivery set. The room entry
// itself is removed once no connections remain; engine-side teardown is
// independent and governed by the grace period.
func (h *Hub) untrack(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(h.rooms, roomID)
	}
}

// broadcast queues the frame to every connection in the room except the one
// named by excludeConnID (empty string excludes nobody). Delivery is
// best-effort: clients with a full send queue drop the frame.
func (h *Hub) broadcast(roomID string, frame []byte, excludeConnID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID, client := range h.rooms[roomID] {
		if connID == excludeConnID {
			continue
		}
		client.queueFrame(frame)
	}
}

// broadcastPayload encodes the payload once and fans it out to the room.
func (h *Hub) broadcastPayload(roomID string, t MessageType, payload any, excludeConnID string) {
	frame, err := encodeFrame(t, payload)
	if err != nil {
		h.logger.Error().Err(err).
			Str("room_id", roomID).
			Str("msg_type", string(t)).
			Msg("Error marshaling broadcast frame.")
		return
	}
	h.broadcast(roomID, frame, excludeConnID)
}

/*
Package gateway is the thin session shell between WebSocket connections and the
engine.

This file defines the Client struct, representing one active WebSocket
connection. It runs the read/write pumps, parses inbound frames, invokes the
corresponding engine operation, and hands notifications to the Hub for
fan-out. A connection is a member of at most one room at a time; issuing
create or join while already in a room leaves the old room first.
*/
package gateway

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"watchsync/internal/engine"
	"watchsync/internal/pkg/errs"
	"watchsync/internal/pkg/logx"
	"watchsync/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// capacity of the per-client outbound queue.
	sendQueueSize = 256
)

// Client represents an active WebSocket connection.
type Client struct {
	// hub delivers broadcasts and holds the engine registry.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// connID is the server-assigned connection identifier, the key for
	// presence entries in the engine.
	connID string

	// roomID is the room this connection currently belongs to, empty when
	// none. Touched only from the read pump goroutine.
	roomID string

	// a buffered channel used to queue frames waiting to be sent to the client.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection and assigns it a
// fresh connection identifier.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	connID := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Logger()

	return &Client{
		hub:    hub,
		conn:   conn,
		connID: connID,
		send:   make(chan []byte, sendQueueSize),
		logger: clientLogger,
	}
}

// ConnID returns the server-assigned connection identifier.
func (c *Client) ConnID() string {
	return c.connID
}

// ReadPump reads frames from the WebSocket connection until it closes,
// dispatching each to the matching handler. It handles heartbeats (Pong) and
// performs presence cleanup when the connection drops.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInbound(messageBytes)
	}
}

// cleanupOnDisconnect removes the connection from every room it belongs to
// and notifies the remaining members. Equivalent to leave applied across the
// whole registry.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Connection cleanup starting.")

	departures := c.hub.engine.Disconnect(c.connID)
	for _, d := range departures {
		c.hub.untrack(d.RoomID, c.connID)
		c.hub.broadcastPayload(d.RoomID, TypeUserLeft, d.Left, "")
	}
	c.roomID = ""

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error during cleanup")
	}
}

// processInbound parses one raw frame and dispatches it by type.
func (c *Client) processInbound(messageBytes []byte) {
	var env Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch env.Type {
	case TypeCreateRoom:
		c.handleCreateRoom(env.Payload)

	case TypeJoinRoom:
		c.handleJoinRoom(env.Payload)

	case TypeLeaveRoom:
		c.handleLeaveRoom(env.Payload)

	case TypeChatMessage:
		c.handleChatMessage(env.Payload)

	case TypeVideoControl:
		c.handleVideoControl(env.Payload)

	case TypeGetRoomState:
		c.handleGetRoomState(env.Payload)

	default:
		c.logger.Warn().Str("msg_type", string(env.Type)).Msg("Client sent unsupported message type")
	}
}

// handleCreateRoom creates a room with this connection as its first member
// and replies with the created snapshot.
func (c *Client) handleCreateRoom(payloadBytes json.RawMessage) {
	var req RoomRequest
	if err := json.Unmarshal(payloadBytes, &req); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid create-room payload")
		return
	}

	if !randx.IsValidRoomID(req.RoomID) || !randx.IsValidUsername(req.Username) {
		c.sendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	c.leaveCurrentRoom()

	snapshot, customErr := c.hub.engine.CreateRoom(req.RoomID, req.Username, c.connID)
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	c.roomID = req.RoomID
	c.hub.track(req.RoomID, c)
	c.sendFrame(TypeRoomCreated, snapshot)
}

// handleJoinRoom enrolls this connection into an existing room. The joiner
// receives the full snapshot; everyone already present receives the new
// roster.
func (c *Client) handleJoinRoom(payloadBytes json.RawMessage) {
	var req RoomRequest
	if err := json.Unmarshal(payloadBytes, &req); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid join-room payload")
		return
	}

	if !randx.IsValidRoomID(req.RoomID) || !randx.IsValidUsername(req.Username) {
		c.sendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	c.leaveCurrentRoom()

	result, customErr := c.hub.engine.JoinRoom(req.RoomID, req.Username, c.connID)
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	c.roomID = req.RoomID
	c.hub.track(req.RoomID, c)
	c.sendFrame(TypeRoomJoined, result.Snapshot)
	c.hub.broadcastPayload(req.RoomID, TypeUserJoined, result.Joined, c.connID)
}

// handleLeaveRoom removes this connection from the named room.
func (c *Client) handleLeaveRoom(payloadBytes json.RawMessage) {
	var req RoomRef
	if err := json.Unmarshal(payloadBytes, &req); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid leave-room payload")
		return
	}

	c.leaveRoom(req.RoomID)
}

// handleChatMessage appends a chat message and broadcasts the stored copy to
// every member of the room, sender included.
func (c *Client) handleChatMessage(payloadBytes json.RawMessage) {
	var req ChatSend
	if err := json.Unmarshal(payloadBytes, &req); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid chat-message payload")
		return
	}

	msg, customErr := c.hub.engine.AppendChat(req.RoomID, req.Username, req.Message)
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	c.hub.broadcastPayload(req.RoomID, TypeChatMessage, msg, "")
}

// handleVideoControl maps the wire delta into the engine command for the
// requested action and broadcasts the resulting playback update to the whole
// room. Seek treats delta as a relative offset; sync treats it as an
// absolute target.
func (c *Client) handleVideoControl(payloadBytes json.RawMessage) {
	var req VideoControl
	if err := json.Unmarshal(payloadBytes, &req); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid video-control payload")
		return
	}

	action := engine.Action(req.Action)
	if !action.Valid() {
		c.sendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	cmd := engine.Command{Action: action}
	switch action {
	case engine.ActionSeek:
		cmd.SeekBy = req.Delta
	case engine.ActionSync:
		cmd.SyncTo = req.Delta
	}

	update, customErr := c.hub.engine.ApplyPlayback(req.RoomID, cmd, req.Username)
	if customErr != nil {
		c.sendError(customErr)
		return
	}

	c.hub.broadcastPayload(req.RoomID, TypePlaybackUpdate, update, "")
}

// handleGetRoomState replies with a snapshot of the named room. A missing
// room is silently ignored; the query is best-effort by contract.
func (c *Client) handleGetRoomState(payloadBytes json.RawMessage) {
	var req RoomRef
	if err := json.Unmarshal(payloadBytes, &req); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid get-room-state payload")
		return
	}

	snapshot, ok := c.hub.engine.RoomState(req.RoomID)
	if !ok {
		return
	}

	c.sendFrame(TypeRoomState, snapshot)
}

// leaveCurrentRoom leaves whatever room the connection is in, if any. Used
// to keep the at-most-one-room invariant when a client creates or joins
// without leaving first.
func (c *Client) leaveCurrentRoom() {
	if c.roomID != "" {
		c.leaveRoom(c.roomID)
	}
}

// leaveRoom performs the engine leave, drops the connection from the hub
// index, and notifies the remaining members.
func (c *Client) leaveRoom(roomID string) {
	left, ok := c.hub.engine.Leave(roomID, c.connID)

	c.hub.untrack(roomID, c.connID)
	if c.roomID == roomID {
		c.roomID = ""
	}

	if ok {
		c.hub.broadcastPayload(roomID, TypeUserLeft, left, "")
	}
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Error().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Error().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// queueFrame enqueues an already-encoded frame for delivery, dropping it
// when the client's queue is full.
func (c *Client) queueFrame(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping frame")
	}
}

// sendFrame encodes and queues a frame of the given type for this connection.
func (c *Client) sendFrame(t MessageType, payload any) {
	frame, err := encodeFrame(t, payload)
	if err != nil {
		c.logger.Error().Err(err).
			Str("msg_type", string(t)).
			Msg("Error marshaling frame for client")
		return
	}
	c.queueFrame(frame)
}

// sendError queues a room-error frame for this connection only. Errors are
// never broadcast.
func (c *Client) sendError(customErr *errs.CustomError) {
	frame, err := errorFrame(customErr)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling error frame")
		return
	}
	c.queueFrame(frame)
}

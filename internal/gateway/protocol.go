/*
Package gateway is the thin session shell between WebSocket connections and the
engine. It translates inbound frames into engine operations and fans the
returned notifications out to room members.

This file defines the wire protocol: JSON envelopes of {type, payload} with
message-oriented event names. Engine errors travel back to the requesting
connection only, as room-error frames.
*/
package gateway

import (
	"encoding/json"

	"watchsync/internal/pkg/errs"
)

// MessageType names one wire event.
type MessageType string

// Inbound message types (client -> server).
const (
	TypeCreateRoom   MessageType = "create-room"
	TypeJoinRoom     MessageType = "join-room"
	TypeLeaveRoom    MessageType = "leave-room"
	TypeChatMessage  MessageType = "chat-message"
	TypeVideoControl MessageType = "video-control"
	TypeGetRoomState MessageType = "get-room-state"
)

// Outbound message types (server -> client). TypeChatMessage is used in both
// directions: the inbound send and the authoritative broadcast.
const (
	TypeRoomCreated    MessageType = "room-created"
	TypeRoomJoined     MessageType = "room-joined"
	TypeRoomError      MessageType = "room-error"
	TypePlaybackUpdate MessageType = "playback-update"
	TypeUserJoined     MessageType = "user-joined"
	TypeUserLeft       MessageType = "user-left"
	TypeRoomState      MessageType = "room-state"
)

// Envelope is the frame wrapper shared by both directions.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoomRequest is the payload for create-room and join-room.
type RoomRequest struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// RoomRef is the payload for leave-room and get-room-state.
type RoomRef struct {
	RoomID string `json:"roomId"`
}

// ChatSend is the inbound chat-message payload.
type ChatSend struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// VideoControl is the inbound video-control payload. Delta is interpreted by
// action: a signed relative offset for seek, an absolute target for sync, and
// ignored for play/pause.
type VideoControl struct {
	RoomID   string  `json:"roomId"`
	Username string  `json:"username"`
	Action   string  `json:"action"`
	Delta    float64 `json:"delta"`
}

// ErrorNotice is the room-error payload sent to the requesting connection.
type ErrorNotice struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// encodeFrame marshals a payload into a complete wire frame of the given type.
func encodeFrame(t MessageType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: t, Payload: raw})
}

// errorFrame builds a room-error frame from a CustomError.
func errorFrame(customErr *errs.CustomError) ([]byte, error) {
	return encodeFrame(TypeRoomError, ErrorNotice{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

package gateway

import (
	"encoding/json"
	"testing"

	"watchsync/internal/pkg/errs"
)

func TestEncodeFrameRoundTrip(t *testing.T) {
	frame, err := encodeFrame(TypeUserJoined, map[string]any{"username": "alice"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("frame is not a valid envelope: %v", err)
	}
	if env.Type != TypeUserJoined {
		t.Fatalf("expected type %q, got %q", TypeUserJoined, env.Type)
	}

	var payload struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("payload did not round-trip: %v", err)
	}
	if payload.Username != "alice" {
		t.Fatalf("expected username alice, got %q", payload.Username)
	}
}

func TestErrorFrameCarriesCode(t *testing.T) {
	frame, err := errorFrame(errs.NewError(errs.ErrRoomNotFound))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("frame is not a valid envelope: %v", err)
	}
	if env.Type != TypeRoomError {
		t.Fatalf("expected room-error, got %q", env.Type)
	}

	var notice ErrorNotice
	if err := json.Unmarshal(env.Payload, &notice); err != nil {
		t.Fatalf("payload did not decode: %v", err)
	}
	if notice.Code != errs.ErrRoomNotFound || notice.Message == "" {
		t.Fatalf("unexpected error notice: %+v", notice)
	}
}

func TestVideoControlPayloadDecoding(t *testing.T) {
	raw := []byte(`{"type":"video-control","payload":{"roomId":"r1","username":"alice","action":"seek","delta":-10}}`)

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("envelope decode failed: %v", err)
	}
	if env.Type != TypeVideoControl {
		t.Fatalf("expected video-control, got %q", env.Type)
	}

	var req VideoControl
	if err := json.Unmarshal(env.Payload, &req); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if req.RoomID != "r1" || req.Action != "seek" || req.Delta != -10 {
		t.Fatalf("unexpected payload: %+v", req)
	}
}

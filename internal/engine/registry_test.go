package engine

import (
	"strings"
	"testing"
	"time"

	"watchsync/internal/pkg/errs"
)

func newTestRegistry(grace time.Duration) *Registry {
	r := NewRegistry(Config{GracePeriod: grace, HistoryLimit: 100})
	return r
}

func waitForRoomGone(t *testing.T, r *Registry, roomID string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := r.RoomState(roomID); !ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room %q still present after grace period", roomID)
}

func TestCreateRoomDefaultsAndDuplicate(t *testing.T) {
	r := newTestRegistry(time.Minute)
	defer r.Shutdown()

	snap, err := r.CreateRoom("r1", "alice", "conn-a")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if snap.RoomID != "r1" {
		t.Fatalf("expected roomId r1, got %q", snap.RoomID)
	}
	if snap.Video.Playing || snap.Video.Position != 0 || snap.Video.LastAction != ActionPause {
		t.Fatalf("unexpected default playback state: %+v", snap.Video)
	}
	if len(snap.Users) != 1 || snap.Users[0].Username != "alice" {
		t.Fatalf("creator not enrolled: %+v", snap.Users)
	}

	_, err = r.CreateRoom("r1", "bob", "conn-b")
	if err == nil || err.Code != errs.ErrRoomExists {
		t.Fatalf("expected ErrRoomExists, got %v", err)
	}
}

func TestJoinMissingRoomMutatesNothing(t *testing.T) {
	r := newTestRegistry(time.Minute)
	defer r.Shutdown()

	_, err := r.JoinRoom("ghost", "bob", "conn-b")
	if err == nil || err.Code != errs.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}

	if _, ok := r.RoomState("ghost"); ok {
		t.Fatalf("failed join must not create the room")
	}
}

func TestJoinReturnsHistoryAndOrderedRoster(t *testing.T) {
	r := newTestRegistry(time.Minute)
	defer r.Shutdown()

	if _, err := r.CreateRoom("r1", "alice", "conn-a"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := r.AppendChat("r1", "alice", "first!"); err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	result, err := r.JoinRoom("r1", "bob", "conn-b")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}

	users := result.Snapshot.Users
	if len(users) != 2 || users[0].Username != "alice" || users[1].Username != "bob" {
		t.Fatalf("roster not in join order: %+v", users)
	}
	if len(result.Snapshot.Messages) != 1 || result.Snapshot.Messages[0].Text != "first!" {
		t.Fatalf("joiner did not receive chat history: %+v", result.Snapshot.Messages)
	}
	if result.Joined.Username != "bob" || len(result.Joined.Users) != 2 {
		t.Fatalf("unexpected roster notification: %+v", result.Joined)
	}
}

func TestWatchSessionScenario(t *testing.T) {
	r := newTestRegistry(40 * time.Millisecond)
	defer r.Shutdown()

	if _, err := r.CreateRoom("r1", "alice", "conn-a"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	joined, err := r.JoinRoom("r1", "bob", "conn-b")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if len(joined.Snapshot.Messages) != 0 {
		t.Fatalf("expected empty chat, got %d messages", len(joined.Snapshot.Messages))
	}

	update, cmdErr := r.ApplyPlayback("r1", Command{Action: ActionSeek, SeekBy: 10}, "alice")
	if cmdErr != nil {
		t.Fatalf("seek failed: %v", cmdErr)
	}
	if update.Position != 10 || update.Action != ActionSeek || update.IsSync {
		t.Fatalf("unexpected seek broadcast: %+v", update)
	}

	update, cmdErr = r.ApplyPlayback("r1", Command{Action: ActionPlay}, "bob")
	if cmdErr != nil {
		t.Fatalf("play failed: %v", cmdErr)
	}
	if !update.State.Playing {
		t.Fatalf("expected playing after play: %+v", update.State)
	}

	_, cmdErr = r.ApplyPlayback("r1", Command{Action: ActionPlay}, "bob")
	if cmdErr == nil || cmdErr.Code != errs.ErrAlreadyPlaying {
		t.Fatalf("expected ErrAlreadyPlaying, got %v", cmdErr)
	}

	snap, ok := r.RoomState("r1")
	if !ok || !snap.Video.Playing || snap.Video.Position != 10 {
		t.Fatalf("state changed by rejected command: %+v", snap)
	}

	left, ok := r.Leave("r1", "conn-a")
	if !ok || len(left.Users) != 1 || left.Users[0].Username != "bob" {
		t.Fatalf("unexpected roster after alice left: %+v", left)
	}

	left, ok = r.Leave("r1", "conn-b")
	if !ok || len(left.Users) != 0 {
		t.Fatalf("unexpected roster after bob left: %+v", left)
	}

	waitForRoomGone(t, r, "r1")
}

func TestRejoinWithinGracePreservesState(t *testing.T) {
	r := newTestRegistry(100 * time.Millisecond)
	defer r.Shutdown()

	if _, err := r.CreateRoom("r1", "alice", "conn-a"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := r.AppendChat("r1", "alice", "brb"); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if _, err := r.ApplyPlayback("r1", Command{Action: ActionSeek, SeekBy: 25}, "alice"); err != nil {
		t.Fatalf("seek failed: %v", err)
	}

	if _, ok := r.Leave("r1", "conn-a"); !ok {
		t.Fatalf("leave failed")
	}

	// Rejoin well inside the grace window: the room must be the same one,
	// not a fresh recreation.
	result, err := r.JoinRoom("r1", "alice", "conn-a2")
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if len(result.Snapshot.Messages) != 1 || result.Snapshot.Messages[0].Text != "brb" {
		t.Fatalf("chat history lost across grace window: %+v", result.Snapshot.Messages)
	}
	if result.Snapshot.Video.Position != 25 {
		t.Fatalf("playback state lost across grace window: %+v", result.Snapshot.Video)
	}

	// The armed teardown will still fire; its recheck must spare the
	// occupied room.
	time.Sleep(200 * time.Millisecond)
	if _, ok := r.RoomState("r1"); !ok {
		t.Fatalf("occupied room deleted by stale teardown timer")
	}
}

func TestDisconnectSweepsRegistry(t *testing.T) {
	r := newTestRegistry(time.Minute)
	defer r.Shutdown()

	if _, err := r.CreateRoom("r1", "alice", "conn-a"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := r.JoinRoom("r1", "bob", "conn-b"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	departures := r.Disconnect("conn-b")
	if len(departures) != 1 {
		t.Fatalf("expected 1 departure, got %d", len(departures))
	}
	d := departures[0]
	if d.RoomID != "r1" || d.Left.Username != "bob" {
		t.Fatalf("unexpected departure: %+v", d)
	}
	if len(d.Left.Users) != 1 || d.Left.Users[0].Username != "alice" {
		t.Fatalf("unexpected remaining roster: %+v", d.Left.Users)
	}

	if again := r.Disconnect("conn-b"); len(again) != 0 {
		t.Fatalf("second disconnect should be a no-op, got %+v", again)
	}
}

func TestDeleteRoomIfEmptyRechecksOccupancy(t *testing.T) {
	r := newTestRegistry(time.Minute)
	defer r.Shutdown()

	if _, err := r.CreateRoom("r1", "alice", "conn-a"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Occupied room must survive a stray deletion attempt.
	r.DeleteRoomIfEmpty("r1")
	if _, ok := r.RoomState("r1"); !ok {
		t.Fatalf("occupied room deleted")
	}

	r.Leave("r1", "conn-a")
	r.DeleteRoomIfEmpty("r1")
	if _, ok := r.RoomState("r1"); ok {
		t.Fatalf("empty room not deleted")
	}

	// Idempotent on a missing room.
	r.DeleteRoomIfEmpty("r1")
}

func TestAppendChatValidation(t *testing.T) {
	r := newTestRegistry(time.Minute)
	defer r.Shutdown()

	if _, err := r.AppendChat("ghost", "alice", "hi"); err == nil || err.Code != errs.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}

	if _, err := r.CreateRoom("r1", "alice", "conn-a"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := r.AppendChat("r1", "alice", strings.Repeat("a", MaxMessageBytes+1)); err == nil || err.Code != errs.ErrMessageTooLong {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}

	msg, err := r.AppendChat("r1", "alice", "hello")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if msg.ID == "" || msg.TimeLabel == "" || msg.DateLabel == "" {
		t.Fatalf("message missing id or timestamp labels: %+v", msg)
	}
	if msg.Username != "alice" || msg.Text != "hello" {
		t.Fatalf("unexpected stored message: %+v", msg)
	}
}

/*
Package engine contains the core coordination logic for shared watch sessions.

This file defines the Registry, which owns every live Room and serializes all
mutations behind a single mutex. Commands are applied strictly in lock
acquisition order, so no two mutations on a room ever interleave and no
per-field locking is needed. Empty rooms are torn down after a grace period
by a deferred task that re-validates emptiness at fire time; a rejoin during
the window therefore survives without any explicit timer cancellation.
*/
package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"watchsync/internal/pkg/errs"
	"watchsync/internal/pkg/logx"
	"watchsync/internal/pkg/randx"
)

// DefaultGracePeriod is how long an empty room survives before teardown.
const DefaultGracePeriod = 60 * time.Second

// Config carries the tunable engine settings.
type Config struct {
	// GracePeriod is the delay before an empty room is torn down.
	// Zero means DefaultGracePeriod.
	GracePeriod time.Duration

	// HistoryLimit caps each room's chat buffer. Zero means DefaultHistoryLimit.
	HistoryLimit int
}

// Registry owns the set of live rooms and is the only component allowed to
// mutate them. Every operation either fully succeeds or fully no-ops with a
// reported error; errors never mutate state and are meant for the requesting
// connection only.
type Registry struct {
	// mu serializes every room mutation into one global arrival order.
	mu sync.Mutex

	// rooms maps room identifier to its Room instance.
	rooms map[string]*Room

	gracePeriod  time.Duration
	historyLimit int

	// structured logger with Registry context.
	logger zerolog.Logger
}

// NewRegistry constructs a Registry with the given settings.
func NewRegistry(cfg Config) *Registry {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}

	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		rooms:        make(map[string]*Room),
		gracePeriod:  cfg.GracePeriod,
		historyLimit: cfg.HistoryLimit,
		logger:       registryLogger,
	}
}

// CreateRoom creates a room with the default paused-at-zero playback state,
// enrolls the creator as its first member, and returns the created snapshot.
// It fails with ErrRoomExists if the identifier is already taken.
func (r *Registry) CreateRoom(roomID, username, connID string) (*RoomSnapshot, *errs.CustomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; ok {
		r.logger.Warn().Str("room_id", roomID).Msg("Attempted to create existing room.")
		return nil, errs.NewError(errs.ErrRoomExists)
	}

	room := newRoom(roomID, r.historyLimit, time.Now())
	room.addMember(username, connID)
	r.rooms[roomID] = room

	metricRoomsCreated.Inc()
	metricActiveRooms.Set(float64(len(r.rooms)))

	r.logger.Info().
		Str("room_id", roomID).
		Str("username", username).
		Msg("Room created.")

	return room.snapshot(false), nil
}

// JoinRoom enrolls a user into an existing room. The returned JoinResult
// carries the full snapshot (playback state plus chat history) as the direct
// reply for the joiner, and the roster notification meant for the other
// members. A room sitting inside its grace period is joined like any other;
// the pending teardown will no-op on its emptiness recheck.
func (r *Registry) JoinRoom(roomID, username, connID string) (*JoinResult, *errs.CustomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		r.logger.Info().
			Str("room_id", roomID).
			Str("username", username).
			Msg("Join rejected: room not found.")
		return nil, errs.NewError(errs.ErrRoomNotFound)
	}

	room.addMember(username, connID)

	r.logger.Info().
		Str("room_id", roomID).
		Str("username", username).
		Int("total_users", len(room.members)).
		Msg("User joined room.")

	return &JoinResult{
		Snapshot: room.snapshot(true),
		Joined:   &UserJoined{Username: username, Users: room.roster()},
	}, nil
}

// RoomState returns a read-only snapshot of the room, or ok=false if it does
// not exist. Missing rooms are not an error for this query.
func (r *Registry) RoomState(roomID string) (*RoomSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	return room.snapshot(true), true
}

// ApplyPlayback runs one playback command against the room's state machine
// and returns the broadcast event for all members on success. Redundant
// play/pause commands and unknown actions are rejected without mutation.
func (r *Registry) ApplyPlayback(roomID string, cmd Command, username string) (*PlaybackUpdate, *errs.CustomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, errs.NewError(errs.ErrRoomNotFound)
	}

	if err := room.Playback.apply(cmd, time.Now()); err != nil {
		return nil, err
	}

	metricPlaybackCommands.WithLabelValues(string(cmd.Action)).Inc()

	r.logger.Debug().
		Str("room_id", roomID).
		Str("username", username).
		Str("action", string(cmd.Action)).
		Float64("position", room.Playback.Position).
		Msg("Playback command applied.")

	return &PlaybackUpdate{
		Action:   cmd.Action,
		Position: room.Playback.Position,
		Username: username,
		State:    room.Playback,
		IsSync:   cmd.Action == ActionSync,
	}, nil
}

// AppendChat stores a message in the room's history and returns it for
// broadcast to every member, sender included. Oversized messages are
// rejected before any state changes.
func (r *Registry) AppendChat(roomID, username, text string) (*ChatMessage, *errs.CustomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, errs.NewError(errs.ErrRoomNotFound)
	}

	if len(text) > MaxMessageBytes {
		return nil, errs.NewError(errs.ErrMessageTooLong)
	}

	now := time.Now()
	msg := ChatMessage{
		ID:        randx.MessageID(),
		Username:  username,
		Text:      text,
		SentAt:    now,
		TimeLabel: now.Format("15:04:05"),
		DateLabel: now.Format("1/2/2006, 3:04:05 PM"),
	}
	room.chat.Append(msg)

	metricChatMessages.Inc()

	return &msg, nil
}

// Leave removes the connection from the room if enrolled and returns the
// roster notification for the remaining members. When the roster empties,
// the teardown timer is armed. The second return is false when the room or
// member was absent and nothing changed.
func (r *Registry) Leave(roomID, connID string) (*UserLeft, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}

	member, ok := room.removeMember(connID)
	if !ok {
		return nil, false
	}

	r.logger.Info().
		Str("room_id", roomID).
		Str("username", member.Username).
		Int("total_users", len(room.members)).
		Msg("User left room.")

	if room.empty() {
		r.armTeardown(room)
	}

	return &UserLeft{Username: member.Username, Users: room.roster()}, true
}

// Disconnect applies Leave for the connection across every room in the
// registry. A connection belongs to at most one room, but sweeping the whole
// registry keeps the operation safe if that ever drifts.
func (r *Registry) Disconnect(connID string) []Departure {
	r.mu.Lock()
	defer r.mu.Unlock()

	var departures []Departure

	for roomID, room := range r.rooms {
		member, ok := room.removeMember(connID)
		if !ok {
			continue
		}

		r.logger.Info().
			Str("room_id", roomID).
			Str("username", member.Username).
			Msg("User disconnected from room.")

		if room.empty() {
			r.armTeardown(room)
		}

		departures = append(departures, Departure{
			RoomID: roomID,
			Left:   &UserLeft{Username: member.Username, Users: room.roster()},
		})
	}

	return departures
}

// DeleteRoomIfEmpty removes the room and its chat history only if the roster
// is still empty at invocation time. The recheck is what makes a rejoin
// during the grace window survive; the operation is idempotent.
func (r *Registry) DeleteRoomIfEmpty(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok || !room.empty() {
		return
	}

	if room.pendingDeletion != nil {
		room.pendingDeletion.Stop()
		room.pendingDeletion = nil
	}

	delete(r.rooms, roomID)

	metricRoomsDeleted.Inc()
	metricActiveRooms.Set(float64(len(r.rooms)))

	r.logger.Info().Str("room_id", roomID).Msg("Empty room deleted after grace period.")
}

// armTeardown schedules the deferred deletion of a now-empty room. Any
// previously armed timer is stopped first so repeated empty/rejoin cycles
// do not stack callbacks. Callers must hold r.mu.
func (r *Registry) armTeardown(room *Room) {
	if room.pendingDeletion != nil {
		room.pendingDeletion.Stop()
	}

	roomID := room.ID
	room.pendingDeletion = time.AfterFunc(r.gracePeriod, func() {
		r.DeleteRoomIfEmpty(roomID)
	})

	r.logger.Info().
		Str("room_id", roomID).
		Dur("grace_period", r.gracePeriod).
		Msg("Room empty. Teardown armed.")
}

// Shutdown stops all pending teardown timers and drops every room. Intended
// for process exit after the HTTP server has stopped accepting connections.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, room := range r.rooms {
		if room.pendingDeletion != nil {
			room.pendingDeletion.Stop()
			room.pendingDeletion = nil
		}
	}
	r.rooms = make(map[string]*Room)

	metricActiveRooms.Set(0)

	r.logger.Info().Msg("Registry shutdown complete.")
}

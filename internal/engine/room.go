/*
Package engine contains the core coordination logic for shared watch sessions.

This file defines the Room struct: one isolated session holding the roster,
the authoritative playback state, and the chat history. Rooms are owned
exclusively by the Registry; nothing outside the engine holds a mutable
reference to one.
*/
package engine

import "time"

// Room represents a single live watch session.
type Room struct {
	// ID is the creator-chosen, case-sensitive room identifier.
	ID string

	// members holds the roster in join order.
	members []Member

	// Playback is the room's authoritative video state.
	Playback PlaybackState

	// chat is the room's bounded message log.
	chat *HistoryBuffer

	// pendingDeletion is the armed teardown timer while the room sits empty
	// inside the grace period, nil otherwise. Correctness does not depend on
	// cancelling it: the fire-time emptiness recheck is the actual guard.
	pendingDeletion *time.Timer
}

// newRoom creates a room with the default paused-at-zero playback state and
// an empty chat history.
func newRoom(id string, historyLimit int, now time.Time) *Room {
	return &Room{
		ID:       id,
		Playback: newPlaybackState(now),
		chat:     newHistoryBuffer(historyLimit),
	}
}

// addMember appends a participant to the roster, preserving join order.
func (r *Room) addMember(username, connID string) {
	r.members = append(r.members, Member{Username: username, ConnID: connID})
}

// removeMember deletes the participant with the given connection id and
// reports whether one was present.
func (r *Room) removeMember(connID string) (Member, bool) {
	for i, m := range r.members {
		if m.ConnID == connID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return m, true
		}
	}
	return Member{}, false
}

// roster returns a copy of the membership in join order.
func (r *Room) roster() []Member {
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// empty reports whether the roster has no participants.
func (r *Room) empty() bool {
	return len(r.members) == 0
}

// snapshot builds the client-facing view of the room. The chat history is
// included only when requested; room creation omits it.
func (r *Room) snapshot(withHistory bool) *RoomSnapshot {
	s := &RoomSnapshot{
		RoomID: r.ID,
		Video:  r.Playback,
		Users:  r.roster(),
	}
	if withHistory {
		s.Messages = r.chat.Messages()
	}
	return s
}

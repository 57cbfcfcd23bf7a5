/*
Package engine contains the core coordination logic for shared watch sessions:
the room registry, the playback state machine, the presence lifecycle, and the
bounded chat history.

This file defines the notification types the engine hands back to its caller.
The engine never pushes anything itself; every operation returns the direct
reply for the requesting connection and, where relevant, the payload the
gateway should fan out to the rest of the room.
*/
package engine

// Member identifies one connected participant of a room. Entries are ephemeral
// and keyed by connection; usernames are plain display strings and collisions
// are allowed.
type Member struct {
	Username string `json:"username"`
	ConnID   string `json:"connectionId"`
}

// RoomSnapshot is the full client-facing view of a room at a point in time.
// Messages is populated for join and state queries, and omitted on creation
// when the history is necessarily empty.
type RoomSnapshot struct {
	RoomID   string        `json:"roomId"`
	Video    PlaybackState `json:"videoState"`
	Users    []Member      `json:"users"`
	Messages []ChatMessage `json:"messages,omitempty"`
}

// UserJoined is broadcast to the existing members of a room when someone new
// enrolls. The joining connection does not receive it; it gets the snapshot
// as the direct reply to its own request instead.
type UserJoined struct {
	Username string   `json:"username"`
	Users    []Member `json:"users"`
}

// UserLeft is broadcast to the remaining members of a room after a departure.
type UserLeft struct {
	Username string   `json:"username"`
	Users    []Member `json:"users"`
}

// JoinResult pairs the direct reply for the joining connection with the
// roster notification for everyone else.
type JoinResult struct {
	Snapshot *RoomSnapshot
	Joined   *UserJoined
}

// Departure records a roster change caused by a dropped connection, tagged
// with the room it happened in so the gateway knows where to fan it out.
type Departure struct {
	RoomID string
	Left   *UserLeft
}

// PlaybackUpdate is broadcast to all members of a room, including the acting
// one, after a successful playback mutation. IsSync distinguishes join-time
// reconciliation from user-driven actions so consumers can suppress the
// duplicate "changed mid-sync" notification locally.
type PlaybackUpdate struct {
	Action   Action        `json:"action"`
	Position float64       `json:"position"`
	Username string        `json:"username"`
	State    PlaybackState `json:"videoState"`
	IsSync   bool          `json:"isSync"`
}

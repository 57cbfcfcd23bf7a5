/*
Package engine contains the core coordination logic for shared watch sessions.

This file defines the per-room chat history: a capacity-bounded, ordered log
of immutable messages. The buffer lives and dies with its room.
*/
package engine

import "time"

const (
	// DefaultHistoryLimit is the default capacity of a room's chat history.
	// The oldest message is evicted first once the limit is exceeded.
	DefaultHistoryLimit = 100

	// MaxMessageBytes is the maximum allowed size of a single chat message.
	MaxMessageBytes = 5000
)

// ChatMessage is one entry in a room's chat log. Messages are immutable once
// appended. TimeLabel and DateLabel are pre-rendered human-readable forms of
// SentAt so thin clients can display them without local time handling.
type ChatMessage struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"message"`
	SentAt    time.Time `json:"sentAt"`
	TimeLabel string    `json:"timestamp"`
	DateLabel string    `json:"date"`
}

// HistoryBuffer is a FIFO-bounded ordered log of chat messages.
type HistoryBuffer struct {
	limit    int
	messages []ChatMessage
}

// newHistoryBuffer creates an empty buffer holding at most limit messages.
func newHistoryBuffer(limit int) *HistoryBuffer {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryBuffer{limit: limit}
}

// Append adds msg to the end of the log, evicting the oldest entry if the
// buffer is over capacity.
func (b *HistoryBuffer) Append(msg ChatMessage) {
	b.messages = append(b.messages, msg)
	if len(b.messages) > b.limit {
		b.messages = b.messages[1:]
	}
}

// Messages returns a copy of the log in append order. The copy keeps callers
// from holding a mutable reference into engine-owned state.
func (b *HistoryBuffer) Messages() []ChatMessage {
	out := make([]ChatMessage, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len returns the number of messages currently retained.
func (b *HistoryBuffer) Len() int {
	return len(b.messages)
}

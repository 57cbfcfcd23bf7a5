/*
Package engine contains the core coordination logic for shared watch sessions.

This file defines the authoritative per-room playback state and the rules for
mutating it. Play and pause are idempotency-guarded because they are a binary
toggle meaningful only on transition; seek and sync always apply because they
are commutative/absolute and concurrent application cannot corrupt state.
*/
package engine

import (
	"math"
	"time"

	"watchsync/internal/pkg/errs"
)

// Action enumerates the playback mutations a room accepts.
type Action string

const (
	ActionPlay  Action = "play"
	ActionPause Action = "pause"
	ActionSeek  Action = "seek"
	ActionSync  Action = "sync"
)

// Valid reports whether a is one of the known playback actions.
func (a Action) Valid() bool {
	switch a {
	case ActionPlay, ActionPause, ActionSeek, ActionSync:
		return true
	}
	return false
}

// PlaybackState is the single authoritative copy of a room's shared video
// state. Position is in seconds and never drops below zero. Playing changes
// only through explicit play/pause commands, never via seek or sync.
type PlaybackState struct {
	Playing      bool      `json:"playing"`
	Position     float64   `json:"position"`
	VideoURL     string    `json:"videoUrl"`
	LastAction   Action    `json:"lastAction"`
	LastActionAt time.Time `json:"lastActionTime"`
}

// newPlaybackState returns the default state a freshly created room starts
// with: paused at position zero.
func newPlaybackState(now time.Time) PlaybackState {
	return PlaybackState{
		Playing:      false,
		Position:     0,
		LastAction:   ActionPause,
		LastActionAt: now,
	}
}

// Command describes one playback mutation request. The seek/sync duality is
// explicit: SeekBy is a signed relative offset consumed only by seek, SyncTo
// is an absolute target position consumed only by sync. Keeping them as two
// separately named fields avoids the sign/unit confusion of a shared delta.
type Command struct {
	Action Action
	SeekBy float64
	SyncTo float64
}

// apply mutates the state according to cmd, or returns an error leaving the
// state untouched. Redundant play/pause commands are rejected explicitly;
// seek clamps at zero rather than erroring.
func (s *PlaybackState) apply(cmd Command, now time.Time) *errs.CustomError {
	switch cmd.Action {
	case ActionPlay:
		if s.Playing {
			return errs.NewError(errs.ErrAlreadyPlaying)
		}
		s.Playing = true
		s.LastAction = ActionPlay

	case ActionPause:
		if !s.Playing {
			return errs.NewError(errs.ErrAlreadyPaused)
		}
		s.Playing = false
		s.LastAction = ActionPause

	case ActionSeek:
		s.Position = math.Max(0, s.Position+cmd.SeekBy)
		s.LastAction = ActionSeek

	case ActionSync:
		s.Position = math.Max(0, cmd.SyncTo)
		s.LastAction = ActionSync

	default:
		return errs.NewError(errs.ErrInvalidParams)
	}

	s.LastActionAt = now
	return nil
}

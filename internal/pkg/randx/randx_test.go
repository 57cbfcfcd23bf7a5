package randx

import (
	"strings"
	"testing"
)

func TestConnectionIDsAreUnique(t *testing.T) {
	a := ConnectionID()
	b := ConnectionID()

	if a == "" || b == "" {
		t.Fatalf("empty connection id")
	}
	if a == b {
		t.Fatalf("connection ids collided: %q", a)
	}
}

func TestMessageIDShape(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		id := MessageID()
		if len(id) != 26 {
			t.Fatalf("unexpected ULID length for %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate message id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsValidRoomID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"movie-night", true},
		{"Movie Night", true},
		{"r1", true},
		{"", false},
		{"   ", false},
		{"with\ttab", false},
		{"with\nnewline", false},
		{strings.Repeat("x", MaxRoomIDLength), true},
		{strings.Repeat("x", MaxRoomIDLength+1), false},
	}

	for _, tc := range cases {
		if got := IsValidRoomID(tc.id); got != tc.want {
			t.Fatalf("IsValidRoomID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	if !IsValidUsername("alice") {
		t.Fatalf("plain username rejected")
	}
	if IsValidUsername("") || IsValidUsername("  ") {
		t.Fatalf("blank username accepted")
	}
}

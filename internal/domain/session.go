// Package domain contains entities without logic, just meta-data.
package domain

import (
	"strings"
	"time"
)

type (
	RoomName  string
	SessionID string
)

// DefaultRoom is used whenever a request does not name a room.
const DefaultRoom RoomName = "my-room"

// Editor is a session currently holding a write slot in a room.
type Editor struct {
	SessionID    SessionID `json:"sessionId"`
	GameID       string    `json:"gameId,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	LastActivity time.Time `json:"lastActivity"`
}

// QueueEntry is a session waiting for a write slot. Entries are kept
// in enqueue order; position 0 is next to be promoted.
type QueueEntry struct {
	SessionID  SessionID `json:"sessionId"`
	GameID     string    `json:"gameId,omitempty"`
	EnqueuedAt time.Time `json:"ts"`
}

type Role string

const (
	RoleEditor   Role = "editor"
	RoleObserver Role = "observer"
	RoleUnknown  Role = "unknown"
)

// Placement is the outcome of an admission operation for one session:
// its role and, for observers, the 0-based queue position.
type Placement struct {
	Role     Role
	QueuePos int
}

func EditorPlacement() Placement {
	return Placement{Role: RoleEditor}
}

func ObserverPlacement(pos int) Placement {
	return Placement{Role: RoleObserver, QueuePos: pos}
}

func UnknownPlacement() Placement {
	return Placement{Role: RoleUnknown}
}

// NonAdminCount returns how many editors count against room capacity.
func NonAdminCount(editors []Editor) int {
	n := 0
	for _, e := range editors {
		if !e.IsAdmin {
			n++
		}
	}
	return n
}

// QueueIndex returns the position of sid in the queue, or -1.
func QueueIndex(queue []QueueEntry, sid SessionID) int {
	for i, q := range queue {
		if q.SessionID == sid {
			return i
		}
	}
	return -1
}

// FindEditor returns a pointer into editors for sid, or nil.
func FindEditor(editors []Editor, sid SessionID) *Editor {
	for i := range editors {
		if editors[i].SessionID == sid {
			return &editors[i]
		}
	}
	return nil
}

// NormalizeRoom falls back to DefaultRoom for empty or blank names.
func NormalizeRoom(name string) RoomName {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DefaultRoom
	}
	return RoomName(trimmed)
}

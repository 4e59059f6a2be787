package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/YF-George/rosterd/internal/domain"
)

const (
	DefaultMaxEditors  = 10
	DefaultIdleTimeout = 3 * time.Minute
)

// Admission decides, per room, who holds one of the limited editor
// slots, who waits, and when idle editors are reclaimed. All state is
// read-modify-written through the Registry; same-room mutations are
// serialized through a per-room lock so single-process calls cannot
// race each other past the capacity check.
type Admission struct {
	reg         *Registry
	maxEditors  int
	idleTimeout time.Duration

	// now is swapped out in tests.
	now func() time.Time

	mu    sync.Mutex
	rooms map[domain.RoomName]*sync.Mutex
}

func NewAdmission(reg *Registry, maxEditors int, idleTimeout time.Duration) *Admission {
	if maxEditors <= 0 {
		maxEditors = DefaultMaxEditors
	}
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Admission{
		reg:         reg,
		maxEditors:  maxEditors,
		idleTimeout: idleTimeout,
		now:         time.Now,
		rooms:       make(map[domain.RoomName]*sync.Mutex),
	}
}

func (a *Admission) lockRoom(room domain.RoomName) func() {
	a.mu.Lock()
	l, ok := a.rooms[room]
	if !ok {
		l = &sync.Mutex{}
		a.rooms[room] = l
	}
	a.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Register admits sid as an editor when a slot is free (admins
// always), otherwise appends it to the waiting queue. Re-registering
// an existing editor only refreshes its activity timestamp, and a
// session already queued keeps its position.
func (a *Admission) Register(ctx context.Context, room domain.RoomName, sid domain.SessionID, gameID string, isAdmin bool, roleRequest string) (domain.Placement, error) {
	defer a.lockRoom(room)()

	editors, queue, err := a.reg.Load(ctx, room)
	if err != nil {
		return domain.Placement{}, err
	}
	now := a.now()

	if e := domain.FindEditor(editors, sid); e != nil {
		e.LastActivity = now
		if err := a.reg.SaveEditors(ctx, room, editors); err != nil {
			return domain.Placement{}, err
		}
		return domain.EditorPlacement(), nil
	}

	// roleRequest "editor" takes the same path as the default; it
	// exists so clients can state intent without changing behaviour.
	_ = roleRequest

	if isAdmin || domain.NonAdminCount(editors) < a.maxEditors {
		editors = append(editors, domain.Editor{
			SessionID:    sid,
			GameID:       gameID,
			IsAdmin:      isAdmin,
			LastActivity: now,
		})
		queue = removeQueued(queue, sid)
		if err := a.reg.Save(ctx, room, editors, queue); err != nil {
			return domain.Placement{}, err
		}
		log.Info().Str("module", "app.admission").Str("room", string(room)).Str("sid", string(sid)).Bool("admin", isAdmin).Msg("registered as editor")
		return domain.EditorPlacement(), nil
	}

	if domain.QueueIndex(queue, sid) < 0 {
		queue = append(queue, domain.QueueEntry{SessionID: sid, GameID: gameID, EnqueuedAt: now})
		if err := a.reg.Save(ctx, room, editors, queue); err != nil {
			return domain.Placement{}, err
		}
	}
	pos := domain.QueueIndex(queue, sid)
	log.Info().Str("module", "app.admission").Str("room", string(room)).Str("sid", string(sid)).Int("queue_pos", pos).Msg("queued as observer")
	return domain.ObserverPlacement(pos), nil
}

// Ping is the heartbeat and reconciliation pass. It refreshes the
// caller's activity, reclaims idle editors, refreshes the caller's
// queue timestamp if queued, promotes from the queue head, persists,
// and reports where the caller ended up.
func (a *Admission) Ping(ctx context.Context, room domain.RoomName, sid domain.SessionID) (domain.Placement, error) {
	defer a.lockRoom(room)()

	editors, queue, err := a.reg.Load(ctx, room)
	if err != nil {
		return domain.Placement{}, err
	}
	now := a.now()

	if e := domain.FindEditor(editors, sid); e != nil {
		e.LastActivity = now
	}

	editors, queue = reclaimIdle(editors, queue, now, a.idleTimeout)

	if i := domain.QueueIndex(queue, sid); i >= 0 {
		queue[i].EnqueuedAt = now
	}

	editors, queue = promote(editors, queue, now, a.maxEditors)

	if err := a.reg.Save(ctx, room, editors, queue); err != nil {
		return domain.Placement{}, err
	}

	if domain.FindEditor(editors, sid) != nil {
		return domain.EditorPlacement(), nil
	}
	if pos := domain.QueueIndex(queue, sid); pos >= 0 {
		return domain.ObserverPlacement(pos), nil
	}
	return domain.UnknownPlacement(), nil
}

// Leave removes sid from both collections. Freeing an editor slot
// triggers one promotion pass. Leaving a room you were never in is a
// no-op.
func (a *Admission) Leave(ctx context.Context, room domain.RoomName, sid domain.SessionID) error {
	defer a.lockRoom(room)()

	editors, queue, err := a.reg.Load(ctx, room)
	if err != nil {
		return err
	}

	before := len(editors)
	editors = removeEditor(editors, sid)
	queue = removeQueued(queue, sid)

	if len(editors) < before {
		editors, queue = promote(editors, queue, a.now(), a.maxEditors)
	}

	if err := a.reg.Save(ctx, room, editors, queue); err != nil {
		return err
	}
	log.Info().Str("module", "app.admission").Str("room", string(room)).Str("sid", string(sid)).Msg("left room")
	return nil
}

// Housekeeping runs reclamation then promotion with no target
// session, for rooms where nobody happens to ping. Returns the
// resulting editor and queue sizes.
func (a *Admission) Housekeeping(ctx context.Context, room domain.RoomName) (editorCount, queueLen int, err error) {
	defer a.lockRoom(room)()

	editors, queue, err := a.reg.Load(ctx, room)
	if err != nil {
		return 0, 0, err
	}
	now := a.now()

	editors, queue = reclaimIdle(editors, queue, now, a.idleTimeout)
	editors, queue = promote(editors, queue, now, a.maxEditors)

	if err := a.reg.Save(ctx, room, editors, queue); err != nil {
		return 0, 0, err
	}
	return len(editors), len(queue), nil
}

func removeEditor(editors []domain.Editor, sid domain.SessionID) []domain.Editor {
	out := editors[:0:0]
	for _, e := range editors {
		if e.SessionID != sid {
			out = append(out, e)
		}
	}
	return out
}

func removeQueued(queue []domain.QueueEntry, sid domain.SessionID) []domain.QueueEntry {
	out := queue[:0:0]
	for _, q := range queue {
		if q.SessionID != sid {
			out = append(out, q)
		}
	}
	return out
}

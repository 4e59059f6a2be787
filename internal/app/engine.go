package app

import (
	"time"

	"github.com/YF-George/rosterd/internal/domain"
)

// reclaimIdle demotes every non-admin editor whose last activity is
// older than timeout, appending it to the queue tail with a fresh
// timestamp. Admin editors are never evaluated.
func reclaimIdle(editors []domain.Editor, queue []domain.QueueEntry, now time.Time, timeout time.Duration) ([]domain.Editor, []domain.QueueEntry) {
	remaining := editors[:0:0]
	for _, e := range editors {
		if e.IsAdmin || now.Sub(e.LastActivity) <= timeout {
			remaining = append(remaining, e)
			continue
		}
		queue = append(queue, domain.QueueEntry{
			SessionID:  e.SessionID,
			GameID:     e.GameID,
			EnqueuedAt: now,
		})
	}
	return remaining, queue
}

// promote pops the queue head into a free non-admin editor slot until
// either capacity is reached or the queue is empty.
//
// Run directly after reclaimIdle this can re-admit a session the same
// call just demoted, when its own removal freed the only open slot.
// That matches the historical behaviour and is covered by a test; do
// not reorder the passes without revisiting it.
func promote(editors []domain.Editor, queue []domain.QueueEntry, now time.Time, maxEditors int) ([]domain.Editor, []domain.QueueEntry) {
	for domain.NonAdminCount(editors) < maxEditors && len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		editors = append(editors, domain.Editor{
			SessionID:    next.SessionID,
			GameID:       next.GameID,
			IsAdmin:      false,
			LastActivity: now,
		})
	}
	return editors, queue
}

package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YF-George/rosterd/internal/domain"
	"github.com/YF-George/rosterd/internal/store"
)

// Registry loads and saves a room's editor set and waiting queue.
// It is a pure accessor over the kv store: no validation, no
// business logic, full-snapshot reads and writes.
type Registry struct {
	store store.Store
}

func NewRegistry(s store.Store) *Registry {
	return &Registry{store: s}
}

func editorsKey(room domain.RoomName) string {
	return fmt.Sprintf("room:%s:editors", room)
}

func queueKey(room domain.RoomName) string {
	return fmt.Sprintf("room:%s:queue", room)
}

// Load returns the room's current editors and queue. Rooms are lazy:
// a room nobody has touched loads as two empty lists.
func (r *Registry) Load(ctx context.Context, room domain.RoomName) ([]domain.Editor, []domain.QueueEntry, error) {
	var editors []domain.Editor
	if err := r.get(ctx, editorsKey(room), &editors); err != nil {
		return nil, nil, err
	}
	var queue []domain.QueueEntry
	if err := r.get(ctx, queueKey(room), &queue); err != nil {
		return nil, nil, err
	}
	return editors, queue, nil
}

// Save writes both collections back. The two records are written
// separately; a failure between them leaves the room inconsistent
// until the next reconciling ping or housekeeping call.
func (r *Registry) Save(ctx context.Context, room domain.RoomName, editors []domain.Editor, queue []domain.QueueEntry) error {
	if err := r.set(ctx, editorsKey(room), editors); err != nil {
		return err
	}
	return r.set(ctx, queueKey(room), queue)
}

// SaveEditors writes only the editor set, for operations that never
// touch the queue.
func (r *Registry) SaveEditors(ctx context.Context, room domain.RoomName, editors []domain.Editor) error {
	return r.set(ctx, editorsKey(room), editors)
}

func (r *Registry) get(ctx context.Context, key string, out any) error {
	raw, err := r.store.Get(ctx, key)
	if err == store.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (r *Registry) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, raw)
}

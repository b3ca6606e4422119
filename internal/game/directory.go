package game

import (
	"context"
	"sync"
)

// Directory publishes room summaries so listings can be served without
// touching room state. It holds no game state.
type Directory interface {
	Publish(ctx context.Context, s RoomSummary) error
	Remove(ctx context.Context, roomID string) error
	List(ctx context.Context) ([]RoomSummary, error)
}

type InMemoryDirectory struct {
	mu    sync.Mutex
	m     map[string]RoomSummary
	order []string
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		m: make(map[string]RoomSummary),
	}
}

func (d *InMemoryDirectory) Publish(_ context.Context, s RoomSummary) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.m[s.ID]; !ok {
		d.order = append(d.order, s.ID)
	}
	d.m[s.ID] = s
	return nil
}

func (d *InMemoryDirectory) Remove(_ context.Context, roomID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.m[roomID]; !ok {
		return nil
	}
	delete(d.m, roomID)
	for i, id := range d.order {
		if id == roomID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

func (d *InMemoryDirectory) List(_ context.Context) ([]RoomSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]RoomSummary, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.m[id])
	}
	return out, nil
}

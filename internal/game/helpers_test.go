package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// inbox records every notice per player.
type inbox struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func newInbox() *inbox {
	return &inbox{msgs: make(map[string][]string)}
}

func (b *inbox) Notify(player, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs[player] = append(b.msgs[player], text)
}

func (b *inbox) of(player string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.msgs[player]...)
}

func (b *inbox) has(player, substr string) bool {
	for _, m := range b.of(player) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func (b *inbox) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = make(map[string][]string)
}

type memRecorder struct {
	mu      sync.Mutex
	results []GameResult
}

func (m *memRecorder) Record(_ context.Context, res GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
	return nil
}

func (m *memRecorder) all() []GameResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GameResult(nil), m.results...)
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newTestRoom seats p1..pN with the given roles and opens night 1. Timers are
// disabled, so tests drive phases with advance.
func newTestRoom(t *testing.T, roles ...RoleName) (*Room, *inbox) {
	t.Helper()
	return newTestRoomWith(t, Config{}, nil, roles...)
}

func newTestRoomWith(t *testing.T, cfg Config, rec Recorder, roles ...RoleName) (*Room, *inbox) {
	t.Helper()
	box := newInbox()
	r := newRoom("test", "p1", roomDeps{
		cfg: cfg,
		out: box,
		rec: rec,
		log: zap.NewNop(),
		rng: seeded(1),
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.roster = nil
	for i, name := range roles {
		p := fmt.Sprintf("p%d", i+1)
		r.roster = append(r.roster, p)
		r.bindings[p] = &Binding{
			Identity: name,
			Ability:  name,
			Original: name,
			Faction:  roleOf(name).Faction,
		}
		r.prefix[p] = make(map[string]string)
	}
	r.startedAt = time.Now()
	r.beginNightLocked()
	box.reset()
	return r, box
}

// advance ends the current phase as if its timer ran out.
func advance(r *Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipLocked()
}

// advanceTo skips phases until the room reaches want or leaves the game.
func advanceTo(t *testing.T, r *Room, want Phase) {
	t.Helper()
	for i := 0; i < 10; i++ {
		ph := r.Phase()
		if ph == want {
			return
		}
		if ph == PhaseLobby {
			t.Fatalf("game ended before reaching %s", want)
		}
		advance(r)
	}
	t.Fatalf("phase %s never reached", want)
}

func locked[T any](r *Room, fn func() T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

func isDead(r *Room, p string) bool {
	return locked(r, func() bool { return r.dead[p] })
}

func binding(r *Room, p string) Binding {
	return locked(r, func() Binding { return *r.bindingLocked(p) })
}

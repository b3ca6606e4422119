package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type dirUpdate struct {
	summary RoomSummary
	remove  string
}

// Registry owns every room and knows which room each player sits in.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	order   []string
	players map[string]string // player -> room id

	cfg     Config
	out     Notifier
	rec     Recorder
	dir     Directory
	log     *zap.Logger
	newRand func() *rand.Rand

	updates chan dirUpdate
}

type Option func(*Registry)

func WithRecorder(rec Recorder) Option { return func(g *Registry) { g.rec = rec } }

func WithDirectory(dir Directory) Option { return func(g *Registry) { g.dir = dir } }

func WithLogger(log *zap.Logger) Option { return func(g *Registry) { g.log = log } }

// WithRand sets the source of per-room random generators.
func WithRand(fn func() *rand.Rand) Option { return func(g *Registry) { g.newRand = fn } }

func NewRegistry(cfg Config, out Notifier, opts ...Option) *Registry {
	g := &Registry{
		rooms:   make(map[string]*Room),
		players: make(map[string]string),
		cfg:     cfg,
		out:     out,
		log:     zap.NewNop(),
		updates: make(chan dirUpdate, 256),
	}
	for _, o := range opts {
		o(g)
	}
	if g.dir == nil {
		g.dir = NewInMemoryDirectory()
	}
	if g.newRand == nil {
		g.newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return g
}

// Run forwards room changes to the directory until ctx is done.
func (g *Registry) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case u := <-g.updates:
			g.apply(ctx, u)
		}
	}
}

func (g *Registry) apply(ctx context.Context, u dirUpdate) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var err error
	if u.remove != "" {
		err = g.dir.Remove(ctx, u.remove)
	} else {
		err = g.dir.Publish(ctx, u.summary)
	}
	if err != nil {
		g.log.Warn("directory update failed", zap.Error(err))
	}
}

func (g *Registry) enqueue(u dirUpdate) {
	select {
	case g.updates <- u:
	default:
		g.log.Debug("directory update dropped")
	}
}

func (g *Registry) notify(player, text string) {
	if g.out != nil {
		g.out.Notify(player, text)
	}
}

// CreateRoom opens a lobby hosted by host. An empty password leaves the room
// open.
func (g *Registry) CreateRoom(host, name, password string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRejected
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if cur, ok := g.players[host]; ok {
		g.notify(host, fmt.Sprintf("[ 이미 [ %s ] 방에 참가 되어 있습니다. ]", cur))
		return nil, fmt.Errorf("create %q: %w", name, ErrAlreadyJoined)
	}
	if _, ok := g.rooms[name]; ok {
		g.notify(host, fmt.Sprintf("[ 이미 %s 이름으로 생성된 방이 존재합니다. ]", name))
		return nil, fmt.Errorf("create %q: %w", name, ErrRoomExists)
	}

	var hash []byte
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("create %q: hash password: %w", name, err)
		}
		hash = h
	}

	r := newRoom(name, host, roomDeps{
		cfg: g.cfg,
		out: g.out,
		rec: g.rec,
		log: g.log,
		rng: g.newRand(),
		onChange: func(s RoomSummary) {
			g.enqueue(dirUpdate{summary: s})
		},
	})
	r.passwordHash = hash

	g.rooms[name] = r
	g.order = append(g.order, name)
	g.players[host] = name

	g.notify(host, fmt.Sprintf("[ %s 이름의 방이 생성 되었습니다. 방 번호는 [ %d ] 번 입니다. ]", name, len(g.order)))
	g.enqueue(dirUpdate{summary: r.Summary()})
	g.log.Info("room created", zap.String("room", name), zap.String("host", host))
	return r, nil
}

// JoinRoom seats player in the room at 1-based position index of the room
// list.
func (g *Registry) JoinRoom(player string, index int, password string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cur, ok := g.players[player]; ok {
		g.notify(player, fmt.Sprintf("[ 이미 [ %s ] 방에 참가 되어 있습니다. ]", cur))
		return ErrAlreadyJoined
	}
	if index < 1 || index > len(g.order) {
		g.notify(player, "[ 해당하는 방이 존재하지 않습니다. 방 목록을 확인 해주세요. ]")
		return ErrRoomNotFound
	}
	r := g.rooms[g.order[index-1]]
	if len(r.passwordHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(r.passwordHash, []byte(password)); err != nil {
			g.notify(player, "[ 비밀번호가 일치하지 않습니다. ]")
			return ErrBadPassword
		}
	}
	if err := r.join(player); err != nil {
		return fmt.Errorf("join %q: %w", r.id, err)
	}
	g.players[player] = r.id
	return nil
}

// QuitRoom takes player out of their room. A leaving host deletes the room,
// even mid-game.
func (g *Registry) QuitRoom(player string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.players[player]
	if !ok {
		g.notify(player, "[ 참가 중인 방이 없습니다. ]")
		return ErrNotInRoom
	}
	r := g.rooms[id]

	if r.Host() == player {
		g.removeRoomLocked(r, player)
		return nil
	}
	if err := r.leave(player); err != nil {
		return err
	}
	delete(g.players, player)
	return nil
}

func (g *Registry) removeRoomLocked(r *Room, by string) {
	for _, p := range r.close(by) {
		delete(g.players, p)
	}
	delete(g.rooms, r.id)
	for i, id := range g.order {
		if id == r.id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.enqueue(dirUpdate{remove: r.id})
}

// Kick removes the player at seat from the host's lobby.
func (g *Registry) Kick(host string, seat int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, ok := g.players[host]
	if !ok {
		g.notify(host, "[ 참가 중인 방이 없습니다. ]")
		return ErrNotInRoom
	}
	kicked, err := g.rooms[id].kick(host, seat)
	if err != nil {
		return err
	}
	delete(g.players, kicked)
	return nil
}

// RoomOf returns the room player sits in.
func (g *Registry) RoomOf(player string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.players[player]
	if !ok {
		return nil, false
	}
	r, ok := g.rooms[id]
	return r, ok
}

func (g *Registry) withRoom(player string, fn func(*Room) error) error {
	r, ok := g.RoomOf(player)
	if !ok {
		g.notify(player, "[ 참가 중인 방이 없습니다. ]")
		return ErrNotInRoom
	}
	return fn(r)
}

func (g *Registry) Start(player string) error {
	return g.withRoom(player, func(r *Room) error { return r.Start(player) })
}

func (g *Registry) Select(player string, seat int) error {
	return g.withRoom(player, func(r *Room) error { return r.Select(player, seat) })
}

func (g *Registry) Agree(player string) error {
	return g.withRoom(player, func(r *Room) error { return r.Agree(player) })
}

func (g *Registry) Oppose(player string) error {
	return g.withRoom(player, func(r *Room) error { return r.Oppose(player) })
}

func (g *Registry) AddTime(player string) error {
	return g.withRoom(player, func(r *Room) error { return r.AddTime(player) })
}

func (g *Registry) ReduceTime(player string) error {
	return g.withRoom(player, func(r *Room) error { return r.ReduceTime(player) })
}

func (g *Registry) Skip(player string) error {
	return g.withRoom(player, func(r *Room) error { return r.Skip(player) })
}

func (g *Registry) EndGame(player string) error {
	return g.withRoom(player, func(r *Room) error { return r.EndGame(player) })
}

// Chat relays text inside the player's room. Outside a room it is dropped.
func (g *Registry) Chat(player, text string) error {
	r, ok := g.RoomOf(player)
	if !ok {
		return ErrNotInRoom
	}
	return r.Chat(player, text)
}

// Rooms lists the local rooms in creation order.
func (g *Registry) Rooms() []RoomSummary {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.order))
	for _, id := range g.order {
		rooms = append(rooms, g.rooms[id])
	}
	g.mu.Unlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Summary())
	}
	return out
}

// Directory returns the listing backend rooms are published to.
func (g *Registry) Directory() Directory { return g.dir }

// SayRooms sends the room list to player.
func (g *Registry) SayRooms(player string) {
	rooms := g.Rooms()
	if len(rooms) == 0 {
		g.notify(player, "[ 생성된 방이 없습니다. ]")
		return
	}
	var b strings.Builder
	b.WriteString("───────────────\n")
	for i, s := range rooms {
		fmt.Fprintf(&b, "[ ▸%d | %s (%d명)", i+1, s.ID, s.Players)
		if s.InGame {
			b.WriteString(" 【게임 중】")
		}
		if s.Locked {
			b.WriteString(" 🔒")
		}
		b.WriteString(" ]\n")
	}
	b.WriteString("───────────────")
	g.notify(player, b.String())
}

// Close tears down every room.
func (g *Registry) Close(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range append([]string(nil), g.order...) {
		r := g.rooms[id]
		g.removeRoomLocked(r, r.Host())
	}
	// flush what the runner has not picked up yet
	for {
		select {
		case u := <-g.updates:
			g.apply(ctx, u)
		default:
			return
		}
	}
}

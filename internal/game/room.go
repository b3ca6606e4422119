package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const noNote = "메모 없음"

// Notifier delivers plain-text notices to one player. Rooms call it while
// holding their lock, so implementations must not block.
type Notifier interface {
	Notify(player, text string)
}

type NotifierFunc func(player, text string)

func (f NotifierFunc) Notify(player, text string) { f(player, text) }

// Binding is a player's role for the running game.
//
// Identity is what the player is for teammate recognition, investigation and
// night chat. Ability is the role whose hooks and selection slot apply; it
// only differs from Identity while a thief holds a stolen ability.
type Binding struct {
	Identity RoleName
	Ability  RoleName
	Original RoleName

	Faction      Faction
	Contact      bool
	Spent        bool
	Survived     bool
	TrickFaction Faction
}

// Trial is the player currently facing execution.
type Trial struct {
	Name   string
	Agree  int
	Oppose int
	Say    bool // defense window: only the defendant may talk

	ballots map[string]bool
}

type roomDeps struct {
	cfg      Config
	out      Notifier
	rec      Recorder
	log      *zap.Logger
	rng      *rand.Rand
	onChange func(RoomSummary)
}

type Room struct {
	mu sync.Mutex

	id           string
	host         string
	passwordHash []byte
	createdAt    time.Time

	cfg      Config
	out      Notifier
	rec      Recorder
	log      *zap.Logger
	rng      *rand.Rand
	onChange func(RoomSummary)

	closed bool
	roster []string

	phase     Phase
	chains    int
	startedAt time.Time

	bindings   map[string]*Binding
	dead       map[string]bool
	cantChat   map[string]bool
	cantVote   map[string]bool
	cantUse    map[string]bool
	vote       map[string]int
	voteList   map[string]bool
	editTime   map[string]bool
	selections map[RoleName]map[string]string
	lastPick   map[string]string
	lockSel    map[string]string
	prefix     map[string]map[string]string
	trick      map[string]string
	trickList  map[string][]string
	trial      *Trial
	eventTimer int

	mafiaTarget string
	killer      RoleName
	beastman    string

	timer *time.Timer
	token int64
}

func newRoom(id, host string, deps roomDeps) *Room {
	if deps.log == nil {
		deps.log = zap.NewNop()
	}
	if deps.out == nil {
		deps.out = NotifierFunc(func(string, string) {})
	}
	if deps.rng == nil {
		deps.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	r := &Room{
		id:        id,
		host:      host,
		createdAt: time.Now(),
		cfg:       deps.cfg,
		out:       deps.out,
		rec:       deps.rec,
		log:       deps.log.With(zap.String("room", id)),
		rng:       deps.rng,
		onChange:  deps.onChange,
		roster:    []string{host},
	}
	r.resetLocked()
	return r
}

func (r *Room) ID() string { return r.id }

func (r *Room) Host() string { return r.host }

// resetLocked returns every in-game field to its lobby value. Roster and host
// survive.
func (r *Room) resetLocked() {
	r.stopTimerLocked()
	r.phase = PhaseLobby
	r.chains = 0
	r.startedAt = time.Time{}
	r.bindings = make(map[string]*Binding)
	r.dead = make(map[string]bool)
	r.cantChat = make(map[string]bool)
	r.cantVote = make(map[string]bool)
	r.cantUse = make(map[string]bool)
	r.vote = make(map[string]int)
	r.voteList = make(map[string]bool)
	r.editTime = make(map[string]bool)
	r.selections = make(map[RoleName]map[string]string)
	r.lastPick = make(map[string]string)
	r.lockSel = make(map[string]string)
	r.prefix = make(map[string]map[string]string)
	r.trick = make(map[string]string)
	r.trickList = make(map[string][]string)
	r.trial = nil
	r.eventTimer = 0
	r.clearNightLocked()
}

func (r *Room) clearNightLocked() {
	r.mafiaTarget = ""
	r.killer = ""
	r.beastman = ""
}

func (r *Room) inGameLocked() bool {
	return !r.closed && r.phase != PhaseLobby
}

// --- outbound ---

func (r *Room) replyLocked(player, text string) {
	r.out.Notify(player, text)
}

func (r *Room) sayLocked(text string) {
	for _, p := range r.roster {
		r.out.Notify(p, text)
	}
}

func (r *Room) sayfLocked(format string, args ...any) {
	r.sayLocked(fmt.Sprintf(format, args...))
}

func (r *Room) replyfLocked(player, format string, args ...any) {
	r.replyLocked(player, fmt.Sprintf(format, args...))
}

func (r *Room) changedLocked() {
	if r.onChange == nil || r.closed {
		return
	}
	r.onChange(r.summaryLocked())
}

// --- roster ---

// seatLocked returns the 1-based seat of player, or 0.
func (r *Room) seatLocked(player string) int {
	for i, p := range r.roster {
		if p == player {
			return i + 1
		}
	}
	return 0
}

func (r *Room) atSeatLocked(seat int) (string, bool) {
	if seat < 1 || seat > len(r.roster) {
		return "", false
	}
	return r.roster[seat-1], true
}

func (r *Room) livingLocked() []string {
	out := make([]string, 0, len(r.roster))
	for _, p := range r.roster {
		if !r.dead[p] {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) deadListLocked() []string {
	out := make([]string, 0, len(r.dead))
	for _, p := range r.roster {
		if r.dead[p] {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) killLocked(player string) {
	r.dead[player] = true
}

func (r *Room) bindingLocked(player string) *Binding {
	if b, ok := r.bindings[player]; ok {
		return b
	}
	return &Binding{Identity: RoleCitizen, Ability: RoleCitizen, Original: RoleCitizen, Faction: FactionCitizen}
}

// effectiveLocked resolves an active trick: a possessing magician speaks and
// acts as the player they swapped with.
func (r *Room) effectiveLocked(player string) string {
	if t, ok := r.trick[player]; ok {
		return t
	}
	return player
}

func (r *Room) impersonatedLocked(player string) bool {
	return len(r.trickList[player]) > 0
}

// --- labels ---

func (r *Room) labelLocked(viewer, subject string) string {
	if !r.inGameLocked() {
		return noNote
	}
	vb, sb := r.bindingLocked(viewer), r.bindingLocked(subject)
	if vb.Identity == sb.Identity {
		return string(sb.Identity)
	}
	if l, ok := r.prefix[viewer][subject]; ok {
		return l
	}
	return noNote
}

func (r *Room) noteLocked(viewer, subject string, label RoleName) {
	m, ok := r.prefix[viewer]
	if !ok {
		m = make(map[string]string)
		r.prefix[viewer] = m
	}
	m[subject] = string(label)
}

// revealLocked publishes a label for subject to every player.
func (r *Room) revealLocked(subject string, label RoleName) {
	for _, v := range r.roster {
		r.noteLocked(v, subject, label)
	}
}

// contactLocked links player into the mafia channel and lets both sides see
// each other. kind names the player to the mafia in the notice.
func (r *Room) contactLocked(player string, kind RoleName) {
	b := r.bindingLocked(player)
	b.Contact = true
	for _, m := range r.roster {
		mb := r.bindingLocked(m)
		if mb.Identity != RoleMafia {
			continue
		}
		r.noteLocked(player, m, mb.Identity)
		r.noteLocked(m, player, b.Identity)
		r.replyfLocked(m, "[ %s %s 접선했습니다. ]", player, withAnd(string(kind)))
	}
}

// withAnd appends the "and/with" particle matching the final syllable.
func withAnd(word string) string {
	rs := []rune(word)
	if len(rs) == 0 {
		return word
	}
	last := rs[len(rs)-1]
	if last >= 0xAC00 && last <= 0xD7A3 && (last-0xAC00)%28 != 0 {
		return word + "과"
	}
	return word + "와"
}

func (r *Room) sayListLocked() {
	for _, viewer := range r.roster {
		var b strings.Builder
		b.WriteString("───────────────\n")
		for i, p := range r.roster {
			fmt.Fprintf(&b, "[ ▸%d | %s (%s) ", i+1, p, r.labelLocked(viewer, p))
			if r.dead[p] {
				b.WriteString(" 【죽음】")
			}
			b.WriteString(" ]\n")
		}
		b.WriteString("───────────────")
		r.replyLocked(viewer, b.String())
	}
}

func (r *Room) sayAbilitiesLocked() {
	for _, p := range r.roster {
		if r.dead[p] {
			continue
		}
		b := r.bindingLocked(p)
		r.replyfLocked(p, "[ ⬩ 직업 : %s\n ⬩ 능력 : %s ]", b.Ability, roleOf(b.Ability).Description)
	}
}

func (r *Room) sayRevealLocked() {
	var b strings.Builder
	b.WriteString("───────────────\n")
	for i, p := range r.roster {
		fmt.Fprintf(&b, "[ ▸%d | %s (%s) ]\n", i+1, p, r.bindingLocked(p).Original)
	}
	b.WriteString("───────────────")
	r.sayLocked(b.String())
}

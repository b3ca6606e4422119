package game

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

// RoomSummary is the public listing entry for a room.
type RoomSummary struct {
	ID        string    `json:"id"`
	Host      string    `json:"host"`
	Players   int       `json:"players"`
	InGame    bool      `json:"inGame"`
	Phase     Phase     `json:"phase"`
	Chains    int       `json:"chains"`
	Locked    bool      `json:"locked"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Room) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaryLocked()
}

func (r *Room) summaryLocked() RoomSummary {
	return RoomSummary{
		ID:        r.id,
		Host:      r.host,
		Players:   len(r.roster),
		InGame:    r.inGameLocked(),
		Phase:     r.phase,
		Chains:    r.chains,
		Locked:    len(r.passwordHash) > 0,
		CreatedAt: r.createdAt,
	}
}

// Roster returns the players in seat order.
func (r *Room) Roster() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.roster)
}

func (r *Room) join(player string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if r.inGameLocked() {
		r.replyLocked(player, "[ 이미 게임 중인 방 입니다. ]")
		return ErrInGame
	}
	r.roster = append(r.roster, player)
	r.sayfLocked("[ %s 님께서 [ %s ] 방에 참가 하셨습니다.\n▸ 인원은 %d 명 입니다. ]", player, r.id, len(r.roster))
	r.sayListLocked()
	r.changedLocked()
	return nil
}

func (r *Room) leave(player string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inGameLocked() {
		r.replyLocked(player, "[ 게임 중에는 퇴장하실 수 없습니다. ]")
		return ErrInGame
	}
	r.sayfLocked("[ %s 님이 [ %s ] 방에서 퇴장 하셨습니다. ]", player, r.id)
	r.removeLocked(player)
	r.sayListLocked()
	r.changedLocked()
	return nil
}

func (r *Room) kick(by string, seat int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if by != r.host {
		r.replyLocked(by, "[ 방장이 아닙니다. ]")
		return "", ErrNotHost
	}
	if r.inGameLocked() {
		return "", ErrInGame
	}
	target, ok := r.atSeatLocked(seat)
	if !ok {
		r.replyLocked(by, "[ 해당하는 번호의 플레이어가 존재하지 않습니다. ]")
		return "", ErrRejected
	}
	if target == by {
		return "", ErrRejected
	}
	r.sayfLocked("[ %s 님이 [ %s ] 방에서 강제 퇴장 당하셨습니다. ]", target, r.id)
	r.removeLocked(target)
	r.sayListLocked()
	r.changedLocked()
	return target, nil
}

func (r *Room) removeLocked(player string) {
	r.roster = slices.DeleteFunc(r.roster, func(p string) bool { return p == player })
}

// close tears the room down, abandoning any game. Pending timers become
// no-ops.
func (r *Room) close(by string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.sayfLocked("[ %s 님이 [ %s ] 방에서 퇴장 하셨습니다.\n방장이 나가, 방이 삭제 되었습니다. ]", by, r.id)
	r.log.Info("room closed", zap.String("by", by), zap.Bool("midGame", r.phase != PhaseLobby))
	r.resetLocked()
	r.closed = true
	return slices.Clone(r.roster)
}

// Start deals roles and opens the first night.
func (r *Room) Start(player string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if player != r.host {
		r.replyLocked(player, "[ 방장이 아닙니다. ]")
		return ErrNotHost
	}
	if r.inGameLocked() {
		return ErrInGame
	}
	need := max(r.cfg.MinPlayers, 4)
	if len(r.roster) < need {
		r.replyfLocked(player, "[ 최소 인원인 %d명부터 시작이 가능합니다. ]", need)
		return ErrRejected
	}

	r.resetLocked()
	r.sayfLocked("[ %s 님께서 게임을 시작 하셨습니다.\n▸ 마피아 수 : ‹%d› ]", player, MafiaSeats(len(r.roster)))

	for p, name := range Assign(r.rng, r.roster) {
		r.bindings[p] = &Binding{
			Identity: name,
			Ability:  name,
			Original: name,
			Faction:  roleOf(name).Faction,
		}
	}
	for _, p := range r.roster {
		r.prefix[p] = make(map[string]string)
	}
	r.startedAt = time.Now()
	r.log.Info("game started", zap.Int("players", len(r.roster)))

	r.beginNightLocked()
	r.changedLocked()
	return nil
}

// Skip lets the host end the current timed phase early.
func (r *Room) Skip(player string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if player != r.host {
		r.replyLocked(player, "[ 방장이 아닙니다. ]")
		return ErrNotHost
	}
	if !r.inGameLocked() {
		return ErrRejected
	}
	r.sayLocked("[ 방장이 다음 단계로 넘겼습니다. ]")
	r.skipLocked()
	return nil
}

// EndGame aborts the running game without a winner.
func (r *Room) EndGame(player string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if player != r.host {
		r.replyLocked(player, "[ 방장이 아닙니다. ]")
		return ErrNotHost
	}
	if !r.inGameLocked() {
		return ErrRejected
	}
	r.sayLocked("[ 방장이 게임을 종료했습니다. ]")
	r.sayRevealLocked()
	r.log.Info("game aborted", zap.Int("chains", r.chains))
	r.resetLocked()
	r.changedLocked()
	return nil
}

// Phase reports the current phase.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

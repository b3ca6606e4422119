package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMafia
	OutcomeCitizen
	OutcomeSect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMafia:
		return "mafia"
	case OutcomeCitizen:
		return "citizen"
	case OutcomeSect:
		return "sect"
	default:
		return "none"
	}
}

// Tally is the living head count per faction used by the win rules.
type Tally struct {
	Citizen   int
	Mafia     int
	Sect      int
	AliveSect bool // a sect leader is still alive
}

func (t Tally) Total() int { return t.Citizen + t.Mafia + t.Sect }

func (t *Tally) add(f Faction) {
	switch f {
	case FactionMafia:
		t.Mafia++
	case FactionSect:
		t.Sect++
	default:
		t.Citizen++
	}
}

// tallyLocked counts living players. A tricked body counts for the magician's
// side, and contacted citizens count as mafia.
func (r *Room) tallyLocked() Tally {
	var t Tally
	for _, p := range r.livingLocked() {
		b := r.bindingLocked(p)
		if b.TrickFaction != "" {
			t.add(b.TrickFaction)
			continue
		}
		if roleOf(b.Ability).Sect {
			t.AliveSect = true
		}
		if b.Contact && b.Faction == FactionCitizen {
			t.Mafia++
			continue
		}
		t.add(b.Faction)
	}
	return t
}

func (t Tally) outcome() Outcome {
	switch {
	case t.Citizen+t.Sect <= t.Mafia:
		return OutcomeMafia
	case t.Mafia == 0 && t.Sect == 0:
		return OutcomeCitizen
	case t.Mafia == 0:
		if t.AliveSect {
			if t.Citizen <= t.Sect {
				return OutcomeSect
			}
		} else if t.Citizen == 0 {
			return OutcomeSect
		}
	}
	return OutcomeNone
}

func (r *Room) evaluateLocked() Outcome {
	if !r.inGameLocked() {
		return OutcomeNone
	}
	return r.tallyLocked().outcome()
}

// Evaluate reports the winner the current board would produce, without
// ending the game.
func (r *Room) Evaluate() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluateLocked()
}

// checkGameOverLocked ends the game when a side has won.
func (r *Room) checkGameOverLocked() bool {
	o := r.evaluateLocked()
	if o == OutcomeNone {
		return false
	}
	r.gameOverLocked(o)
	return true
}

func (r *Room) gameOverLocked(o Outcome) {
	switch o {
	case OutcomeMafia:
		r.sayLocked("[ 마피아 팀이 게임에서 승리 하였습니다. ]")
	case OutcomeCitizen:
		r.sayLocked("[ 시민 팀이 게임에서 승리 하였습니다. ]")
	case OutcomeSect:
		r.sayLocked("[ 교주 팀이 게임에서 승리 하였습니다. ]")
	}
	r.sayRevealLocked()

	res := r.resultLocked(o)
	r.log.Info("game over",
		zap.String("winner", o.String()),
		zap.Int("chains", r.chains),
		zap.Int("players", len(r.roster)),
	)

	r.resetLocked()
	r.changedLocked()
	r.recordAsync(res)
}

func (r *Room) resultLocked(o Outcome) GameResult {
	res := GameResult{
		ID:        uuid.NewString(),
		Room:      r.id,
		Winner:    o,
		Chains:    r.chains,
		StartedAt: r.startedAt,
		EndedAt:   time.Now(),
	}
	for i, p := range r.roster {
		b := r.bindingLocked(p)
		side := b.Faction
		if side == FactionCitizen && (b.Contact || roleOf(b.Original).SubMafia) {
			side = FactionMafia
		}
		res.Players = append(res.Players, PlayerResult{
			Name:     p,
			Seat:     i + 1,
			Role:     b.Original,
			Faction:  side,
			Survived: !r.dead[p],
		})
	}
	return res
}

func (r *Room) recordAsync(res GameResult) {
	if r.rec == nil {
		return
	}
	timeout := r.cfg.RecordTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	rec, log := r.rec, r.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := rec.Record(ctx, res); err != nil {
			log.Warn("record game result", zap.String("game", res.ID), zap.Error(err))
		}
	}()
}

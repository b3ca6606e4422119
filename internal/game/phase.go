package game

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhaseNight       Phase = "night"
	PhaseDayAnnounce Phase = "day"
	PhaseDiscussion  Phase = "discussion"
	PhaseVote        Phase = "vote"
	PhaseDefense     Phase = "defense"
	PhaseAgreeOppose Phase = "agree_oppose"
)

func (p Phase) isDay() bool {
	return p != PhaseLobby && p != PhaseNight
}

// Config holds the room timing. A zero duration disables that timer; the
// phase then only moves on when the host skips it.
type Config struct {
	MinPlayers int

	NightWarnAfter time.Duration
	NightFinal     time.Duration

	DiscussionTick      time.Duration
	DiscussionPerPlayer int // ticks per living player
	TimeEditStep        int // ticks added or removed by one time edit

	VoteWarnAfter      time.Duration
	VoteFinal          time.Duration
	DefenseWarnAfter   time.Duration
	DefenseFinal       time.Duration
	ExecutionWarnAfter time.Duration
	ExecutionFinal     time.Duration

	RecordTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinPlayers:          4,
		NightWarnAfter:      15 * time.Second,
		NightFinal:          10 * time.Second,
		DiscussionTick:      time.Second,
		DiscussionPerPlayer: 15,
		TimeEditStep:        15,
		VoteWarnAfter:       10 * time.Second,
		VoteFinal:           5 * time.Second,
		DefenseWarnAfter:    10 * time.Second,
		DefenseFinal:        5 * time.Second,
		ExecutionWarnAfter:  10 * time.Second,
		ExecutionFinal:      5 * time.Second,
		RecordTimeout:       5 * time.Second,
	}
}

// --- timers ---

func (r *Room) stopTimerLocked() {
	r.token++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) scheduleLocked(d time.Duration, fn func()) {
	r.stopTimerLocked()
	if d <= 0 {
		return
	}
	token := r.token
	r.timer = time.AfterFunc(d, func() {
		r.onTimer(token, fn)
	})
}

func (r *Room) onTimer(token int64, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inGameLocked() || token != r.token {
		return // stale
	}
	r.timer = nil
	fn()
}

// stageLocked runs a two-step countdown: a warning after warn, then next
// after final.
func (r *Room) stageLocked(warn, final time.Duration, warning string, next func()) {
	if warn <= 0 {
		r.scheduleLocked(final, next)
		return
	}
	r.scheduleLocked(warn, func() {
		r.sayLocked(warning)
		if final <= 0 {
			next()
			return
		}
		r.scheduleLocked(final, next)
	})
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

// --- transitions ---

func (r *Room) beginNightLocked() {
	r.stopTimerLocked()
	r.phase = PhaseNight
	r.chains++
	r.trial = nil
	r.eventTimer = 0
	r.cantVote = make(map[string]bool)
	r.editTime = make(map[string]bool)
	r.vote = make(map[string]int)
	r.voteList = make(map[string]bool)

	r.sayfLocked("[ %d번째 밤이 되었습니다. ]", r.chains)
	r.sayListLocked()
	r.sayAbilitiesLocked()

	if total := r.cfg.NightWarnAfter + r.cfg.NightFinal; total > 0 {
		r.sayfLocked("[ 아침까지 %d초 남았습니다. ]", seconds(total))
	}
	r.stageLocked(r.cfg.NightWarnAfter, r.cfg.NightFinal,
		fmt.Sprintf("[ 아침까지 %d초 남았습니다. ]", seconds(r.cfg.NightFinal)),
		r.beginDayLocked)
}

func (r *Room) beginDayLocked() {
	r.stopTimerLocked()
	r.phase = PhaseDayAnnounce
	r.sayLocked("[ 낮이 되었습니다. ]")

	r.resolveNightLocked()
	if r.checkGameOverLocked() {
		return
	}

	r.phase = PhaseDiscussion
	r.eventTimer = len(r.livingLocked()) * r.cfg.DiscussionPerPlayer
	r.scheduleLocked(r.cfg.DiscussionTick, r.tickLocked)
}

func (r *Room) tickLocked() {
	r.eventTimer--
	switch r.eventTimer {
	case 30, 10:
		r.sayfLocked("[ 투표까지 %d초 남았습니다. ]", r.eventTimer)
	}
	if r.eventTimer <= 0 {
		r.beginVoteLocked()
		return
	}
	r.scheduleLocked(r.cfg.DiscussionTick, r.tickLocked)
}

func (r *Room) beginVoteLocked() {
	r.stopTimerLocked()
	r.phase = PhaseVote
	r.eventTimer = 0
	r.voteList = make(map[string]bool)

	r.sayListLocked()
	r.sayLocked("[ 투표 시간이 되었습니다.\n채팅창에 투표할 플레이어 번호를 입력해 주세요. ]")
	r.stageLocked(r.cfg.VoteWarnAfter, r.cfg.VoteFinal,
		fmt.Sprintf("[ 최후의 반론까지 %d초 남았습니다. ]", seconds(r.cfg.VoteFinal)),
		r.tallyVotesLocked)
}

// topVoteLocked returns the single most voted player. A tie for first place
// or an empty ballot box yields false.
func (r *Room) topVoteLocked() (string, bool) {
	var (
		top  string
		best int
		tied bool
	)
	for _, p := range r.roster {
		n := r.vote[p]
		switch {
		case n == 0:
		case n > best:
			top, best, tied = p, n, false
		case n == best:
			tied = true
		}
	}
	if best == 0 || tied {
		return "", false
	}
	return top, true
}

func (r *Room) tallyVotesLocked() {
	r.stopTimerLocked()

	name, ok := r.topVoteLocked()
	if !ok {
		r.beginNightLocked()
		return
	}

	r.trial = &Trial{Name: name, Say: true, ballots: make(map[string]bool)}
	r.phase = PhaseDefense
	r.sayfLocked("[ %s 님의 최후의 반론. ]", name)
	r.stageLocked(r.cfg.DefenseWarnAfter, r.cfg.DefenseFinal,
		fmt.Sprintf("[ 찬성 반대 투표까지 %d초 남았습니다. ]", seconds(r.cfg.DefenseFinal)),
		r.beginAgreeOpposeLocked)
}

func (r *Room) beginAgreeOpposeLocked() {
	r.stopTimerLocked()
	r.phase = PhaseAgreeOppose
	r.trial.Say = false
	r.trial.ballots = make(map[string]bool)

	r.sayfLocked("[ %s 님의 사형을 \"찬성\" 혹은 \"반대\" 를 입력해 처형 여부를 결정해 주세요. ]", r.trial.Name)
	r.stageLocked(r.cfg.ExecutionWarnAfter, r.cfg.ExecutionFinal,
		fmt.Sprintf("[ 처형까지 %d초 남았습니다. ]", seconds(r.cfg.ExecutionFinal)),
		r.executeLocked)
}

func (r *Room) executeLocked() {
	r.stopTimerLocked()

	t := r.trial
	// silence counts against the execution
	t.Oppose += len(r.livingLocked()) - (t.Agree + t.Oppose)
	if t.Oppose <= t.Agree {
		r.executeTrialLocked(t.Name)
	}

	if r.checkGameOverLocked() {
		return
	}
	r.beginNightLocked()
}

// skipLocked ends the current timed phase right away.
func (r *Room) skipLocked() bool {
	switch r.phase {
	case PhaseNight:
		r.beginDayLocked()
	case PhaseDiscussion:
		r.beginVoteLocked()
	case PhaseVote:
		r.tallyVotesLocked()
	case PhaseDefense:
		r.beginAgreeOpposeLocked()
	case PhaseAgreeOppose:
		r.executeLocked()
	default:
		return false
	}
	return true
}

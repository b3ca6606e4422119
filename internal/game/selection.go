package game

func (r *Room) rejectLocked(player, notice string) error {
	if notice != "" {
		r.replyLocked(player, notice)
	}
	return ErrRejected
}

func (r *Room) noSuchSeatLocked(player string, seat int) error {
	r.replyfLocked(player, "[ %d 번 님은 존재하지 않습니다. ]", seat)
	return ErrRejected
}

func (r *Room) recordSelectionLocked(key RoleName, actor, target string) {
	m, ok := r.selections[key]
	if !ok {
		m = make(map[string]string)
		r.selections[key] = m
	}
	m[actor] = target
}

func (r *Room) selectedLocked(key RoleName, actor string) (string, bool) {
	t, ok := r.selections[key][actor]
	return t, ok
}

// Select is the numbered-seat action. Depending on the phase it is a defense
// pick, a vote or a night ability.
func (r *Room) Select(player string, seat int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inGameLocked() {
		return ErrRejected
	}
	// a body taken over by a magician no longer acts
	if r.impersonatedLocked(player) {
		return ErrRejected
	}
	actor := r.effectiveLocked(player)

	switch {
	case r.trial != nil && r.trial.Name == actor:
		return r.defenseSelectLocked(player, actor, seat)
	case r.phase == PhaseVote:
		return r.voteLocked(player, actor, seat)
	case r.phase == PhaseNight:
		return r.nightSelectLocked(player, actor, seat)
	}
	return ErrRejected
}

func (r *Room) defenseSelectLocked(og, actor string, seat int) error {
	b := r.bindingLocked(actor)
	role := roleOf(b.Ability)
	if !hasDeathTargetHook(b.Ability) {
		return ErrRejected
	}
	if role.Select == SelectNone || b.Spent || r.cantUse[actor] {
		return r.rejectLocked(og, "[ 능력을 사용할 수 없습니다. ]")
	}
	if _, used := r.selections[b.Ability]; used && role.Select == SelectOnce {
		return r.rejectLocked(og, "[ 이미 능력을 사용했습니다. ]")
	}
	target, ok := r.atSeatLocked(seat)
	if !ok {
		return r.noSuchSeatLocked(og, seat)
	}
	if role.DeadOnly != r.dead[target] {
		return r.rejectLocked(og, "[ 선택할 수 없는 대상입니다. ]")
	}
	r.onDeathTargetLocked(actor, target)
	return nil
}

func (r *Room) voteLocked(og, actor string, seat int) error {
	if r.voteList[og] {
		return r.rejectLocked(og, "[ 이미 투표하셨습니다. ]")
	}
	if r.cantVote[actor] || r.dead[actor] {
		return r.rejectLocked(og, "[ 투표할 수 없습니다. ]")
	}
	target, ok := r.atSeatLocked(seat)
	if !ok {
		return r.noSuchSeatLocked(og, seat)
	}
	if r.dead[target] {
		return r.rejectLocked(og, "[ 선택할 수 없는 대상입니다. ]")
	}

	r.sayfLocked("[ %s 님 한 표! ]", target)
	r.voteList[og] = true
	r.vote[target]++

	b := r.bindingLocked(actor)
	if hasVoteHook(b.Ability) && !r.cantUse[actor] {
		r.recordSelectionLocked(b.Ability, actor, target)
		r.onVoteLocked(actor, target)
	}
	return nil
}

func (r *Room) nightSelectLocked(og, actor string, seat int) error {
	if _, possessing := r.trick[og]; possessing {
		return ErrRejected
	}
	if r.dead[actor] {
		return ErrRejected
	}
	b := r.bindingLocked(actor)
	role := roleOf(b.Ability)
	if role.Select == SelectNone || role.Select == SelectDisabled || b.Spent || r.cantUse[actor] {
		return r.rejectLocked(og, "[ 능력을 사용할 수 없습니다. ]")
	}
	if _, used := r.selections[b.Ability]; used && role.Select == SelectOnce {
		return r.rejectLocked(og, "[ 이미 능력을 사용했습니다. ]")
	}
	target, ok := r.atSeatLocked(seat)
	if !ok {
		return r.noSuchSeatLocked(og, seat)
	}
	if role.DeadOnly != r.dead[target] {
		return r.rejectLocked(og, "[ 선택할 수 없는 대상입니다. ]")
	}

	r.recordSelectionLocked(b.Ability, actor, target)
	r.lastPick[actor] = target
	for _, p := range r.roster {
		if r.bindingLocked(p).Identity == b.Identity {
			r.replyfLocked(p, "[ ▸ 선택 : %s ]", target)
		}
	}

	r.onSelectLocked(actor, target)

	// a hook may have taken the pick back
	if _, kept := r.selectedLocked(b.Ability, actor); kept {
		r.notifyDetectivesLocked(actor, target)
	}
	return nil
}

// notifyDetectivesLocked tells every detective watching actor whom actor
// picked.
func (r *Room) notifyDetectivesLocked(actor, target string) {
	for _, d := range r.roster {
		if watched, ok := r.selectedLocked(RoleDetective, d); ok && watched == actor {
			r.replyfLocked(d, "[ ▸ 지목 : %s ]", target)
		}
	}
}

// Agree casts an execution ballot for the defendant.
func (r *Room) Agree(player string) error { return r.ballot(player, true) }

// Oppose casts an execution ballot against.
func (r *Room) Oppose(player string) error { return r.ballot(player, false) }

func (r *Room) ballot(og string, agree bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inGameLocked() || r.impersonatedLocked(og) {
		return ErrRejected
	}
	actor := r.effectiveLocked(og)
	if r.phase != PhaseAgreeOppose || r.trial == nil {
		return ErrRejected
	}
	if r.dead[actor] || r.cantVote[actor] {
		return r.rejectLocked(og, "[ 투표할 수 없습니다. ]")
	}
	if r.trial.ballots[og] {
		return r.rejectLocked(og, "[ 이미 투표하셨습니다. ]")
	}

	if agree {
		r.trial.Agree++
		r.replyfLocked(og, "[ %s 님의 처형에 찬성 했습니다. ]", r.trial.Name)
	} else {
		r.trial.Oppose++
		r.replyfLocked(og, "[ %s 님의 처형에 반대 했습니다. ]", r.trial.Name)
	}
	r.trial.ballots[og] = true
	return nil
}

// AddTime extends the discussion countdown. Each living player may edit the
// countdown once per day.
func (r *Room) AddTime(player string) error { return r.editTimeBy(player, 1) }

// ReduceTime shortens the discussion countdown.
func (r *Room) ReduceTime(player string) error { return r.editTimeBy(player, -1) }

func (r *Room) editTimeBy(og string, sign int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inGameLocked() || r.impersonatedLocked(og) {
		return ErrRejected
	}
	actor := r.effectiveLocked(og)
	if r.dead[actor] || r.phase != PhaseDiscussion || r.eventTimer <= 0 {
		return ErrRejected
	}
	if r.editTime[actor] {
		return r.rejectLocked(og, "[ 이미 시간을 조절하셨습니다. ]")
	}

	r.eventTimer += sign * r.cfg.TimeEditStep
	r.editTime[actor] = true
	if sign > 0 {
		r.sayfLocked("[ %s 님이 시간을 증가 하셨습니다. ]", actor)
	} else {
		r.sayfLocked("[ %s 님이 시간을 단축 하셨습니다. ]", actor)
	}
	return nil
}

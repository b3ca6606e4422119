package game

// Role behavior. Every hook switches on the role name; a role without a case
// simply has no behavior at that point.

func hasVoteHook(name RoleName) bool {
	switch name {
	case RolePolitician, RoleMadam, RoleThief:
		return true
	}
	return false
}

func hasDeathTargetHook(name RoleName) bool {
	return name == RoleTerrorist
}

// onSelectLocked runs after a night pick has been recorded.
func (r *Room) onSelectLocked(actor, target string) {
	b := r.bindingLocked(actor)
	tb := r.bindingLocked(target)

	switch b.Ability {
	case RoleMafia:
		r.mafiaTarget = target
		r.killer = RoleMafia
		for _, p := range r.roster {
			pb := r.bindingLocked(p)
			if pb.Contact && pb.Identity != b.Identity {
				r.replyfLocked(p, "[ ▸ 선택 : %s ]", target)
			}
		}

	case RolePolice:
		if tb.Identity == RoleMafia {
			r.replyfLocked(actor, "[ %s 님은 마피아 입니다. ]", target)
		} else {
			r.replyfLocked(actor, "[ %s 님은 마피아가 아닙니다. ]", target)
		}

	case RoleMedium:
		r.replyfLocked(actor, "[ %s 플레이어를 성불했습니다.\n그 사람의 직업은 %s ]", target, tb.Ability)
		r.replyLocked(target, "[ 성불 당하였습니다.\n더 이상 채팅을 칠 수 없습니다. ]")
		r.cantChat[target] = true

	case RoleReporter:
		if r.chains <= 1 {
			r.replyLocked(actor, "[ 첫날밤은 취재할 수 없습니다. ]")
			delete(r.selections[b.Ability], actor)
		}

	case RoleThug:
		r.replyfLocked(actor, "[ %s 님을 협박했습니다. ]", target)
		r.replyLocked(target, "[ 건달에게 협박 당했습니다.\n다음 투표에는 참가하지 못합니다. ]")
		r.cantVote[target] = true

	case RoleDetective:
		if picked, ok := r.lastPick[target]; ok {
			r.replyfLocked(actor, "[ ▸ 지목 : %s ]", picked)
		}

	case RoleMagician:
		r.lockSel[actor] = target
		b.Spent = true
		r.replyfLocked(actor, "[ %s 님에게 트릭을 걸었습니다. ]", target)

	case RoleSpy:
		switch {
		case tb.Identity == RoleMafia && !b.Contact:
			r.replyLocked(actor, "[ 그 사람의 직업은 마피아 ]")
			r.replyLocked(actor, "[ 접선했습니다. ]")
			r.contactLocked(actor, RoleSpy)
		case tb.Identity == RoleSoldier:
			r.replyLocked(actor, "[ 그 사람의 직업은 군인 ]")
			r.replyfLocked(target, "[ 스파이 %s 님이 당신을 조사했습니다. ]", actor)
			r.noteLocked(target, actor, b.Ability)
		default:
			r.replyfLocked(actor, "[ 그 사람의 직업은 %s ]", tb.Identity)
			r.noteLocked(actor, target, tb.Identity)
		}

	case RoleBeastman:
		r.killer = RoleBeastman
		r.beastman = actor
		if b.Contact {
			r.mafiaTarget = target
		}

	case RoleCultLeader:
		if r.chains%2 != 1 {
			r.replyLocked(actor, "[ 홀수번째 밤이 아닙니다. ]")
			delete(r.selections[b.Ability], actor)
			return
		}
		r.noteLocked(actor, target, tb.Identity)
		switch tb.Identity {
		case RoleMafia:
			r.replyLocked(actor, "[ 포교에 실패하였습니다. 해당 플레이어는 마피아입니다. ]")
		case RolePriest:
			r.replyLocked(actor, "[ 포교에 실패하였습니다. 해당 플레이어는 성직자입니다.\n정체가 들켰습니다. ]")
			r.replyfLocked(target, "[ 교주 %s 님에게 포교 시도 당했습니다. ]", actor)
			r.noteLocked(target, actor, b.Identity)
		default:
			r.replyfLocked(actor, "[ %s %s 님을 포교했습니다. ]", tb.Identity, target)
			r.sayLocked("[ 교주의 종소리가 울렸습니다. ]")
			r.noteLocked(target, actor, b.Identity)
			r.replyfLocked(target, "[ 교주 %s 님에게 포교당했습니다. ]", actor)
			tb.Faction = FactionSect
		}
	}
}

// onVoteLocked runs after a day vote by a role with a vote hook.
func (r *Room) onVoteLocked(actor, target string) {
	b := r.bindingLocked(actor)
	tb := r.bindingLocked(target)

	switch b.Ability {
	case RolePolitician:
		// the base ballot was cast by voteLocked
		r.vote[target] += roleOf(b.Ability).ballots() - 1

	case RoleMadam:
		if actor == target {
			return
		}
		r.replyfLocked(actor, "[ %s 님을 유혹했습니다. ]", target)
		if tb.Identity == RoleMafia {
			if !b.Contact {
				r.replyLocked(actor, "[ 접선했습니다. ]")
				r.contactLocked(actor, RoleMadam)
			}
			return
		}
		r.replyLocked(target, "[ 마담에게 유혹 당했습니다.\n마담이 죽을 때 까지 능력을 사용하지 못합니다. ]")
		r.cantUse[target] = true

	case RoleThief:
		if actor == target {
			return
		}
		r.noteLocked(actor, target, tb.Identity)
		switch tb.Identity {
		case RoleCultLeader:
			r.sayLocked("[ 교주의 종소리가 울렸습니다. ]")
			r.replyfLocked(target, "[ %s %s 님을 포교했습니다. ]", b.Identity, actor)
			r.replyfLocked(actor, "[ 교주 %s 님에게 포교당했습니다. ]", target)
			b.Faction = FactionSect
			r.noteLocked(target, actor, b.Identity)
		case RoleSoldier:
			r.replyLocked(actor, "[ 훔치는 데에 실패하였습니다. ]")
			r.replyfLocked(target, "[ 도둑 %s 님이 직업을 훔치려고 시도했습니다. ]", actor)
			r.noteLocked(actor, target, tb.Ability)
		default:
			r.replyfLocked(actor, "[ %s 님의 %s 직업을 훔쳤습니다. ]", target, tb.Identity)
			if tb.Identity == RoleMafia && !b.Contact {
				r.replyLocked(actor, "[ 접선했습니다. ]")
				r.contactLocked(actor, RoleThief)
			}
			b.Ability = tb.Identity
			b.Spent = false
		}
	}
}

// onDeathTargetLocked is the defendant's pick during their trial.
func (r *Room) onDeathTargetLocked(actor, target string) {
	b := r.bindingLocked(actor)
	if b.Ability != RoleTerrorist || actor == target {
		return
	}
	r.recordSelectionLocked(b.Ability, actor, target)
	r.replyfLocked(actor, "[ ▸ 선택 : %s ]", target)
}

// onDeathLocked handles a mafia attack on victim for roles that react to it.
// It returns false when the default elimination applies.
func (r *Room) onDeathLocked(victim string) bool {
	b := r.bindingLocked(victim)

	switch b.Ability {
	case RoleSoldier:
		if !b.Survived {
			b.Survived = true
			r.revealLocked(victim, b.Ability)
			r.sayfLocked("[ %s 님이 마피아의 공격을 버텨 냈습니다. ]", victim)
			return true
		}
		r.sayfLocked("[ %s 님이 살해당했습니다. ]", victim)
		r.killLocked(victim)
		return true

	case RoleLovers:
		partner := ""
		for _, p := range r.roster {
			if p != victim && !r.dead[p] && r.bindingLocked(p).Ability == b.Ability {
				partner = p
			}
		}
		if partner == "" {
			r.sayfLocked("[ %s 님이 살해당했습니다. ]", victim)
			r.killLocked(victim)
			return true
		}
		r.sayfLocked("[ %s 님이 연인인 %s 님을 감싸고 살해당했습니다. ]", partner, victim)
		r.killLocked(partner)
		r.revealLocked(victim, b.Ability)
		r.revealLocked(partner, r.bindingLocked(partner).Ability)
		return true

	case RoleTerrorist:
		pick, ok := r.selectedLocked(b.Ability, victim)
		if ok && r.bindingLocked(pick).Identity == RoleMafia {
			r.sayfLocked("[ 테러리스트 %s 님이 마피아 %s 님과 함께 자폭하였습니다. ]", victim, pick)
			r.killLocked(victim)
			r.killLocked(pick)
			r.revealLocked(victim, b.Ability)
			r.revealLocked(pick, r.bindingLocked(pick).Ability)
			return true
		}
		r.sayfLocked("[ %s 님이 살해당했습니다. ]", victim)
		r.killLocked(victim)
		return true

	case RoleBeastman:
		r.sayLocked("[ 아무 일도 일어나지 않았습니다. ]")
		if r.impersonatedLocked(victim) {
			return true
		}
		if !b.Contact {
			r.tameLocked(victim)
		}
		return true
	}
	return false
}

// onVoteDeathLocked handles an execution for roles that react to it. It
// returns false when the default elimination applies.
func (r *Room) onVoteDeathLocked(name string) bool {
	b := r.bindingLocked(name)

	switch b.Ability {
	case RolePolitician:
		r.revealLocked(name, b.Ability)
		r.sayLocked("[ 정치인은 투표로 죽지 않습니다. ]")
		return true

	case RoleTerrorist:
		if pick, ok := r.selectedLocked(b.Ability, name); ok {
			r.sayfLocked("[ %s 님이 %s 님과 함께 자폭하였습니다. ]", name, pick)
			r.killLocked(name)
			r.killLocked(pick)
			return true
		}
		r.sayfLocked("[ %s님이 투표로 인해 처형 당하셨습니다. ]", name)
		r.killLocked(name)
		return true
	}
	return false
}

// onAnyDeathLocked runs after a plain elimination of name.
func (r *Room) onAnyDeathLocked(name string) {
	b := r.bindingLocked(name)

	switch b.Ability {
	case RoleMagician:
		target, ok := r.lockSel[name]
		if !ok || r.dead[target] {
			return
		}
		r.trick[name] = target
		r.trickList[target] = append(r.trickList[target], name)
		r.bindingLocked(target).TrickFaction = b.Faction

		notice := "[ 마술사 " + name + " 님의 트릭에 의해 " + target + " 님이 대신 사망하였습니다. ]"
		r.replyLocked(name, notice)
		r.replyLocked(target, notice)

	case RoleMadam:
		r.cantUse = make(map[string]bool)
	}

	// a thief dies as a thief
	if b.Identity == RoleThief {
		b.Ability = RoleThief
		b.Spent = false
	}
}

// onDayLocked runs at dawn for every pick that survived the night, keyed by
// the slot the pick was recorded under.
func (r *Room) onDayLocked(key RoleName, actor, target string) {
	b := r.bindingLocked(actor)

	switch key {
	case RoleReporter:
		if r.dead[target] {
			return
		}
		tb := r.bindingLocked(target)
		r.sayfLocked("[ 특종입니다! %s 님의 직업이 %s 이라는 소식입니다! ]", target, tb.Identity)
		b.Spent = true
		r.revealLocked(target, tb.Identity)

	case RolePriest:
		b.Spent = true
		if r.cantChat[target] {
			r.sayLocked("[ 부활에 실패했습니다. ]")
			return
		}
		r.sayfLocked("[ %s 님이 부활하셨습니다. ]", target)
		delete(r.dead, target)
		r.untrickLocked(target)

	case RoleThief:
		b.Ability = b.Identity
		b.Spent = false
	}
}

// untrickLocked drops the trick held by player, keeping trick and trickList
// inverse to each other.
func (r *Room) untrickLocked(player string) {
	victim, ok := r.trick[player]
	if !ok {
		return
	}
	delete(r.trick, player)

	rest := r.trickList[victim][:0]
	for _, p := range r.trickList[victim] {
		if p != player {
			rest = append(rest, p)
		}
	}
	if len(rest) == 0 {
		delete(r.trickList, victim)
		r.bindingLocked(victim).TrickFaction = ""
		return
	}
	r.trickList[victim] = rest
}

// tameLocked makes the beastman a mafia contact.
func (r *Room) tameLocked(beastman string) {
	r.replyLocked(beastman, "[ 길들여 졌습니다. ]")
	r.contactLocked(beastman, RoleBeastman)
}

// executeTrialLocked carries out a passed execution vote.
func (r *Room) executeTrialLocked(name string) {
	if !r.cantUse[name] && r.onVoteDeathLocked(name) {
		return
	}
	r.sayfLocked("[ %s님이 투표로 인해 처형 당하셨습니다. ]", name)
	r.killLocked(name)
	r.onAnyDeathLocked(name)
}

package game

import (
	"slices"
)

func (r *Room) picksLocked(key RoleName) []string {
	out := make([]string, 0, len(r.selections[key]))
	for _, t := range r.selections[key] {
		out = append(out, t)
	}
	return out
}

// resolveNightLocked applies the night's attack and then every dawn effect.
func (r *Room) resolveNightLocked() {
	target := r.mafiaTarget

	if target == "" {
		r.sayLocked("[ 아무 일도 일어나지 않았습니다. ]")
	} else if !r.beastAttackLocked(target) {
		switch {
		case slices.Contains(r.picksLocked(RoleDoctor), target):
			r.sayfLocked("[ %s 님이 의사의 도움으로 마피아의 공격을 버텨 냈습니다. ]", target)
		case r.onDeathLocked(target):
		default:
			r.sayfLocked("[ %s 님이 살해당했습니다. ]", target)
			r.killLocked(target)
			r.onAnyDeathLocked(target)
			r.graveRobLocked(target)
		}
	}

	// picks made by players who died tonight are void
	for _, picks := range r.selections {
		for actor := range picks {
			if r.dead[actor] {
				delete(picks, actor)
			}
		}
	}

	keys := make([]RoleName, 0, len(r.selections))
	for k := range r.selections {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, actor := range r.roster {
			if t, ok := r.selections[k][actor]; ok {
				r.onDayLocked(k, actor, t)
			}
		}
	}

	r.selections = make(map[RoleName]map[string]string)
	r.lastPick = make(map[string]string)
	r.clearNightLocked()
}

// beastAttackLocked covers the night the beastman picked the same target as
// the kill. An untamed beastman is tamed by it; a tamed one that picked last
// strikes on its own. Either way healing does not apply. It returns false when
// the beastman played no part.
func (r *Room) beastAttackLocked(target string) bool {
	if !slices.Contains(r.picksLocked(RoleBeastman), target) || r.beastman == "" {
		return false
	}

	bm := r.beastman
	tamed := !r.bindingLocked(bm).Contact
	if !tamed && r.killer != RoleBeastman {
		return false
	}
	if tamed {
		r.tameLocked(bm)
	}

	r.sayfLocked("[ %s 님이 짐승인간에게 습격당했습니다. ]", target)
	r.killLocked(target)
	r.onAnyDeathLocked(target)
	if tamed {
		r.graveRobLocked(target)
	}
	return true
}

// graveRobLocked hands the first night's victim's role to the grave robber.
func (r *Room) graveRobLocked(victim string) {
	vb := r.bindingLocked(victim)
	if r.chains != 1 || vb.Ability == RoleGraveRobber {
		return
	}
	robber := ""
	for _, p := range r.roster {
		if r.bindingLocked(p).Ability == RoleGraveRobber {
			robber = p
			break
		}
	}
	if robber == "" {
		return
	}

	stolen := vb.Ability
	rb := r.bindingLocked(robber)
	rb.Identity = stolen
	rb.Ability = stolen
	rb.Faction = roleOf(stolen).Faction
	rb.Contact = false
	rb.Spent = false
	r.replyfLocked(robber, "[ %s 직업을 도굴했습니다. ]", stolen)

	left, text := RoleVillain, "악인"
	switch vb.Faction {
	case FactionCitizen:
		left, text = RoleCitizen, "시민"
	case FactionSect:
		text = "포교된 악인"
	}
	vb.Identity = left
	vb.Ability = left
	r.replyfLocked(victim, "[ 직업을 도굴당해서, %s 이 되었습니다. ]", text)
}

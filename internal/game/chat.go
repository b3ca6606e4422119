package game

import "fmt"

func chatLine(seat int, label, name, msg string) string {
	return fmt.Sprintf("▸%d | 【%s】\n▸ %s\n▸ %s", seat, label, name, msg)
}

// Chat routes a message from player to everyone allowed to see it.
func (r *Room) Chat(player, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomNotFound
	}
	if !r.inGameLocked() {
		r.lobbyChatLocked(player, text)
		return nil
	}
	return r.chatLocked(player, text)
}

func (r *Room) lobbyChatLocked(sender, text string) {
	seat := r.seatLocked(sender)
	for _, p := range r.roster {
		if p != sender {
			r.replyfLocked(p, "▸ 【%d】\n▸ %s\n▸ %s", seat, sender, text)
		}
	}
}

func (r *Room) chatLocked(og, text string) error {
	if r.cantChat[og] {
		return ErrRejected
	}
	sender := r.effectiveLocked(og)

	if r.dead[sender] || r.impersonatedLocked(og) {
		r.ghostChatLocked(og, sender, text)
		return nil
	}

	if r.phase.isDay() {
		if r.trial != nil && r.trial.Say && r.trial.Name != sender {
			return ErrRejected
		}
		r.dayChatLocked(og, sender, text)
		return nil
	}
	return r.nightChatLocked(sender, text)
}

// ghostChatLocked reaches the dead (except those possessing someone) and
// living mediums.
func (r *Room) ghostChatLocked(og, sender, text string) {
	seat := r.seatLocked(og)
	for _, p := range r.roster {
		if !r.dead[p] || p == sender {
			continue
		}
		if _, possessing := r.trick[p]; possessing {
			continue
		}
		r.replyLocked(p, chatLine(seat, r.labelLocked(p, og), og+" ☠", text))
	}
	for _, p := range r.roster {
		if r.dead[p] || p == og || r.impersonatedLocked(p) {
			continue
		}
		if r.bindingLocked(p).Ability == RoleMedium {
			r.replyLocked(p, chatLine(seat, r.labelLocked(p, og), og+" ☠", text))
		}
	}
}

func (r *Room) dayChatLocked(og, sender, text string) {
	seat := r.seatLocked(sender)
	for _, p := range r.roster {
		_, possessing := r.trick[p]
		if p == og {
			if possessing {
				// the magician sees their own words as the body they took
				r.replyLocked(p, chatLine(seat, r.labelLocked(p, sender), sender, text))
			}
			continue
		}
		if r.dead[p] && !possessing {
			continue
		}
		r.replyLocked(p, chatLine(seat, r.labelLocked(p, sender), sender, text))
	}
}

func (r *Room) nightChatLocked(sender, text string) error {
	b := r.bindingLocked(sender)
	seat := r.seatLocked(sender)

	toLiving := func(match func(p string, pb *Binding) bool, line func(p string) string) {
		for _, p := range r.roster {
			if p == sender || r.dead[p] {
				continue
			}
			if match(p, r.bindingLocked(p)) {
				r.replyLocked(p, line(p))
			}
		}
	}
	plain := func(p string) string {
		return chatLine(seat, r.labelLocked(p, sender), sender, text)
	}
	toDead := func(tag string) {
		for _, p := range r.deadListLocked() {
			r.replyLocked(p, chatLine(seat, r.labelLocked(p, sender), sender+" "+tag, text))
		}
	}

	switch b.Identity {
	case RoleMafia:
		toLiving(func(_ string, pb *Binding) bool {
			return pb.Identity == RoleMafia || pb.Contact
		}, plain)
		toDead("[마피아 팀]")

	case RoleMedium:
		toDead("[영매]")

	case RoleLovers:
		toLiving(func(_ string, pb *Binding) bool {
			return pb.Ability == RoleLovers
		}, plain)
		toDead("[연인]")

	case RoleSpy, RoleThief, RoleBeastman:
		if !b.Contact {
			return ErrRejected
		}
		toLiving(func(_ string, pb *Binding) bool {
			return pb.Faction == FactionMafia
		}, func(p string) string {
			return fmt.Sprintf("▸ %s\n▸ [%d] %s\n▸ %s", r.labelLocked(p, sender), seat, sender, text)
		})
		toDead("[마피아 팀]")

	case RoleCultLeader:
		toLiving(func(_ string, pb *Binding) bool {
			return pb.Faction == FactionSect
		}, func(p string) string {
			return chatLine(seat, r.labelLocked(p, sender), sender+" [교주]", text)
		})
		toDead("[교주 팀]")

	default:
		return ErrRejected
	}
	return nil
}

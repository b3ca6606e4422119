package game

import "math/rand/v2"

// Assign deals roles to every player in roster.
//
// One sub-mafia role (if eligible) goes first, then every copy of the
// important roles is dealt without replacement, then common roles are dealt
// in whole blocks of their copy count. A common role whose block no longer
// fits is discarded. Anyone left over is a plain citizen.
func Assign(rng *rand.Rand, roster []string) map[string]RoleName {
	out := make(map[string]RoleName, len(roster))
	free := append([]string(nil), roster...)

	var sub, important, common []RoleName
	for _, r := range EligibleFor(len(roster)) {
		switch {
		case r.SubMafia:
			sub = append(sub, r.Name)
		case r.Important:
			for i := 0; i < r.copies(); i++ {
				important = append(important, r.Name)
			}
		default:
			// duplicated entries keep multi-copy roles weighted like the pool they came from
			for i := 0; i < r.copies(); i++ {
				common = append(common, r.Name)
			}
		}
	}

	takePlayer := func() string {
		i := rng.IntN(len(free))
		p := free[i]
		free = append(free[:i], free[i+1:]...)
		return p
	}

	if len(sub) > 0 && len(free) > 0 {
		out[takePlayer()] = sub[rng.IntN(len(sub))]
	}

	for len(important) > 0 && len(free) > 0 {
		p := takePlayer()
		i := rng.IntN(len(important))
		out[p] = important[i]
		important = append(important[:i], important[i+1:]...)
	}

	for len(common) > 0 && len(free) > 0 {
		name := common[rng.IntN(len(common))]
		common = removeAll(common, name)

		n := roleOf(name).copies()
		if n > len(free) {
			continue
		}
		for i := 0; i < n; i++ {
			out[takePlayer()] = name
		}
	}

	for _, p := range free {
		out[p] = RoleCitizen
	}
	return out
}

func removeAll(list []RoleName, name RoleName) []RoleName {
	out := list[:0]
	for _, n := range list {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

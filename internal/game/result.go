package game

import (
	"context"
	"time"
)

// GameResult is what a finished game leaves behind for the ledger.
type GameResult struct {
	ID        string
	Room      string
	Winner    Outcome
	Chains    int
	StartedAt time.Time
	EndedAt   time.Time
	Players   []PlayerResult
}

type PlayerResult struct {
	Name     string
	Seat     int
	Role     RoleName
	Faction  Faction
	Survived bool
}

// Won reports whether the player's original side took the game.
func (p PlayerResult) Won(winner Outcome) bool {
	switch winner {
	case OutcomeMafia:
		return p.Faction == FactionMafia
	case OutcomeCitizen:
		return p.Faction == FactionCitizen
	case OutcomeSect:
		return p.Faction == FactionSect
	}
	return false
}

// Recorder stores finished games. Rooms call it off their lock with a
// bounded context; failures are logged and otherwise ignored.
type Recorder interface {
	Record(ctx context.Context, res GameResult) error
}

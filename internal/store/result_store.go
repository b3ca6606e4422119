package store

import (
	"context"
	"fmt"

	"example.com/mafia/internal/game"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultStore is the Postgres game ledger. It satisfies game.Recorder.
type ResultStore struct {
	db *pgxpool.Pool
}

func NewResultStore(db *pgxpool.Pool) *ResultStore {
	return &ResultStore{db: db}
}

var _ game.Recorder = (*ResultStore)(nil)

// Record stores res and bumps every participant's counters in one
// transaction.
func (s *ResultStore) Record(ctx context.Context, res game.GameResult) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("results: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO games (id, room, winner, chains, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, res.ID, res.Room, res.Winner.String(), res.Chains, res.StartedAt, res.EndedAt)
	if err != nil {
		return fmt.Errorf("results: insert game: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range res.Players {
		won := p.Won(res.Winner)
		batch.Queue(`
			INSERT INTO game_players (game_id, seat, name, role, faction, survived, won)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, res.ID, p.Seat, p.Name, string(p.Role), string(p.Faction), p.Survived, won)

		wins, losses := 0, 1
		if won {
			wins, losses = 1, 0
		}
		batch.Queue(`
			INSERT INTO player_stats (name, wins, losses)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE
			SET wins = player_stats.wins + EXCLUDED.wins,
			    losses = player_stats.losses + EXCLUDED.losses,
			    updated_at = now()
		`, p.Name, wins, losses)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("results: insert players: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("results: commit: %w", err)
	}
	return nil
}

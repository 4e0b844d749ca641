package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/sqlutil"
)

//go:embed schema.sql
var schema string

// Store owns the connection pool and hands out transaction-scoped Queries.
type Store struct {
	*Queries
	db *sql.DB
}

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{Queries: New(db), db: db}
}

// Migrate creates the cap engine tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// InTx runs fn in a transaction.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	return sqlutil.Run(ctx, s.db, nil, NewTx, fn)
}

// InTeamTx runs fn in a transaction holding the team's row lock, so two
// operations on the same team commit one after the other.
func (s *Store) InTeamTx(ctx context.Context, teamID uuid.UUID, fn func(q *Queries) error) error {
	return s.InTx(ctx, func(q *Queries) error {
		if err := q.LockTeam(ctx, teamID); err != nil {
			return err
		}
		return fn(q)
	})
}

// InLeagueTx runs fn in a transaction holding the league row and every team row.
func (s *Store) InLeagueTx(ctx context.Context, leagueID uuid.UUID, fn func(q *Queries) error) error {
	return s.InTx(ctx, func(q *Queries) error {
		if err := q.LockLeague(ctx, leagueID); err != nil {
			return err
		}
		return fn(q)
	})
}

// Package store persists players and accepted submissions. The solved
// counter is the index of the player's next unsolved problem.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"strings"

	pkgerrors "gauntlet/pkg/errors"
)

//go:embed schema.sql
var schemaDDL string

// ErrPlayerNotFound reports a lookup for an unknown player.
var ErrPlayerNotFound = errors.New("player not found")

// ErrPlayerExists reports an insert for an already registered player.
var ErrPlayerExists = errors.New("player already exists")

// Submission is one accepted-submission row.
type Submission struct {
	UserID    string `json:"user_id"`
	Problem   int    `json:"problem"`
	Language  string `json:"language"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

// Store wraps the SQL backend with the operations the pipeline and the
// admin surface need.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init applies the embedded DDL. It is idempotent and runs on every boot.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaDDL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "apply schema failed")
		}
	}
	return nil
}

// CurrentProblem returns the index of the player's next unsolved problem.
func (s *Store) CurrentProblem(ctx context.Context, userID string) (int, error) {
	var solved int
	err := s.db.QueryRowContext(ctx,
		"SELECT solved FROM players WHERE user_id = ? LIMIT 1", userID).Scan(&solved)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrPlayerNotFound
	}
	if err != nil {
		return 0, pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "progress lookup failed")
	}
	return solved, nil
}

// PasswordHash returns the stored password hash for a player.
func (s *Store) PasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT password_hash FROM players WHERE user_id = ? LIMIT 1", userID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPlayerNotFound
	}
	if err != nil {
		return "", pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "password lookup failed")
	}
	return hash, nil
}

// RecordAccepted logs an accepted submission and bumps the player's solved
// counter in one transaction. Either both rows change or neither does.
func (s *Store) RecordAccepted(ctx context.Context, sub Submission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.TransactionFailed, "begin transaction failed")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO submissions (user_id, problem, language, code, timestamp) VALUES (?, ?, ?, ?, ?)",
		sub.UserID, sub.Problem, sub.Language, sub.Code, sub.Timestamp)
	if err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.TransactionFailed, "insert submission failed")
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE players SET solved = ? WHERE user_id = ?", sub.Problem+1, sub.UserID)
	if err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.TransactionFailed, "advance solved counter failed")
	}
	if err := tx.Commit(); err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.TransactionFailed, "commit failed")
	}
	return nil
}

// AddPlayer registers a new player starting at problem zero.
func (s *Store) AddPlayer(ctx context.Context, userID, passwordHash string) error {
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id FROM players WHERE user_id = ? LIMIT 1", userID).Scan(&existing)
	if err == nil {
		return ErrPlayerExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "player lookup failed")
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO players (user_id, password_hash, solved) VALUES (?, ?, 0)", userID, passwordHash)
	if err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "insert player failed")
	}
	return nil
}

// ChangePassword replaces a player's password hash.
func (s *Store) ChangePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE players SET password_hash = ? WHERE user_id = ?", passwordHash, userID)
	if err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "update password failed")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// ListPlayers returns every registered player id.
func (s *Store) ListPlayers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM players ORDER BY user_id")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "list players failed")
	}
	defer func() { _ = rows.Close() }()

	players := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "scan player failed")
		}
		players = append(players, id)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "list players failed")
	}
	return players, nil
}

// ListSubmissions returns every logged submission.
func (s *Store) ListSubmissions(ctx context.Context) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, problem, language, code, timestamp FROM submissions ORDER BY timestamp")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "list submissions failed")
	}
	defer func() { _ = rows.Close() }()

	subs := make([]Submission, 0)
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.UserID, &sub.Problem, &sub.Language, &sub.Code, &sub.Timestamp); err != nil {
			return nil, pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "scan submission failed")
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.DatabaseError, "list submissions failed")
	}
	return subs, nil
}

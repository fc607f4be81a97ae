// Package history keeps a local log of every challenge attempt.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"match-handler/applog"
	"match-handler/challenge"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Attempt struct {
	Id          int64
	MatchId     string
	ChallengeId string
	Completed   bool
	// Results is nil when the attempt ended without a verdict.
	Results    *challenge.GameResult
	RecordedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open creates the database file when missing and migrates it to the latest schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err = migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// One writer avoids SQLITE_BUSY between concurrent challenge commands.
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to load history migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate history database: %w", err)
	}
	for _, result := range results {
		applog.Debug("Applied history migration",
			zap.String("source", result.Source.Path),
			zap.Duration("duration", result.Duration),
		)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, attempt Attempt) (int64, error) {
	var results sql.NullString
	if attempt.Results != nil {
		data, err := json.Marshal(attempt.Results)
		if err != nil {
			return 0, fmt.Errorf("failed to encode game results: %w", err)
		}
		results = sql.NullString{String: string(data), Valid: true}
	}

	recordedAt := attempt.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO challenge_attempts (match_id, challenge_id, completed, game_results, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		attempt.MatchId,
		attempt.ChallengeId,
		attempt.Completed,
		results,
		recordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt: %w", err)
	}
	return res.LastInsertId()
}

// CompletionCount returns how many attempts of a challenge were completed.
func (s *Store) CompletionCount(ctx context.Context, challengeId string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM challenge_attempts WHERE challenge_id = ? AND completed = 1`,
		challengeId,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return count, nil
}

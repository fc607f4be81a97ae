package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"match-handler/challenge"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// readAttempts returns a challenge's attempts, oldest first.
func readAttempts(t *testing.T, s *Store, challengeId string) []Attempt {
	t.Helper()
	rows, err := s.db.Query(
		`SELECT id, match_id, challenge_id, completed, game_results, recorded_at
		 FROM challenge_attempts WHERE challenge_id = ? ORDER BY id`,
		challengeId,
	)
	require.NoError(t, err)
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var (
			a          Attempt
			results    sql.NullString
			recordedAt string
		)
		require.NoError(t, rows.Scan(&a.Id, &a.MatchId, &a.ChallengeId, &a.Completed, &results, &recordedAt))
		if results.Valid {
			a.Results = &challenge.GameResult{}
			require.NoError(t, json.Unmarshal([]byte(results.String), a.Results))
		}
		a.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		require.NoError(t, err)
		attempts = append(attempts, a)
	}
	require.NoError(t, rows.Err())
	return attempts
}

func TestRecordAndListAttempts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	recordedAt := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	results := &challenge.GameResult{
		HumanTeam: 0,
		Score:     []challenge.TeamScore{{TeamIndex: 0, Score: 2}, {TeamIndex: 1, Score: 0}},
		Stats:     []challenge.PlayerStat{{Name: "Human", Team: 0}, {Name: "Rookie", Team: 1}},
		HumanWon:  true,
		Timestamp: "2026-02-03T04:05:06.000000",
	}

	_, err := store.Record(ctx, Attempt{MatchId: "m-1", ChallengeId: "INTRO-1", RecordedAt: recordedAt})
	require.NoError(t, err)
	_, err = store.Record(ctx, Attempt{MatchId: "m-2", ChallengeId: "INTRO-1", Completed: true, Results: results, RecordedAt: recordedAt})
	require.NoError(t, err)
	_, err = store.Record(ctx, Attempt{MatchId: "m-3", ChallengeId: "CITY-2"})
	require.NoError(t, err)

	attempts := readAttempts(t, store, "INTRO-1")
	require.Len(t, attempts, 2)

	assert.Equal(t, "m-1", attempts[0].MatchId)
	assert.False(t, attempts[0].Completed)
	assert.Nil(t, attempts[0].Results)
	assert.True(t, recordedAt.Equal(attempts[0].RecordedAt))

	assert.True(t, attempts[1].Completed)
	assert.Equal(t, results, attempts[1].Results)

	count, err := store.CompletionCount(ctx, "INTRO-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Record(context.Background(), Attempt{MatchId: "m-1", ChallengeId: "INTRO-1", Completed: true})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Len(t, readAttempts(t, store, "INTRO-1"), 1)
}

func TestOpenAppliesMigrations(t *testing.T) {
	store := openTestStore(t)

	var version int64
	err := store.db.QueryRow(`SELECT MAX(version_id) FROM goose_db_version`).Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

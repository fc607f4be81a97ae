package challenge

import (
	"encoding/json"
	"match-handler/game"
	"match-handler/game/gametest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChallenge(humanTeamSize, opponents int) *Challenge {
	c := &Challenge{HumanTeamSize: humanTeamSize}
	for i := 0; i < opponents; i++ {
		c.OpponentBots = append(c.OpponentBots, json.RawMessage(`{"name":"Bot"}`))
	}
	return c
}

func TestDemolitionsAreEdgeTriggered(t *testing.T) {
	tracker := NewStatsTracker(newTestChallenge(1, 1), game.ScoreLayoutDirect)
	b := gametest.NewPacket(game.ScoreLayoutDirect, 1)

	require.NoError(t, tracker.Update(b.Build()))

	b.Demolished(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, tracker.Update(b.Build()))
	}
	assert.Equal(t, 1, tracker.Stats().ReceivedDemos)

	b.Respawned(0)
	require.NoError(t, tracker.Update(b.Build()))
	b.Demolished(0)
	require.NoError(t, tracker.Update(b.Build()))
	assert.Equal(t, 2, tracker.Stats().ReceivedDemos)
	assert.Equal(t, 0, tracker.Stats().OpponentReceivedDemos)
}

func TestOnlyOpponentDemolitionsCount(t *testing.T) {
	// Human and one teammate bot against one opponent.
	tracker := NewStatsTracker(newTestChallenge(2, 1), game.ScoreLayoutDirect)
	b := gametest.NewPacket(game.ScoreLayoutDirect, 0, 1)

	require.NoError(t, tracker.Update(b.Demolished(1).Build()))
	assert.Equal(t, ManualStats{}, tracker.Stats())

	require.NoError(t, tracker.Update(b.Demolished(2).Build()))
	require.NoError(t, tracker.Update(b.Build()))
	assert.Equal(t, ManualStats{OpponentReceivedDemos: 1}, tracker.Stats())
}

func TestGoalsAttributedToLastToucher(t *testing.T) {
	for _, layout := range []game.ScoreLayout{game.ScoreLayoutDirect, game.ScoreLayoutSwapped} {
		t.Run(layout.String(), func(t *testing.T) {
			tracker := NewStatsTracker(newTestChallenge(1, 1), layout)
			b := gametest.NewPacket(layout, 1)

			require.NoError(t, tracker.Update(b.Touch(0).Build()))
			require.NoError(t, tracker.Update(b.Score(1, 0).Build()))
			assert.Equal(t, 1, tracker.Stats().HumanGoalsScored)

			// Unchanged score must not count again.
			require.NoError(t, tracker.Update(b.Build()))
			assert.Equal(t, 1, tracker.Stats().HumanGoalsScored)

			require.NoError(t, tracker.Update(b.Touch(1).Score(1, 1).Build()))
			assert.Equal(t, 1, tracker.Stats().HumanGoalsScored)

			require.NoError(t, tracker.Update(b.Score(2, 1).Build()))
			assert.Equal(t, 2, tracker.Stats().HumanGoalsScored, "blue's last toucher is still the human")
		})
	}
}

func TestGoalWithoutNamedToucherIsNotCounted(t *testing.T) {
	tracker := NewStatsTracker(newTestChallenge(1, 1), game.ScoreLayoutDirect)
	b := gametest.NewPacket(game.ScoreLayoutDirect, 1)

	require.NoError(t, tracker.Update(b.Score(1, 0).Build()))
	assert.Equal(t, 0, tracker.Stats().HumanGoalsScored)
}

func TestTrackerReportsBadState(t *testing.T) {
	tracker := NewStatsTracker(newTestChallenge(1, 2), game.ScoreLayoutDirect)

	err := tracker.Update(gametest.NewPacket(game.ScoreLayoutDirect, 1).Build())
	assert.ErrorIs(t, err, game.ErrBadState)

	packet := gametest.NewPacket(game.ScoreLayoutDirect, 1, 1).Build()
	packet.Teams = packet.Teams[:1]
	packet.NumTeams = 1
	assert.ErrorIs(t, tracker.Update(packet), game.ErrBadState)
}

package challenge

import (
	"fmt"
	"match-handler/game"
)

// ManualStats are counted from ticks because the game's own score info is not
// populated for these events.
type ManualStats struct {
	ReceivedDemos         int `json:"receivedDemos"`
	OpponentReceivedDemos int `json:"opponentReceivedDemos"`
	HumanGoalsScored      int `json:"humanGoalsScored"`
}

// StatsTracker accumulates ManualStats for one match. Not safe for concurrent use.
type StatsTracker struct {
	stats         ManualStats
	humanTeamSize int
	layout        game.ScoreLayout

	inDemoState     []bool
	lastTouchByTeam [2]*game.Touch
	lastScoreByTeam [2]int
}

func NewStatsTracker(c *Challenge, layout game.ScoreLayout) *StatsTracker {
	return &StatsTracker{
		humanTeamSize: c.HumanTeamSize,
		layout:        layout,
		inDemoState:   make([]bool, c.ExpectedPlayerCount()),
	}
}

func (t *StatsTracker) Stats() ManualStats {
	return t.stats
}

// Update folds one tick into the counters. It returns game.ErrBadState when the
// tick no longer matches the roster.
func (t *StatsTracker) Update(packet *game.Packet) error {
	if err := t.updateDemos(packet); err != nil {
		return err
	}
	return t.updateGoals(packet)
}

func (t *StatsTracker) updateDemos(packet *game.Packet) error {
	for i := range t.inDemoState {
		car, err := packet.Car(i)
		if err != nil {
			return err
		}

		// Latched until the car respawns.
		if t.inDemoState[i] {
			t.inDemoState[i] = car.IsDemolished
			continue
		}
		if !car.IsDemolished {
			continue
		}

		t.inDemoState[i] = true
		if !car.IsBot {
			t.stats.ReceivedDemos++
		} else if i >= t.humanTeamSize {
			t.stats.OpponentReceivedDemos++
		}
	}
	return nil
}

func (t *StatsTracker) updateGoals(packet *game.Packet) error {
	touch := packet.GameBall.LatestTouch
	if touch.Team < 0 || touch.Team > 1 {
		return fmt.Errorf("%w: touch by unknown team %d", game.ErrBadState, touch.Team)
	}
	t.lastTouchByTeam[touch.Team] = &touch

	teams := packet.ActiveTeams()
	if len(teams) < 2 {
		return fmt.Errorf("%w: expected 2 teams, got %d", game.ErrBadState, len(teams))
	}

	for _, team := range teams[:2] {
		teamIndex, score := t.layout.Read(team)
		if teamIndex < 0 || teamIndex > 1 {
			return fmt.Errorf("%w: unknown team index %d", game.ErrBadState, teamIndex)
		}

		previous := t.lastScoreByTeam[teamIndex]
		if score == previous {
			continue
		}
		t.lastScoreByTeam[teamIndex] = score

		lastTouch := t.lastTouchByTeam[teamIndex]
		if score < previous || lastTouch == nil {
			continue
		}

		scorer, err := packet.Car(lastTouch.PlayerIndex)
		if err != nil {
			return err
		}
		if !scorer.IsBot && lastTouch.PlayerName != "" {
			t.stats.HumanGoalsScored++
		}
	}
	return nil
}

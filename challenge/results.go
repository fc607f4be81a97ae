package challenge

import (
	"fmt"
	"match-handler/game"
	"sort"
	"time"
)

const resultTimestampLayout = "2006-01-02T15:04:05.000000"

type TeamScore struct {
	TeamIndex int `json:"team_index"`
	Score     int `json:"score"`
}

type PlayerStat struct {
	Name string `json:"name"`
	Team int    `json:"team"`
}

// GameResult is the snapshot of one tick reported back to the front end.
type GameResult struct {
	HumanTeam int          `json:"human_team"`
	Score     []TeamScore  `json:"score"`
	Stats     []PlayerStat `json:"stats"`
	HumanWon  bool         `json:"human_won"`
	Timestamp string       `json:"timestamp"`
}

// ScoreDifference is the lead of the first placed team over the second.
func (r *GameResult) ScoreDifference() int {
	if len(r.Score) < 2 {
		return 0
	}
	return r.Score[0].Score - r.Score[1].Score
}

// PacketToGameResults builds the result snapshot of a tick. Scores are sorted
// descending; equal scores keep their team order.
func PacketToGameResults(packet *game.Packet, layout game.ScoreLayout, now time.Time) (*GameResult, error) {
	cars := packet.Cars()

	human := -1
	for i := range cars {
		if !cars[i].IsBot {
			human = i
			break
		}
	}
	if human < 0 {
		return nil, ErrNoHumanPlayer
	}

	stats := make([]PlayerStat, 0, len(cars))
	for _, car := range cars {
		if car.Name == "" {
			continue
		}
		stats = append(stats, PlayerStat{Name: car.Name, Team: car.Team})
	}

	teams := packet.ActiveTeams()
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: expected 2 teams, got %d", game.ErrBadState, len(teams))
	}

	scores := make([]TeamScore, 0, len(teams))
	for _, team := range teams {
		teamIndex, score := layout.Read(team)
		scores = append(scores, TeamScore{TeamIndex: teamIndex, Score: score})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	humanTeam := cars[human].Team
	return &GameResult{
		HumanTeam: humanTeam,
		Score:     scores,
		Stats:     stats,
		HumanWon:  scores[0].TeamIndex == humanTeam,
		Timestamp: now.Format(resultTimestampLayout),
	}, nil
}

package game

import (
	"fmt"
	"runtime"
)

// ScoreLayout selects how the team fields of a tick are interpreted. The telemetry
// structure differs between platform builds, so both readings are kept.
type ScoreLayout int

const (
	// ScoreLayoutDirect reads team_index and score as named (Windows builds).
	ScoreLayoutDirect ScoreLayout = iota
	// ScoreLayoutSwapped reads the team index from score-1 and the score from
	// team_index, as reported by the non-Windows builds.
	ScoreLayoutSwapped
)

func DefaultScoreLayout() ScoreLayout {
	if runtime.GOOS == "windows" {
		return ScoreLayoutDirect
	}
	return ScoreLayoutSwapped
}

func ParseScoreLayout(raw string) (ScoreLayout, error) {
	switch raw {
	case "", "auto":
		return DefaultScoreLayout(), nil
	case "direct":
		return ScoreLayoutDirect, nil
	case "swapped":
		return ScoreLayoutSwapped, nil
	default:
		return ScoreLayoutDirect, fmt.Errorf("unknown score layout %q", raw)
	}
}

// Read returns the actual team index and score of t.
func (l ScoreLayout) Read(t Team) (teamIndex int, score int) {
	if l == ScoreLayoutSwapped {
		return t.Score - 1, t.TeamIndex
	}
	return t.TeamIndex, t.Score
}

func (l ScoreLayout) String() string {
	if l == ScoreLayoutSwapped {
		return "swapped"
	}
	return "direct"
}

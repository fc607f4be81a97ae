package challenge

import (
	"encoding/json"
	"errors"
	"fmt"
	"match-handler/matchconfig"
	"slices"
)

const (
	LimitationHalfField = "half-field"

	UpgradeBoost33       = "boost-33"
	UpgradeBoost100      = "boost-100"
	UpgradeBoostRecharge = "boost-recharge"
)

var ErrNoHumanPlayer = errors.New("no human player in the match")

// Challenge is a scripted story mode scenario.
type Challenge struct {
	Id                   string                `json:"id,omitempty"`
	HumanTeamSize        int                   `json:"humanTeamSize"`
	OpponentBots         []json.RawMessage     `json:"opponentBots"`
	CompletionConditions *CompletionConditions `json:"completionConditions,omitempty"`
	Limitations          []string              `json:"limitations,omitempty"`
}

// CompletionConditions are all optional; every one that is present must hold.
type CompletionConditions struct {
	Win               *bool `json:"win,omitempty"`
	ScoreDifference   *int  `json:"scoreDifference,omitempty"`
	DemoAchievedCount *int  `json:"demoAchievedCount,omitempty"`
	GoalsScored       *int  `json:"goalsScored,omitempty"`
	// SelfDemoCount is the most demolitions the human may suffer before failing.
	SelfDemoCount *int `json:"selfDemoCount,omitempty"`
}

func ParseChallenge(raw string) (*Challenge, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("challenge: %w", err)
	}
	for _, key := range []string{"humanTeamSize", "opponentBots"} {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("challenge: %w '%s'", matchconfig.ErrMissingField, key)
		}
	}

	var c Challenge
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("challenge: %w", err)
	}
	return &c, nil
}

// ExpectedPlayerCount is the roster size the match is expected to spawn.
func (c *Challenge) ExpectedPlayerCount() int {
	return c.HumanTeamSize + len(c.OpponentBots)
}

func (c *Challenge) HasLimitation(name string) bool {
	return slices.Contains(c.Limitations, name)
}

// Upgrades is the set of purchased upgrade names. The front end sends either the
// upgrades ledger object (keys are names) or a plain list of names.
type Upgrades map[string]struct{}

func (u *Upgrades) UnmarshalJSON(data []byte) error {
	set := Upgrades{}

	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		for _, name := range names {
			set[name] = struct{}{}
		}
		*u = set
		return nil
	}

	var ledger map[string]json.RawMessage
	if err := json.Unmarshal(data, &ledger); err != nil {
		return fmt.Errorf("upgrades: expected object or list, got %s", string(data))
	}
	for name := range ledger {
		set[name] = struct{}{}
	}
	*u = set
	return nil
}

func ParseUpgrades(raw string) (Upgrades, error) {
	var u Upgrades
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	return u, nil
}

func (u Upgrades) Has(name string) bool {
	_, ok := u[name]
	return ok
}

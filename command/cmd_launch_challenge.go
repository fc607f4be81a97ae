package command

import (
	"encoding/json"
	"fmt"
	"match-handler/challenge"
	"match-handler/launcher"
	"match-handler/matchconfig"
	"match-handler/savestate"
	"strings"
)

type LaunchChallengeCommand struct {
	ChallengeId string
	// CityColor is nil when the opposing team keeps its own colors.
	CityColor  *int
	TeamColor  int
	Upgrades   challenge.Upgrades
	Bots       []matchconfig.BotEntry
	Settings   *matchconfig.MatchSettings
	Challenge  *challenge.Challenge
	SaveState  *savestate.SaveState
	Preference launcher.Preference
}

func (c *LaunchChallengeCommand) GetName() Name {
	return NameLaunchChallenge
}

const launchChallengeCommandArgs = 10

func (c *LaunchChallengeCommand) Build(args []string) (Command, error) {
	if err := requireArgs(args, launchChallengeCommandArgs); err != nil {
		return nil, err
	}

	c.ChallengeId = strings.TrimSpace(args[0])

	if err := json.Unmarshal([]byte(args[1]), &c.CityColor); err != nil {
		return nil, fmt.Errorf("city color: %w", err)
	}
	if err := json.Unmarshal([]byte(args[2]), &c.TeamColor); err != nil {
		return nil, fmt.Errorf("team color: %w", err)
	}

	var err error
	if c.Upgrades, err = challenge.ParseUpgrades(args[3]); err != nil {
		return nil, err
	}
	if c.Bots, err = matchconfig.ParseBotList(args[4]); err != nil {
		return nil, err
	}
	if c.Settings, err = matchconfig.ParseMatchSettings(args[5]); err != nil {
		return nil, err
	}
	if c.Challenge, err = challenge.ParseChallenge(args[6]); err != nil {
		return nil, err
	}
	if c.SaveState, err = savestate.Parse(args[7]); err != nil {
		return nil, err
	}
	if c.Preference, err = parsePreference(args, 8); err != nil {
		return nil, err
	}
	return c, nil
}

package command

import (
	"encoding/json"
	"fmt"
	"match-handler/game"
	"match-handler/matchconfig"
	"strconv"
	"strings"
)

type SpawnCarForViewingCommand struct {
	Request game.ShowroomRequest
}

func (c *SpawnCarForViewingCommand) GetName() Name {
	return NameSpawnCarForViewing
}

const spawnCarForViewingCommandArgs = 6

func (c *SpawnCarForViewingCommand) Build(args []string) (Command, error) {
	if err := requireArgs(args, spawnCarForViewingCommandArgs); err != nil {
		return nil, err
	}

	var appearance matchconfig.Appearance
	if err := json.Unmarshal([]byte(args[0]), &appearance); err != nil {
		return nil, fmt.Errorf("appearance: %w", err)
	}

	team, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return nil, fmt.Errorf("team: %w", err)
	}

	pref, err := parsePreference(args, 4)
	if err != nil {
		return nil, err
	}

	c.Request = game.ShowroomRequest{
		Loadout:      appearance.ForTeam(matchconfig.Team(team)),
		Team:         matchconfig.Team(team),
		ShowcaseType: args[2],
		MapName:      args[3],
		Preference:   pref,
	}
	return c, nil
}

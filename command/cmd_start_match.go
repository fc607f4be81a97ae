package command

import (
	"match-handler/launcher"
	"match-handler/matchconfig"
)

type StartMatchCommand struct {
	Bots       []matchconfig.BotEntry
	Settings   *matchconfig.MatchSettings
	Preference launcher.Preference
}

func (c *StartMatchCommand) GetName() Name {
	return NameStartMatch
}

const startMatchCommandArgs = 4

func (c *StartMatchCommand) Build(args []string) (Command, error) {
	if err := requireArgs(args, startMatchCommandArgs); err != nil {
		return nil, err
	}

	var err error
	if c.Bots, err = matchconfig.ParseBotList(args[0]); err != nil {
		return nil, err
	}
	if c.Settings, err = matchconfig.ParseMatchSettings(args[1]); err != nil {
		return nil, err
	}
	if c.Preference, err = parsePreference(args, 2); err != nil {
		return nil, err
	}
	return c, nil
}

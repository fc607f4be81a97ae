package command

import (
	"encoding/json"
	"fmt"
	"match-handler/game"
)

type SetStateCommand struct {
	State *game.GameState
}

func (c *SetStateCommand) GetName() Name {
	return NameSetState
}

const setStateCommandArgs = 1

func (c *SetStateCommand) Build(args []string) (Command, error) {
	if err := requireArgs(args, setStateCommandArgs); err != nil {
		return nil, err
	}

	c.State = &game.GameState{}
	if err := json.Unmarshal([]byte(args[0]), c.State); err != nil {
		return nil, fmt.Errorf("game state: %w", err)
	}
	return c, nil
}

package matchconfig

import (
	"encoding/json"
	"fmt"
)

// RunnableType classifies a roster entry by who produces its inputs.
type RunnableType int

const (
	RunnableHuman RunnableType = iota
	// RunnableAutomated is a built-in game bot.
	RunnableAutomated
	// RunnableAutomatedLocal is a bot driven by a locally spawned process.
	RunnableAutomatedLocal
	// RunnablePartyMemberBot is a process-driven player occupying a human slot.
	RunnablePartyMemberBot
)

var runnableTypeNames = map[RunnableType]string{
	RunnableHuman:          "human",
	RunnableAutomated:      "psyonix",
	RunnableAutomatedLocal: "rlbot",
	RunnablePartyMemberBot: "party_member_bot",
}

func ParseRunnableType(raw string) (RunnableType, error) {
	for k, v := range runnableTypeNames {
		if v == raw {
			return k, nil
		}
	}
	return RunnableHuman, fmt.Errorf("unknown runnable type %q", raw)
}

func (r RunnableType) String() string {
	if name, ok := runnableTypeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RunnableType(%d)", int(r))
}

// IsBot reports whether the game treats the player as a bot.
func (r RunnableType) IsBot() bool {
	return r == RunnableAutomated || r == RunnableAutomatedLocal
}

// IsLocallyControlled reports whether a local process supplies the player's inputs.
func (r RunnableType) IsLocallyControlled() bool {
	return r == RunnableAutomatedLocal || r == RunnablePartyMemberBot
}

func (r RunnableType) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RunnableType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("runnable_type must be a string: %w", err)
	}
	parsed, err := ParseRunnableType(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

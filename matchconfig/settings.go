package matchconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMissingField = errors.New("missing required field")

// BotEntry is one roster entry as sent by the front end.
type BotEntry struct {
	Name         string       `json:"name"`
	Team         FlexInt      `json:"team"`
	Skill        float64      `json:"skill"`
	RunnableType RunnableType `json:"runnable_type"`
	Path         string       `json:"path,omitempty"`
}

type ScriptEntry struct {
	Path string `json:"path"`
}

// MatchSettings is the front end's match settings document.
type MatchSettings struct {
	GameMode           string        `json:"game_mode"`
	Map                string        `json:"map"`
	SkipReplays        bool          `json:"skip_replays"`
	InstantStart       bool          `json:"instant_start"`
	EnableLockstep     bool          `json:"enable_lockstep"`
	EnableRendering    bool          `json:"enable_rendering"`
	EnableStateSetting bool          `json:"enable_state_setting"`
	AutoSaveReplay     bool          `json:"auto_save_replay"`
	MatchBehavior      string        `json:"match_behavior"`
	Mutators           MutatorConfig `json:"mutators"`
	Scripts            []ScriptEntry `json:"scripts"`
}

var requiredSettingsFields = []string{
	"game_mode", "map", "skip_replays", "instant_start", "enable_lockstep", "enable_rendering",
	"enable_state_setting", "auto_save_replay", "match_behavior", "mutators", "scripts",
}

var requiredMutatorFields = []string{
	"match_length", "max_score", "overtime", "series_length", "game_speed", "ball_max_speed",
	"ball_type", "ball_weight", "ball_size", "ball_bounciness", "boost_amount", "rumble",
	"boost_strength", "gravity", "demolish", "respawn_time",
}

var requiredBotFields = []string{"name", "team", "skill", "runnable_type"}

func ParseMatchSettings(raw string) (*MatchSettings, error) {
	fields, err := requireFields([]byte(raw), requiredSettingsFields)
	if err != nil {
		return nil, fmt.Errorf("match settings: %w", err)
	}

	if _, err = requireFields(fields["mutators"], requiredMutatorFields); err != nil {
		return nil, fmt.Errorf("match settings mutators: %w", err)
	}

	var settings MatchSettings
	if err = json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("match settings: %w", err)
	}
	return &settings, nil
}

func ParseBotList(raw string) ([]BotEntry, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("bot list: %w", err)
	}

	bots := make([]BotEntry, 0, len(entries))
	for i, entry := range entries {
		if _, err := requireFields(entry, requiredBotFields); err != nil {
			return nil, fmt.Errorf("bot list entry %d: %w", i, err)
		}

		var bot BotEntry
		if err := json.Unmarshal(entry, &bot); err != nil {
			return nil, fmt.Errorf("bot list entry %d: %w", i, err)
		}
		bots = append(bots, bot)
	}
	return bots, nil
}

func requireFields(raw []byte, required []string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w '%s'", ErrMissingField, key)
		}
	}
	return fields, nil
}

// FlexInt accepts both JSON numbers and numeric strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected integer, got %s", string(data))
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("expected integer, got %q", s)
	}
	*f = FlexInt(n)
	return nil
}

var customMapExtensions = []string{".upk", ".udk"}

// IsCustomMapFile reports whether mapName names a map file rather than a built-in map.
func IsCustomMapFile(mapName string) bool {
	lower := strings.ToLower(mapName)
	for _, ext := range customMapExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

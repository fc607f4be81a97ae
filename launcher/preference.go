package launcher

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the storefront used to start the game.
type Kind string

const (
	KindSteam Kind = "steam"
	KindEpic  Kind = "epic"
)

// Preference tells the session how the game executable should be found and launched.
type Preference struct {
	Kind           Kind   `json:"preferred_launcher"`
	UseLoginTricks bool   `json:"use_login_tricks"`
	ExePath        string `json:"rocket_league_exe_path,omitempty"`
}

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindSteam:
		return KindSteam, nil
	case KindEpic:
		return KindEpic, nil
	default:
		return "", fmt.Errorf("unknown launcher kind %q", raw)
	}
}

// ParsePreference builds a Preference from the three trailing command fields:
// launcher kind, login-tricks flag and an optional executable path.
func ParsePreference(kind, loginTricks, exePath string) (Preference, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Preference{}, err
	}

	return Preference{
		Kind:           k,
		UseLoginTricks: parseFlag(loginTricks),
		ExePath:        strings.TrimSpace(exePath),
	}, nil
}

// parseFlag accepts the front end's boolean spellings; anything unrecognised but
// non-empty counts as set, matching how the front end has always sent "True".
func parseFlag(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if b, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
		return b
	}
	return true
}

func (p Preference) String() string {
	if p.ExePath == "" {
		return fmt.Sprintf("%s (login tricks: %t)", p.Kind, p.UseLoginTricks)
	}
	return fmt.Sprintf("%s (login tricks: %t, exe: %s)", p.Kind, p.UseLoginTricks, p.ExePath)
}

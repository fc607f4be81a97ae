// Package command parses the line protocol spoken by the front end.
package command

import (
	"errors"
	"fmt"
	"match-handler/launcher"
	"strings"
)

type Name = string

const (
	NameStartMatch         Name = "start_match"
	NameKillBots           Name = "kill_bots"
	NameShutDown           Name = "shut_down"
	NameFetchGtp           Name = "fetch_gtp"
	NameSetState           Name = "set_state"
	NameSpawnCarForViewing Name = "spawn_car_for_viewing"
	NameLaunchChallenge    Name = "launch_challenge"
)

// Separator splits the fields of a command line.
const Separator = " | "

var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrNotEnoughArguments = errors.New("not enough arguments")
)

type Command interface {
	GetName() Name
	Build(args []string) (Command, error)
}

var commandsRegistry = map[Name]func() Command{
	NameStartMatch:         func() Command { return new(StartMatchCommand) },
	NameKillBots:           func() Command { return new(KillBotsCommand) },
	NameShutDown:           func() Command { return new(ShutDownCommand) },
	NameFetchGtp:           func() Command { return new(FetchGtpCommand) },
	NameSetState:           func() Command { return new(SetStateCommand) },
	NameSpawnCarForViewing: func() Command { return new(SpawnCarForViewingCommand) },
	NameLaunchChallenge:    func() Command { return new(LaunchChallengeCommand) },
}

// NameOf returns the command name of a raw line without parsing its arguments.
func NameOf(line string) Name {
	name, _, _ := strings.Cut(strings.TrimRight(line, "\r\n"), Separator)
	return strings.TrimSpace(name)
}

// Parse builds the typed command for one input line.
func Parse(line string) (Command, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), Separator)
	name := strings.TrimSpace(parts[0])

	newCommand, exists := commandsRegistry[name]
	if !exists {
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}

	cmd, err := newCommand().Build(parts[1:])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cmd, nil
}

// StartsMatch reports whether the command reports its outcome with match start markers.
func StartsMatch(name Name) bool {
	return name == NameStartMatch || name == NameLaunchChallenge
}

func requireArgs(args []string, count int) error {
	if len(args) < count {
		return fmt.Errorf("%w to parse (%d < %d)", ErrNotEnoughArguments, len(args), count)
	}
	return nil
}

// optionalArg returns args[i], or "" when the line stopped short of it.
func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// parsePreference reads the launcher kind, login-tricks flag and optional
// executable path that close most commands, starting at args[from].
func parsePreference(args []string, from int) (launcher.Preference, error) {
	pref, err := launcher.ParsePreference(args[from], args[from+1], optionalArg(args, from+2))
	if err != nil {
		return launcher.Preference{}, fmt.Errorf("launcher preference: %w", err)
	}
	return pref, nil
}

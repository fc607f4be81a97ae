package launcher

import (
	"flag"
	"fmt"
	"net/url"
	"time"
)

type Info struct {
	LogLevel      int
	LogPath       string
	BridgeUrl     string
	BridgeExe     string
	ScoreLayout   string
	HistoryDb     string
	TickRecordDir string
	ShutdownGrace time.Duration
	ExitTimeout   time.Duration
}

func NewInfoFromFlags() *Info {
	return NewInfoFromFlagSet(flag.CommandLine, nil)
}

// NewInfoFromFlagSet registers the match handler flags on fs and parses args
// (os.Args when args is nil and fs is flag.CommandLine).
func NewInfoFromFlagSet(fs *flag.FlagSet, args []string) *Info {
	logLevel := fs.Int(
		"log-level", 0, "Log level: -1 - Debug, 0 - Info, 1 - Warn, 2 - Error, 3/4 - Panic, 5 - Fatal")
	logPath := fs.String(
		"log-path",
		"",
		"Directory to the logs, otherwise will use working directory and add 'logs' to that path")
	bridgeUrl := fs.String(
		"bridge-url", "http://127.0.0.1:23233", "Base URL of the game engine bridge control API")
	bridgeExe := fs.String(
		"bridge-exe", "", "Optional bridge executable to spawn and supervise")
	scoreLayout := fs.String(
		"score-layout", ScoreLayoutAuto, "How team score fields are read: auto, direct or swapped")
	historyDb := fs.String(
		"history-db", "", "Optional sqlite file that records every challenge attempt")
	tickRecordDir := fs.String(
		"tick-record-dir", "", "Optional directory for compressed per-challenge tick recordings")
	shutdownGrace := fs.Duration(
		"shutdown-grace", 5*time.Second, "Grace period before game and bot processes are force killed")
	exitTimeout := fs.Duration(
		"exit-timeout", 60*time.Second, "Hard timeout for the handler to finish after shut down")

	if fs == flag.CommandLine && args == nil {
		flag.Parse()
	} else {
		_ = fs.Parse(args)
	}

	return &Info{
		LogLevel:      *logLevel,
		LogPath:       *logPath,
		BridgeUrl:     *bridgeUrl,
		BridgeExe:     *bridgeExe,
		ScoreLayout:   *scoreLayout,
		HistoryDb:     *historyDb,
		TickRecordDir: *tickRecordDir,
		ShutdownGrace: *shutdownGrace,
		ExitTimeout:   *exitTimeout,
	}
}

const (
	ScoreLayoutAuto    = "auto"
	ScoreLayoutDirect  = "direct"
	ScoreLayoutSwapped = "swapped"
)

func (c *Info) Validate() error {
	if c.BridgeUrl == "" {
		return fmt.Errorf("--bridge-url is required and cannot be empty")
	}

	if _, err := url.ParseRequestURI(c.BridgeUrl); err != nil {
		return fmt.Errorf("--bridge-url is not a valid url: %w", err)
	}

	switch c.ScoreLayout {
	case ScoreLayoutAuto, ScoreLayoutDirect, ScoreLayoutSwapped:
	default:
		return fmt.Errorf("--score-layout must be one of auto, direct, swapped (got %q)", c.ScoreLayout)
	}

	if c.ShutdownGrace <= 0 {
		return fmt.Errorf("--shutdown-grace must be positive")
	}

	if c.ExitTimeout < c.ShutdownGrace {
		return fmt.Errorf("--exit-timeout (%s) cannot be shorter than --shutdown-grace (%s)",
			c.ExitTimeout, c.ShutdownGrace)
	}

	return nil
}

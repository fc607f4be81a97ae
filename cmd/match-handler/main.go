package main

import (
	"bufio"
	"context"
	"fmt"
	"match-handler/applog"
	"match-handler/bridge"
	"match-handler/command"
	"match-handler/game"
	"match-handler/handler"
	"match-handler/history"
	"match-handler/launcher"
	"match-handler/mapswap"
	"match-handler/util"
	"math/rand/v2"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	bridgeReadyTimeout = 30 * time.Second
	// Challenge lines carry whole save states, far beyond bufio's default token size.
	maxCommandLineSize = 16 * 1024 * 1024
	witnessIdRange     = 100000
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer cancel()

	info := launcher.NewInfoFromFlags()
	err := applog.Initialize(info.LogLevel, info.LogPath)
	if err != nil {
		fmt.Printf("Failed to initialize app logger: %v\n", err)
	}

	defer applog.Shutdown()
	defer util.WrapAppContextCancelExitMessage(ctx, "Match handler")

	if err = info.Validate(); err != nil {
		applog.Error("Failed to validate command line arguments", zap.Error(err))
		return
	}

	applog.LogStartupInfo(info)

	if !run(ctx, info) {
		applog.Error("Match handler is still busy after the exit timeout, killing it",
			zap.Duration("exitTimeout", info.ExitTimeout))
		applog.Shutdown()
		os.Exit(1)
	}
}

// run serves commands from stdin and reports whether every command finished in time.
func run(ctx context.Context, info *launcher.Info) bool {
	layout, err := game.ParseScoreLayout(info.ScoreLayout)
	if err != nil {
		applog.Error("Invalid score layout", zap.Error(err))
		return true
	}

	if info.BridgeExe != "" {
		// The bridge outlives a signal long enough for the match teardown to reach it.
		bridgeJob := util.DelayedCancelContextWithJob(ctx, info.ShutdownGrace)
		process, err := startBridge(bridgeJob.GetContext(), info)
		if err != nil {
			bridgeJob.Done()
			applog.Error("Failed to start game bridge", zap.Error(err))
			return true
		}
		defer func() {
			bridgeJob.Done()
			select {
			case <-process.Done():
			case <-time.After(info.ShutdownGrace * 2):
				applog.Warn("Game bridge did not exit", zap.Int("pid", process.GetPid()))
			}
		}()
	}

	client, err := bridge.NewClient(info.BridgeUrl)
	if err != nil {
		applog.Error("Failed to create game bridge client", zap.Error(err))
		return true
	}
	defer func() {
		if err := client.Close(); err != nil {
			applog.Warn("Failed to close game bridge client", zap.Error(err))
		}
	}()

	if info.BridgeExe != "" {
		if err = client.WaitReady(ctx, bridgeReadyTimeout); err != nil {
			applog.Error("Game bridge did not become ready", zap.Error(err))
			return true
		}
	}

	opts := handler.Options{
		ScoreLayout:   layout,
		TickRecordDir: info.TickRecordDir,
		ShutdownGrace: info.ShutdownGrace,
		WitnessId:     rand.IntN(witnessIdRange),
	}

	if info.HistoryDb != "" {
		store, err := history.Open(info.HistoryDb)
		if err != nil {
			applog.Error("Failed to open attempt history, continuing without it", zap.Error(err))
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	applog.Info("Match handler ready",
		zap.String("bridgeUrl", info.BridgeUrl),
		zap.Stringer("scoreLayout", layout),
		zap.Int("witnessId", opts.WitnessId),
	)

	dispatcher := handler.NewDispatcher(
		client,
		client,
		mapswap.SystemLocator{},
		command.NewMarkerWriter(os.Stdout),
		opts,
	)

	commands := make(chan string)
	acks := make(chan handler.Ack)
	dispatcherDone := make(chan error, 1)
	go func() {
		dispatcherDone <- dispatcher.Run(ctx, commands, acks)
	}()

	readCommands(ctx, commands, acks)

	select {
	case err = <-dispatcherDone:
		if err != nil {
			applog.Info("Dispatcher stopped", zap.Error(err))
		}
	case <-time.After(info.ExitTimeout):
		return false
	}

	applog.Info("Closing...")
	return dispatcher.Wait(info.ExitTimeout)
}

// readCommands forwards stdin lines one at a time, waiting for each acknowledgement.
// A read failure or EOF turns into a shut_down command.
func readCommands(ctx context.Context, commands chan<- string, acks <-chan handler.Ack) {
	lines := make(chan string)
	go scanLines(ctx, lines)

	for {
		var line string
		select {
		case line = <-lines:
		case <-ctx.Done():
			return
		}

		select {
		case commands <- line:
		case <-ctx.Done():
			return
		}

		select {
		case ack := <-acks:
			if ack == handler.AckShutDown {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func scanLines(ctx context.Context, lines chan<- string) {
	scanner := bufio.NewScanner(util.NewCancelableIoReader(ctx, os.Stdin))
	scanner.Buffer(make([]byte, 0, 64*1024), maxCommandLineSize)

	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		applog.Error("Failed to read command", zap.Error(err))
	} else {
		applog.Info("Command input closed")
	}

	select {
	case lines <- command.NameShutDown + command.Separator:
	case <-ctx.Done():
	}
}

func startBridge(ctx context.Context, info *launcher.Info) (*bridge.Process, error) {
	parsed, err := url.Parse(info.BridgeUrl)
	if err != nil {
		return nil, err
	}

	logDir := info.LogPath
	if logDir == "" {
		logDir = "logs"
	}
	logFile := filepath.Join(logDir, fmt.Sprintf("bridge_%s.log", time.Now().Format("2006-01-02_15-04-05")))

	return bridge.StartProcess(ctx, info.BridgeExe, parsed.Host, logFile, info.ShutdownGrace)
}

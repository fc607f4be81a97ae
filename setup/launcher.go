package setup

import (
	"context"
	"fmt"
	"match-handler/applog"
	"match-handler/game"
	"match-handler/launcher"
	"match-handler/mapswap"
	"match-handler/matchconfig"
	"match-handler/util"
	"sync/atomic"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

const (
	EarlyStartSeconds = 5

	defaultMetadataPolls    = 40
	defaultMetadataInterval = 250 * time.Millisecond
)

// Markers receives the launch outcome markers read by the front end.
type Markers interface {
	MatchStarted()
	MatchStartFailed()
}

// Launcher drives a session through a full match start.
type Launcher struct {
	session game.MatchRunner
	locator mapswap.Locator
	markers Markers

	MetadataPolls    int
	MetadataInterval time.Duration

	state atomic.Int32
}

func NewLauncher(session game.MatchRunner, locator mapswap.Locator, markers Markers) *Launcher {
	return &Launcher{
		session:          session,
		locator:          locator,
		markers:          markers,
		MetadataPolls:    defaultMetadataPolls,
		MetadataInterval: defaultMetadataInterval,
	}
}

func (l *Launcher) State() State {
	return State(l.state.Load())
}

func (l *Launcher) setState(ctx context.Context, s State) {
	l.state.Store(int32(s))
	applog.FromContext(ctx).Debug("Launch state changed", zap.Stringer("state", s))
}

// Start launches config and reports the outcome marker. onBotsLaunched, when not
// nil, is called once the bot processes are up, before the metadata wait.
// The caller's config is never modified.
func (l *Launcher) Start(
	ctx context.Context,
	config *matchconfig.MatchConfig,
	pref launcher.Preference,
	onBotsLaunched func(),
) error {
	applog.FromContext(ctx).Info("Launcher preferences", zap.Stringer("preference", pref))

	err := l.setupMatch(ctx, config, pref, onBotsLaunched)
	if err != nil {
		l.setState(ctx, StateFailed)
		applog.FromContext(ctx).Error("Match start failed", zap.Error(err))
		l.markers.MatchStartFailed()
		return err
	}

	l.markers.MatchStarted()
	return nil
}

func (l *Launcher) setupMatch(
	ctx context.Context,
	config *matchconfig.MatchConfig,
	pref launcher.Preference,
	onBotsLaunched func(),
) error {
	var matchConfig matchconfig.MatchConfig
	if err := copier.CopyWithOption(&matchConfig, config, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("failed to copy match config: %w", err)
	}

	if !matchConfig.IsCustomMap() {
		return l.doSetup(ctx, &matchConfig, pref, onBotsLaunched)
	}

	mapsDir, err := mapswap.IdentifyMapDirectory(pref, l.locator)
	if err != nil {
		return err
	}

	return mapswap.With(matchConfig.GameMap, mapsDir, func(swap *mapswap.Swap) error {
		matchConfig.GameMap = swap.GameMap
		if swap.Metadata.ConfigPath != "" {
			matchConfig.ScriptConfigs = append(matchConfig.ScriptConfigs,
				matchconfig.ScriptConfig{Path: swap.Metadata.ConfigPath})
			applog.FromContext(ctx).Info("Will load custom script for map",
				zap.String("configPath", swap.Metadata.ConfigPath))
		}
		return l.doSetup(ctx, &matchConfig, pref, onBotsLaunched)
	})
}

func (l *Launcher) doSetup(
	ctx context.Context,
	config *matchconfig.MatchConfig,
	pref launcher.Preference,
	onBotsLaunched func(),
) error {
	l.setState(ctx, StateConnecting)
	if err := l.session.Connect(ctx, pref); err != nil {
		return fmt.Errorf("failed to connect to game: %w", err)
	}
	if err := l.session.LoadInterface(ctx, game.InterfaceOptions{}); err != nil {
		return fmt.Errorf("failed to load game interface: %w", err)
	}

	if err := l.session.LoadMatchConfig(ctx, config, EarlyStartSeconds); err != nil {
		return fmt.Errorf("failed to load match config: %w", err)
	}
	l.setState(ctx, StateConfigLoaded)

	if err := l.session.LaunchEarlyStartBotProcesses(ctx); err != nil {
		return fmt.Errorf("failed to launch early start bots: %w", err)
	}
	l.setState(ctx, StateEarlyBotsLaunched)

	if err := l.session.StartMatch(ctx); err != nil {
		return fmt.Errorf("failed to start match: %w", err)
	}
	l.setState(ctx, StateStarted)

	if err := l.session.LaunchBotProcesses(ctx); err != nil {
		return fmt.Errorf("failed to launch bots: %w", err)
	}
	l.setState(ctx, StateBotsLaunched)

	if onBotsLaunched != nil {
		onBotsLaunched()
	}

	l.setState(ctx, StateAwaitingMetadata)
	if err := l.awaitMetadata(ctx, config.ExpectedMetadataCount()); err != nil {
		return err
	}

	l.setState(ctx, StateReady)
	return nil
}

// awaitMetadata gives bots a bounded time to report. Missing metadata is not fatal.
func (l *Launcher) awaitMetadata(ctx context.Context, expected int) error {
	logger := applog.FromContext(ctx)
	logger.Info("Waiting to receive metadata from all bots...")

	received := 0
	for polls := 0; received < expected && polls < l.MetadataPolls; polls++ {
		if polls != 0 {
			logger.Info("Waiting for metadata from bots", zap.Int("missing", expected-received))
			if err := util.SleepContext(ctx, l.MetadataInterval); err != nil {
				return err
			}
		}

		var err error
		if received, err = l.session.TryReceiveAgentMetadata(ctx); err != nil {
			return fmt.Errorf("failed to receive bot metadata: %w", err)
		}
	}

	if received < expected {
		logger.Warn("Did not receive metadata from all bots",
			zap.Int("expected", expected),
			zap.Int("received", received),
		)
	}
	return nil
}

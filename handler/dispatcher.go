// Package handler owns the single game session and runs front end commands against it.
package handler

import (
	"context"
	"fmt"
	"match-handler/applog"
	"match-handler/challenge"
	"match-handler/command"
	"match-handler/game"
	"match-handler/history"
	"match-handler/mapswap"
	"match-handler/matchconfig"
	"match-handler/setup"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Ack string

const (
	AckDone     Ack = "done"
	AckShutDown Ack = "shut_down"
)

const (
	defaultShutdownGrace = 5 * time.Second
	gtpPacketTimeout     = time.Second
)

// Markers are the stdout markers parsed by the front end.
type Markers interface {
	setup.Markers
	Gtp(packet any) error
	StoryResult(saveState any) error
}

// AttemptRecorder persists challenge attempts.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt history.Attempt) (int64, error)
	CompletionCount(ctx context.Context, challengeId string) (int, error)
}

type Options struct {
	ScoreLayout game.ScoreLayout
	// TickRecordDir enables compressed tick recordings of challenge runs when set.
	TickRecordDir string
	ShutdownGrace time.Duration
	// History is optional.
	History AttemptRecorder
	// WitnessId is used by challenge monitors. GtpWitnessId is used by fetch_gtp so
	// front end polling never consumes a frame a monitor waits for; it defaults
	// to WitnessId+1.
	WitnessId    int
	GtpWitnessId int
	Rng          *rand.Rand
}

// Dispatcher fans commands out to goroutines. Operations that start something in
// the game are admitted one at a time; kill_bots and shut_down pre-empt them.
type Dispatcher struct {
	session  game.Session
	builder  *matchconfig.Builder
	launcher *setup.Launcher
	markers  Markers
	opts     Options

	guard setup.Guard
	wg    sync.WaitGroup
	now   func() time.Time

	// monitorHook adjusts every challenge monitor before it runs.
	monitorHook func(m *challenge.Monitor)
}

func NewDispatcher(
	session game.Session,
	appearance matchconfig.AppearanceLoader,
	locator mapswap.Locator,
	markers Markers,
	opts Options,
) *Dispatcher {
	if opts.ShutdownGrace <= 0 {
		opts.ShutdownGrace = defaultShutdownGrace
	}
	if opts.GtpWitnessId == opts.WitnessId {
		opts.GtpWitnessId = opts.WitnessId + 1
	}

	return &Dispatcher{
		session:  session,
		builder:  matchconfig.NewBuilder(appearance, opts.Rng),
		launcher: setup.NewLauncher(session, locator, markers),
		markers:  markers,
		opts:     opts,
		now:      time.Now,
	}
}

// Run consumes commands until shut_down arrives, commands is closed or ctx is done.
// Every command produces exactly one acknowledgement on acks.
func (d *Dispatcher) Run(ctx context.Context, commands <-chan string, acks chan<- Ack) error {
	for {
		select {
		case <-ctx.Done():
			d.tearDown(ctx)
			return ctx.Err()
		case line, ok := <-commands:
			if !ok {
				d.tearDown(ctx)
				return nil
			}

			name := command.NameOf(line)
			if name == "" {
				sendAck(ctx, acks, AckDone)
				continue
			}

			applog.Info("Received command", zap.String("command", name))
			if name == command.NameShutDown {
				applog.Info("Got shut down signal")
				d.tearDown(ctx)
				sendAck(ctx, acks, AckShutDown)
				return nil
			}

			d.dispatch(ctx, name, line, acks)
		}
	}
}

// Wait joins outstanding command goroutines and reports whether they all
// finished within timeout.
func (d *Dispatcher) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// sendAck gives up once ctx is done, as the line reader stops reading acks then.
func sendAck(ctx context.Context, acks chan<- Ack, ack Ack) {
	select {
	case acks <- ack:
	case <-ctx.Done():
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, name command.Name, line string, acks chan<- Ack) {
	matchId := uuid.NewString()
	ctx = applog.AddContextFields(ctx, zap.String("matchId", matchId), zap.String("command", name))

	var once sync.Once
	ack := func() {
		once.Do(func() { sendAck(ctx, acks, AckDone) })
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer ack()
		defer func() {
			if r := recover(); r != nil {
				applog.FromContext(ctx).Error(
					"Command panicked",
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()

		d.execute(ctx, matchId, line, ack)
	}()
}

func (d *Dispatcher) execute(ctx context.Context, matchId string, line string, ack func()) {
	logger := applog.FromContext(ctx)

	cmd, err := command.Parse(line)
	if err != nil {
		logger.Error("Failed to parse command", zap.Error(err))
		if command.StartsMatch(command.NameOf(line)) {
			d.markers.MatchStartFailed()
		}
		return
	}

	switch c := cmd.(type) {
	case *command.StartMatchCommand:
		d.startMatch(ctx, c, ack)
	case *command.LaunchChallengeCommand:
		d.launchChallenge(ctx, matchId, c, ack)
	case *command.KillBotsCommand:
		d.killBots(ctx)
	case *command.FetchGtpCommand:
		ack()
		d.fetchGtp(ctx)
	case *command.SetStateCommand:
		ack()
		d.setState(ctx, c)
	case *command.SpawnCarForViewingCommand:
		ack()
		d.spawnCar(ctx, c)
	default:
		logger.Warn("Command is not handled", zap.String("type", fmt.Sprintf("%T", cmd)))
	}
}

func (d *Dispatcher) startMatch(ctx context.Context, c *command.StartMatchCommand, ack func()) {
	logger := applog.FromContext(ctx)

	opCtx, release, err := d.guard.Acquire(ctx)
	if err != nil {
		logger.Warn("Rejecting match start", zap.Error(err))
		d.markers.MatchStartFailed()
		return
	}
	defer release()

	config, err := d.builder.Build(c.Bots, c.Settings)
	if err != nil {
		logger.Error("Failed to build match config", zap.Error(err))
		d.markers.MatchStartFailed()
		return
	}

	_ = d.launcher.Start(opCtx, config, c.Preference, ack)
}

func (d *Dispatcher) killBots(ctx context.Context) {
	if d.guard.CancelRunning() {
		applog.FromContext(ctx).Info("Cancelled the running match operation")
	}
	if state := d.launcher.State(); !state.Settled() {
		applog.FromContext(ctx).Info("Interrupted launch sequence", zap.Stringer("state", state))
	}
	d.stopMatch(ctx)
}

// stopMatch shuts a started match down, killing every process it spawned.
func (d *Dispatcher) stopMatch(ctx context.Context) {
	if !d.session.HasStarted() {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.ShutdownGrace)
	defer cancel()

	if err := d.session.ShutDown(ctx, true); err != nil {
		applog.FromContext(ctx).Error("Failed to shut down the match", zap.Error(err))
	}
}

func (d *Dispatcher) tearDown(ctx context.Context) {
	d.guard.CancelRunning()
	d.stopMatch(ctx)
}

func (d *Dispatcher) fetchGtp(ctx context.Context) {
	logger := applog.FromContext(ctx)

	packet, err := d.session.FreshLiveDataPacket(ctx, gtpPacketTimeout, d.opts.GtpWitnessId)
	if err != nil {
		logger.Error("Failed to fetch game tick packet", zap.Error(err))
		return
	}

	if err = d.markers.Gtp(packet); err != nil {
		logger.Error("Failed to report game tick packet", zap.Error(err))
	}
}

func (d *Dispatcher) setState(ctx context.Context, c *command.SetStateCommand) {
	if err := d.session.SetGameState(ctx, c.State); err != nil {
		applog.FromContext(ctx).Error("Failed to set game state", zap.Error(err))
	}
}

func (d *Dispatcher) spawnCar(ctx context.Context, c *command.SpawnCarForViewingCommand) {
	logger := applog.FromContext(ctx)

	opCtx, release, err := d.guard.Acquire(ctx)
	if err != nil {
		logger.Warn("Rejecting showroom car", zap.Error(err))
		return
	}
	defer release()

	logger.Info("Spawning car for viewing",
		zap.String("showcaseType", c.Request.ShowcaseType),
		zap.String("map", c.Request.MapName),
	)
	if err = d.session.SpawnCarForViewing(opCtx, c.Request); err != nil {
		logger.Error("Failed to spawn car for viewing", zap.Error(err))
	}
}

package challenge

import (
	"context"
	"errors"
	"fmt"
	"match-handler/applog"
	"match-handler/game"
	"match-handler/util"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPacketTimeout = time.Second
	defaultSpawnWait     = 5 * time.Second
	defaultSpawnPoll     = 500 * time.Millisecond
	defaultFailPause     = time.Second
	defaultMercyPause    = 3 * time.Second
)

// TickRecorder stores observed ticks for later inspection.
type TickRecorder interface {
	Record(v any) error
}

// Outcome is the verdict of one challenge run. Results is nil when the match
// ended before a verdict could be reached.
type Outcome struct {
	Completed bool
	Results   *GameResult
}

// Monitor watches one challenge match tick by tick.
type Monitor struct {
	session   game.Session
	layout    game.ScoreLayout
	witnessId int

	Recorder TickRecorder
	Now      func() time.Time
	Sleep    func(ctx context.Context, d time.Duration) error

	PacketTimeout time.Duration
	SpawnWait     time.Duration
	SpawnPoll     time.Duration
	FailPause     time.Duration
	MercyPause    time.Duration
}

func NewMonitor(session game.Session, layout game.ScoreLayout, witnessId int) *Monitor {
	return &Monitor{
		session:       session,
		layout:        layout,
		witnessId:     witnessId,
		Now:           time.Now,
		Sleep:         util.SleepContext,
		PacketTimeout: defaultPacketTimeout,
		SpawnWait:     defaultSpawnWait,
		SpawnPoll:     defaultSpawnPoll,
		FailPause:     defaultFailPause,
		MercyPause:    defaultMercyPause,
	}
}

func (m *Monitor) fetch(ctx context.Context) (*game.Packet, error) {
	packet, err := m.session.FreshLiveDataPacket(ctx, m.PacketTimeout, m.witnessId)
	if err != nil {
		return nil, err
	}

	if m.Recorder != nil {
		if err := m.Recorder.Record(packet); err != nil {
			applog.FromContext(ctx).Warn("Failed to record tick", zap.Error(err))
		}
	}
	return packet, nil
}

// waitTillCarsSpawned polls until the tick reports expected cars or SpawnWait runs out,
// and returns the last tick seen either way.
func (m *Monitor) waitTillCarsSpawned(ctx context.Context, expected int) (*game.Packet, error) {
	packet, err := m.fetch(ctx)
	if err != nil {
		return nil, err
	}

	start := m.Now()
	for packet.NumCars != expected && m.Now().Sub(start) < m.SpawnWait {
		applog.FromContext(ctx).Debug("Game started but the expected cars are not in the packets",
			zap.Int("expected", expected),
			zap.Int("numCars", packet.NumCars),
		)
		if err = m.Sleep(ctx, m.SpawnPoll); err != nil {
			return nil, err
		}
		if packet, err = m.fetch(ctx); err != nil {
			return nil, err
		}
	}
	return packet, nil
}

// Run follows the match until it ends, enforcing upgrades and ending it early on
// a hard failure or the mercy rule. A game.ErrBadState from the telemetry is
// handled here; other errors are returned.
func (m *Monitor) Run(ctx context.Context, c *Challenge, upgrades Upgrades) (Outcome, error) {
	logger := applog.FromContext(ctx)
	earlyFailure := Outcome{}

	expected := c.ExpectedPlayerCount()
	packet, err := m.waitTillCarsSpawned(ctx, expected)
	if err != nil {
		return earlyFailure, err
	}
	if packet.NumCars == 0 {
		logger.Info("The game was initialized with no cars")
		return earlyFailure, nil
	}
	if packet.NumCars != expected {
		logger.Warn("Cars never matched the challenge roster",
			zap.Int("expected", expected),
			zap.Int("numCars", packet.NumCars),
		)
		return earlyFailure, nil
	}

	tracker := NewStatsTracker(c, m.layout)
	boost := NewBoostPolicy(c, upgrades, m.Now())

	badState := func(err error) (Outcome, error) {
		if !errors.Is(err, game.ErrBadState) {
			return earlyFailure, err
		}
		logger.Warn("Looks like the game is in a bad state", zap.Error(err))
		m.showFailure(ctx, MessageInterrupted, game.ColorRed)
		return earlyFailure, nil
	}

	var results *GameResult
	for {
		if packet, err = m.fetch(ctx); err != nil {
			return earlyFailure, err
		}

		if packet.NumCars == 0 {
			logger.Info("User ended the match")
			return earlyFailure, nil
		}

		if results, err = m.evaluateTick(ctx, tracker, packet); err != nil {
			return badState(err)
		}

		stats := tracker.Stats()
		if HasUserPermaFailed(c, stats) {
			logger.Info("Challenge failed", zap.Int("receivedDemos", stats.ReceivedDemos))
			if err = m.Sleep(ctx, m.FailPause); err != nil {
				return earlyFailure, err
			}
			m.showFailure(ctx, MessageFailed, game.ColorRed)
			return earlyFailure, nil
		}

		if EndByMercy(c, stats, results) {
			logger.Info("Challenge completed by mercy rule", zap.Int("scoreDifference", results.ScoreDifference()))
			if err = m.Sleep(ctx, m.MercyPause); err != nil {
				return Outcome{Completed: true, Results: results}, err
			}
			m.showFailure(ctx, MessageMercy, game.ColorGreen)
			return Outcome{Completed: true, Results: results}, nil
		}

		if err = m.applyUpgrades(ctx, boost, packet); err != nil {
			return badState(err)
		}

		if packet.GameInfo.IsMatchEnded {
			break
		}
	}

	completed := CalculateCompletion(c, tracker.Stats(), results)
	logger.Info("Challenge match ended",
		zap.Bool("completed", completed),
		zap.Any("manualStats", tracker.Stats()),
	)
	return Outcome{Completed: completed, Results: results}, nil
}

func (m *Monitor) evaluateTick(ctx context.Context, tracker *StatsTracker, packet *game.Packet) (*GameResult, error) {
	before := tracker.Stats()
	if err := tracker.Update(packet); err != nil {
		return nil, err
	}
	if after := tracker.Stats(); after != before {
		applog.FromContext(ctx).Debug("Manual stats changed", zap.Any("manualStats", after))
	}

	results, err := PacketToGameResults(packet, m.layout, m.Now())
	if errors.Is(err, ErrNoHumanPlayer) {
		return nil, fmt.Errorf("%w: %w", game.ErrBadState, err)
	}
	return results, err
}

func (m *Monitor) applyUpgrades(ctx context.Context, boost *BoostPolicy, packet *game.Packet) error {
	human, err := packet.Car(0)
	if err != nil {
		return err
	}

	desired, changed := boost.Adjust(human.Boost, m.Now())
	if !changed {
		return nil
	}
	if err = m.session.SetGameState(ctx, game.SetCarBoost(0, desired)); err != nil {
		return fmt.Errorf("failed to set human boost: %w", err)
	}
	return nil
}

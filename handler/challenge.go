package handler

import (
	"context"
	"fmt"
	"match-handler/applog"
	"match-handler/challenge"
	"match-handler/command"
	"match-handler/history"
	"match-handler/matchconfig"
	"match-handler/util"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// launchChallenge runs a story challenge end to end and reports the updated save state.
func (d *Dispatcher) launchChallenge(ctx context.Context, matchId string, c *command.LaunchChallengeCommand, ack func()) {
	ctx = applog.AddContextFields(ctx, zap.String("challengeId", c.ChallengeId))
	logger := applog.FromContext(ctx)

	opCtx, release, err := d.guard.Acquire(ctx)
	if err != nil {
		logger.Warn("Rejecting challenge launch", zap.Error(err))
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
	matchconfig.ApplyChallengeColors(config, c.CityColor, c.TeamColor)

	monitor := challenge.NewMonitor(d.session, d.opts.ScoreLayout, d.opts.WitnessId)
	if recorder := d.openTickRecorder(ctx, c.ChallengeId, matchId); recorder != nil {
		monitor.Recorder = recorder
		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Warn("Failed to close tick recording", zap.Error(err))
			}
		}()
	}
	if d.monitorHook != nil {
		d.monitorHook(monitor)
	}

	outcome := challenge.NewRunner(d.launcher, monitor, d.session).
		Run(opCtx, config, c.Challenge, c.Upgrades, c.Preference, ack)
	logger.Info("Challenge finished",
		zap.Bool("completed", outcome.Completed),
		zap.Bool("hasResults", outcome.Results != nil),
	)

	if err = c.SaveState.AddMatchResult(c.ChallengeId, outcome.Completed, outcome.Results); err != nil {
		logger.Error("Failed to add match result to save state", zap.Error(err))
	}
	d.recordAttempt(ctx, matchId, c.ChallengeId, outcome)

	if err = d.markers.StoryResult(c.SaveState); err != nil {
		logger.Error("Failed to report story result", zap.Error(err))
	}
}

func (d *Dispatcher) openTickRecorder(ctx context.Context, challengeId, matchId string) *util.TickRecorder {
	if d.opts.TickRecordDir == "" {
		return nil
	}

	logger := applog.FromContext(ctx)
	if err := os.MkdirAll(d.opts.TickRecordDir, 0o755); err != nil {
		logger.Warn("Failed to create tick recording directory", zap.Error(err))
		return nil
	}

	filename := filepath.Join(d.opts.TickRecordDir, tickRecordingName(challengeId, matchId))
	recorder, err := util.NewTickRecorder(filename)
	if err != nil {
		logger.Warn("Failed to open tick recording", zap.Error(err))
		return nil
	}

	logger.Debug("Recording ticks", zap.String("file", filename))
	return recorder
}

func tickRecordingName(challengeId, matchId string) string {
	return fmt.Sprintf("%s_%s.jsonl.deflate", filepath.Base(filepath.Clean("/"+challengeId)), matchId)
}

func (d *Dispatcher) recordAttempt(ctx context.Context, matchId, challengeId string, outcome challenge.Outcome) {
	if d.opts.History == nil {
		return
	}

	// The attempt is recorded even when the run was cancelled.
	ctx = context.WithoutCancel(ctx)
	id, err := d.opts.History.Record(ctx, history.Attempt{
		MatchId:     matchId,
		ChallengeId: challengeId,
		Completed:   outcome.Completed,
		Results:     outcome.Results,
		RecordedAt:  d.now(),
	})
	if err != nil {
		applog.FromContext(ctx).Error("Failed to record challenge attempt", zap.Error(err))
		return
	}

	completions, err := d.opts.History.CompletionCount(ctx, challengeId)
	if err != nil {
		applog.FromContext(ctx).Warn("Failed to count challenge completions", zap.Error(err))
		completions = -1
	}
	applog.FromContext(ctx).Info("Challenge attempt recorded",
		zap.Int64("attemptId", id),
		zap.Int("completions", completions),
	)
}

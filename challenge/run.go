package challenge

import (
	"context"
	"errors"
	"match-handler/applog"
	"match-handler/game"
	"match-handler/launcher"
	"match-handler/matchconfig"
	"match-handler/setup"

	"go.uber.org/zap"
)

// Runner launches a challenge match and monitors it to the end.
type Runner struct {
	launcher *setup.Launcher
	monitor  *Monitor
	session  game.Renderer
}

func NewRunner(launcher *setup.Launcher, monitor *Monitor, session game.Renderer) *Runner {
	return &Runner{
		launcher: launcher,
		monitor:  monitor,
		session:  session,
	}
}

// Run never fails: every problem ends in an Outcome without results, and the
// user is told about it inside the game where possible.
func (r *Runner) Run(
	ctx context.Context,
	config *matchconfig.MatchConfig,
	c *Challenge,
	upgrades Upgrades,
	pref launcher.Preference,
	onBotsLaunched func(),
) Outcome {
	logger := applog.FromContext(ctx)

	if err := r.launcher.Start(ctx, config, pref, onBotsLaunched); err != nil {
		return Outcome{}
	}

	if err := r.session.ClearScreen(ctx, RenderingGroup); err != nil {
		logger.Warn("Failed to clear story rendering group", zap.Error(err))
	}

	outcome, err := r.monitor.Run(ctx, c, upgrades)
	switch {
	case err == nil:
		return outcome
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		logger.Info("Challenge monitoring stopped", zap.Error(err))
		return outcome
	default:
		logger.Error("Something failed with the game, proceeding with shutdown", zap.Error(err))
		r.monitor.showFailure(ctx, MessageCrashed, game.ColorRed)
		return Outcome{}
	}
}

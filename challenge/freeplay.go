package challenge

import (
	"context"
	"fmt"
	"match-handler/applog"
	"match-handler/game"
	"match-handler/matchconfig"

	"go.uber.org/zap"
)

const (
	RenderingGroup = "STORY"

	MessageFailed      = "You failed the challenge!"
	MessageMercy       = "Challenge completed by mercy rule!"
	MessageInterrupted = "The game was interrupted."
	MessageCrashed     = "The game failed to continue"

	messageX     = 20
	messageY     = 200
	messageScale = 4
)

// setupFailureFreeplay replaces the current match with an empty freeplay scene
// and shows message on it.
func (m *Monitor) setupFailureFreeplay(ctx context.Context, message string, color game.Color) error {
	logger := applog.FromContext(ctx)
	logger.Info("Switching to freeplay", zap.String("message", message))

	if err := m.session.ShutDown(ctx, false); err != nil {
		return fmt.Errorf("failed to shut down match: %w", err)
	}
	if err := m.session.LoadMatchConfig(ctx, matchconfig.FreeplayConfig(), 0); err != nil {
		return fmt.Errorf("failed to load freeplay config: %w", err)
	}
	if err := m.session.StartMatch(ctx); err != nil {
		return fmt.Errorf("failed to start freeplay: %w", err)
	}

	if _, err := m.waitTillCarsSpawned(ctx, 0); err != nil {
		return err
	}

	group := game.TextGroup(RenderingGroup, messageX, messageY, messageScale, message, color)
	if err := m.session.Render(ctx, group); err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}
	return nil
}

// showFailure is setupFailureFreeplay for paths that have already given up on the
// match; errors are only logged.
func (m *Monitor) showFailure(ctx context.Context, message string, color game.Color) {
	if ctx.Err() != nil {
		return
	}
	if err := m.setupFailureFreeplay(ctx, message, color); err != nil {
		applog.FromContext(ctx).Error("Failed to set up freeplay fallback", zap.Error(err))
	}
}

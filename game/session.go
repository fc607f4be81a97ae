package game

import (
	"context"
	"match-handler/launcher"
	"match-handler/matchconfig"
	"time"
)

// InterfaceOptions selects the optional data feeds of the game interface.
type InterfaceOptions struct {
	WantsBallPredictions bool `json:"wants_ball_predictions"`
	WantsQuickChat       bool `json:"wants_quick_chat"`
	WantsGameMessages    bool `json:"wants_game_messages"`
}

// MatchRunner drives the game and bot processes through a match start.
type MatchRunner interface {
	Connect(ctx context.Context, pref launcher.Preference) error
	LoadInterface(ctx context.Context, opts InterfaceOptions) error
	LoadMatchConfig(ctx context.Context, config *matchconfig.MatchConfig, earlyStartSeconds int) error
	LaunchEarlyStartBotProcesses(ctx context.Context) error
	StartMatch(ctx context.Context) error
	LaunchBotProcesses(ctx context.Context) error
	// TryReceiveAgentMetadata polls once and returns how many bots have reported so far.
	TryReceiveAgentMetadata(ctx context.Context) (int, error)
	HasStarted() bool
	// ShutDown stops the match; killAllProcesses also terminates every bot process.
	ShutDown(ctx context.Context, killAllProcesses bool) error
}

// Telemetry exposes live ticks and accepts state-setting commands.
type Telemetry interface {
	// FreshLiveDataPacket waits up to timeout for a tick newer than the last one returned.
	FreshLiveDataPacket(ctx context.Context, timeout time.Duration, witnessId int) (*Packet, error)
	SetGameState(ctx context.Context, state *GameState) error
}

// Renderer draws in-game overlays grouped by name.
type Renderer interface {
	Render(ctx context.Context, group RenderGroup) error
	ClearScreen(ctx context.Context, group string) error
}

// Showroom spawns a single car outside the normal match flow.
type Showroom interface {
	SpawnCarForViewing(ctx context.Context, request ShowroomRequest) error
}

// Session is the single game session owned by the command dispatcher.
type Session interface {
	MatchRunner
	Telemetry
	Renderer
	Showroom
}

type ShowroomRequest struct {
	Loadout      matchconfig.LoadoutConfig `json:"loadout"`
	Team         matchconfig.Team          `json:"team"`
	ShowcaseType string                    `json:"showcase_type"`
	MapName      string                    `json:"map_name"`
	Preference   launcher.Preference       `json:"launcher_preference"`
}

package matchconfig

import (
	"fmt"
	"match-handler/applog"
	"math/rand/v2"

	"go.uber.org/zap"
)

// AppearanceLoader reads a bot bundle's looks file for the given team.
type AppearanceLoader interface {
	LoadAppearance(bundlePath string, team Team) (*LoadoutConfig, error)
}

// Builder turns front end roster and settings documents into a MatchConfig.
type Builder struct {
	appearance AppearanceLoader
	rng        *rand.Rand
}

func NewBuilder(appearance AppearanceLoader, rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Builder{
		appearance: appearance,
		rng:        rng,
	}
}

func (b *Builder) Build(bots []BotEntry, settings *MatchSettings) (*MatchConfig, error) {
	if settings == nil {
		return nil, fmt.Errorf("match settings: %w 'settings'", ErrMissingField)
	}

	config := &MatchConfig{
		GameMode:              settings.GameMode,
		GameMap:               settings.Map,
		SkipReplays:           settings.SkipReplays,
		InstantStart:          settings.InstantStart,
		EnableLockstep:        settings.EnableLockstep,
		EnableRendering:       settings.EnableRendering,
		EnableStateSetting:    settings.EnableStateSetting,
		AutoSaveReplay:        settings.AutoSaveReplay,
		ExistingMatchBehavior: settings.MatchBehavior,
		Mutators:              settings.Mutators,
		PlayerConfigs:         make([]PlayerConfig, 0, len(bots)),
		ScriptConfigs:         make([]ScriptConfig, 0, len(settings.Scripts)),
	}

	nextHumanIndex := 0
	for _, bot := range bots {
		player, err := b.playerConfig(bot, &nextHumanIndex)
		if err != nil {
			return nil, err
		}
		config.PlayerConfigs = append(config.PlayerConfigs, player)
	}

	for _, script := range settings.Scripts {
		config.ScriptConfigs = append(config.ScriptConfigs, ScriptConfig{Path: script.Path})
	}

	return config, nil
}

func (b *Builder) playerConfig(bot BotEntry, nextHumanIndex *int) (PlayerConfig, error) {
	player := PlayerConfig{
		Name:            bot.Name,
		Team:            Team(bot.Team),
		Bot:             bot.RunnableType.IsBot(),
		RlbotControlled: bot.RunnableType.IsLocallyControlled(),
		BotSkill:        bot.Skill,
	}

	// Bots keep human index 0 as a placeholder, it is not a real slot.
	if !player.Bot {
		player.HumanIndex = *nextHumanIndex
		*nextHumanIndex++
	}

	switch {
	case bot.Path != "":
		if b.appearance == nil {
			return player, fmt.Errorf("no appearance loader configured for bundle %s", bot.Path)
		}
		loadout, err := b.appearance.LoadAppearance(bot.Path, player.Team)
		if err != nil {
			return player, fmt.Errorf("failed to load appearance for %s: %w", bot.Name, err)
		}
		player.ConfigPath = bot.Path
		player.Loadout = loadout
	case player.Bot && !player.RlbotControlled:
		preset := randomPsyonixPreset(b.rng)
		applog.Debug("Assigned random preset to built-in bot",
			zap.String("bot", bot.Name),
			zap.String("preset", preset.Name),
		)
		player.Name = preset.Name
		loadout := preset.Loadout
		player.Loadout = &loadout
	}

	return player, nil
}

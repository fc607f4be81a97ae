package matchconfig

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSettings = `{
	"game_mode": "Soccer",
	"map": "DFHStadium",
	"skip_replays": true,
	"instant_start": false,
	"enable_lockstep": false,
	"enable_rendering": true,
	"enable_state_setting": true,
	"auto_save_replay": false,
	"match_behavior": "Restart",
	"mutators": {
		"match_length": "5 Minutes", "max_score": "Unlimited", "overtime": "Unlimited",
		"series_length": "Unlimited", "game_speed": "Default", "ball_max_speed": "Default",
		"ball_type": "Default", "ball_weight": "Default", "ball_size": "Default",
		"ball_bounciness": "Default", "boost_amount": "Default", "rumble": "None",
		"boost_strength": "1x", "gravity": "Default", "demolish": "Default",
		"respawn_time": "3 Seconds"
	},
	"scripts": [{"path": "scripts/hud.cfg"}]
}`

type fakeAppearanceLoader struct {
	calls []Team
	err   error
}

func (f *fakeAppearanceLoader) LoadAppearance(_ string, team Team) (*LoadoutConfig, error) {
	f.calls = append(f.calls, team)
	if f.err != nil {
		return nil, f.err
	}
	return &LoadoutConfig{CarId: 23, TeamColorId: int(team) * 10}, nil
}

func TestParseMatchSettings(t *testing.T) {
	settings, err := ParseMatchSettings(testSettings)
	require.NoError(t, err)

	assert.Equal(t, "Soccer", settings.GameMode)
	assert.Equal(t, "DFHStadium", settings.Map)
	assert.True(t, settings.SkipReplays)
	assert.Equal(t, "Restart", settings.MatchBehavior)
	assert.Equal(t, "3 Seconds", settings.Mutators.RespawnTime)
	require.Len(t, settings.Scripts, 1)
}

func TestParseMatchSettingsMissingField(t *testing.T) {
	_, err := ParseMatchSettings(`{"game_mode": "Soccer"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = ParseMatchSettings(`{
		"game_mode": "Soccer", "map": "Mannfield", "skip_replays": true, "instant_start": false,
		"enable_lockstep": false, "enable_rendering": true, "enable_state_setting": true,
		"auto_save_replay": false, "match_behavior": "Restart", "scripts": [],
		"mutators": {"match_length": "5 Minutes"}
	}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "mutators")
}

func TestParseBotList(t *testing.T) {
	bots, err := ParseBotList(`[
		{"name": "Human", "team": 0, "skill": 1, "runnable_type": "human"},
		{"name": "Nexto", "team": "1", "skill": 1, "runnable_type": "rlbot", "path": "bots/nexto/bot.cfg"}
	]`)
	require.NoError(t, err)
	require.Len(t, bots, 2)
	assert.Equal(t, RunnableHuman, bots[0].RunnableType)
	assert.Equal(t, FlexInt(1), bots[1].Team)
	assert.Equal(t, RunnableAutomatedLocal, bots[1].RunnableType)

	_, err = ParseBotList(`[{"name": "X", "team": 0, "skill": 1, "runnable_type": "robot"}]`)
	assert.Error(t, err)

	_, err = ParseBotList(`[{"name": "X", "skill": 1, "runnable_type": "human"}]`)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestBuildClassifiesPlayers(t *testing.T) {
	settings, err := ParseMatchSettings(testSettings)
	require.NoError(t, err)

	loader := &fakeAppearanceLoader{}
	builder := NewBuilder(loader, rand.New(rand.NewPCG(1, 2)))

	config, err := builder.Build([]BotEntry{
		{Name: "Human", Team: 0, RunnableType: RunnableHuman},
		{Name: "Nexto", Team: 1, Skill: 1, RunnableType: RunnableAutomatedLocal, Path: "bots/nexto/bot.cfg"},
		{Name: "Allstar", Team: 1, Skill: 1, RunnableType: RunnableAutomated},
		{Name: "Friend", Team: 0, RunnableType: RunnablePartyMemberBot},
		{Name: "Couch", Team: 0, RunnableType: RunnableHuman},
	}, settings)
	require.NoError(t, err)
	require.Len(t, config.PlayerConfigs, 5)

	human := config.PlayerConfigs[0]
	assert.False(t, human.Bot)
	assert.False(t, human.RlbotControlled)
	assert.Equal(t, 0, human.HumanIndex)

	local := config.PlayerConfigs[1]
	assert.True(t, local.Bot)
	assert.True(t, local.RlbotControlled)
	assert.Equal(t, 0, local.HumanIndex)
	assert.Equal(t, "bots/nexto/bot.cfg", local.ConfigPath)
	require.NotNil(t, local.Loadout)
	assert.Equal(t, 10, local.Loadout.TeamColorId)

	builtin := config.PlayerConfigs[2]
	assert.True(t, builtin.Bot)
	assert.False(t, builtin.RlbotControlled)
	require.NotNil(t, builtin.Loadout, "built-in bots get a random preset")
	assert.NotEqual(t, "Allstar", builtin.Name)

	party := config.PlayerConfigs[3]
	assert.False(t, party.Bot)
	assert.True(t, party.RlbotControlled)
	assert.Equal(t, 1, party.HumanIndex)

	assert.Equal(t, 2, config.PlayerConfigs[4].HumanIndex)

	assert.Equal(t, []Team{TeamOrange}, loader.calls)
	assert.Equal(t, []ScriptConfig{{Path: "scripts/hud.cfg"}}, config.ScriptConfigs)
	assert.Equal(t, 2, config.ExpectedMetadataCount())
	assert.Equal(t, "5 Minutes", config.Mutators.MatchLength)
}

func TestBuildPropagatesAppearanceErrors(t *testing.T) {
	settings, err := ParseMatchSettings(testSettings)
	require.NoError(t, err)

	builder := NewBuilder(&fakeAppearanceLoader{err: errors.New("no looks file")}, nil)
	_, err = builder.Build([]BotEntry{
		{Name: "Nexto", Team: 1, RunnableType: RunnableAutomatedLocal, Path: "bots/nexto/bot.cfg"},
	}, settings)
	assert.ErrorContains(t, err, "no looks file")
}

func TestApplyChallengeColors(t *testing.T) {
	cityColor := 7
	config := &MatchConfig{PlayerConfigs: []PlayerConfig{
		{Name: "Human", Team: TeamBlue},
		{Name: "Ally", Team: TeamBlue, Bot: true},
		{Name: "Opponent", Team: TeamOrange, Bot: true, Loadout: &LoadoutConfig{CarId: 23}},
	}}

	ApplyChallengeColors(config, &cityColor, 42)

	assert.Nil(t, config.PlayerConfigs[0].Loadout, "humans keep their own loadout")
	assert.Equal(t, 42, config.PlayerConfigs[1].Loadout.CustomColorId)
	assert.Equal(t, 7, config.PlayerConfigs[2].Loadout.TeamColorId)
	assert.Equal(t, 23, config.PlayerConfigs[2].Loadout.CarId)

	noCity := &MatchConfig{PlayerConfigs: []PlayerConfig{{Name: "Opponent", Team: TeamOrange, Bot: true}}}
	ApplyChallengeColors(noCity, nil, 42)
	assert.Nil(t, noCity.PlayerConfigs[0].Loadout)
}

func TestIsCustomMapFile(t *testing.T) {
	assert.True(t, IsCustomMapFile(`C:\maps\obstacle.upk`))
	assert.True(t, IsCustomMapFile("workshop/Course.UDK"))
	assert.False(t, IsCustomMapFile("DFHStadium"))
}

func TestFreeplayConfig(t *testing.T) {
	config := FreeplayConfig()
	assert.Equal(t, "BeckwithPark", config.GameMap)
	assert.True(t, config.EnableRendering)
	assert.Empty(t, config.PlayerConfigs)
	assert.Equal(t, "Unlimited", config.Mutators.MatchLength)
}

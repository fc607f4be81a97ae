package matchconfig

// Team is the game's team index. Blue is the human side by convention.
type Team int

const (
	TeamBlue   Team = 0
	TeamOrange Team = 1
)

// MatchConfig is the strongly-typed configuration handed to the session. It is built
// once per match and must not be mutated after it is passed to the launcher.
type MatchConfig struct {
	GameMode              string         `json:"game_mode"`
	GameMap               string         `json:"game_map"`
	SkipReplays           bool           `json:"skip_replays"`
	InstantStart          bool           `json:"instant_start"`
	EnableLockstep        bool           `json:"enable_lockstep"`
	EnableRendering       bool           `json:"enable_rendering"`
	EnableStateSetting    bool           `json:"enable_state_setting"`
	AutoSaveReplay        bool           `json:"auto_save_replay"`
	ExistingMatchBehavior string         `json:"existing_match_behavior"`
	Mutators              MutatorConfig  `json:"mutators"`
	PlayerConfigs         []PlayerConfig `json:"player_configs"`
	ScriptConfigs         []ScriptConfig `json:"script_configs"`
}

// MutatorConfig is passed through from the front end settings untouched.
type MutatorConfig struct {
	MatchLength    string `json:"match_length"`
	MaxScore       string `json:"max_score"`
	Overtime       string `json:"overtime"`
	SeriesLength   string `json:"series_length"`
	GameSpeed      string `json:"game_speed"`
	BallMaxSpeed   string `json:"ball_max_speed"`
	BallType       string `json:"ball_type"`
	BallWeight     string `json:"ball_weight"`
	BallSize       string `json:"ball_size"`
	BallBounciness string `json:"ball_bounciness"`
	BoostAmount    string `json:"boost_amount"`
	Rumble         string `json:"rumble"`
	BoostStrength  string `json:"boost_strength"`
	Gravity        string `json:"gravity"`
	Demolish       string `json:"demolish"`
	RespawnTime    string `json:"respawn_time"`
}

type PlayerConfig struct {
	Name string `json:"name"`
	Team Team   `json:"team"`
	// Bot is true for every automated player, built-in or local.
	Bot bool `json:"bot"`
	// RlbotControlled marks players whose inputs come from a local process.
	RlbotControlled bool           `json:"rlbot_controlled"`
	BotSkill        float64        `json:"bot_skill"`
	HumanIndex      int            `json:"human_index"`
	ConfigPath      string         `json:"config_path,omitempty"`
	Loadout         *LoadoutConfig `json:"loadout_config,omitempty"`
}

type ScriptConfig struct {
	Path string `json:"path"`
}

// LoadoutConfig is a car's appearance. Item ids are opaque to this module.
type LoadoutConfig struct {
	TeamColorId     int `json:"team_color_id"`
	CustomColorId   int `json:"custom_color_id"`
	CarId           int `json:"car_id"`
	DecalId         int `json:"decal_id"`
	WheelsId        int `json:"wheels_id"`
	BoostId         int `json:"boost_id"`
	AntennaId       int `json:"antenna_id"`
	HatId           int `json:"hat_id"`
	PaintFinishId   int `json:"paint_finish_id"`
	CustomFinishId  int `json:"custom_finish_id"`
	EngineAudioId   int `json:"engine_audio_id"`
	TrailsId        int `json:"trails_id"`
	GoalExplosionId int `json:"goal_explosion_id"`
}

// ExpectedMetadataCount is how many bot processes are expected to report metadata.
func (c *MatchConfig) ExpectedMetadataCount() int {
	count := 0
	for _, p := range c.PlayerConfigs {
		if p.RlbotControlled {
			count++
		}
	}
	return count
}

// IsCustomMap reports whether the map is a file asset rather than an engine map name.
func (c *MatchConfig) IsCustomMap() bool {
	return IsCustomMapFile(c.GameMap)
}

const (
	freeplayGameMode    = "Soccer"
	freeplayMap         = "BeckwithPark"
	freeplayMatchLength = "Unlimited"
)

// FreeplayConfig is the neutral scene used to show a message after an aborted challenge.
func FreeplayConfig() *MatchConfig {
	return &MatchConfig{
		GameMode:        freeplayGameMode,
		GameMap:         freeplayMap,
		EnableRendering: true,
		Mutators: MutatorConfig{
			MatchLength: freeplayMatchLength,
		},
		PlayerConfigs: []PlayerConfig{},
		ScriptConfigs: []ScriptConfig{},
	}
}

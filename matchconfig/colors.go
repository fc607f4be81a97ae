package matchconfig

// ApplyChallengeColors paints automated players for story mode: blue bots take the
// player's custom color, the opposing side takes the city color when one is set.
func ApplyChallengeColors(config *MatchConfig, cityColor *int, teamColor int) {
	for i := range config.PlayerConfigs {
		player := &config.PlayerConfigs[i]
		if !player.Bot {
			continue
		}

		if player.Team == TeamBlue {
			ensureLoadout(player).CustomColorId = teamColor
		} else if cityColor != nil {
			ensureLoadout(player).TeamColorId = *cityColor
		}
	}
}

func ensureLoadout(player *PlayerConfig) *LoadoutConfig {
	if player.Loadout == nil {
		player.Loadout = &LoadoutConfig{}
	}
	return player.Loadout
}

package matchconfig

// Appearance is a car's look for both team colors, as edited in the showroom.
type Appearance struct {
	Blue   LoadoutConfig `json:"blue"`
	Orange LoadoutConfig `json:"orange"`
}

func (a *Appearance) ForTeam(team Team) LoadoutConfig {
	if team == TeamOrange {
		return a.Orange
	}
	return a.Blue
}

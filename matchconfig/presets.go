package matchconfig

import "math/rand/v2"

type psyonixPreset struct {
	Name    string
	Loadout LoadoutConfig
}

var psyonixPresets = []psyonixPreset{
	{Name: "Armstrong", Loadout: LoadoutConfig{CarId: 23, DecalId: 0, WheelsId: 376, BoostId: 35}},
	{Name: "Bandit", Loadout: LoadoutConfig{CarId: 403, DecalId: 0, WheelsId: 360, BoostId: 32}},
	{Name: "Beast", Loadout: LoadoutConfig{CarId: 625, DecalId: 0, WheelsId: 374, BoostId: 44}},
	{Name: "Boomer", Loadout: LoadoutConfig{CarId: 22, DecalId: 0, WheelsId: 363, BoostId: 41}},
	{Name: "Casper", Loadout: LoadoutConfig{CarId: 21, DecalId: 0, WheelsId: 387, BoostId: 34}},
	{Name: "Centice", Loadout: LoadoutConfig{CarId: 29, DecalId: 0, WheelsId: 364, BoostId: 63}},
	{Name: "Fury", Loadout: LoadoutConfig{CarId: 404, DecalId: 0, WheelsId: 386, BoostId: 37}},
	{Name: "Gerwin", Loadout: LoadoutConfig{CarId: 402, DecalId: 0, WheelsId: 372, BoostId: 33}},
	{Name: "Jester", Loadout: LoadoutConfig{CarId: 30, DecalId: 0, WheelsId: 369, BoostId: 43}},
	{Name: "Marley", Loadout: LoadoutConfig{CarId: 28, DecalId: 0, WheelsId: 361, BoostId: 38}},
	{Name: "Rainmaker", Loadout: LoadoutConfig{CarId: 31, DecalId: 0, WheelsId: 388, BoostId: 45}},
	{Name: "Sundown", Loadout: LoadoutConfig{CarId: 607, DecalId: 0, WheelsId: 359, BoostId: 42}},
}

func randomPsyonixPreset(rng *rand.Rand) psyonixPreset {
	return psyonixPresets[rng.IntN(len(psyonixPresets))]
}

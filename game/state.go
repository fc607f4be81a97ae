package game

// GameState is a partial state-setting request; nil fields are left untouched.
type GameState struct {
	Cars            map[int]CarState `json:"cars,omitempty"`
	Ball            *BallState       `json:"ball,omitempty"`
	GameInfo        *GameInfoState   `json:"game_info,omitempty"`
	ConsoleCommands []string         `json:"console_commands,omitempty"`
}

type CarState struct {
	Physics      *PhysicsState `json:"physics,omitempty"`
	BoostAmount  *float64      `json:"boost_amount,omitempty"`
	Jumped       *bool         `json:"jumped,omitempty"`
	DoubleJumped *bool         `json:"double_jumped,omitempty"`
}

type BallState struct {
	Physics *PhysicsState `json:"physics,omitempty"`
}

type PhysicsState struct {
	Location        *Vector3State `json:"location,omitempty"`
	Rotation        *RotatorState `json:"rotation,omitempty"`
	Velocity        *Vector3State `json:"velocity,omitempty"`
	AngularVelocity *Vector3State `json:"angular_velocity,omitempty"`
}

type Vector3State struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	Z *float64 `json:"z,omitempty"`
}

type RotatorState struct {
	Pitch *float64 `json:"pitch,omitempty"`
	Yaw   *float64 `json:"yaw,omitempty"`
	Roll  *float64 `json:"roll,omitempty"`
}

type GameInfoState struct {
	WorldGravityZ *float64 `json:"world_gravity_z,omitempty"`
	GameSpeed     *float64 `json:"game_speed,omitempty"`
	Paused        *bool    `json:"paused,omitempty"`
	EndMatch      *bool    `json:"end_match,omitempty"`
}

// SetCarBoost returns a state that only changes one car's boost.
func SetCarBoost(carIndex int, boost int) *GameState {
	amount := float64(boost)
	return &GameState{
		Cars: map[int]CarState{
			carIndex: {BoostAmount: &amount},
		},
	}
}

package game

import (
	"errors"
	"fmt"
)

// ErrBadState is returned when a tick does not match the roster it was read against,
// e.g. a car index that is no longer present after the user left the match.
var ErrBadState = errors.New("game is in a bad state")

// Packet is one live telemetry tick.
type Packet struct {
	GameCars []Car    `json:"game_cars"`
	NumCars  int      `json:"num_cars"`
	GameBall Ball     `json:"game_ball"`
	Teams    []Team   `json:"teams"`
	NumTeams int      `json:"num_teams"`
	GameInfo GameInfo `json:"game_info"`
}

type Car struct {
	Name         string    `json:"name"`
	Team         int       `json:"team"`
	IsBot        bool      `json:"is_bot"`
	IsDemolished bool      `json:"is_demolished"`
	Boost        int       `json:"boost"`
	SpawnId      int       `json:"spawn_id"`
	Physics      Physics   `json:"physics"`
	ScoreInfo    ScoreInfo `json:"score_info"`
}

type ScoreInfo struct {
	Score       int `json:"score"`
	Goals       int `json:"goals"`
	OwnGoals    int `json:"own_goals"`
	Assists     int `json:"assists"`
	Saves       int `json:"saves"`
	Shots       int `json:"shots"`
	Demolitions int `json:"demolitions"`
}

type Physics struct {
	Location        Vector3 `json:"location"`
	Velocity        Vector3 `json:"velocity"`
	Rotation        Rotator `json:"rotation"`
	AngularVelocity Vector3 `json:"angular_velocity"`
}

type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Rotator struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

type Ball struct {
	Physics     Physics `json:"physics"`
	LatestTouch Touch   `json:"latest_touch"`
}

type Touch struct {
	PlayerName  string  `json:"player_name"`
	TimeSeconds float64 `json:"time_seconds"`
	Team        int     `json:"team"`
	PlayerIndex int     `json:"player_index"`
}

// Team holds the raw team fields. Read them through a ScoreLayout.
type Team struct {
	TeamIndex int `json:"team_index"`
	Score     int `json:"score"`
}

type GameInfo struct {
	SecondsElapsed    float64 `json:"seconds_elapsed"`
	GameTimeRemaining float64 `json:"game_time_remaining"`
	IsOvertime        bool    `json:"is_overtime"`
	IsUnlimitedTime   bool    `json:"is_unlimited_time"`
	IsRoundActive     bool    `json:"is_round_active"`
	IsKickoffPause    bool    `json:"is_kickoff_pause"`
	IsMatchEnded      bool    `json:"is_match_ended"`
	WorldGravityZ     float64 `json:"world_gravity_z"`
	GameSpeed         float64 `json:"game_speed"`
	FrameNum          int     `json:"frame_num"`
}

// Car returns the car at index, or ErrBadState when the tick no longer has it.
func (p *Packet) Car(index int) (*Car, error) {
	if index < 0 || index >= p.NumCars || index >= len(p.GameCars) {
		return nil, fmt.Errorf("%w: car index %d out of range (num_cars=%d)", ErrBadState, index, p.NumCars)
	}
	return &p.GameCars[index], nil
}

// Cars returns the populated part of GameCars.
func (p *Packet) Cars() []Car {
	n := p.NumCars
	if n > len(p.GameCars) {
		n = len(p.GameCars)
	}
	if n < 0 {
		n = 0
	}
	return p.GameCars[:n]
}

// ActiveTeams returns the populated part of Teams.
func (p *Packet) ActiveTeams() []Team {
	n := p.NumTeams
	if n == 0 || n > len(p.Teams) {
		n = len(p.Teams)
	}
	return p.Teams[:n]
}

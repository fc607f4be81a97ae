package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketCarOutOfRange(t *testing.T) {
	packet := &Packet{
		GameCars: []Car{{Name: "Human"}, {Name: "Bot"}},
		NumCars:  1,
	}

	car, err := packet.Car(0)
	require.NoError(t, err)
	assert.Equal(t, "Human", car.Name)

	_, err = packet.Car(1)
	assert.ErrorIs(t, err, ErrBadState)

	_, err = packet.Car(-1)
	assert.ErrorIs(t, err, ErrBadState)

	assert.Len(t, packet.Cars(), 1)
}

func TestScoreLayoutRead(t *testing.T) {
	raw := Team{TeamIndex: 3, Score: 2}

	teamIndex, score := ScoreLayoutDirect.Read(raw)
	assert.Equal(t, 3, teamIndex)
	assert.Equal(t, 2, score)

	teamIndex, score = ScoreLayoutSwapped.Read(raw)
	assert.Equal(t, 1, teamIndex, "swapped layout reads the team index from score-1")
	assert.Equal(t, 3, score, "swapped layout reads the score from team_index")
}

func TestParseScoreLayout(t *testing.T) {
	layout, err := ParseScoreLayout("direct")
	require.NoError(t, err)
	assert.Equal(t, ScoreLayoutDirect, layout)

	layout, err = ParseScoreLayout("swapped")
	require.NoError(t, err)
	assert.Equal(t, ScoreLayoutSwapped, layout)

	layout, err = ParseScoreLayout("auto")
	require.NoError(t, err)
	assert.Equal(t, DefaultScoreLayout(), layout)

	_, err = ParseScoreLayout("diagonal")
	assert.Error(t, err)
}

func TestSetCarBoostEncoding(t *testing.T) {
	data, err := json.Marshal(SetCarBoost(0, 33))
	require.NoError(t, err)
	assert.JSONEq(t, `{"cars": {"0": {"boost_amount": 33}}}`, string(data))
}

func TestGameStateDecodesFrontEndDocument(t *testing.T) {
	var state GameState
	err := json.Unmarshal([]byte(`{
		"ball": {"physics": {"location": {"x": 0, "y": 0, "z": 93}}},
		"cars": {"1": {"boost_amount": 100}},
		"console_commands": ["Pause"]
	}`), &state)
	require.NoError(t, err)

	require.NotNil(t, state.Ball)
	require.NotNil(t, state.Ball.Physics.Location.Z)
	assert.Equal(t, 93.0, *state.Ball.Physics.Location.Z)
	require.NotNil(t, state.Ball.Physics.Location.X)
	assert.Equal(t, 0.0, *state.Ball.Physics.Location.X)
	assert.Nil(t, state.Ball.Physics.Velocity)
	require.Contains(t, state.Cars, 1)
	assert.Equal(t, 100.0, *state.Cars[1].BoostAmount)
	assert.Equal(t, []string{"Pause"}, state.ConsoleCommands)
}

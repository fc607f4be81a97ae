package gametest

import "match-handler/game"

// PacketBuilder assembles ticks for a roster of one human followed by bots.
type PacketBuilder struct {
	packet game.Packet
	layout game.ScoreLayout
}

// NewPacket starts a tick with one human on team 0 and the given bot teams.
func NewPacket(layout game.ScoreLayout, botTeams ...int) *PacketBuilder {
	cars := []game.Car{{Name: "Human", Team: 0}}
	for i, team := range botTeams {
		cars = append(cars, game.Car{Name: botName(i), Team: team, IsBot: true})
	}

	b := &PacketBuilder{
		packet: game.Packet{
			GameCars: cars,
			NumCars:  len(cars),
			NumTeams: 2,
		},
		layout: layout,
	}
	return b.Score(0, 0)
}

func botName(i int) string {
	return "Bot" + string(rune('A'+i))
}

// Score sets team scores, encoding them the way the chosen layout reads them.
func (b *PacketBuilder) Score(blue, orange int) *PacketBuilder {
	b.packet.Teams = []game.Team{encodeTeam(b.layout, 0, blue), encodeTeam(b.layout, 1, orange)}
	return b
}

func encodeTeam(layout game.ScoreLayout, teamIndex, score int) game.Team {
	if layout == game.ScoreLayoutSwapped {
		return game.Team{TeamIndex: score, Score: teamIndex + 1}
	}
	return game.Team{TeamIndex: teamIndex, Score: score}
}

func (b *PacketBuilder) Demolished(carIndex int) *PacketBuilder {
	b.packet.GameCars[carIndex].IsDemolished = true
	return b
}

func (b *PacketBuilder) Respawned(carIndex int) *PacketBuilder {
	b.packet.GameCars[carIndex].IsDemolished = false
	return b
}

func (b *PacketBuilder) Boost(carIndex, boost int) *PacketBuilder {
	b.packet.GameCars[carIndex].Boost = boost
	return b
}

func (b *PacketBuilder) Touch(carIndex int) *PacketBuilder {
	car := b.packet.GameCars[carIndex]
	b.packet.GameBall.LatestTouch = game.Touch{
		PlayerName:  car.Name,
		Team:        car.Team,
		PlayerIndex: carIndex,
	}
	return b
}

func (b *PacketBuilder) Ended() *PacketBuilder {
	b.packet.GameInfo.IsMatchEnded = true
	return b
}

func (b *PacketBuilder) Build() *game.Packet {
	p := b.packet
	p.GameCars = append([]game.Car(nil), b.packet.GameCars...)
	p.Teams = append([]game.Team(nil), b.packet.Teams...)
	return &p
}

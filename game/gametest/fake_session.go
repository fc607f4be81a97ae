// Package gametest provides an in-process game.Session for tests.
package gametest

import (
	"context"
	"match-handler/game"
	"match-handler/launcher"
	"match-handler/matchconfig"
	"sync"
	"time"
)

// FakeSession replays scripted ticks and records every call made against it.
// Once a config without players is loaded (the freeplay fallback) it reports empty ticks.
type FakeSession struct {
	mu sync.Mutex

	// Packets are returned in order by FreshLiveDataPacket, the last one repeats.
	Packets []*game.Packet
	// PacketFunc, when set, replaces Packets. call starts at 0.
	PacketFunc func(call int) (*game.Packet, error)
	// MetadataPerPoll is added to the received metadata count on each poll.
	MetadataPerPoll int
	// Errors makes the named method fail, e.g. Errors["StartMatch"].
	Errors map[string]error
	// OnCall runs synchronously at the start of every recorded call.
	OnCall func(name string)

	calls            []string
	packetCalls      int
	witnesses        []int
	metadataReceived int
	started          bool
	loaded           []*matchconfig.MatchConfig
	stateSets        []*game.GameState
	renders          []game.RenderGroup
	cleared          []string
	showroom         []game.ShowroomRequest
	preferences      []launcher.Preference
}

func (f *FakeSession) record(name string) error {
	if f.OnCall != nil {
		f.OnCall(name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.Errors != nil {
		return f.Errors[name]
	}
	return nil
}

func (f *FakeSession) Connect(_ context.Context, pref launcher.Preference) error {
	if err := f.record("Connect"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.preferences = append(f.preferences, pref)
	return nil
}

func (f *FakeSession) LoadInterface(_ context.Context, _ game.InterfaceOptions) error {
	return f.record("LoadInterface")
}

func (f *FakeSession) LoadMatchConfig(_ context.Context, config *matchconfig.MatchConfig, _ int) error {
	if err := f.record("LoadMatchConfig"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, config)
	return nil
}

func (f *FakeSession) LaunchEarlyStartBotProcesses(_ context.Context) error {
	return f.record("LaunchEarlyStartBotProcesses")
}

func (f *FakeSession) StartMatch(_ context.Context) error {
	if err := f.record("StartMatch"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return nil
}

func (f *FakeSession) LaunchBotProcesses(_ context.Context) error {
	return f.record("LaunchBotProcesses")
}

func (f *FakeSession) TryReceiveAgentMetadata(_ context.Context) (int, error) {
	if err := f.record("TryReceiveAgentMetadata"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadataReceived += f.MetadataPerPoll
	return f.metadataReceived, nil
}

func (f *FakeSession) HasStarted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *FakeSession) ShutDown(_ context.Context, killAllProcesses bool) error {
	name := "ShutDown"
	if killAllProcesses {
		name = "ShutDown(kill)"
	}
	if err := f.record(name); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = false
	return nil
}

func (f *FakeSession) FreshLiveDataPacket(ctx context.Context, _ time.Duration, witnessId int) (*game.Packet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.witnesses = append(f.witnesses, witnessId)
	if f.Errors != nil && f.Errors["FreshLiveDataPacket"] != nil {
		return nil, f.Errors["FreshLiveDataPacket"]
	}

	if n := len(f.loaded); n > 0 && len(f.loaded[n-1].PlayerConfigs) == 0 {
		return &game.Packet{}, nil
	}

	call := f.packetCalls
	f.packetCalls++

	if f.PacketFunc != nil {
		return f.PacketFunc(call)
	}
	if len(f.Packets) == 0 {
		return &game.Packet{}, nil
	}
	if call >= len(f.Packets) {
		call = len(f.Packets) - 1
	}
	return f.Packets[call], nil
}

func (f *FakeSession) SetGameState(_ context.Context, state *game.GameState) error {
	if err := f.record("SetGameState"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateSets = append(f.stateSets, state)
	return nil
}

func (f *FakeSession) Render(_ context.Context, group game.RenderGroup) error {
	if err := f.record("Render"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders = append(f.renders, group)
	return nil
}

func (f *FakeSession) ClearScreen(_ context.Context, group string) error {
	if err := f.record("ClearScreen"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, group)
	return nil
}

func (f *FakeSession) SpawnCarForViewing(_ context.Context, request game.ShowroomRequest) error {
	if err := f.record("SpawnCarForViewing"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showroom = append(f.showroom, request)
	return nil
}

func (f *FakeSession) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeSession) LoadedConfigs() []*matchconfig.MatchConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*matchconfig.MatchConfig(nil), f.loaded...)
}

func (f *FakeSession) StateSets() []*game.GameState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*game.GameState(nil), f.stateSets...)
}

func (f *FakeSession) Renders() []game.RenderGroup {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]game.RenderGroup(nil), f.renders...)
}

func (f *FakeSession) Cleared() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cleared...)
}

func (f *FakeSession) ShowroomRequests() []game.ShowroomRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]game.ShowroomRequest(nil), f.showroom...)
}

func (f *FakeSession) Preferences() []launcher.Preference {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]launcher.Preference(nil), f.preferences...)
}

var _ game.Session = (*FakeSession)(nil)

// Witnesses returns the witness id of every packet request, in order.
func (f *FakeSession) Witnesses() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.witnesses...)
}

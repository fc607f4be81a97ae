package setup

type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateConfigLoaded
	StateEarlyBotsLaunched
	StateStarted
	StateBotsLaunched
	StateAwaitingMetadata
	StateReady
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateConnecting:        "connecting",
	StateConfigLoaded:      "config_loaded",
	StateEarlyBotsLaunched: "early_bots_launched",
	StateStarted:           "started",
	StateBotsLaunched:      "bots_launched",
	StateAwaitingMetadata:  "awaiting_metadata",
	StateReady:             "ready",
	StateFailed:            "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Settled reports whether no launch sequence is in flight.
func (s State) Settled() bool {
	return s == StateIdle || s == StateReady || s == StateFailed
}

package game

// Mode says where the authoritative copy of the match lives.
type Mode byte

const (
	ModeSinglePlayer     Mode = 0
	ModeLocalMultiplayer Mode = 1
	ModeOnlineHost       Mode = 2
	ModeOnlineClient     Mode = 3
)

var ModeDictionary = map[Mode]string{
	ModeSinglePlayer:     "single",
	ModeLocalMultiplayer: "local",
	ModeOnlineHost:       "online-host",
	ModeOnlineClient:     "online-client",
}

func (m Mode) String() string { return ModeDictionary[m] }

// Online reports whether the match is replicated through a shared room.
func (m Mode) Online() bool {
	return m == ModeOnlineHost || m == ModeOnlineClient
}

// Phase is the turn lifecycle position.
type Phase byte

const (
	PhaseSetup       Phase = 0
	PhaseTurnStart   Phase = 1
	PhaseDrawing     Phase = 2
	PhaseTossingDraw Phase = 3
	PhaseRoundEnd    Phase = 4
	PhaseMatchEnd    Phase = 5
)

var PhaseDictionary = map[Phase]string{
	PhaseSetup:       "setup",
	PhaseTurnStart:   "turnstart",
	PhaseDrawing:     "drawing",
	PhaseTossingDraw: "tossingdraw",
	PhaseRoundEnd:    "roundend",
	PhaseMatchEnd:    "matchend",
}

func (p Phase) String() string { return PhaseDictionary[p] }

// DrawSource selects which pile a draw takes from.
type DrawSource byte

const (
	DrawFromPile    DrawSource = 0
	DrawFromDiscard DrawSource = 1
)

var DrawSourceDictionary = map[DrawSource]string{
	DrawFromPile:    "pile",
	DrawFromDiscard: "discard",
}

func (d DrawSource) String() string { return DrawSourceDictionary[d] }

// ActionType enumerates the engine-facing action surface.
type ActionType byte

const (
	ActionDeclareRoundEnd ActionType = 0
	ActionTossPair        ActionType = 1
	ActionDiscard         ActionType = 2
	ActionDraw            ActionType = 3
	ActionAdvanceRound    ActionType = 4
	ActionAdvanceMatch    ActionType = 5
)

var ActionTypeDictionary = map[ActionType]string{
	ActionDeclareRoundEnd: "show",
	ActionTossPair:        "toss",
	ActionDiscard:         "discard",
	ActionDraw:            "draw",
	ActionAdvanceRound:    "advanceround",
	ActionAdvanceMatch:    "advancematch",
}

func (a ActionType) String() string { return ActionTypeDictionary[a] }

const (
	// HandSize is the number of cards dealt to each seat at round start.
	HandSize = 3

	// InvalidSeat marks "no seat".
	InvalidSeat = -1

	// HostSeat is the seat that holds write authority in online modes.
	HostSeat = 0

	MinSeats = 2
	MaxSeats = 10

	// Caller scoring penalties.
	TiePenalty     = 25
	MisCallPenalty = 50
)

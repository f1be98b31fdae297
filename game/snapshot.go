package game

import "encoding/json"

// EncodeState serializes a full snapshot for the shared room record. The
// whole state goes on the wire every time; there is no delta format.
func EncodeState(s *State) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState parses a snapshot produced by EncodeState.
func DecodeState(data []byte) (*State, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeAction serializes a single action for relay to the writer seat.
func EncodeAction(a Action) ([]byte, error) {
	return json.Marshal(a)
}

// DecodeAction parses an action produced by EncodeAction.
func DecodeAction(data []byte) (Action, error) {
	var a Action
	err := json.Unmarshal(data, &a)
	return a, err
}

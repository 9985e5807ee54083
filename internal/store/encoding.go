package store

import (
	"encoding/json"
	"fmt"

	"github.com/athleteiq/keyless/internal/model"
)

// stateVersion tags the persisted record so a future layout change can
// migrate or discard old state explicitly.
const stateVersion = 1

func encodeState(state model.AccountState) ([]byte, error) {
	state.Version = stateVersion
	return json.Marshal(state)
}

func decodeState(data []byte) (model.AccountState, error) {
	var state model.AccountState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.AccountState{}, fmt.Errorf("failed to decode account state: %w", err)
	}
	if state.Version > stateVersion {
		return model.AccountState{}, fmt.Errorf("unsupported state version: %d", state.Version)
	}
	return state, nil
}

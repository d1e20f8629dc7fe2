package skill

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mrlauy/alexa-ablecloud/config"
)

const maxDebugCommands = 20

type LocalState struct {
	State        string   `json:"state"`
	On           bool     `json:"on"`
	DebugCommand []string `json:"debugCommand,omitempty"`
}

func initLocalState(devices map[string]config.DeviceConfig) map[string]LocalState {
	localState := map[string]LocalState{}
	for name := range devices {
		localState[name] = LocalState{
			State: "unknown",
		}
	}
	return localState
}

func (s *Skill) setState(device string, on bool, payload []byte) {
	s.mu.Lock()
	old := s.state[device]
	deviceState := LocalState{
		State:        onOffValue(on),
		On:           on,
		DebugCommand: append(old.DebugCommand, fmt.Sprintf("set: % X", payload)),
	}
	if len(deviceState.DebugCommand) > maxDebugCommands {
		deviceState.DebugCommand = deviceState.DebugCommand[len(deviceState.DebugCommand)-maxDebugCommands:]
	}
	s.state[device] = deviceState
	s.mu.Unlock()

	log.Info("change state", "device", device, "old", old.State, "new", deviceState.State)

	if s.handler != nil {
		s.handler.SendMessage(fmt.Sprintf("device/%s/state", device), fmt.Sprintf(`{"state":"%s"}`, deviceState.State))
	}
}

// State returns a copy of the last known state of a device.
func (s *Skill) State(device string) (LocalState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deviceState, ok := s.state[device]
	if !ok {
		return LocalState{}, false
	}
	deviceState.DebugCommand = append([]string(nil), deviceState.DebugCommand...)
	return deviceState, true
}

func (s *Skill) StateHandler(w http.ResponseWriter, r *http.Request) {
	device := mux.Vars(r)["device"]
	deviceState, ok := s.State(device)
	if !ok {
		log.Warn("state of unknown device requested", "device", device)
		http.Error(w, "unknown device", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(deviceState)
	if err != nil {
		log.Error("failed to return state", "device", device, "error", err)
	}
}

func onOffValue(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

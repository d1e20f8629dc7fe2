package skill

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mrlauy/alexa-ablecloud/ablecloud"
	"github.com/mrlauy/alexa-ablecloud/config"
)

const defaultTimeout = 8 * time.Second

// DeviceSender relays a binary command to a device, see ablecloud.Bridge.
type DeviceSender interface {
	SendToDevice(ctx context.Context, cmd ablecloud.DeviceCommand, accessToken string, onResult ablecloud.ResultHandler, onFailure ablecloud.Failure)
}

type MessageHandler interface {
	SendMessage(topic string, message string)
}

type Skill struct {
	sender        DeviceSender
	handler       MessageHandler
	applicationId string
	lightDevice   string
	devices       map[string]config.DeviceConfig
	timeout       time.Duration

	mu    sync.Mutex
	state map[string]LocalState
}

// NewSkill wires the intent handling to a sender. handler may be nil when
// state changes are not mirrored anywhere.
func NewSkill(cfg config.SkillConfig, devices map[string]config.DeviceConfig, sender DeviceSender, handler MessageHandler) (*Skill, error) {
	if _, ok := devices[cfg.LightDevice]; !ok {
		return nil, fmt.Errorf("failed to find light device `%s` in devices", cfg.LightDevice)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Skill{
		sender:        sender,
		handler:       handler,
		applicationId: cfg.ApplicationId,
		lightDevice:   cfg.LightDevice,
		devices:       devices,
		timeout:       timeout,
		state:         initLocalState(devices),
	}, nil
}

func (s *Skill) Handler(w http.ResponseWriter, r *http.Request) {
	var event Event
	err := json.NewDecoder(r.Body).Decode(&event)
	if err != nil {
		log.Error("skill bad request", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if !s.validApplication(event) {
		log.Warn("invalid application id", "application", event.Session.Application.ApplicationID)
		http.Error(w, "invalid application id", http.StatusForbidden)
		return
	}

	response := s.handle(r.Context(), event)

	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	logResponse(response)

	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Error("failed to return response", "error", err)
	}
}

func (s *Skill) validApplication(event Event) bool {
	return s.applicationId == "" || event.Session.Application.ApplicationID == s.applicationId
}

func (s *Skill) handle(ctx context.Context, event Event) any {
	if event.Session.New {
		log.Info("session started", "request", event.Request.RequestID, "session", event.Session.SessionID)
	}

	switch event.Request.Type {
	case LaunchRequest:
		return BuildResponse(welcomeSpeech, false)
	case IntentRequest:
		return s.onIntent(ctx, event)
	case SessionEndedRequest:
		log.Info("session ended", "request", event.Request.RequestID, "session", event.Session.SessionID, "reason", event.Request.Reason)
		return EmptyResponse{}
	default:
		log.Error("failed to handle unknown request", "type", event.Request.Type, "request", event.Request.RequestID)
		return EmptyResponse{}
	}
}

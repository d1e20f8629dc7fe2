package skill

import (
	"context"
	log "log/slog"

	"github.com/mrlauy/alexa-ablecloud/ablecloud"
)

const (
	ControlLightIntent = "ControlLight"
	LightStateSlot     = "LightState"

	welcomeSpeech     = "Thanks for experiencing AbleCloud Skill Demo."
	succeedSpeech     = "Operation has succeed!"
	failedSpeech      = "Operation has failed:"
	nothingDoneSpeech = "Nothing has been done!"
	unreachable       = "device unreachable"
)

func (s *Skill) onIntent(ctx context.Context, event Event) Response {
	intent := event.Request.Intent
	log.Info("handle intent", "request", event.Request.RequestID, "intent", intent.Name)

	switch intent.Name {
	case ControlLightIntent:
		return BuildResponse(s.controlLight(ctx, intent, event.Session.User.AccessToken), false)
	default:
		log.Info("nothing to do for intent", "intent", intent.Name)
		return BuildResponse(nothingDoneSpeech, false)
	}
}

// controlLight switches the configured light. Any slot value other than "on" turns it off.
func (s *Skill) controlLight(ctx context.Context, intent Intent, accessToken string) string {
	on := intent.SlotValue(LightStateSlot) == "on"
	device := s.devices[s.lightDevice]
	command := ablecloud.DeviceCommand{
		SubDomain:   device.SubDomain,
		DeviceID:    device.DeviceId,
		MessageCode: device.MessageCode,
		Payload:     LightPayload(on),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results := make(chan ablecloud.Result, 1)
	failures := make(chan error, 1)
	s.sender.SendToDevice(ctx, command, accessToken, func(result ablecloud.Result) {
		results <- result
	}, func(err error) {
		failures <- err
	})

	select {
	case result := <-results:
		if _, failed := result.(ablecloud.ServiceError); !failed {
			s.setState(s.lightDevice, on, command.Payload)
		}
		return resultSpeech(result)
	case err := <-failures:
		log.Error("failed to control light", "device", s.lightDevice, "error", err)
		return failedSpeech + unreachable
	case <-ctx.Done():
		log.Error("failed to control light in time", "device", s.lightDevice, "timeout", s.timeout)
		return failedSpeech + unreachable
	}
}

// LightPayload is the four byte light command: 0xFF, 1 for on or 0 for off, 0xFF, 0xFF.
func LightPayload(on bool) []byte {
	var command byte
	if on {
		command = 0x01
	}
	return []byte{0xFF, command, 0xFF, 0xFF}
}

func resultSpeech(result ablecloud.Result) string {
	switch r := result.(type) {
	case ablecloud.ServiceError:
		reason := r.Message()
		if reason == "" {
			reason = r.Code()
		}
		return failedSpeech + reason
	default:
		return succeedSpeech
	}
}

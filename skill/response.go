package skill

import (
	"encoding/json"
	log "log/slog"
)

const (
	responseVersion = "1.0"
	plainText       = "PlainText"
)

type Response struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes"`
	Response          SpeechResponse `json:"response"`
}

type SpeechResponse struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type EmptyResponse struct {
}

func BuildResponse(speech string, shouldEndSession bool) Response {
	return Response{
		Version:           responseVersion,
		SessionAttributes: map[string]any{},
		Response: SpeechResponse{
			OutputSpeech: OutputSpeech{
				Type: plainText,
				Text: speech,
			},
			ShouldEndSession: shouldEndSession,
		},
	}
}

func logResponse(response any) {
	str, err := json.Marshal(response)
	if err != nil {
		log.Error("failed to log response", "error", err)
		return
	}
	log.Debug("response", "body", string(str))
}

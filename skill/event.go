package skill

/*
{
  "version": "1.0",
  "session": {
    "new": true,
    "sessionId": "amzn1.echo-api.session.0000",
    "application": {
      "applicationId": "amzn1.echo-sdk-ams.app.0000"
    },
    "user": {
      "userId": "amzn1.ask.account.0000",
      "accessToken": "token-from-account-linking"
    }
  },
  "request": {
    "type": "IntentRequest",
    "requestId": "amzn1.echo-api.request.0000",
    "timestamp": "2016-10-27T21:06:28Z",
    "locale": "en-US",
    "intent": {
      "name": "ControlLight",
      "slots": {
        "LightState": {
          "name": "LightState",
          "value": "on"
        }
      }
    }
  }
}
*/

type Event struct {
	Version string  `json:"version,omitempty"`
	Session Session `json:"session"`
	Request Request `json:"request"`
}

type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId,omitempty"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	User        User           `json:"user"`
}

type Application struct {
	ApplicationID string `json:"applicationId,omitempty"`
}

type User struct {
	UserID      string `json:"userId,omitempty"`
	AccessToken string `json:"accessToken,omitempty"` // Present once the user linked an account, passed on to the relay unchanged.
}

type RequestType string

const (
	LaunchRequest       RequestType = "LaunchRequest"
	IntentRequest       RequestType = "IntentRequest"
	SessionEndedRequest RequestType = "SessionEndedRequest"
)

type Request struct {
	Type      RequestType `json:"type"`
	RequestID string      `json:"requestId,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Locale    string      `json:"locale,omitempty"`
	Reason    string      `json:"reason,omitempty"` // SessionEndedRequest only: USER_INITIATED, ERROR or EXCEEDED_MAX_REPROMPTS.
	Intent    Intent      `json:"intent,omitempty"`
}

type Intent struct {
	Name  string          `json:"name,omitempty"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// SlotValue returns the spoken value of a slot, empty when the slot was not filled.
func (i Intent) SlotValue(name string) string {
	return i.Slots[name].Value
}

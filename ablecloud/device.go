package ablecloud

import (
	"context"
	"fmt"
	"net/url"
)

// DeviceService is the relay service that forwards binary messages to bound devices.
const DeviceService = "zc-bind"

// DeviceCommand is a binary message for one device, addressed by sub domain,
// logical device id and message code.
type DeviceCommand struct {
	SubDomain   string
	DeviceID    int64
	MessageCode int
	Payload     []byte
}

func (c DeviceCommand) method() string {
	return fmt.Sprintf("sendToDevice?subDomain=%s&deviceId=%d&messageCode=%d", url.QueryEscape(c.SubDomain), c.DeviceID, c.MessageCode)
}

type ResultHandler func(result Result)

// SendToDevice relays cmd in binary mode and hands the interpreted response to onResult.
func (b *Bridge) SendToDevice(ctx context.Context, cmd DeviceCommand, accessToken string, onResult ResultHandler, onFailure Failure) {
	request := Request{
		Service:     DeviceService,
		Method:      cmd.method(),
		Body:        cmd.Payload,
		AccessToken: accessToken,
		Binary:      true,
	}
	b.Send(ctx, request, interpret(onResult), onFailure)
}

// SendToService calls a user defined service with a JSON body.
func (b *Bridge) SendToService(ctx context.Context, service, method string, body any, accessToken string, onResult ResultHandler, onFailure Failure) {
	request := Request{
		Service:     service,
		Method:      method,
		Body:        body,
		AccessToken: accessToken,
	}
	b.Send(ctx, request, interpret(onResult), onFailure)
}

func interpret(onResult ResultHandler) Completion {
	return func(raw []byte) {
		if onResult != nil {
			onResult(Parse(raw))
		}
	}
}

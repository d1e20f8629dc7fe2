package ablecloud

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/mrlauy/alexa-ablecloud/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configForTest() config.CloudConfig {
	return config.CloudConfig{
		Host:           "test.ablecloud.cn",
		Port:           9005,
		ServiceVersion: "v1",
		MajorDomainId:  3,
		SubDomainId:    6,
		DeveloperId:    2,
		RateBurst:      1,
	}
}

func waitResult(t *testing.T, results <-chan Result, failures <-chan error) Result {
	t.Helper()
	select {
	case result := <-results:
		return result
	case err := <-failures:
		t.Fatalf("unexpected failure: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
	}
	return nil
}

func TestSendToDevice(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected Result
	}{
		{
			name:     "device acknowledged",
			response: `{"status":"ok"}`,
			expected: Success{Value: map[string]any{"status": "ok"}},
		},
		{
			name:     "device offline",
			response: `{"errorCode":"E1","error":"device offline"}`,
			expected: ServiceError{Value: map[string]any{"errorCode": "E1", "error": "device offline"}},
		},
		{
			name:     "binary reply",
			response: "\x01\xFE",
			expected: RawBytes{Value: []byte{0x01, 0xFE}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			relay := &relayMock{chunks: [][]byte{[]byte(test.response)}}
			bridge := newTestBridge(t, relay)

			results := make(chan Result, 1)
			failures := make(chan error, 1)
			command := DeviceCommand{SubDomain: "test", DeviceID: 682, MessageCode: 68, Payload: []byte{0xFF, 0x01, 0xFF, 0xFF}}
			bridge.SendToDevice(context.Background(), command, "token", func(result Result) {
				results <- result
			}, func(err error) {
				failures <- err
			})

			assert.Equal(t, test.expected, waitResult(t, results, failures))

			requests := relay.received()
			require.Len(t, requests, 1)
			assert.Equal(t, "/zc-bind/v1/sendToDevice", requests[0].path)
			assert.Equal(t, "test", requests[0].query.Get("subDomain"))
			assert.Equal(t, "682", requests[0].query.Get("deviceId"))
			assert.Equal(t, "68", requests[0].query.Get("messageCode"))
			assert.Equal(t, ContentTypeStream, requests[0].header.Get("Content-Type"))
			assert.Equal(t, "token", requests[0].header.Get(HeaderAccessToken))
			assert.Equal(t, []byte{0xFF, 0x01, 0xFF, 0xFF}, requests[0].body)
		})
	}
}

func TestDeviceCommandMethodEscapesSubDomain(t *testing.T) {
	command := DeviceCommand{SubDomain: "living room&x", DeviceID: 1, MessageCode: 2}

	assert.Equal(t, "sendToDevice?subDomain=living+room%26x&deviceId=1&messageCode=2", command.method())
}

func TestSendToService(t *testing.T) {
	relay := &relayMock{chunks: [][]byte{[]byte(`{"value":"42"}`)}}
	bridge := newTestBridge(t, relay)

	results := make(chan Result, 1)
	failures := make(chan error, 1)
	bridge.SendToService(context.Background(), "UDSServiceName", "method", map[string]string{"key": "value"}, "", func(result Result) {
		results <- result
	}, func(err error) {
		failures <- err
	})

	assert.Equal(t, Success{Value: map[string]any{"value": "42"}}, waitResult(t, results, failures))

	requests := relay.received()
	require.Len(t, requests, 1)
	assert.Equal(t, "/UDSServiceName/v1/method", requests[0].path)
	assert.Equal(t, ContentTypeObject, requests[0].header.Get("Content-Type"))
	assert.JSONEq(t, `{"key":"value"}`, string(requests[0].body))
}

func TestSendToServiceFailureSkipsResult(t *testing.T) {
	relay := &relayMock{status: http.StatusUnauthorized}
	bridge := newTestBridge(t, relay)

	failures := make(chan error, 1)
	bridge.SendToService(context.Background(), "uds", "method", nil, "expired", func(result Result) {
		t.Errorf("unexpected result %v", result)
	}, func(err error) {
		failures <- err
	})

	select {
	case err := <-failures:
		assert.ErrorContains(t, err, "service uds returned status 401")
	case <-time.After(5 * time.Second):
		t.Fatal("failure was not reported")
	}
}

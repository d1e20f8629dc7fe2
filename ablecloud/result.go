package ablecloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

const errorCodeField = "errorCode"

// Result is the interpreted response of a relay call. It is always exactly one
// of Success, ServiceError or RawBytes.
type Result interface {
	result()
}

// Success holds a decoded JSON response without an error code.
type Success struct {
	Value any
}

// ServiceError holds a decoded JSON object carrying a truthy errorCode.
type ServiceError struct {
	Value map[string]any
}

// RawBytes holds a response that is not JSON, unmodified.
type RawBytes struct {
	Value []byte
}

func (Success) result()      {}
func (ServiceError) result() {}
func (RawBytes) result()     {}

func (e ServiceError) Code() string {
	return fmt.Sprint(e.Value[errorCodeField])
}

// Message returns the human readable `error` field, empty when the service sent none.
func (e ServiceError) Message() string {
	switch msg := e.Value["error"].(type) {
	case nil:
		return ""
	case string:
		return msg
	default:
		return fmt.Sprint(msg)
	}
}

func (e ServiceError) Error() string {
	return fmt.Sprintf("service error %s: %s", e.Code(), e.Message())
}

// Parse classifies raw response bytes. It never fails: anything that is not
// a single valid UTF-8 JSON value comes back as RawBytes.
func Parse(raw []byte) Result {
	if !utf8.Valid(raw) {
		return RawBytes{Value: raw}
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return RawBytes{Value: raw}
	}
	if _, err := decoder.Token(); err != io.EOF {
		return RawBytes{Value: raw}
	}

	switch v := value.(type) {
	case nil:
		return RawBytes{Value: raw}
	case map[string]any:
		if truthy(v[errorCodeField]) {
			return ServiceError{Value: v}
		}
	}
	return Success{Value: value}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

package ablecloud

import "fmt"

// TransportError is returned when no response status was received:
// the connection failed, timed out or the request was never sent.
type TransportError struct {
	Service string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach service %s: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned for every response status other than 200.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("service %s returned status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("service %s returned status %d: %s", e.Service, e.Status, e.Body)
}

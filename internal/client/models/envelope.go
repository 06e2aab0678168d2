package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyData is returned by Envelope.Decode when the server sent no data.
var ErrEmptyData = errors.New("response has no data")

// Envelope is the body of every REST response. Successful responses carry
// Message and Data, failed ones carry Error. Status is the HTTP status code
// of the response and is not part of the wire format.
type Envelope struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Status  int             `json:"-"`
}

// Failed reports whether the server signalled an error in the body.
func (e *Envelope) Failed() bool {
	return e.Error != ""
}

// Err converts a failed envelope into an error, nil otherwise.
func (e *Envelope) Err() error {
	if !e.Failed() {
		return nil
	}
	return &ServerError{Status: e.Status, Message: e.Error}
}

// Decode unmarshals Data into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return ErrEmptyData
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// ServerError is an error reported by the server in the envelope.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

package ipc

import (
	"encoding/json"
	"fmt"
)

// Error codes carried in Error.Code.
const (
	CodeMethodNotFound = "method_not_found"
	CodeInvalidParams  = "invalid_params"
	CodeInternal       = "internal"
	CodeUnsupported    = "unsupported"
)

// Message is the single frame type on the socket. A request carries Method,
// a response carries Result or Error for the same ID, and a push event
// carries Event with no ID.
type Message struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
	Event  string          `json:"event,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (m *Message) isResponse() bool {
	return m.ID != "" && m.Method == ""
}

// Error is a failed call as seen by the caller.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// InvalidParams wraps a params decoding failure so the caller sees
// CodeInvalidParams instead of CodeInternal.
func InvalidParams(err error) error {
	return &Error{Code: CodeInvalidParams, Message: err.Error()}
}

// DecodeParams unmarshals params into v; empty params leave v untouched.
func DecodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return InvalidParams(err)
	}
	return nil
}

// Event is a server push.
type Event struct {
	Name string
	Data json.RawMessage
}

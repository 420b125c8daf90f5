package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenericMessage is shown when a failure carries no usable message.
const GenericMessage = "Error inesperado al comunicar con el servidor"

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	// Message is the server-provided text ("error" or "mensaje" field of the
	// payload); empty when the payload carried none.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error (status %d)", e.StatusCode)
}

// IsNotFound reports whether the backend answered 404.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func newError(status int, body []byte) *Error {
	var payload struct {
		Error   string `json:"error"`
		Mensaje string `json:"mensaje"`
		Message string `json:"message"`
	}
	apiErr := &Error{StatusCode: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Error, payload.Mensaje, payload.Message} {
			if strings.TrimSpace(m) != "" {
				apiErr.Message = m
				break
			}
		}
	}
	return apiErr
}

// UserMessage extracts the single user-visible message for err: the server
// message when present, otherwise GenericMessage. Client-side errors
// (validation, cancelled dialogs) carry their own text and are returned as is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return GenericMessage
	}
	var local interface {
		error
		UserFacing() bool
	}
	if errors.As(err, &local) && local.UserFacing() {
		return local.Error()
	}
	return GenericMessage
}

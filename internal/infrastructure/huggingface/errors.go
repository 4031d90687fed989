package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed model call.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindBadInput     ErrorKind = "bad_input"
	KindUnauthorized ErrorKind = "unauthorized"
	KindRateLimited  ErrorKind = "rate_limited"
	KindUnavailable  ErrorKind = "unavailable"
	KindTimeout      ErrorKind = "timeout"
	KindTransport    ErrorKind = "transport"
	KindUpstream     ErrorKind = "upstream"
	KindDecode       ErrorKind = "decode"
)

// ModelError describes a failed call to a hosted model.
type ModelError struct {
	Model   string
	Status  int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("model %s: %s (status %d): %s", e.Model, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("model %s: %s: %s", e.Model, e.Kind, e.Message)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same request may succeed later.
func (e *ModelError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindUnavailable, KindTimeout, KindTransport, KindUpstream:
		return true
	default:
		return false
	}
}

// IsNotFound reports whether err is a ModelError for an unknown model.
func IsNotFound(err error) bool {
	var me *ModelError
	return errors.As(err, &me) && me.Kind == KindNotFound
}

var badInputMarkers = []string{
	"index out of range",
	"out of range",
	"too long",
	"malformed",
	"invalid input",
	"cannot parse",
	"can't parse",
}

func statusError(model string, status int, body []byte) *ModelError {
	msg := errorMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ModelError{Model: model, Status: status, Kind: classifyStatus(status, msg), Message: msg}
}

func classifyStatus(status int, message string) ErrorKind {
	lower := strings.ToLower(message)
	for _, marker := range badInputMarkers {
		if strings.Contains(lower, marker) {
			return KindBadInput
		}
	}

	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusServiceUnavailable:
		return KindUnavailable
	case status >= http.StatusInternalServerError:
		return KindUpstream
	default:
		return KindBadInput
	}
}

func transportError(model string, err error) *ModelError {
	kind := KindTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &ModelError{Model: model, Kind: kind, Message: err.Error(), Err: err}
}

// errorMessage pulls "error" out of an inference API error body; it may be a string or a list.
func errorMessage(body []byte) string {
	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(truncate(body, 512)))
	}
	switch v := payload.Error.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	case nil:
		return strings.TrimSpace(string(truncate(body, 512)))
	default:
		return fmt.Sprint(v)
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

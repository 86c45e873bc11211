package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies client errors.
type Kind int

const (
	// KindTransport means no response was received: DNS, TLS, refused or
	// reset connections, timeouts and cancellation.
	KindTransport Kind = iota + 1
	// KindServer means the backend answered outside 200-299.
	KindServer
	// KindDecoding means the backend answered 2xx with a body that does not
	// fit the expected shape.
	KindDecoding
	// KindEncoding means the request body could not be serialized. Nothing
	// was sent.
	KindEncoding
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindDecoding:
		return "decoding"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// Error is a classified client error.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// StatusCode is the HTTP status code, 0 for transport and encoding errors.
	StatusCode int
	// Message describes the error. For server errors it is the backend's
	// own message when one was sent.
	Message string
	// Body is the raw response body, if any.
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s error (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the text a screen shows for this error.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindServer:
		return e.Message
	case KindTransport:
		return "Unable to reach Unitrack. Check your connection and try again."
	default:
		return "Received an unexpected response from Unitrack."
	}
}

// ErrorEnvelope is the optional JSON shape of a failure body.
type ErrorEnvelope struct {
	Error   *string `json:"error"`
	Message *string `json:"message"`
}

// text returns the first non-empty of error and message. A blank string is
// treated like null, so {"error":""} falls through to message or, failing
// that, to the status line rather than producing an empty message.
func (e ErrorEnvelope) text() string {
	for _, s := range []*string{e.Error, e.Message} {
		if s != nil && strings.TrimSpace(*s) != "" {
			return *s
		}
	}
	return ""
}

// NewTransportError creates a transport error.
func NewTransportError(err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: err.Error(),
		Err:     err,
	}
}

// NewServerError creates a server error for a non-2xx response, taking the
// message from the error envelope when the body carries one.
func NewServerError(statusCode int, body []byte) *Error {
	return &Error{
		Kind:       KindServer,
		StatusCode: statusCode,
		Message:    serverMessage(statusCode, body),
		Body:       body,
	}
}

// NewDecodingError creates a decoding error for a 2xx response.
func NewDecodingError(statusCode int, body []byte, err error) *Error {
	return &Error{
		Kind:       KindDecoding,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("decode response: %v", err),
		Body:       body,
		Err:        err,
	}
}

// NewEncodingError creates an encoding error for a request body.
func NewEncodingError(err error) *Error {
	return &Error{
		Kind:    KindEncoding,
		Message: fmt.Sprintf("encode body: %v", err),
		Err:     err,
	}
}

func serverMessage(statusCode int, body []byte) string {
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if msg := env.text(); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Server returned status code %d", statusCode)
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool { return kindOf(err) == KindTransport }

// IsServer checks if an error is a server error.
func IsServer(err error) bool { return kindOf(err) == KindServer }

// IsDecoding checks if an error is a decoding error.
func IsDecoding(err error) bool { return kindOf(err) == KindDecoding }

// IsEncoding checks if an error is an encoding error.
func IsEncoding(err error) bool { return kindOf(err) == KindEncoding }

// IsUnauthorized checks if an error is a server error with status 401.
func IsUnauthorized(err error) bool {
	return IsServer(err) && StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound checks if an error is a server error with status 404.
func IsNotFound(err error) bool {
	return IsServer(err) && StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// Message returns the message carried by err, or err.Error() for errors
// that did not come from this package.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

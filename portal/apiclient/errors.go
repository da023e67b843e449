package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/pkg/errors"
)

// ErrUnauthorized is returned when an authenticated call got a 401 or no session exists.
var ErrUnauthorized = errors.New("Session expired. Please log in again.")

// ValidationError is a local check that blocked a submission.
type ValidationError struct {
	Message string
}

func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// NetworkError means no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ResponseError is a 4xx/5xx answer. Body holds the decoded JSON object, if any.
type ResponseError struct {
	StatusCode int
	Body       map[string]interface{}
	Raw        []byte
}

func newResponseError(status int, raw []byte) *ResponseError {
	re := &ResponseError{StatusCode: status, Raw: raw}
	_ = json.Unmarshal(raw, &re.Body)
	return re
}

func (e *ResponseError) Error() string {
	if msg := e.Field("error"); msg != "" {
		return msg
	}
	if msg := e.Field("detail"); msg != "" {
		return msg
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Has reports whether the body carries the given key.
func (e *ResponseError) Has(key string) bool {
	_, ok := e.Body[key]
	return ok
}

// Field returns the message under key: the value itself for strings, the first item for lists.
func (e *ResponseError) Field(key string) string {
	switch v := e.Body[key].(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// Message picks the message to show: error, then detail, then non_field_errors, then the
// first field message in key order. It is empty when the body holds none.
func (e *ResponseError) Message() string {
	for _, key := range []string{"error", "detail", "non_field_errors"} {
		if msg := e.Field(key); msg != "" {
			return msg
		}
	}
	keys := make([]string, 0, len(e.Body))
	for k := range e.Body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msg := e.Field(k); msg != "" {
			return msg
		}
	}
	return ""
}

// Serialized returns the body as compact JSON, e.g. a field-errors map.
func (e *ResponseError) Serialized() string {
	if e.Body == nil {
		return string(e.Raw)
	}
	b, err := json.Marshal(e.Body)
	if err != nil {
		return string(e.Raw)
	}
	return string(b)
}

func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	ok := errors.As(err, &re)
	return re, ok
}

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

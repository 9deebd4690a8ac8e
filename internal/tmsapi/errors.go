package tmsapi

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ErrUpstream matches every *UpstreamError through errors.Is.
var ErrUpstream = errors.New("upstream error")

// ErrUnexpectedBody is returned when a 200 response is not a JSON list.
var ErrUnexpectedBody = errors.New("response body is not a JSON list")

// UpstreamError reports a non-200 answer from the API.  Body holds the
// decoded JSON document when the response was JSON and the raw bytes
// otherwise.
type UpstreamError struct {
	StatusCode int
	Body       any
}

func newUpstreamError(status int, raw []byte) *UpstreamError {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return &UpstreamError{StatusCode: status, Body: raw}
	}
	return &UpstreamError{StatusCode: status, Body: decoded}
}

func (e *UpstreamError) Error() string {
	switch b := e.Body.(type) {
	case []byte:
		return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, b)
	default:
		enc, _ := json.Marshal(b)
		return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, enc)
	}
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

package domain

import (
	"encoding/json"
	"io"
)

// FetchFailed is the envelope error the relay reports when the upstream
// could not be reached.
const FetchFailed = "fetch failed"

// RelayJSON is a relay response in JSON mode. Body is always a JSON value:
// either the upstream document or an error envelope.
type RelayJSON struct {
	Status int
	Body   json.RawMessage
}

// OK reports whether the relay answered with a 2xx status.
func (r *RelayJSON) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// TransportFailure reports whether the body is the relay's fetch-failed
// envelope and returns the underlying cause.
func (r *RelayJSON) TransportFailure() (string, bool) {
	return transportFailure(r.Status, r.Body)
}

// RelayStream is a relay response in stream mode. On success Body streams
// the media bytes and must be closed by the caller; on failure Body is nil
// and ErrorBody holds the JSON error envelope.
type RelayStream struct {
	Status        int
	ContentType   string
	ContentLength int64 // -1 when unknown
	Body          io.ReadCloser
	ErrorBody     json.RawMessage
}

// OK reports whether the relay answered with a 2xx status.
func (r *RelayStream) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// TransportFailure reports whether ErrorBody is the relay's fetch-failed
// envelope and returns the underlying cause.
func (r *RelayStream) TransportFailure() (string, bool) {
	return transportFailure(r.Status, r.ErrorBody)
}

// ErrorEnvelope is the JSON body the relay returns for every failure.
type ErrorEnvelope struct {
	Error   string  `json:"error"`
	Data    *string `json:"data,omitempty"`
	Details string  `json:"details,omitempty"`
}

func transportFailure(status int, body json.RawMessage) (string, bool) {
	if status < 500 {
		return "", false
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error != FetchFailed {
		return "", false
	}
	return env.Details, true
}

package relay

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// Local exposes a Relay in-process with the same contract as the HTTP
// proxy client, so a session can run without a server.
type Local struct {
	relay *Relay
}

// NewLocal wraps r.
func NewLocal(r *Relay) *Local {
	return &Local{relay: r}
}

// FetchJSON runs the relay in JSON mode. Transport failures are returned
// as errors wrapping domain.ErrNetworkFailure.
func (l *Local) FetchJSON(ctx context.Context, target string) (*domain.RelayJSON, error) {
	res := l.relay.Do(ctx, target, JSONMode)
	if res.Err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, res.Err)
	}
	return &domain.RelayJSON{Status: res.Status, Body: res.JSON}, nil
}

// OpenStream runs the relay in stream mode.
func (l *Local) OpenStream(ctx context.Context, target, filename string) (*domain.RelayStream, error) {
	res := l.relay.Do(ctx, target, StreamMode(filename))
	if res.Err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, res.Err)
	}
	if res.Stream == nil {
		return &domain.RelayStream{
			Status:        res.Status,
			ContentLength: -1,
			ErrorBody:     res.JSON,
		}, nil
	}

	size := int64(-1)
	if cl := res.Header.Get("Content-Length"); cl != "" {
		if parsed, err := strconv.ParseInt(cl, 10, 64); err == nil {
			size = parsed
		}
	}

	return &domain.RelayStream{
		Status:        res.Status,
		ContentType:   res.Header.Get("Content-Type"),
		ContentLength: size,
		Body:          res.Stream,
	}, nil
}

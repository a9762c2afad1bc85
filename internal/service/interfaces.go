package service

import (
	"context"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// RelayClient reaches platform APIs and media hosts through the proxy
// relay, either in-process or over HTTP. Errors are transport failures
// only; relay-level failures come back as non-2xx results.
type RelayClient interface {
	FetchJSON(ctx context.Context, target string) (*domain.RelayJSON, error)
	OpenStream(ctx context.Context, target, filename string) (*domain.RelayStream, error)
}

// Entitlement reports whether the session may resolve media.
type Entitlement interface {
	IsEntitled() bool
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/platform"
	"github.com/iconidentify/clipgrab/internal/resolver"
)

// User-facing search messages.
const (
	MsgNotEntitled   = "an active subscription is required to download videos"
	MsgInvalidInput  = "please enter a valid video URL"
	MsgVideoNotFound = "video not found, check the URL and try again"
	MsgFormatChanged = "could not process the video data, the response format may have changed"
)

var sourceURLPattern = regexp.MustCompile(`https?://\S+`)

// ExtractURL returns the first http(s) URL in free text.
func ExtractURL(input string) (string, bool) {
	u := sourceURLPattern.FindString(input)
	return u, u != ""
}

// SearchService resolves pasted links into downloadable media. It keeps no
// state between calls; see Session for the stateful wrapper.
type SearchService struct {
	registry    *platform.Registry
	relay       RelayClient
	entitlement Entitlement
	logger      *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(
	registry *platform.Registry,
	relay RelayClient,
	entitlement Entitlement,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		registry:    registry,
		relay:       relay,
		entitlement: entitlement,
		logger:      logger,
	}
}

// Detect guesses the platform of the first URL in input.
func (s *SearchService) Detect(input string) (domain.PlatformID, bool) {
	src, ok := ExtractURL(input)
	if !ok {
		return "", false
	}
	d, ok := s.registry.Detect(src)
	if !ok {
		return "", false
	}
	return d.ID, true
}

// Resolve runs one search. Every failure is a *domain.SearchError.
func (s *SearchService) Resolve(ctx context.Context, id domain.PlatformID, input string) (*domain.ResolvedMedia, error) {
	desc, err := s.registry.Get(id)
	if err != nil {
		return nil, domain.NewSearchError(domain.SearchInvalidTarget,
			fmt.Sprintf("unsupported platform %q", id), err)
	}

	if !s.entitlement.IsEntitled() {
		return nil, domain.NewSearchError(domain.SearchNotEntitled, MsgNotEntitled, domain.ErrNotEntitled)
	}

	src, ok := ExtractURL(input)
	if !ok {
		return nil, domain.NewSearchError(domain.SearchNotFound, MsgInvalidInput, domain.ErrInvalidInput)
	}

	target := desc.BuildRequestURL(src)
	s.logger.Info("resolving media", "platform", id, "source", src)

	res, err := s.relay.FetchJSON(ctx, target)
	if err != nil {
		s.logger.Warn("relay request failed", "platform", id, "error", err)
		return nil, domain.NewSearchError(domain.SearchNetworkError, "network error: "+err.Error(), err)
	}

	if cause, ok := res.TransportFailure(); ok {
		err := fmt.Errorf("%w: %s", domain.ErrNetworkFailure, cause)
		s.logger.Warn("relay could not reach upstream", "platform", id, "error", err)
		return nil, domain.NewSearchError(domain.SearchNetworkError, "network error: "+err.Error(), err)
	}

	if !res.OK() {
		msg := upstreamFailureMessage(res)
		s.logger.Info("upstream rejected request", "platform", id, "status", res.Status, "message", msg)
		return nil, domain.NewSearchError(domain.SearchNotFound, msg,
			&domain.UpstreamError{Status: res.Status, Body: string(res.Body)})
	}

	media, shapeName, err := resolver.ResolveShape(id, res.Body)
	if err != nil {
		var upstream *domain.UpstreamMessageError
		if errors.As(err, &upstream) {
			s.logger.Info("upstream reported no media", "platform", id, "message", upstream.Message)
			return nil, domain.NewSearchError(domain.SearchNotFound, upstream.Message, err)
		}
		s.logger.Warn("unrecognised upstream payload", "platform", id, "bytes", len(res.Body))
		return nil, domain.NewSearchError(domain.SearchNotFound, MsgFormatChanged,
			fmt.Errorf("%w: %w", domain.ErrUpstreamMalformed, err))
	}

	s.logger.Info("media resolved",
		"platform", id,
		"shape", shapeName,
		"entries", len(media.Downloads),
	)
	return media, nil
}

// upstreamFailureMessage picks the most specific explanation for a non-2xx
// relay answer: its error field, then msg, then a generic hint. A body that
// is not a JSON document falls back to the status code.
func upstreamFailureMessage(res *domain.RelayJSON) string {
	var payload any
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return fmt.Sprintf("request failed with status %d", res.Status)
	}
	if msg, ok := resolver.ErrorMessage(payload); ok {
		return msg
	}
	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := obj["msg"].(string); ok && msg != "" {
			return msg
		}
	}
	return MsgVideoNotFound
}

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// SearchState is the position of a session in the search lifecycle.
type SearchState string

const (
	StateIdle          SearchState = "idle"
	StateSearching     SearchState = "searching"
	StateFound         SearchState = "found"
	StateNotFoundError SearchState = "not_found_error"
	StateNetworkError  SearchState = "network_error"
)

// Session holds the single active search result of one user.
//
// Searches are not serialised: when two overlap, whichever finishes last
// decides the final state.
type Session struct {
	search *SearchService

	mu    sync.Mutex
	state SearchState
	media *domain.ResolvedMedia
	err   *domain.SearchError
}

// NewSession creates an idle session.
func NewSession(search *SearchService) *Session {
	return &Session{
		search: search,
		state:  StateIdle,
	}
}

// Search discards the previous result and resolves input for platform id.
func (s *Session) Search(ctx context.Context, id domain.PlatformID, input string) (*domain.ResolvedMedia, error) {
	s.mu.Lock()
	s.state = StateSearching
	s.media = nil
	s.err = nil
	s.mu.Unlock()

	media, err := s.search.Resolve(ctx, id, input)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		var serr *domain.SearchError
		if !errors.As(err, &serr) {
			serr = domain.NewSearchError(domain.SearchNetworkError, "network error: "+err.Error(), err)
		}
		s.media = nil
		s.err = serr
		s.state = StateNotFoundError
		if serr.Kind == domain.SearchNetworkError {
			s.state = StateNetworkError
		}
		return nil, serr
	}

	s.media = media
	s.err = nil
	s.state = StateFound
	return media, nil
}

// Dismiss clears any result or error and returns the session to idle.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.media = nil
	s.err = nil
}

// State returns the current state.
func (s *Session) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Media returns the active result, or nil.
func (s *Session) Media() *domain.ResolvedMedia {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media
}

// Err returns the active error, or nil.
func (s *Session) Err() *domain.SearchError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/iconidentify/clipgrab/internal/repository"
)

// EntitlementKey is the settings key holding the subscription flag.
const EntitlementKey = "isSubscribed"

// EntitlementService owns the local subscription flag. The flag is read
// from storage once by Load and kept in memory afterwards.
type EntitlementService struct {
	repo     repository.SettingsRepository
	logger   *slog.Logger
	entitled atomic.Bool
}

// NewEntitlementService creates a new entitlement service.
func NewEntitlementService(repo repository.SettingsRepository, logger *slog.Logger) *EntitlementService {
	return &EntitlementService{
		repo:   repo,
		logger: logger,
	}
}

// Load reads the persisted flag. A missing key means not entitled.
func (s *EntitlementService) Load(ctx context.Context) error {
	value, err := s.repo.Get(ctx, EntitlementKey)
	if errors.Is(err, repository.ErrSettingNotFound) {
		s.entitled.Store(false)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load entitlement: %w", err)
	}
	s.entitled.Store(value == "true")
	return nil
}

// IsEntitled reports the in-memory flag.
func (s *EntitlementService) IsEntitled() bool {
	return s.entitled.Load()
}

// Subscribe persists the flag as "true".
func (s *EntitlementService) Subscribe(ctx context.Context) error {
	if err := s.repo.Set(ctx, EntitlementKey, "true"); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.entitled.Store(true)
	s.logger.Info("subscription activated")
	return nil
}

// Unsubscribe removes the persisted flag.
func (s *EntitlementService) Unsubscribe(ctx context.Context) error {
	if err := s.repo.Delete(ctx, EntitlementKey); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	s.entitled.Store(false)
	s.logger.Info("subscription removed")
	return nil
}

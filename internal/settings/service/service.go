// Package service exposes the settings key/value store to the rest of the
// system: branding text and feature copy for the dashboard, plus the secrets
// other services resolve at call time.
package service

import (
	"context"

	dErrors "mangonet/pkg/domain-errors"
)

// Well-known setting keys.
const (
	KeyGatewaySecret     = "paystack_secret_key"
	KeyAdminPasswordHash = "admin_password_hash"
)

// Store is a keyed string store with last-write-wins semantics.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Get returns the value for key, "" when absent.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	value, err := s.store.Get(ctx, key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read setting")
	}
	return value, nil
}

// Set stores value under key, overwriting any previous value.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write setting")
	}
	return nil
}

// GatewaySecret resolves the payment gateway secret. An empty value means
// verification runs in degraded mode.
func (s *Service) GatewaySecret(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyGatewaySecret)
}

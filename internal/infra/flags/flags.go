// Package flags persists onboarding completion signals. Each onboarding session owns a namespace
// inside a shared Backend; Scope binds a namespace and yields the FlagStore the workflow uses.
//
// Backends are single-writer per namespace: there is no versioning, so concurrent writers to the
// same namespace are last-write-wins.
package flags

import (
	"context"
	"fmt"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/application/interfaces"
)

type Backend interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	Remove(ctx context.Context, namespace, key string) error
}

type Store struct {
	backend   Backend
	namespace string
}

var _ interfaces.FlagStore = (*Store)(nil)

func Scope(backend Backend, namespace string) *Store {
	return &Store{backend: backend, namespace: namespace}
}

func (s *Store) Namespace() string {
	return s.namespace
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.backend.Get(ctx, s.namespace, key)
	if err != nil {
		return "", false, fmt.Errorf("error reading flag %s, %w", key, err)
	}
	return value, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.backend.Set(ctx, s.namespace, key, value); err != nil {
		return fmt.Errorf("error writing flag %s, %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Remove(ctx, s.namespace, key); err != nil {
		return fmt.Errorf("error removing flag %s, %w", key, err)
	}
	return nil
}

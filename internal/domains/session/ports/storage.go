package ports

import (
	"context"
	"errors"
)

// ErrStorageUnavailable is returned by adapters that were not configured.
var ErrStorageUnavailable = errors.New("session storage not configured")

// Storage abstracts durable string-keyed persistence for session fields.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// NoopStorage is a safe default when callers do not need durable sessions.
var NoopStorage Storage = noopStorage{}

type noopStorage struct{}

func (noopStorage) Get(_ context.Context, _ string) (string, bool, error) { return "", false, nil }
func (noopStorage) Set(_ context.Context, _ string, _ string) error       { return nil }
func (noopStorage) Remove(_ context.Context, _ string) error              { return nil }

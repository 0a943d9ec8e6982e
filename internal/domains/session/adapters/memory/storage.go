package memory

import (
	"context"
	"sync"

	sessionports "github.com/Apurer/gamestore-client/internal/domains/session/ports"
)

var _ sessionports.Storage = (*Storage)(nil)

// Storage is an in-memory Storage implementation.
type Storage struct {
	entries sync.Map
}

func NewStorage() *Storage {
	return &Storage{}
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := s.entries.Load(key)
	if !ok {
		return "", false, nil
	}
	return value.(string), true, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.entries.Store(key, value)
	return nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Len returns the number of stored entries.
func (s *Storage) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

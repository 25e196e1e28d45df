package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

// KVStore is an in-process KeyValueStore. A positive maxBytes caps the total
// size of stored values.
type KVStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	size     int
	maxBytes int
	closed   bool
}

var _ ports.KeyValueStore = (*KVStore)(nil)

var errClosed = fmt.Errorf("%w: store closed", domain.ErrStorageUnavailable)

func NewKVStore(maxBytes int) *KVStore {
	return &KVStore{
		data:     make(map[string][]byte),
		maxBytes: maxBytes,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, errClosed
	}
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	newSize := s.size - len(s.data[key]) + len(value)
	if s.maxBytes > 0 && newSize > s.maxBytes {
		return domain.ErrStorageFull
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	s.size = newSize
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	s.size -= len(s.data[key])
	delete(s.data, key)
	return nil
}

// Close drops all entries. Later calls fail with ErrStorageUnavailable.
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.data = nil
	s.size = 0
	return nil
}

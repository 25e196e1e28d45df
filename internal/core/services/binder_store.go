package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

const DefaultBinderNamespace = "ballotbinders"

// Identities hashing to the same stripe share a lock.
const lockStripes = 64

// BinderStore persists, per identity, the ordered set of ballot ids the
// identity has cast. Each identity owns exactly one storage key.
type BinderStore struct {
	kv        ports.KeyValueStore
	namespace string
	now       func() time.Time

	locks [lockStripes]sync.Mutex
}

var _ ports.BinderStore = (*BinderStore)(nil)

func NewBinderStore(kv ports.KeyValueStore, namespace string) *BinderStore {
	if namespace == "" {
		namespace = DefaultBinderNamespace
	}
	return &BinderStore{
		kv:        kv,
		namespace: namespace,
		now:       time.Now,
	}
}

// For returns the storage façade scoped to identity.
func (s *BinderStore) For(identity domain.Identity) (*BallotBinderStorage, error) {
	if identity.IsZero() {
		return nil, domain.ErrIdentityMissing
	}
	key := s.namespace + ":" + identity.String()
	return &BallotBinderStorage{
		kv:       s.kv,
		key:      key,
		identity: identity,
		now:      s.now,
		mu:       s.lockFor(key),
	}, nil
}

func (s *BinderStore) AddBallotBinder(ctx context.Context, identity domain.Identity, ballotID string) error {
	b, err := s.For(identity)
	if err != nil {
		return err
	}
	return b.Add(ctx, ballotID)
}

func (s *BinderStore) GetAllBallotBinders(ctx context.Context, identity domain.Identity) ([]domain.BallotBinder, error) {
	b, err := s.For(identity)
	if err != nil {
		return nil, err
	}
	return b.All(ctx)
}

func (s *BinderStore) RemoveAllBallotBinders(ctx context.Context, identity domain.Identity) error {
	b, err := s.For(identity)
	if err != nil {
		return err
	}
	return b.RemoveAll(ctx)
}

func (s *BinderStore) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.locks[h.Sum32()%lockStripes]
}

type BallotBinderStorage struct {
	kv       ports.KeyValueStore
	key      string
	identity domain.Identity
	now      func() time.Time
	mu       *sync.Mutex
}

func (b *BallotBinderStorage) Identity() domain.Identity {
	return b.identity
}

// Add appends ballotID unless it is already recorded.
func (b *BallotBinderStorage) Add(ctx context.Context, ballotID string) error {
	ballotID = strings.TrimSpace(ballotID)
	if ballotID == "" {
		return domain.ErrInvalidBallotID
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	binders, err := b.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range binders {
		if existing.BallotID == ballotID {
			return nil
		}
	}

	binders = append(binders, domain.BallotBinder{
		BallotID:    ballotID,
		Identity:    b.identity,
		DateCreated: b.now().UTC(),
	})

	data, err := json.Marshal(binders)
	if err != nil {
		return fmt.Errorf("failed to encode ballot binders: %w", err)
	}
	if err := b.kv.Set(ctx, b.key, data); err != nil {
		return storageError("save ballot binders", err)
	}
	return nil
}

// All returns the binders in append order. A never-seen identity yields an
// empty slice.
func (b *BallotBinderStorage) All(ctx context.Context) ([]domain.BallotBinder, error) {
	return b.load(ctx)
}

func (b *BallotBinderStorage) RemoveAll(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.kv.Remove(ctx, b.key); err != nil {
		return storageError("remove ballot binders", err)
	}
	return nil
}

func (b *BallotBinderStorage) load(ctx context.Context) ([]domain.BallotBinder, error) {
	data, found, err := b.kv.Get(ctx, b.key)
	if err != nil {
		return nil, storageError("load ballot binders", err)
	}

	binders := []domain.BallotBinder{}
	if !found || len(data) == 0 {
		return binders, nil
	}
	if err := json.Unmarshal(data, &binders); err != nil {
		return nil, fmt.Errorf("failed to decode ballot binders: %w: %w", domain.ErrStorageUnavailable, err)
	}

	// entries written under another identity never surface here
	owned := binders[:0]
	for _, e := range binders {
		if e.Identity == "" || e.Identity == b.identity {
			e.Identity = b.identity
			owned = append(owned, e)
		}
	}
	return owned, nil
}

func storageError(action string, err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", action, domain.ErrStorageUnavailable, err)
}

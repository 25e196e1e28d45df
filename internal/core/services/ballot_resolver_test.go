package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

// fakeBallotSource answers lookups after a per-id delay.
type fakeBallotSource struct {
	delays   map[string]time.Duration
	failures map[string]error
	calls    atomic.Int32

	mu       sync.Mutex
	inFlight int
	peak     int
}

func (f *fakeBallotSource) GetBallotByID(ctx context.Context, ballotID string) (*domain.BallotList, error) {
	f.calls.Add(1)

	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	select {
	case <-time.After(f.delays[ballotID]):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err, ok := f.failures[ballotID]; ok {
		return nil, err
	}
	return &domain.BallotList{
		Ballots: []domain.Ballot{{BallotID: ballotID}},
	}, nil
}

func TestBallotResolver_EmptyInput(t *testing.T) {
	source := &fakeBallotSource{}
	resolver := NewBallotResolver(source, 0)

	got, err := resolver.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), source.calls.Load())
}

func TestBallotResolver_PreservesInputOrder(t *testing.T) {
	source := &fakeBallotSource{
		delays: map[string]time.Duration{
			"id1": 60 * time.Millisecond,
			"id2": 30 * time.Millisecond,
			"id3": 0,
		},
	}
	resolver := NewBallotResolver(source, 0)

	got, err := resolver.Resolve(context.Background(), []string{"id1", "id2", "id3"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "id1", got[0].Ballot().BallotID)
	assert.Equal(t, "id2", got[1].Ballot().BallotID)
	assert.Equal(t, "id3", got[2].Ballot().BallotID)
	assert.Equal(t, int32(3), source.calls.Load())
}

func TestBallotResolver_OneFailureFailsTheBatch(t *testing.T) {
	cause := errors.New("network error")
	source := &fakeBallotSource{
		failures: map[string]error{"id2": cause},
	}
	resolver := NewBallotResolver(source, 0)

	got, err := resolver.Resolve(context.Background(), []string{"id1", "id2", "id3"})
	assert.Nil(t, got)

	var fetchErr *domain.BallotFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "id2", fetchErr.BallotID)
	assert.Equal(t, 1, fetchErr.Index)
	assert.ErrorIs(t, err, cause)
}

func TestBallotResolver_FailureCancelsSlowLookups(t *testing.T) {
	source := &fakeBallotSource{
		delays:   map[string]time.Duration{"slow": 10 * time.Second},
		failures: map[string]error{"bad": domain.ErrBallotNotFound},
	}
	resolver := NewBallotResolver(source, 0)

	start := time.Now()
	_, err := resolver.Resolve(context.Background(), []string{"slow", "bad"})
	assert.Less(t, time.Since(start), 5*time.Second)

	var fetchErr *domain.BallotFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "bad", fetchErr.BallotID)
	assert.ErrorIs(t, err, domain.ErrBallotNotFound)
}

func TestBallotResolver_MalformedResponse(t *testing.T) {
	resolver := NewBallotResolver(ballotSourceFunc(func(ctx context.Context, id string) (*domain.BallotList, error) {
		return &domain.BallotList{Ballots: []domain.Ballot{{BallotID: "someone-else"}}}, nil
	}), 0)

	_, err := resolver.Resolve(context.Background(), []string{"mine"})

	var fetchErr *domain.BallotFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "mine", fetchErr.BallotID)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestBallotResolver_CallerCancellation(t *testing.T) {
	source := &fakeBallotSource{
		delays: map[string]time.Duration{"a": 10 * time.Second, "b": 10 * time.Second},
	}
	resolver := NewBallotResolver(source, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	got, err := resolver.Resolve(ctx, []string{"a", "b"})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBallotResolver_BoundsConcurrency(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	delays := map[string]time.Duration{}
	for _, id := range ids {
		delays[id] = 20 * time.Millisecond
	}
	source := &fakeBallotSource{delays: delays}
	resolver := NewBallotResolver(source, 2)

	got, err := resolver.Resolve(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, got, len(ids))
	assert.LessOrEqual(t, source.peak, 2)
}

type ballotSourceFunc func(ctx context.Context, ballotID string) (*domain.BallotList, error)

func (f ballotSourceFunc) GetBallotByID(ctx context.Context, ballotID string) (*domain.BallotList, error) {
	return f(ctx, ballotID)
}

package services

import (
	"context"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxConcurrency = 8

type ballotResolver struct {
	source         ports.BallotSource
	maxConcurrency int
}

func NewBallotResolver(source ports.BallotSource, maxConcurrency int) ports.BallotResolver {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &ballotResolver{
		source:         source,
		maxConcurrency: maxConcurrency,
	}
}

// Resolve fetches every ballot concurrently and returns them in input order.
// The first failed lookup cancels the rest and the whole batch fails.
func (r *ballotResolver) Resolve(ctx context.Context, ballotIDs []string) ([]*domain.BallotList, error) {
	if len(ballotIDs) == 0 {
		return []*domain.BallotList{}, nil
	}

	results := make([]*domain.BallotList, len(ballotIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i, id := range ballotIDs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			list, err := r.source.GetBallotByID(gctx, id)
			if err == nil {
				err = list.Validate(id)
			}
			if err != nil {
				return &domain.BallotFetchError{BallotID: id, Index: i, Err: err}
			}
			results[i] = list
			return nil
		})
	}

	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

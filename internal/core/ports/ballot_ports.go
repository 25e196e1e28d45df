package ports

import (
	"context"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

type BallotSource interface {
	GetBallotByID(ctx context.Context, ballotID string) (*domain.BallotList, error)
}

type BallotResolver interface {
	Resolve(ctx context.Context, ballotIDs []string) ([]*domain.BallotList, error)
}

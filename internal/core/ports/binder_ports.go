package ports

import (
	"context"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

type BinderStore interface {
	AddBallotBinder(ctx context.Context, identity domain.Identity, ballotID string) error
	GetAllBallotBinders(ctx context.Context, identity domain.Identity) ([]domain.BallotBinder, error)
	RemoveAllBallotBinders(ctx context.Context, identity domain.Identity) error
}

type BinderService interface {
	ListMyBallots(ctx context.Context, identity domain.Identity) ([]*domain.BallotList, error)
	RecordBallot(ctx context.Context, identity domain.Identity, ballotID string) error
	GetBallot(ctx context.Context, ballotID string) (*domain.BallotList, error)
	ForgetBallots(ctx context.Context, identity domain.Identity) error
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

type binderService struct {
	log      *slog.Logger
	binders  ports.BinderStore
	resolver ports.BallotResolver
	source   ports.BallotSource
}

func NewBinderService(log *slog.Logger, binders ports.BinderStore, resolver ports.BallotResolver, source ports.BallotSource) ports.BinderService {
	return &binderService{
		log:      log,
		binders:  binders,
		resolver: resolver,
		source:   source,
	}
}

func (s *binderService) ListMyBallots(ctx context.Context, identity domain.Identity) ([]*domain.BallotList, error) {
	if identity.IsZero() {
		return nil, domain.ErrIdentityMissing
	}

	binders, err := s.binders.GetAllBallotBinders(ctx, identity)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(binders))
	for _, b := range binders {
		ids = append(ids, b.BallotID)
	}

	lists, err := s.resolver.Resolve(ctx, ids)
	if err != nil {
		s.log.Warn("ballot batch fetch failed",
			slog.String("identity", identity.String()),
			slog.Int("ballots", len(ids)),
			slog.Any("error", err),
		)
		return nil, err
	}
	return lists, nil
}

func (s *binderService) RecordBallot(ctx context.Context, identity domain.Identity, ballotID string) error {
	if identity.IsZero() {
		return domain.ErrIdentityMissing
	}

	if err := s.binders.AddBallotBinder(ctx, identity, ballotID); err != nil {
		return err
	}

	s.log.Info("ballot recorded",
		slog.String("identity", identity.String()),
		slog.String("ballot_id", ballotID),
	)
	return nil
}

func (s *binderService) GetBallot(ctx context.Context, ballotID string) (*domain.BallotList, error) {
	ballotID = strings.TrimSpace(ballotID)
	if ballotID == "" {
		return nil, domain.ErrInvalidBallotID
	}

	list, err := s.source.GetBallotByID(ctx, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ballot: %w", err)
	}
	if err := list.Validate(ballotID); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *binderService) ForgetBallots(ctx context.Context, identity domain.Identity) error {
	if identity.IsZero() {
		return domain.ErrIdentityMissing
	}
	return s.binders.RemoveAllBallotBinders(ctx, identity)
}

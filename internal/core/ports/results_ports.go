package ports

import (
	"context"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

type ElectionSource interface {
	GetElectionResults(ctx context.Context, electionID string) (*domain.ElectionResults, error)
	GetElection(ctx context.Context, electionID string) (*domain.Election, error)
}

type ResultsService interface {
	GetElectionResults(ctx context.Context, electionID string) (*domain.ElectionResultsView, error)
}

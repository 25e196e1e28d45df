package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

const (
	DefaultOtherThreshold = 0.05
	OtherSliceName        = "Other"
)

var chartPalette = []string{
	"#6277b7", "#21b371", "#d97757", "#1c2336",
	"#fddb33", "#6A0DAD", "#1E90FF", "#32CD32",
	"#FFD700", "#FF69B4", "#20B2AA", "#BA55D3",
}

type resultsService struct {
	source    ports.ElectionSource
	threshold float64
}

func NewResultsService(source ports.ElectionSource, otherThreshold float64) ports.ResultsService {
	if otherThreshold < 0 || otherThreshold >= 1 {
		otherThreshold = DefaultOtherThreshold
	}
	return &resultsService{
		source:    source,
		threshold: otherThreshold,
	}
}

func (s *resultsService) GetElectionResults(ctx context.Context, electionID string) (*domain.ElectionResultsView, error) {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return nil, domain.ErrElectionNotFound
	}

	var (
		wg          sync.WaitGroup
		results     *domain.ElectionResults
		election    *domain.Election
		resultsErr  error
		electionErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		results, resultsErr = s.source.GetElectionResults(ctx, electionID)
	}()
	go func() {
		defer wg.Done()
		election, electionErr = s.source.GetElection(ctx, electionID)
	}()
	wg.Wait()

	if resultsErr != nil {
		return nil, fmt.Errorf("failed to get election results: %w", resultsErr)
	}
	if electionErr != nil {
		return nil, fmt.Errorf("failed to get election: %w", electionErr)
	}
	if results == nil {
		return nil, domain.ErrElectionNotFound
	}

	view := &domain.ElectionResultsView{
		ElectionID:   results.ElectionID,
		TotalBallots: results.TotalBallots,
		Raw:          results,
	}
	if election != nil {
		view.ElectionName = election.Name
	}

	for _, race := range results.Races {
		view.Races = append(view.Races, s.buildChart(race, findRace(election, race.RaceID)))
	}
	return view, nil
}

func (s *resultsService) buildChart(race domain.RaceResult, details *domain.Race) domain.RaceChart {
	var total int64
	for _, c := range race.CandidateResults {
		total += c.TotalVotes
	}

	chart := domain.RaceChart{
		RaceID:     race.RaceID,
		RaceName:   race.RaceName,
		TotalVotes: total,
		VotesLabel: votesLabel(total),
		Slices:     []domain.ResultSlice{},
	}

	for i, c := range groupSmallSlices(race.CandidateResults, s.threshold) {
		slice := domain.ResultSlice{
			CandidateID: c.CandidateID,
			Name:        c.CandidateName,
			Votes:       c.TotalVotes,
			VotesLabel:  votesLabel(c.TotalVotes),
			Color:       chartPalette[i%len(chartPalette)],
		}
		if total > 0 {
			slice.Percentage = float64(c.TotalVotes) / float64(total) * 100
		}
		if cd := findCandidate(details, c.CandidateID); cd != nil {
			slice.PartyAffiliation = cd.PartyAffiliation
		}
		chart.Slices = append(chart.Slices, slice)
	}
	return chart
}

// groupSmallSlices folds every candidate whose share of the race is below
// threshold into a single "Other" entry placed where the first small
// candidate appeared.
func groupSmallSlices(results []domain.CandidateResult, threshold float64) []domain.CandidateResult {
	var total int64
	for _, c := range results {
		total += c.TotalVotes
	}

	grouped := make([]domain.CandidateResult, 0, len(results))
	other := -1
	for _, c := range results {
		if total > 0 && float64(c.TotalVotes)/float64(total) < threshold {
			if other < 0 {
				grouped = append(grouped, domain.CandidateResult{CandidateName: OtherSliceName})
				other = len(grouped) - 1
			}
			grouped[other].TotalVotes += c.TotalVotes
			continue
		}
		grouped = append(grouped, c)
	}
	return grouped
}

func votesLabel(n int64) string {
	if n == 1 {
		return "1 Vote"
	}
	return humanize.Comma(n) + " Votes"
}

func findRace(election *domain.Election, raceID string) *domain.Race {
	if election == nil {
		return nil
	}
	for i := range election.Races {
		if election.Races[i].RaceID == raceID {
			return &election.Races[i]
		}
	}
	return nil
}

func findCandidate(race *domain.Race, candidateID string) *domain.Candidate {
	if race == nil || candidateID == "" {
		return nil
	}
	for i := range race.Candidates {
		if race.Candidates[i].CandidateID == candidateID {
			return &race.Candidates[i]
		}
	}
	return nil
}

package domain

import (
	"fmt"
	"time"
)

type Candidate struct {
	CandidateID      string `json:"CandidateId"`
	Name             string `json:"Name"`
	PartyAffiliation string `json:"PartyAffiliation"`
	Selected         bool   `json:"Selected"`
}

type Race struct {
	RaceID     string      `json:"RaceId"`
	Name       string      `json:"Name"`
	Candidates []Candidate `json:"Candidates"`
}

type Election struct {
	ElectionID string `json:"ElectionId"`
	Name       string `json:"Name"`
	Races      []Race `json:"Races"`
}

type Ballot struct {
	BallotID    string    `json:"BallotId"`
	Election    *Election `json:"Election,omitempty"`
	DateCreated time.Time `json:"DateCreated"`
}

type BallotHash struct {
	BallotHashID      string    `json:"BallotHashId"`
	BallotID          string    `json:"BallotId"`
	ServerBallotHashS string    `json:"ServerBallotHashS"`
	TimestampID       string    `json:"TimestampId,omitempty"`
	DateCreated       time.Time `json:"DateCreated"`
	DateUpdated       time.Time `json:"DateUpdated"`
}

// BallotList is the remote record for one ballot together with its hash
// receipts.
type BallotList struct {
	Ballots      []Ballot     `json:"Ballots"`
	BallotHashes []BallotHash `json:"BallotHashes"`
}

// Validate checks that the list describes the requested ballot.
func (l *BallotList) Validate(ballotID string) error {
	if l == nil || len(l.Ballots) == 0 {
		return fmt.Errorf("%w: no ballot in response", ErrMalformedResponse)
	}
	if got := l.Ballots[0].BallotID; got != ballotID {
		return fmt.Errorf("%w: expected ballot %q, got %q", ErrMalformedResponse, ballotID, got)
	}
	for _, h := range l.BallotHashes {
		if h.BallotID != "" && h.BallotID != ballotID {
			return fmt.Errorf("%w: hash %q belongs to ballot %q", ErrMalformedResponse, h.BallotHashID, h.BallotID)
		}
	}
	return nil
}

func (l *BallotList) Ballot() *Ballot {
	if l == nil || len(l.Ballots) == 0 {
		return nil
	}
	return &l.Ballots[0]
}

func (l *BallotList) Hash() *BallotHash {
	if l == nil || len(l.BallotHashes) == 0 {
		return nil
	}
	return &l.BallotHashes[0]
}

func FormatCandidateName(c Candidate) string {
	if c.PartyAffiliation == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.PartyAffiliation)
}

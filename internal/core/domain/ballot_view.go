package domain

import (
	"time"

	"github.com/dustin/go-humanize"
)

const ballotDateLayout = "January 02, 2006"

type CandidateChoice struct {
	CandidateID string `json:"candidate_id"`
	Label       string `json:"label"`
	Selected    bool   `json:"selected"`
}

type RaceChoices struct {
	RaceID     string            `json:"race_id"`
	Name       string            `json:"name"`
	Candidates []CandidateChoice `json:"candidates"`
}

type BallotView struct {
	BallotID     string        `json:"ballot_id"`
	ElectionName string        `json:"election_name"`
	Races        []RaceChoices `json:"races"`
	Hash         *BallotHash   `json:"hash,omitempty"`
	Raw          *BallotList   `json:"raw"`
}

// BallotSummary is one row of the "My Ballots" list.
type BallotSummary struct {
	BallotID string `json:"ballot_id"`
	CastOn   string `json:"cast_on"`
	CastAgo  string `json:"cast_ago"`
	Hashed   bool   `json:"hashed"`
}

func NewBallotView(list *BallotList) (*BallotView, error) {
	ballot := list.Ballot()
	if ballot == nil {
		return nil, ErrBallotNotFound
	}

	view := &BallotView{
		BallotID: ballot.BallotID,
		Hash:     list.Hash(),
		Raw:      list,
	}
	if ballot.Election == nil {
		return view, nil
	}

	view.ElectionName = ballot.Election.Name
	for _, r := range ballot.Election.Races {
		race := RaceChoices{RaceID: r.RaceID, Name: r.Name}
		for _, c := range r.Candidates {
			race.Candidates = append(race.Candidates, CandidateChoice{
				CandidateID: c.CandidateID,
				Label:       FormatCandidateName(c),
				Selected:    c.Selected,
			})
		}
		view.Races = append(view.Races, race)
	}
	return view, nil
}

func NewBallotSummary(list *BallotList, now time.Time) BallotSummary {
	ballot := list.Ballot()
	if ballot == nil {
		return BallotSummary{}
	}
	return BallotSummary{
		BallotID: ballot.BallotID,
		CastOn:   ballot.DateCreated.Format(ballotDateLayout),
		CastAgo:  humanize.RelTime(ballot.DateCreated, now, "ago", "from now"),
		Hashed:   list.Hash() != nil,
	}
}

package domain

type CandidateResult struct {
	CandidateID   string `json:"CandidateId"`
	CandidateName string `json:"CandidateName"`
	TotalVotes    int64  `json:"TotalVotes"`
}

type RaceResult struct {
	RaceID           string            `json:"RaceId"`
	RaceName         string            `json:"RaceName"`
	CandidateResults []CandidateResult `json:"CandidateResults"`
}

type ElectionResults struct {
	ElectionID   string       `json:"ElectionId"`
	TotalBallots int64        `json:"TotalBallots"`
	Races        []RaceResult `json:"Races"`
}

// ResultSlice is one chart segment of a race.
type ResultSlice struct {
	CandidateID      string  `json:"candidate_id,omitempty"`
	Name             string  `json:"name"`
	PartyAffiliation string  `json:"party_affiliation,omitempty"`
	Votes            int64   `json:"votes"`
	VotesLabel       string  `json:"votes_label"`
	Percentage       float64 `json:"percentage"`
	Color            string  `json:"color"`
}

type RaceChart struct {
	RaceID     string        `json:"race_id"`
	RaceName   string        `json:"race_name"`
	TotalVotes int64         `json:"total_votes"`
	VotesLabel string        `json:"votes_label"`
	Slices     []ResultSlice `json:"slices"`
}

type ElectionResultsView struct {
	ElectionID   string           `json:"election_id"`
	ElectionName string           `json:"election_name"`
	TotalBallots int64            `json:"total_ballots"`
	Races        []RaceChart      `json:"races"`
	Raw          *ElectionResults `json:"raw"`
}

package graphql

const ballotByIDQuery = `
query GetBallotById($BallotId: String!) {
  GetBallotById(BallotId: $BallotId) {
    Ballots {
      BallotId
      DateCreated
      Election {
        ElectionId
        Name
        Races {
          RaceId
          Name
          Candidates {
            CandidateId
            Name
            PartyAffiliation
            Selected
          }
        }
      }
    }
    BallotHashes {
      BallotHashId
      BallotId
      ServerBallotHashS
      TimestampId
      DateCreated
      DateUpdated
    }
  }
}`

const electionByIDQuery = `
query GetElectionById($ElectionId: String!) {
  GetElectionById(ElectionId: $ElectionId) {
    ElectionId
    Name
    Races {
      RaceId
      Name
      Candidates {
        CandidateId
        Name
        PartyAffiliation
      }
    }
  }
}`

const electionResultsQuery = `
query GetElectionResultsByElectionId($ElectionId: String!) {
  GetElectionResultsByElectionId(ElectionId: $ElectionId) {
    ElectionId
    TotalBallots
    Races {
      RaceId
      RaceName
      CandidateResults {
        CandidateId
        CandidateName
        TotalVotes
      }
    }
  }
}`

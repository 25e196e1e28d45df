package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

type capturedRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func newTestServer(t *testing.T, handle func(req capturedRequest) (int, string)) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req capturedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, body := handle(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("", 0)
	assert.Error(t, err)

	c, err := NewClient("http://localhost/graphql", 0)
	require.NoError(t, err)
	assert.Equal(t, "GetBallotById", c.ballotByID.name)
	assert.Equal(t, "GetElectionById", c.electionByID.name)
	assert.Equal(t, "GetElectionResultsByElectionId", c.electionResults.name)
}

func TestParseOperation_Invalid(t *testing.T) {
	_, err := parseOperation("query { unterminated")
	assert.Error(t, err)

	_, err = parseOperation("{ anonymous }")
	assert.Error(t, err)
}

func TestClient_GetBallotByID(t *testing.T) {
	c := newTestServer(t, func(req capturedRequest) (int, string) {
		assert.Equal(t, "GetBallotById", req.OperationName)
		assert.Equal(t, "b1", req.Variables["BallotId"])
		return http.StatusOK, `{"data":{"GetBallotById":{
			"Ballots":[{"BallotId":"b1","DateCreated":"2026-03-04T10:00:00Z","Election":{"Name":"City"}}],
			"BallotHashes":[{"BallotHashId":"h1","BallotId":"b1","ServerBallotHashS":"abc"}]
		}}}`
	})

	list, err := c.GetBallotByID(context.Background(), "b1")
	require.NoError(t, err)
	require.NoError(t, list.Validate("b1"))
	assert.Equal(t, "City", list.Ballot().Election.Name)
	assert.Equal(t, "abc", list.Hash().ServerBallotHashS)
}

func TestClient_GetBallotByID_NotFound(t *testing.T) {
	c := newTestServer(t, func(req capturedRequest) (int, string) {
		return http.StatusOK, `{"data":{"GetBallotById":null}}`
	})

	_, err := c.GetBallotByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrBallotNotFound)
}

func TestClient_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("graphql errors", func(t *testing.T) {
		c := newTestServer(t, func(req capturedRequest) (int, string) {
			return http.StatusOK, `{"data":null,"errors":[{"message":"boom"}]}`
		})
		_, err := c.GetBallotByID(ctx, "b1")
		assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("bad status", func(t *testing.T) {
		c := newTestServer(t, func(req capturedRequest) (int, string) {
			return http.StatusBadGateway, `oops`
		})
		_, err := c.GetElection(ctx, "e1")
		assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
		assert.NotErrorIs(t, err, domain.ErrElectionNotFound)
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestServer(t, func(req capturedRequest) (int, string) {
			return http.StatusOK, `{"data":`
		})
		_, err := c.GetElectionResults(ctx, "e1")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("wrong shape", func(t *testing.T) {
		c := newTestServer(t, func(req capturedRequest) (int, string) {
			return http.StatusOK, `{"data":{"GetElectionResultsByElectionId":"nope"}}`
		})
		_, err := c.GetElectionResults(ctx, "e1")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})
}

func TestClient_Elections(t *testing.T) {
	ctx := context.Background()
	c := newTestServer(t, func(req capturedRequest) (int, string) {
		assert.Equal(t, "e1", req.Variables["ElectionId"])
		switch req.OperationName {
		case "GetElectionById":
			return http.StatusOK, `{"data":{"GetElectionById":[{"ElectionId":"e1","Name":"City",
				"Races":[{"RaceId":"r1","Candidates":[{"CandidateId":"c1","PartyAffiliation":"Blue"}]}]}]}}`
		default:
			return http.StatusOK, `{"data":{"GetElectionResultsByElectionId":{"ElectionId":"e1","TotalBallots":3,
				"Races":[{"RaceId":"r1","CandidateResults":[{"CandidateId":"c1","CandidateName":"Ada","TotalVotes":3}]}]}}}`
		}
	})

	election, err := c.GetElection(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "City", election.Name)
	assert.Equal(t, "Blue", election.Races[0].Candidates[0].PartyAffiliation)

	results, err := c.GetElectionResults(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), results.TotalBallots)
	assert.Equal(t, int64(3), results.Races[0].CandidateResults[0].TotalVotes)
}

func TestClient_NullData(t *testing.T) {
	c := newTestServer(t, func(req capturedRequest) (int, string) {
		return http.StatusOK, `{"data":null}`
	})

	_, err := c.GetElectionResults(context.Background(), "e1")
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestClient_Unreachable(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1/graphql", time.Second)
	require.NoError(t, err)

	_, err = c.GetBallotByID(context.Background(), "b1")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestClient_ElectionNotFound(t *testing.T) {
	c := newTestServer(t, func(req capturedRequest) (int, string) {
		return http.StatusOK, `{"data":{"GetElectionById":[]}}`
	})

	_, err := c.GetElection(context.Background(), "e404")
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

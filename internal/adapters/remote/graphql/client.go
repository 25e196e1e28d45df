package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gql "github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

const DefaultTimeout = 10 * time.Second

// operation is a parsed and named query document.
type operation struct {
	name  string
	query string
}

type Client struct {
	gql gql.Client

	ballotByID      operation
	electionByID    operation
	electionResults operation
}

var (
	_ ports.BallotSource   = (*Client)(nil)
	_ ports.ElectionSource = (*Client)(nil)
)

func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("graphql endpoint is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		gql: gql.NewClient(endpoint, &http.Client{Timeout: timeout}),
	}

	var err error
	if c.ballotByID, err = parseOperation(ballotByIDQuery); err != nil {
		return nil, err
	}
	if c.electionByID, err = parseOperation(electionByIDQuery); err != nil {
		return nil, err
	}
	if c.electionResults, err = parseOperation(electionResultsQuery); err != nil {
		return nil, err
	}
	return c, nil
}

func parseOperation(query string) (operation, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: query})
	if err != nil {
		return operation{}, fmt.Errorf("invalid graphql query: %w", err)
	}
	if len(doc.Operations) != 1 || doc.Operations[0].Name == "" {
		return operation{}, errors.New("graphql query must hold exactly one named operation")
	}
	return operation{name: doc.Operations[0].Name, query: query}, nil
}

func (c *Client) GetBallotByID(ctx context.Context, ballotID string) (*domain.BallotList, error) {
	var data struct {
		GetBallotByID *domain.BallotList `json:"GetBallotById"`
	}
	if err := c.do(ctx, c.ballotByID, map[string]any{"BallotId": ballotID}, &data); err != nil {
		return nil, err
	}
	if data.GetBallotByID == nil || len(data.GetBallotByID.Ballots) == 0 {
		return nil, domain.ErrBallotNotFound
	}
	return data.GetBallotByID, nil
}

func (c *Client) GetElection(ctx context.Context, electionID string) (*domain.Election, error) {
	var data struct {
		GetElectionByID []domain.Election `json:"GetElectionById"`
	}
	if err := c.do(ctx, c.electionByID, map[string]any{"ElectionId": electionID}, &data); err != nil {
		return nil, err
	}
	if len(data.GetElectionByID) == 0 {
		return nil, domain.ErrElectionNotFound
	}
	return &data.GetElectionByID[0], nil
}

func (c *Client) GetElectionResults(ctx context.Context, electionID string) (*domain.ElectionResults, error) {
	var data struct {
		Results *domain.ElectionResults `json:"GetElectionResultsByElectionId"`
	}
	if err := c.do(ctx, c.electionResults, map[string]any{"ElectionId": electionID}, &data); err != nil {
		return nil, err
	}
	if data.Results == nil {
		return nil, domain.ErrElectionNotFound
	}
	return data.Results, nil
}

func (c *Client) do(ctx context.Context, op operation, variables map[string]any, out any) error {
	resp := &gql.Response{Data: out}
	err := c.gql.MakeRequest(ctx, &gql.Request{
		OpName:    op.name,
		Query:     op.query,
		Variables: variables,
	}, resp)

	if len(resp.Errors) > 0 {
		return fmt.Errorf("%w: %s: %w", domain.ErrRemoteUnavailable, op.name, resp.Errors)
	}
	if err != nil {
		if isDecodeError(err) {
			return fmt.Errorf("%w: %s: %w", domain.ErrMalformedResponse, op.name, err)
		}
		return fmt.Errorf("%w: failed to call %s: %w", domain.ErrRemoteUnavailable, op.name, err)
	}
	return nil
}

func isDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStorageUnavailable = errors.New("local storage unavailable")
	ErrStorageFull        = fmt.Errorf("%w: quota exceeded", ErrStorageUnavailable)
	ErrIdentityMissing    = errors.New("no signed-in identity")
	ErrInvalidBallotID    = errors.New("invalid ballot id")
	ErrBallotNotFound     = errors.New("ballot not found")
	ErrElectionNotFound   = errors.New("election not found")
	ErrMalformedResponse  = errors.New("malformed response from data source")
	ErrRemoteUnavailable  = errors.New("remote data source unavailable")
	ErrInvalidKey         = errors.New("invalid private key")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// BallotFetchError reports the lookup that aborted a batch fetch.
type BallotFetchError struct {
	BallotID string
	Index    int
	Err      error
}

func (e *BallotFetchError) Error() string {
	return fmt.Sprintf("failed to fetch ballot %q (position %d): %v", e.BallotID, e.Index, e.Err)
}

func (e *BallotFetchError) Unwrap() error {
	return e.Err
}

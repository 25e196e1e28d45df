package domain

import "time"

type BallotBinder struct {
	BallotID    string    `json:"BallotId"`
	Identity    Identity  `json:"Identity"`
	DateCreated time.Time `json:"DateCreated"`
}

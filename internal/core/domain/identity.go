package domain

import "time"

// Identity is the hex encoded x-only public key of a signed-in user.
type Identity string

func (i Identity) IsZero() bool {
	return i == ""
}

func (i Identity) String() string {
	return string(i)
}

type KeyPair struct {
	Identity Identity `json:"identity"`
	Npub     string   `json:"npub"`
}

// Session is the per-user application context created at sign-in and
// discarded at sign-out.
type Session struct {
	ID         string    `json:"session_id"`
	Identity   Identity  `json:"identity"`
	Npub       string    `json:"npub"`
	Locale     string    `json:"locale,omitempty"`
	SignedInAt time.Time `json:"signed_in_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

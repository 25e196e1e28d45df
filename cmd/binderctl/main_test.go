package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

const (
	testNpub     = "npub10elfcs4fr0l0r8af98jlmgdh9c8tcxjvz9qkw038js35mp4dma8qzvjptg"
	testIdentity = "7e7e9c42a91bfef19fa929e5fda1b72e0ebc1a4c1141673e2794234d86addf4e"
)

func TestReadIdentity_Npub(t *testing.T) {
	privateKey = ""

	id, err := readIdentity(" " + testNpub + " ")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity(testIdentity), id)
}

func TestReadIdentity_FallsBackToKey(t *testing.T) {
	privateKey = ""
	_, err := readIdentity("")
	assert.ErrorIs(t, err, domain.ErrIdentityMissing)

	privateKey = testIdentity
	t.Cleanup(func() { privateKey = "" })

	id, err := readIdentity("")
	require.NoError(t, err)
	assert.Len(t, id.String(), 64)
}

func TestReadIdentity_BadNpub(t *testing.T) {
	_, err := readIdentity("nsec1notanpub")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, []string{"BALLOT", "RECORDED"}, [][]string{
		{"b1", "2 days ago"},
		{"b2", "now"},
	})

	out := buf.String()
	assert.Contains(t, out, "BALLOT")
	assert.Contains(t, out, "b1")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "b2")
}

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNsec = "nsec1vl029mgpspedva04g90vltkh6fvh240zqtv9k0t9af8935ke9laqsnlfe5"

func (a *TestApp) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, a.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *TestApp) signIn(t *testing.T) string {
	t.Helper()

	resp := a.request(t, http.MethodPost, "/api/session", "", map[string]string{"private_key": testNsec})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token
}

func TestBinderFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := app.request(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token := app.signIn(t)

	// 1. Nothing recorded yet, no remote calls
	resp = app.request(t, http.MethodGet, "/api/ballots", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summaries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	assert.Empty(t, summaries)
	assert.Equal(t, 0, app.Remote.Calls())

	// 2. Record ballots, one twice
	for _, id := range []string{"b1", "b2", "b1"} {
		resp = app.request(t, http.MethodPost, "/api/ballots", token, map[string]string{"ballot_id": id})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var count int
	require.NoError(t, app.DB.QueryRow(`SELECT COUNT(*) FROM kv_entries`).Scan(&count))
	assert.Equal(t, 1, count)

	// 3. Resolved in recording order
	resp = app.request(t, http.MethodGet, "/api/ballots", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "b1", summaries[0]["ballot_id"])
	assert.Equal(t, "b2", summaries[1]["ballot_id"])
	assert.Equal(t, "January 02, 2026", summaries[0]["cast_on"])

	// 4. A ballot that disappeared remotely fails the whole list
	app.Remote.SetMissing("b2")
	resp = app.request(t, http.MethodGet, "/api/ballots", token, nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var failure map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&failure))
	assert.Equal(t, "b2", failure["ballot_id"])

	// 5. Sign out with clear removes the stored entry
	resp = app.request(t, http.MethodDelete, "/api/session?clear=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, app.DB.QueryRow(`SELECT COUNT(*) FROM kv_entries WHERE key LIKE 'ballotbinders:%'`).Scan(&count))
	assert.Equal(t, 0, count)

	// 6. The signed-out token is revoked
	require.NoError(t, app.DB.QueryRow(`SELECT COUNT(*) FROM kv_entries WHERE key LIKE 'revoked-sessions:%'`).Scan(&count))
	assert.Equal(t, 1, count)

	resp = app.request(t, http.MethodGet, "/api/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

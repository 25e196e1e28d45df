package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/ballotbinder/internal/app"
	"github.com/vncsmyrnk/ballotbinder/internal/config"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Remote      *fakeRemote
	App         *app.App
	DBContainer testcontainers.Container
}

func (a *TestApp) Teardown(t *testing.T) {
	a.Server.Close()
	a.Remote.Close()
	require.NoError(t, a.App.Close())
	a.DB.Close()
	require.NoError(t, a.DBContainer.Terminate(context.Background()))
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// fakeRemote answers the GraphQL operations used by the binder.
type fakeRemote struct {
	*httptest.Server

	mu      sync.Mutex
	missing map[string]bool
	calls   int
}

func newFakeRemote() *fakeRemote {
	f := &fakeRemote{missing: map[string]bool{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

func (f *fakeRemote) SetMissing(ballotID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[ballotID] = true
}

func (f *fakeRemote) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRemote) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OperationName string            `json:"operationName"`
		Variables     map[string]string `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls++
	missing := f.missing[req.Variables["BallotId"]]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case req.OperationName == "GetBallotById" && missing:
		io.WriteString(w, `{"data":{"GetBallotById":null}}`)
	case req.OperationName == "GetBallotById":
		fmt.Fprintf(w, `{"data":{"GetBallotById":{"Ballots":[{"BallotId":%q,"DateCreated":"2026-01-02T15:04:05Z"}],"BallotHashes":[]}}}`,
			req.Variables["BallotId"])
	default:
		io.WriteString(w, `{"data":null,"errors":[{"message":"unknown operation"}]}`)
	}
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	remote := newFakeRemote()

	cfg := &config.Config{
		Env:  "test",
		HTTP: config.HTTPConfig{AllowedOrigins: []string{"*"}},
		Storage: config.StorageConfig{
			Driver:    config.DriverPostgres,
			DSN:       dbURL,
			Namespace: "ballotbinders",
		},
		Remote: config.RemoteConfig{
			GraphQLURL:     remote.URL,
			Timeout:        5 * time.Second,
			MaxConcurrency: 4,
		},
		Session: config.SessionConfig{Secret: "test-secret", TTL: time.Hour},
		Results: config.ResultsConfig{OtherThreshold: 0.05},
	}

	application, err := app.New(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler())

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Remote:      remote,
		App:         application,
		DBContainer: dbContainer,
	}
}

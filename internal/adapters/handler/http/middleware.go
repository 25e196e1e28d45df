package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

type contextKey string

const SessionKey contextKey = "session"

const accessTokenCookie = "access_token"

type errorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	BallotID string `json:"ballot_id,omitempty"`
}

// WithLogging logs every request once it completes.
func WithLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// RequireSession rejects requests without a valid session token and stores
// the authenticated session in the request context.
func RequireSession(sessions ports.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessions.Authenticate(r.Context(), tokenFromRequest(r))
			if err != nil {
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.Session)
	return session, ok && session != nil
}

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	}

	var fetchErr *domain.BallotFetchError
	if errors.As(err, &fetchErr) {
		resp.BallotID = fetchErr.BallotID
	}
	writeJSON(w, status, resp)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   http.StatusText(http.StatusBadRequest),
		Message: message,
	})
}

func statusFor(err error) int {
	var fetchErr *domain.BallotFetchError
	switch {
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrIdentityMissing), errors.Is(err, domain.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidKey), errors.Is(err, domain.ErrInvalidBallotID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBallotNotFound), errors.Is(err, domain.ErrElectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageFull):
		return http.StatusInsufficientStorage
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

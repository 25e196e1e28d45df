package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

const (
	DefaultSessionTTL = 24 * time.Hour

	revokedSessionPrefix = "revoked-sessions:"
)

type SessionConfig struct {
	Secret []byte
	TTL    time.Duration
}

type sessionClaims struct {
	Npub   string `json:"npub"`
	Locale string `json:"locale,omitempty"`
	jwt.RegisteredClaims
}

type SessionService struct {
	log     *slog.Logger
	keys    ports.IdentityResolver
	binders ports.BinderStore
	revoked ports.KeyValueStore
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

var _ ports.SessionService = (*SessionService)(nil)

// NewSessionService builds the session service. Signed-out session ids are
// recorded in revoked until their token would have expired; a nil revoked
// store leaves tokens valid until expiry.
func NewSessionService(log *slog.Logger, keys ports.IdentityResolver, binders ports.BinderStore, revoked ports.KeyValueStore, cfg SessionConfig) (*SessionService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		log:     log,
		keys:    keys,
		binders: binders,
		revoked: revoked,
		secret:  cfg.Secret,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

func (s *SessionService) SignIn(ctx context.Context, input ports.SignInInput) (*domain.Session, string, error) {
	pair, err := s.keys.Resolve(strings.TrimSpace(input.PrivateKey))
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve identity: %w", err)
	}

	now := s.now().UTC().Truncate(time.Second)
	session := &domain.Session{
		ID:         uuid.NewString(),
		Identity:   pair.Identity,
		Npub:       pair.Npub,
		Locale:     input.Locale,
		SignedInAt: now,
		ExpiresAt:  now.Add(s.ttl),
	}

	token, err := s.sign(session)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.log.Info("signed in", slog.String("identity", pair.Identity.String()), slog.String("session_id", session.ID))
	return session, token, nil
}

func (s *SessionService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrIdentityMissing
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidSession)
	}
	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:       claims.ID,
		Identity: domain.Identity(claims.Subject),
		Npub:     claims.Npub,
		Locale:   claims.Locale,
	}
	if claims.IssuedAt != nil {
		session.SignedInAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return session, nil
}

// SignOut ends the session and revokes its token. With clearBallots the
// identity's binder entries are removed from local storage as well.
func (s *SessionService) SignOut(ctx context.Context, session *domain.Session, clearBallots bool) error {
	if session == nil || session.Identity.IsZero() {
		return domain.ErrIdentityMissing
	}

	if clearBallots {
		if err := s.binders.RemoveAllBallotBinders(ctx, session.Identity); err != nil {
			return err
		}
	}
	if err := s.revoke(ctx, session); err != nil {
		return err
	}

	s.log.Info("signed out",
		slog.String("identity", session.Identity.String()),
		slog.String("session_id", session.ID),
		slog.Bool("cleared_ballots", clearBallots),
	)
	return nil
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func (s *SessionService) sign(session *domain.Session) (string, error) {
	claims := sessionClaims{
		Npub:   session.Npub,
		Locale: session.Locale,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.Identity.String(),
			IssuedAt:  jwt.NewNumericDate(session.SignedInAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SessionService) revoke(ctx context.Context, session *domain.Session) error {
	if s.revoked == nil || session.ID == "" {
		return nil
	}

	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.ttl)
	}
	value := []byte(expiresAt.UTC().Format(time.RFC3339))
	if err := s.revoked.Set(ctx, revokedSessionPrefix+session.ID, value); err != nil {
		return storageError("revoke session", err)
	}
	return nil
}

func (s *SessionService) checkRevoked(ctx context.Context, sessionID string) error {
	if s.revoked == nil {
		return nil
	}
	if sessionID == "" {
		return fmt.Errorf("%w: missing session id", domain.ErrInvalidSession)
	}

	key := revokedSessionPrefix + sessionID
	value, found, err := s.revoked.Get(ctx, key)
	if err != nil {
		return storageError("check session", err)
	}
	if !found {
		return nil
	}

	// entries past the token's own expiry are no longer needed
	if expiresAt, err := time.Parse(time.RFC3339, string(value)); err == nil && s.now().After(expiresAt) {
		if err := s.revoked.Remove(ctx, key); err != nil {
			s.log.Warn("failed to prune revoked session", slog.String("session_id", sessionID), slog.Any("error", err))
		}
	}
	return fmt.Errorf("%w: signed out", domain.ErrInvalidSession)
}

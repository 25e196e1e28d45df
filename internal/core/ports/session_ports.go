package ports

import (
	"context"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
)

type IdentityResolver interface {
	Resolve(privateKey string) (domain.KeyPair, error)
}

type SignInInput struct {
	PrivateKey string
	Locale     string
}

type SessionService interface {
	SignIn(ctx context.Context, input SignInInput) (*domain.Session, string, error) // returns session, signed token, error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	SignOut(ctx context.Context, session *domain.Session, clearBallots bool) error
}

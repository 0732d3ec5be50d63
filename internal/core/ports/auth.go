package ports

import (
	"context"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// AuthBackend is the remote authority that issues credentials and resolves
// them to profiles.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (domain.TokenGrant, error)
	Register(ctx context.Context, input domain.RegisterInput) error
	// Profile returns the identity the token authorises. A rejected token
	// yields an error matching domain.ErrUnauthenticated.
	Profile(ctx context.Context, token string) (domain.Identity, error)
}

// CredentialStore persists the single opaque credential token.
type CredentialStore interface {
	// Token returns domain.ErrNoCredential when nothing is stored.
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, grant domain.TokenGrant) error
	Clear(ctx context.Context) error
}

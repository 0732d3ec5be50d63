package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// CredentialKey is the well-known key of the persisted operator token.
const CredentialKey = "dashboard:auth_token"

// CredentialStore implements ports.CredentialStore. The token expires with
// the grant, so a stale credential is never offered to the backend.
type CredentialStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewCredentialStore(client redis.UniversalClient) *CredentialStore {
	return &CredentialStore{client: client, now: time.Now}
}

func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, CredentialKey).Result()
	if errors.Is(err, redis.Nil) || (err == nil && token == "") {
		return "", domain.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	return token, nil
}

func (s *CredentialStore) Save(ctx context.Context, grant domain.TokenGrant) error {
	if err := s.client.Set(ctx, CredentialKey, grant.Token, s.ttl(grant)).Err(); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, CredentialKey).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// ttl prefers the grant's expiresIn and falls back to the exp claim when the
// token happens to be a JWT. Zero means no expiry.
func (s *CredentialStore) ttl(grant domain.TokenGrant) time.Duration {
	if grant.ExpiresIn > 0 {
		return time.Duration(grant.ExpiresIn) * time.Second
	}
	return TokenLifetime(grant.Token, s.now())
}

// TokenLifetime returns how long a JWT has left before its exp claim, without
// verifying the signature. Opaque tokens and tokens without exp yield zero.
func TokenLifetime(token string, now time.Time) time.Duration {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	left := claims.ExpiresAt.Sub(now)
	if left <= 0 {
		// Already expired; keep it just long enough for the backend to reject it.
		return time.Second
	}
	return left
}

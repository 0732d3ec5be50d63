// Package memstore keeps the credential and submission keys in process
// memory. It is used when CREDENTIAL_STORE=memory and in tests; nothing
// survives a restart.
package memstore

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

const credentialKey = "credential"

// CredentialStore implements ports.CredentialStore. A grant without
// expiresIn is kept until cleared.
type CredentialStore struct {
	cache *ttlcache.Cache[string, string]
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{cache: ttlcache.New[string, string](
		ttlcache.WithDisableTouchOnHit[string, string](),
	)}
}

func (s *CredentialStore) Token(context.Context) (string, error) {
	item := s.cache.Get(credentialKey)
	if item == nil || item.Value() == "" {
		return "", domain.ErrNoCredential
	}
	return item.Value(), nil
}

func (s *CredentialStore) Save(_ context.Context, grant domain.TokenGrant) error {
	ttl := ttlcache.NoTTL
	if grant.ExpiresIn > 0 {
		ttl = time.Duration(grant.ExpiresIn) * time.Second
	}
	s.cache.Set(credentialKey, grant.Token, ttl)
	return nil
}

func (s *CredentialStore) Clear(context.Context) error {
	s.cache.Delete(credentialKey)
	return nil
}

// SubmissionGuard implements ports.SubmissionGuard.
type SubmissionGuard struct {
	ttl   time.Duration
	cache *ttlcache.Cache[string, struct{}]
}

func NewSubmissionGuard(ttl time.Duration) *SubmissionGuard {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SubmissionGuard{ttl: ttl, cache: ttlcache.New[string, struct{}](
		ttlcache.WithTTL[string, struct{}](ttl),
		ttlcache.WithDisableTouchOnHit[string, struct{}](),
	)}
}

// Claim records key until the TTL passes. A key that is still held is a
// duplicate submission.
func (g *SubmissionGuard) Claim(_ context.Context, key string) error {
	if _, found := g.cache.GetOrSet(key, struct{}{}); found {
		return domain.ErrDuplicateSubmission
	}
	return nil
}

func (g *SubmissionGuard) Release(_ context.Context, key string) error {
	g.cache.Delete(key)
	return nil
}

// Run evicts expired keys once per TTL until ctx is done. Expired keys are
// never reported as held, so Run only bounds memory.
func (g *SubmissionGuard) Run(ctx context.Context) {
	ticker := time.NewTicker(g.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.cache.DeleteExpired()
		}
	}
}

// Evicted is the number of keys removed by expiry or Release.
func (g *SubmissionGuard) Evicted() uint64 { return g.cache.Metrics().Evictions }

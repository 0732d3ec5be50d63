// Package session owns the operator's authenticated identity and the
// credential that backs it.
//
// A Session starts loading with no identity. Initialize resolves a persisted
// credential; Login, Register and Logout move it between states. Every
// transition replaces the whole State under one lock, so readers never see a
// half-updated identity/loading pair. Mutating operations are not queued: a
// second call made while one is in flight races, and the last write wins.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/ports"
)

// State is what every screen reads before deciding what to render.
type State struct {
	Identity domain.Identity
	Loading  bool
}

// Authenticated reports whether an identity is present.
func (s State) Authenticated() bool { return s.Identity != nil }

// Session is the single process-wide Gate. Create it with New and pass it to
// the screens that need it.
type Session struct {
	auth  ports.AuthBackend
	store ports.CredentialStore
	log   zerolog.Logger

	mu        sync.RWMutex
	state     State
	token     string
	listeners []func(State)

	// notifyMu keeps listener delivery in commit order.
	notifyMu sync.Mutex
}

// New returns a Session in its initial loading state.
func New(auth ports.AuthBackend, store ports.CredentialStore, log zerolog.Logger) *Session {
	return &Session{
		auth:  auth,
		store: store,
		log:   log.With().Str("component", "session").Logger(),
		state: State{Loading: true},
	}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Credential returns the token backing the current identity.
func (s *Session) Credential() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Identity == nil || s.token == "" {
		return "", domain.ErrUnauthenticated
	}
	return s.token, nil
}

// Subscribe registers fn to receive every committed state, in commit order.
// fn runs synchronously and must not call Login, Register, Logout or
// Initialize.
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Initialize resolves the persisted credential, if any, into an identity.
// Without a credential no backend call is made. Any failure discards the
// credential and leaves the session without an identity.
func (s *Session) Initialize(ctx context.Context) State {
	token, err := s.store.Token(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoCredential) {
			s.log.Warn().Err(err).Msg("credential store unreadable, starting signed out")
		}
		return s.commit(State{}, "")
	}

	identity, err := s.auth.Profile(ctx, token)
	if err != nil {
		s.log.Info().Err(err).Msg("stored credential rejected, discarding")
		s.discard(ctx)
		return s.commit(State{}, "")
	}

	s.log.Info().Str("user_id", identity.Base().ID).Str("role", string(identity.Role())).Msg("session restored")
	return s.commit(State{Identity: identity}, token)
}

// Login exchanges credentials for a token, resolves the profile and persists
// the token. On success it returns the route to navigate to. On failure the
// session has no identity, any previously stored credential is cleared and
// the original error is returned unchanged.
func (s *Session) Login(ctx context.Context, email, password string) (domain.Route, error) {
	s.beginLoading()

	grant, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.fail(ctx)
		return "", err
	}

	identity, err := s.auth.Profile(ctx, grant.Token)
	if err != nil {
		s.fail(ctx)
		return "", err
	}

	if err := s.store.Save(ctx, grant); err != nil {
		s.fail(ctx)
		return "", fmt.Errorf("persist credential: %w", err)
	}

	s.log.Info().Str("user_id", identity.Base().ID).Str("role", string(identity.Role())).Msg("logged in")
	s.commit(State{Identity: identity}, grant.Token)
	return domain.RouteDashboard, nil
}

// Register submits a registration and, when it is accepted, logs in with the
// same credentials. Registration alone never establishes a session.
func (s *Session) Register(ctx context.Context, input domain.RegisterInput) (domain.Route, error) {
	s.beginLoading()

	if err := s.auth.Register(ctx, input); err != nil {
		s.fail(ctx)
		return "", err
	}

	s.log.Info().Str("email", input.Email).Msg("registered")
	return s.Login(ctx, input.Email, input.Password)
}

// Logout forgets the identity and the credential. It never fails and may be
// called any number of times.
func (s *Session) Logout(ctx context.Context) domain.Route {
	s.discard(ctx)
	s.commit(State{}, "")
	return domain.RouteLogin
}

// Invalidate is called when the backend rejects the current credential. It
// behaves like Logout but is logged as an expiry.
func (s *Session) Invalidate(ctx context.Context) domain.Route {
	s.log.Info().Msg("credential rejected by backend, signing out")
	return s.Logout(ctx)
}

func (s *Session) discard(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored credential")
	}
}

// fail leaves the session with no identity and no stored credential.
func (s *Session) fail(ctx context.Context) {
	s.discard(ctx)
	s.commit(State{}, "")
}

func (s *Session) beginLoading() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	next := State{Identity: s.state.Identity, Loading: true}
	s.state = next
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, next)
}

func (s *Session) commit(next State, token string) State {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = next
	s.token = token
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, next)
	return next
}

func notify(listeners []func(State), st State) {
	for _, fn := range listeners {
		fn(st)
	}
}

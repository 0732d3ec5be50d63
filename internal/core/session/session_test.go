package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/infrastructure/memstore"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAuth struct {
	loginFn    func(ctx context.Context, email, password string) (domain.TokenGrant, error)
	registerFn func(ctx context.Context, input domain.RegisterInput) error
	profileFn  func(ctx context.Context, token string) (domain.Identity, error)

	profileCalls int
}

func (a *stubAuth) Login(ctx context.Context, email, password string) (domain.TokenGrant, error) {
	return a.loginFn(ctx, email, password)
}

func (a *stubAuth) Register(ctx context.Context, input domain.RegisterInput) error {
	return a.registerFn(ctx, input)
}

func (a *stubAuth) Profile(ctx context.Context, token string) (domain.Identity, error) {
	a.profileCalls++
	return a.profileFn(ctx, token)
}

type stubStore struct {
	token   string
	saveErr error
	clears  int
}

func (s *stubStore) Token(context.Context) (string, error) {
	if s.token == "" {
		return "", domain.ErrNoCredential
	}
	return s.token, nil
}

func (s *stubStore) Save(_ context.Context, grant domain.TokenGrant) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = grant.Token
	return nil
}

func (s *stubStore) Clear(context.Context) error {
	s.clears++
	s.token = ""
	return nil
}

var (
	technician = domain.Technician{Profile: domain.Profile{ID: "tech-1", FullName: "Budi", Email: "budi@example.com"}}
	admin      = domain.Admin{Profile: domain.Profile{ID: "admin-1", Email: "a@b.com"}}
)

func unauthorized() error {
	return &domain.BackendError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "token expired"}
}

func newSession(auth *stubAuth, store *stubStore) *Session {
	return New(auth, store, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Initialize
// ---------------------------------------------------------------------------

func TestSession_StartsLoading(t *testing.T) {
	s := newSession(&stubAuth{}, &stubStore{})

	st := s.State()
	if !st.Loading || st.Authenticated() {
		t.Fatalf("expected loading without identity, got %+v", st)
	}
}

func TestSession_Initialize_NoCredential(t *testing.T) {
	auth := &stubAuth{profileFn: func(context.Context, string) (domain.Identity, error) {
		t.Fatalf("profile must not be fetched without a credential")
		return nil, nil
	}}
	s := newSession(auth, &stubStore{})

	st := s.Initialize(context.Background())
	if st.Loading || st.Authenticated() {
		t.Fatalf("expected {none, false}, got %+v", st)
	}
	if auth.profileCalls != 0 {
		t.Fatalf("expected no network call, got %d", auth.profileCalls)
	}
}

func TestSession_Initialize_ValidCredential(t *testing.T) {
	auth := &stubAuth{profileFn: func(_ context.Context, token string) (domain.Identity, error) {
		if token != "tok-1" {
			t.Fatalf("unexpected token %q", token)
		}
		return technician, nil
	}}
	s := newSession(auth, &stubStore{token: "tok-1"})

	st := s.Initialize(context.Background())
	if st.Loading || st.Identity == nil || st.Identity.Role() != domain.RoleTechnician {
		t.Fatalf("expected technician identity, got %+v", st)
	}
	if tok, err := s.Credential(); err != nil || tok != "tok-1" {
		t.Fatalf("expected credential tok-1, got %q, %v", tok, err)
	}
}

func TestSession_Initialize_FailureDiscardsCredential(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"expired token", unauthorized()},
		{"network error", errors.New("dial tcp: connection refused")},
		{"malformed profile", domain.ErrMalformedProfile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{token: "stale"}
			auth := &stubAuth{profileFn: func(context.Context, string) (domain.Identity, error) { return nil, tc.err }}
			s := newSession(auth, store)

			st := s.Initialize(context.Background())
			if st.Loading || st.Authenticated() {
				t.Fatalf("expected {none, false}, got %+v", st)
			}
			if store.token != "" || store.clears != 1 {
				t.Fatalf("expected credential discarded once, token=%q clears=%d", store.token, store.clears)
			}
			if auth.profileCalls != 1 {
				t.Fatalf("expected a single profile fetch, got %d", auth.profileCalls)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestSession_Login_Success(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{
		loginFn: func(_ context.Context, email, password string) (domain.TokenGrant, error) {
			return domain.TokenGrant{Token: "tok-2", TokenType: "Bearer", ExpiresIn: 3600}, nil
		},
		profileFn: func(_ context.Context, token string) (domain.Identity, error) {
			if token != "tok-2" {
				t.Fatalf("profile fetched with %q", token)
			}
			return admin, nil
		},
	}
	s := newSession(auth, store)
	s.Initialize(context.Background())

	var seen []State
	s.Subscribe(func(st State) { seen = append(seen, st) })

	route, err := s.Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if route != domain.RouteDashboard {
		t.Errorf("expected %s, got %s", domain.RouteDashboard, route)
	}
	if store.token != "tok-2" {
		t.Errorf("expected token persisted, got %q", store.token)
	}

	st := s.State()
	if st.Loading || st.Identity.Role() != domain.RoleAdmin {
		t.Fatalf("unexpected state %+v", st)
	}
	if len(seen) != 2 || !seen[0].Loading || seen[1].Loading {
		t.Fatalf("expected loading then loaded transitions, got %+v", seen)
	}
}

func TestSession_Login_WrongPassword(t *testing.T) {
	store := &stubStore{}
	loginErr := &domain.BackendError{Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	auth := &stubAuth{
		loginFn: func(context.Context, string, string) (domain.TokenGrant, error) {
			return domain.TokenGrant{}, loginErr
		},
		profileFn: func(context.Context, string) (domain.Identity, error) {
			t.Fatalf("profile must not be fetched after a rejected login")
			return nil, nil
		},
	}
	s := newSession(auth, store)
	s.Initialize(context.Background())

	_, err := s.Login(context.Background(), "a@b.com", "wrong")
	if !errors.Is(err, loginErr) {
		t.Fatalf("expected original error, got %v", err)
	}

	st := s.State()
	if st.Loading || st.Authenticated() {
		t.Fatalf("expected {none, false}, got %+v", st)
	}
	if store.token != "" {
		t.Fatalf("token must not be persisted, got %q", store.token)
	}
	if _, err := s.Credential(); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSession_Login_ProfileFailure(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{
		loginFn: func(context.Context, string, string) (domain.TokenGrant, error) {
			return domain.TokenGrant{Token: "tok-3"}, nil
		},
		profileFn: func(context.Context, string) (domain.Identity, error) {
			return nil, domain.ErrMalformedProfile
		},
	}
	s := newSession(auth, store)

	if _, err := s.Login(context.Background(), "a@b.com", "secret"); !errors.Is(err, domain.ErrMalformedProfile) {
		t.Fatalf("expected ErrMalformedProfile, got %v", err)
	}
	if store.token != "" {
		t.Fatalf("token must not be persisted, got %q", store.token)
	}
	if s.State().Authenticated() || s.State().Loading {
		t.Fatalf("unexpected state %+v", s.State())
	}
}

func TestSession_Login_StoreFailure(t *testing.T) {
	store := &stubStore{saveErr: errors.New("redis down")}
	auth := &stubAuth{
		loginFn: func(context.Context, string, string) (domain.TokenGrant, error) {
			return domain.TokenGrant{Token: "tok-4"}, nil
		},
		profileFn: func(context.Context, string) (domain.Identity, error) { return admin, nil },
	}
	s := newSession(auth, store)

	if _, err := s.Login(context.Background(), "a@b.com", "secret"); err == nil {
		t.Fatal("expected error when the credential cannot be persisted")
	}
	if s.State().Authenticated() {
		t.Fatalf("unexpected identity %+v", s.State().Identity)
	}
}

func TestSession_Login_FailedReloginClearsStoredCredential(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{
		loginFn: func(_ context.Context, _, password string) (domain.TokenGrant, error) {
			if password != "good" {
				return domain.TokenGrant{}, &domain.BackendError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
			}
			return domain.TokenGrant{Token: "tok-A"}, nil
		},
		profileFn: func(context.Context, string) (domain.Identity, error) { return admin, nil },
	}
	s := newSession(auth, store)

	if _, err := s.Login(context.Background(), "a@b.com", "good"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, err := s.Login(context.Background(), "a@b.com", "wrong"); err == nil {
		t.Fatal("expected second login to fail")
	}
	if s.State().Authenticated() {
		t.Fatalf("expected no identity, got %+v", s.State())
	}
	if store.token != "" {
		t.Fatalf("stored credential outlived the identity: %q", store.token)
	}

	restarted := newSession(auth, store)
	if st := restarted.Initialize(context.Background()); st.Authenticated() {
		t.Fatalf("restart must not restore the replaced identity, got %+v", st)
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestSession_Register_LogsInWithSameCredentials(t *testing.T) {
	store := &stubStore{}
	var loginEmail, loginPassword string
	auth := &stubAuth{
		registerFn: func(context.Context, domain.RegisterInput) error { return nil },
		loginFn: func(_ context.Context, email, password string) (domain.TokenGrant, error) {
			loginEmail, loginPassword = email, password
			return domain.TokenGrant{Token: "tok-5"}, nil
		},
		profileFn: func(context.Context, string) (domain.Identity, error) {
			return domain.User{Profile: domain.Profile{ID: "user-1", Email: "new@example.com"}}, nil
		},
	}
	s := newSession(auth, store)

	route, err := s.Register(context.Background(), domain.RegisterInput{
		FullName: "New User", Email: "new@example.com", Password: "pw123456", PhoneNumber: "+62811",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if route != domain.RouteDashboard {
		t.Errorf("unexpected route %s", route)
	}
	if loginEmail != "new@example.com" || loginPassword != "pw123456" {
		t.Errorf("login called with %q/%q", loginEmail, loginPassword)
	}
	if s.State().Identity.Role() != domain.RoleUser {
		t.Errorf("expected USER identity, got %+v", s.State().Identity)
	}
}

func TestSession_Register_Failure(t *testing.T) {
	regErr := &domain.BackendError{Status: http.StatusConflict, Code: "EMAIL_TAKEN", Message: "Email already registered"}
	auth := &stubAuth{
		registerFn: func(context.Context, domain.RegisterInput) error { return regErr },
		loginFn: func(context.Context, string, string) (domain.TokenGrant, error) {
			t.Fatalf("login must not run after a failed registration")
			return domain.TokenGrant{}, nil
		},
	}
	s := newSession(auth, &stubStore{})

	_, err := s.Register(context.Background(), domain.RegisterInput{Email: "dup@example.com"})
	if err == nil || err.Error() != "Email already registered" {
		t.Fatalf("expected server error message, got %v", err)
	}
	if st := s.State(); st.Loading || st.Authenticated() {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestSession_Register_FailureWhileSignedIn(t *testing.T) {
	store := &stubStore{token: "tok-8"}
	auth := &stubAuth{
		profileFn: func(context.Context, string) (domain.Identity, error) { return admin, nil },
		registerFn: func(context.Context, domain.RegisterInput) error {
			return &domain.BackendError{Status: http.StatusConflict, Message: "Email already registered"}
		},
	}
	s := newSession(auth, store)
	s.Initialize(context.Background())

	if _, err := s.Register(context.Background(), domain.RegisterInput{Email: "dup@example.com"}); err == nil {
		t.Fatal("expected error")
	}
	if s.State().Authenticated() || store.token != "" {
		t.Fatalf("expected identity and credential gone, state=%+v token=%q", s.State(), store.token)
	}
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func TestSession_Logout_Idempotent(t *testing.T) {
	store := &stubStore{token: "tok-6"}
	auth := &stubAuth{profileFn: func(context.Context, string) (domain.Identity, error) { return technician, nil }}
	s := newSession(auth, store)
	s.Initialize(context.Background())

	if s.State().Identity.Role() != domain.RoleTechnician {
		t.Fatalf("expected technician before logout")
	}

	for i := 0; i < 2; i++ {
		route := s.Logout(context.Background())
		if route != domain.RouteLogin {
			t.Fatalf("call %d: expected %s, got %s", i, domain.RouteLogin, route)
		}
		st := s.State()
		if st.Loading || st.Authenticated() {
			t.Fatalf("call %d: expected {none, false}, got %+v", i, st)
		}
		if store.token != "" {
			t.Fatalf("call %d: credential not cleared", i)
		}
	}
}

func TestSession_Invalidate(t *testing.T) {
	store := &stubStore{token: "tok-7"}
	auth := &stubAuth{profileFn: func(context.Context, string) (domain.Identity, error) { return admin, nil }}
	s := newSession(auth, store)
	s.Initialize(context.Background())

	if route := s.Invalidate(context.Background()); route != domain.RouteLogin {
		t.Fatalf("unexpected route %s", route)
	}
	if store.token != "" || s.State().Authenticated() {
		t.Fatal("expected credential and identity discarded")
	}
}

// ---------------------------------------------------------------------------
// Listeners
// ---------------------------------------------------------------------------

// concurrentAuth holds no mutable state, so it is safe to share between
// goroutines. A password of "bad" is rejected.
type concurrentAuth struct{}

func (concurrentAuth) Login(_ context.Context, _, password string) (domain.TokenGrant, error) {
	if password == "bad" {
		return domain.TokenGrant{}, unauthorized()
	}
	return domain.TokenGrant{Token: "tok-" + password}, nil
}

func (concurrentAuth) Register(context.Context, domain.RegisterInput) error { return nil }

func (concurrentAuth) Profile(context.Context, string) (domain.Identity, error) { return admin, nil }

func TestSession_ListenersSeeCommitOrder(t *testing.T) {
	s := New(concurrentAuth{}, memstore.NewCredentialStore(), zerolog.Nop())

	var (
		mu   sync.Mutex
		last State
	)
	s.Subscribe(func(st State) {
		mu.Lock()
		last = st
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				_, _ = s.Login(context.Background(), "a@b.com", "ok")
			case 1:
				_, _ = s.Login(context.Background(), "a@b.com", "bad")
			default:
				s.Logout(context.Background())
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	final := s.State()
	if last.Loading != final.Loading || last.Authenticated() != final.Authenticated() {
		t.Fatalf("last delivered %+v, session holds %+v", last, final)
	}
}

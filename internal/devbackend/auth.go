package devbackend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

var errBadToken = errors.New("invalid or expired token")

// claims is the JWT payload issued at login.
type claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Auth registers accounts and issues HS256 tokens for them.
type Auth struct {
	store    *Store
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuth(store *Store, secret string, tokenTTL time.Duration) *Auth {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Auth{store: store, secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// Seed adds an account of any role. Registration through the API only ever
// creates USER accounts.
func (a *Auth) Seed(role domain.Role, input domain.RegisterInput) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return a.store.addAccount(&account{
		Role:         role,
		FullName:     input.FullName,
		Email:        strings.TrimSpace(input.Email),
		PhoneNumber:  input.PhoneNumber,
		Address:      input.Address,
		PasswordHash: string(hash),
	})
}

func (a *Auth) Register(input domain.RegisterInput) error {
	return a.Seed(domain.RoleUser, input)
}

func (a *Auth) Login(email, password string) (domain.TokenGrant, error) {
	if email == "" || password == "" {
		return domain.TokenGrant{}, domain.ErrInvalidCredentials
	}
	acc, ok := a.store.accountByEmail(email)
	if !ok {
		return domain.TokenGrant{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return domain.TokenGrant{}, domain.ErrInvalidCredentials
	}

	token, err := a.generateToken(acc)
	if err != nil {
		return domain.TokenGrant{}, err
	}
	return domain.TokenGrant{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(a.tokenTTL / time.Second),
	}, nil
}

// Verify resolves a token to its account.
func (a *Auth) Verify(token string) (*account, error) {
	c := &claims{}
	tkn, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !tkn.Valid {
		return nil, errBadToken
	}

	acc, ok := a.store.accountByID(c.Subject)
	if !ok || acc.Role != c.Role {
		return nil, errBadToken
	}
	return acc, nil
}

func (a *Auth) generateToken(acc *account) (string, error) {
	now := a.now()
	c := claims{
		Role: acc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(a.secret)
}

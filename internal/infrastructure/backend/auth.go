package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// AuthClient implements ports.AuthBackend.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthClient) Login(ctx context.Context, email, password string) (domain.TokenGrant, error) {
	var grant domain.TokenGrant
	err := a.c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &grant)
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) && (be.Status == http.StatusUnauthorized || be.Status == http.StatusBadRequest) {
			return domain.TokenGrant{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return domain.TokenGrant{}, err
	}
	if grant.Token == "" {
		return domain.TokenGrant{}, errors.New("login response carries no token")
	}
	return grant, nil
}

func (a *AuthClient) Register(ctx context.Context, input domain.RegisterInput) error {
	return a.c.do(ctx, http.MethodPost, "/auth/register/user", "", input, nil)
}

// Profile resolves token to an identity. The profile body is a flat object
// whose role field selects the identity variant.
func (a *AuthClient) Profile(ctx context.Context, token string) (domain.Identity, error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, http.MethodGet, "/profile", token, nil, &raw); err != nil {
		return nil, err
	}
	return DecodeIdentity(raw)
}

// DecodeIdentity turns profile JSON into the identity variant named by its
// role. Unknown roles and profiles without an id are rejected.
func DecodeIdentity(raw []byte) (domain.Identity, error) {
	var head struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedProfile, err)
	}

	var (
		identity domain.Identity
		err      error
	)
	switch domain.Role(strings.ToUpper(head.Role)) {
	case domain.RoleAdmin:
		var v domain.Admin
		err = json.Unmarshal(raw, &v)
		identity = v
	case domain.RoleTechnician:
		var v domain.Technician
		err = json.Unmarshal(raw, &v)
		identity = v
	case domain.RoleUser:
		var v domain.User
		err = json.Unmarshal(raw, &v)
		identity = v
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrMalformedProfile, head.Role)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedProfile, err)
	}
	if identity.Base().ID == "" {
		return nil, fmt.Errorf("%w: missing id", domain.ErrMalformedProfile)
	}
	return identity, nil
}

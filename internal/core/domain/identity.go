package domain

import "encoding/json"

// Role is the discriminator of an Identity.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleUser       Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleUser:
		return true
	}
	return false
}

// Fallback is the route a role is sent to when it visits a screen it may not see.
func (r Role) Fallback() Route {
	if r == RoleAdmin {
		return RouteAdminPaymentMethods
	}
	return RouteActivePaymentMethods
}

// Profile holds the attributes every identity carries.
type Profile struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Identity is an authenticated profile plus its role tag. The concrete type
// is one of Admin, Technician or User; the role never changes for a value.
type Identity interface {
	Role() Role
	Base() Profile
}

type Admin struct {
	Profile
}

func (Admin) Role() Role      { return RoleAdmin }
func (a Admin) Base() Profile { return a.Profile }

// MarshalJSON emits the profile flat, with its role tag.
func (a Admin) MarshalJSON() ([]byte, error) {
	type plain Admin
	return json.Marshal(struct {
		Role Role `json:"role"`
		plain
	}{RoleAdmin, plain(a)})
}

type Technician struct {
	Profile
	Experience         *int    `json:"experience,omitempty"`
	Address            *string `json:"address,omitempty"`
	TotalJobsCompleted int     `json:"totalJobsCompleted"`
	TotalEarnings      float64 `json:"totalEarnings"`
	ProfilePhoto       string  `json:"profilePhoto"`
}

func (Technician) Role() Role      { return RoleTechnician }
func (t Technician) Base() Profile { return t.Profile }

func (t Technician) MarshalJSON() ([]byte, error) {
	type plain Technician
	return json.Marshal(struct {
		Role Role `json:"role"`
		plain
	}{RoleTechnician, plain(t)})
}

type User struct {
	Profile
	Address      *string `json:"address,omitempty"`
	ProfilePhoto string  `json:"profilePhoto"`
}

func (User) Role() Role      { return RoleUser }
func (u User) Base() Profile { return u.Profile }

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return json.Marshal(struct {
		Role Role `json:"role"`
		plain
	}{RoleUser, plain(u)})
}

// RegisterInput carries the fields submitted by the registration form.
type RegisterInput struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// TokenGrant is what the auth backend returns for valid credentials.
type TokenGrant struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

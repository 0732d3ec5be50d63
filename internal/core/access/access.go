// Package access decides, before any protected content is produced, whether
// a screen may be shown to the current session.
package access

import (
	"strings"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
	"github.com/perbaikiinaja/dashboard/internal/core/session"
)

// RoleSet is the set of roles a screen admits.
type RoleSet map[domain.Role]struct{}

// Roles builds a RoleSet.
func Roles(roles ...domain.Role) RoleSet {
	rs := make(RoleSet, len(roles))
	for _, r := range roles {
		rs[r] = struct{}{}
	}
	return rs
}

// AnyRole admits every authenticated identity.
var AnyRole = Roles(domain.RoleAdmin, domain.RoleTechnician, domain.RoleUser)

// Permits reports whether id holds one of the roles in the set.
func (rs RoleSet) Permits(id domain.Identity) bool {
	if id == nil {
		return false
	}
	_, ok := rs[id.Role()]
	return ok
}

// Screen is a protected dashboard surface.
type Screen struct {
	Name    string
	Path    string
	Allowed RoleSet
}

var (
	Home              = Screen{Name: "home", Path: "/dashboard", Allowed: AnyRole}
	ActiveMethods     = Screen{Name: "payment_methods_active", Path: "/dashboard/payment-methods/active", Allowed: AnyRole}
	MethodDetail      = Screen{Name: "payment_method_detail", Path: "/dashboard/payment-methods/:id", Allowed: AnyRole}
	Profile           = Screen{Name: "profile", Path: "/dashboard/profile", Allowed: AnyRole}
	AdminMethods      = Screen{Name: "admin_payment_methods", Path: "/dashboard/admin/payment-methods", Allowed: Roles(domain.RoleAdmin)}
	AdminMethodDetail = Screen{Name: "admin_payment_method", Path: "/dashboard/admin/payment-methods/:id", Allowed: Roles(domain.RoleAdmin)}
	AdminStatistics   = Screen{Name: "admin_statistics", Path: "/dashboard/admin/statistics", Allowed: Roles(domain.RoleAdmin)}
)

// Screens is the catalogue in navigation order.
var Screens = []Screen{Home, ActiveMethods, MethodDetail, AdminMethods, AdminMethodDetail, AdminStatistics, Profile}

// Visible returns the catalogue screens id may open. Screens addressed by an
// id parameter are left out since they are reached from a listing.
func Visible(id domain.Identity) []Screen {
	out := make([]Screen, 0, len(Screens))
	for _, s := range Screens {
		if strings.Contains(s.Path, ":") || !s.Allowed.Permits(id) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Outcome is what a screen does with a Decision.
type Outcome int

const (
	// Wait renders a neutral waiting state; no authorization decision is taken.
	Wait Outcome = iota
	Allow
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the answer for one screen visit. Location is set for Redirect.
type Decision struct {
	Outcome  Outcome
	Location domain.Route
}

// Authorize decides a visit to screen given the session state.
func Authorize(st session.State, screen Screen) Decision {
	if st.Loading {
		return Decision{Outcome: Wait}
	}
	if st.Identity == nil {
		return Decision{Outcome: Redirect, Location: domain.RouteLogin}
	}
	if !screen.Allowed.Permits(st.Identity) {
		return Decision{Outcome: Redirect, Location: st.Identity.Role().Fallback()}
	}
	return Decision{Outcome: Allow}
}

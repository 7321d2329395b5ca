// Package guard decides what a role-gated view may do with the current
// session. The decision is a pure function of the session snapshot and the
// required role, so it is trivially testable and never racy.
package guard

import (
	"gas-delivery-api/models"
	"gas-delivery-api/session"
)

// Client-visible routes.
const (
	RouteSplash     = "/splash"
	RouteOnboarding = "/onboarding"
	RouteLogin      = "/login"
	RouteSignup     = "/signup"

	RouteCustomerHome    = "/customer/home"
	RouteCustomerOrder   = "/customer/order"
	RouteCustomerTrack   = "/customer/track"
	RouteCustomerProfile = "/customer/profile"

	RouteDriverDashboard = "/driver/dashboard"
	RouteDriverOrders    = "/driver/orders"
	RouteDriverEarnings  = "/driver/earnings"
	RouteDriverProfile   = "/driver/profile"
)

// Outcome is what the view should do.
type Outcome string

const (
	// Render shows the requested content.
	Render Outcome = "render"
	// Placeholder blocks with a loading view: the session is still
	// resolving and no protected content may leak, nor may we redirect yet.
	Placeholder Outcome = "placeholder"
	// Redirect sends the user to Decision.RedirectTo.
	Redirect Outcome = "redirect"
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// RoleHome returns the landing route for a role. Unknown roles land on login.
func RoleHome(role models.UserRole) string {
	switch role {
	case models.RoleCustomer:
		return RouteCustomerHome
	case models.RoleDriver:
		return RouteDriverDashboard
	default:
		return RouteLogin
	}
}

// Decide gates one navigation. requiredRole == "" means any authenticated
// user may enter.
func Decide(snap session.Snapshot, requiredRole models.UserRole) Decision {
	switch snap.Phase {
	case session.PhaseUninitialized, session.PhaseLoading:
		return Decision{Outcome: Placeholder}
	case session.PhaseAnonymous:
		return Decision{Outcome: Redirect, RedirectTo: RouteLogin}
	case session.PhaseAuthenticated:
		if requiredRole == "" || snap.Role == requiredRole {
			return Decision{Outcome: Render}
		}
		// Role mismatch: send the user to their own home, never the
		// requested page.
		return Decision{Outcome: Redirect, RedirectTo: RoleHome(snap.Role)}
	default:
		return Decision{Outcome: Redirect, RedirectTo: RouteLogin}
	}
}

package auth

import (
	"context"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
)

type Route string

const (
	RouteLogin     Route = "/login"
	RouteDashboard Route = "/dashboard"
	RouteHomepage  Route = "/homepage-management"
	RouteProducts  Route = "/product-management"
	RouteOrders    Route = "/order-management"
	RouteRoot      Route = "/"
)

// Routes lists the navigation entries shown to admins.
var Routes = []Route{RouteDashboard, RouteHomepage, RouteProducts, RouteOrders}

// Guard returns the route to render for a request to r. Everything except
// the login page needs an admin session.
func (s *Session) Guard(r Route) Route {
	if r == RouteLogin {
		return r
	}
	if !s.IsAdmin() {
		return RouteLogin
	}
	if r == RouteRoot {
		return RouteDashboard
	}
	return r
}

// Require fails unless the session in ctx may open route r.
func Require(ctx context.Context, r Route) error {
	s := FromContext(ctx)
	if s == nil {
		return apperr.UnauthorizedErr("Please log in as admin")
	}
	if r != RouteLogin && s.Guard(r) == RouteLogin {
		if err := s.RequireAdmin(); err != nil {
			return err
		}
		return apperr.UnauthorizedErr("Please log in as admin")
	}
	return nil
}

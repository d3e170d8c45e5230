package cli

import "context"

type Route string

const (
	RouteHome     Route = "/"
	RouteLogin    Route = "/login"
	RouteRegister Route = "/register"
	RouteLogout   Route = "/logout"
)

// navigate switches to r and runs its view. The home route is gated and
// falls through to /login when there is no session.
func (a *App) navigate(ctx context.Context, r Route) error {
	a.route = r
	a.logger.Debug(ctx, "navigate", "route", string(r))

	switch r {
	case RouteLogin:
		return a.loginView(ctx)
	case RouteRegister:
		return a.registerView(ctx)
	case RouteLogout:
		if err := a.auth.Logout(ctx); err != nil {
			a.println(describe(err, "Logout failed"))
			return err
		}
		a.println("Logged out.")
		return a.navigate(ctx, RouteLogin)
	default:
		return a.protected(ctx, a.listView)
	}
}

// protected runs fn with the current session in its context, or sends the
// user to /login when there is none.
func (a *App) protected(ctx context.Context, fn func(ctx context.Context) error) error {
	sctx, ok := a.gate.Enter(ctx)
	if !ok {
		a.println("Please log in first.")
		return a.navigate(ctx, RouteLogin)
	}
	a.route = RouteHome
	return fn(sctx)
}

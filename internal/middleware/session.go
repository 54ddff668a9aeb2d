package middleware

import (
	"context"
	"net/http"
	"net/url"

	"unistay/internal/common"
	"unistay/internal/services"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// SignInPath is where unauthenticated requests to guarded paths are sent.
const SignInPath = "/signin"

// SessionGate guards a path prefix behind a valid session token. A request
// without one is redirected to the sign-in page with the original path in
// the callbackUrl query parameter; a valid token passes through with the
// subject and role placed in the request context. Pure per-request decision,
// no state shared across requests.
func SessionGate(authSvc services.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ,cookie:session",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := authSvc.ValidateSession(auth)
			if err != nil {
				return nil, err
			}

			ctx := context.WithValue(c.Request().Context(), common.SubjectKey, claims.Subject)
			ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			target := SignInPath + "?callbackUrl=" + url.QueryEscape(c.Request().URL.Path)
			return c.Redirect(http.StatusFound, target)
		},
	})
}

// RequireSession is the same check for API routes where a 401 is wanted
// instead of a redirect.
func RequireSession(authSvc services.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ,cookie:session",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := authSvc.ValidateSession(auth)
			if err != nil {
				return nil, err
			}

			ctx := context.WithValue(c.Request().Context(), common.SubjectKey, claims.Subject)
			ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid session")
		},
	})
}

package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/user"
	sessionsvc "github.com/trezcool/schoolconnect/services/session"
)

// sessionCookieMiddleware lets the session cookie stand in for a missing Authorization header.
func sessionCookieMiddleware(cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if req.Header.Get(echo.HeaderAuthorization) == "" {
				if cookie, err := req.Cookie(cookieName); err == nil && cookie.Value != "" {
					req.Header.Set(echo.HeaderAuthorization, authScheme+" "+cookie.Value)
				}
			}
			return next(ctx)
		}
	}
}

// contextUserMiddleware rejects revoked sessions and loads the authenticated User into the context.
// It must run after the JWT middleware.
func contextUserMiddleware(sessions sessionsvc.Store, svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			revoked, err := sessions.IsRevoked(ctx.Request().Context(), claims.Id)
			if err != nil {
				return errors.Wrap(err, "checking session")
			}
			if revoked {
				return errNotAuthenticated
			}

			id, err := claims.UserID()
			if err != nil {
				return errNotAuthenticated
			}
			usr, err := svc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errNotAuthenticated
				}
				return errors.Wrap(err, "finding user by ID")
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// staffMiddleware only lets teachers and admins through.
func staffMiddleware(forbidden error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if !usr.IsStaff() {
				return forbidden
			}
			return next(ctx)
		}
	}
}

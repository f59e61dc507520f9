package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/user"
	sessionsvc "github.com/trezcool/schoolconnect/services/session"
)

var (
	errInvalidCredentials = echo.NewHTTPError(http.StatusUnauthorized, user.ErrInvalidCredentials.Error())
	errEmailExists        = echo.NewHTTPError(http.StatusBadRequest, user.ErrEmailExists.Error())
	errForbiddenProfile   = forbidden("not authorized to update this profile")
)

type userApi struct {
	conf     *core.Config
	svc      *user.Service
	sessions sessionsvc.Store
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := userApi{
		conf:     opts.Conf,
		svc:      opts.UserSvc,
		sessions: opts.Sessions,
		validate: opts.Validate,
	}

	// un-authed endpoints
	g.POST("/auth/login", api.login)
	g.POST("/auth/register", api.register)
	g.POST("/auth/logout", api.logout)

	// authed endpoints
	g.GET("/user", api.me, authed...)
	g.PUT("/users/:id", api.update, authed...)
	g.PUT("/users/:id/password", api.changePassword, authed...)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return errInvalidCredentials
		}
		return errors.Wrap(err, "authenticating")
	}
	return api.respondWithSession(ctx, http.StatusOK, usr)
}

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := bind(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok && vErr.Err == user.ErrEmailExists {
			return errEmailExists
		}
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == user.ErrEmailExists { // lost a registration race
			return errEmailExists
		}
		return errors.Wrap(err, "registering user")
	}
	return api.respondWithSession(ctx, http.StatusCreated, usr)
}

func (api *userApi) respondWithSession(ctx echo.Context, code int, usr user.User) error {
	token, err := startSession(ctx, usr, api.conf)
	if err != nil {
		return errors.Wrap(err, "starting session")
	}
	return ctx.JSON(code, AuthResponse{User: usr, Token: token})
}

// logout revokes the presented session, if any, until it expires.
func (api *userApi) logout(ctx echo.Context) error {
	if token := bearerToken(ctx); token != "" {
		if claims, err := parseToken(token, api.conf.SecretKey); err == nil {
			if err = api.sessions.Revoke(ctx.Request().Context(), claims.Id, claims.ExpiresAtTime()); err != nil {
				return errors.Wrap(err, "revoking session")
			}
		}
	}
	endSession(ctx, api.conf)
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	usr, err := api.ownProfile(ctx)
	if err != nil {
		return err
	}

	var data user.UpdateUser
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(ctx.Request().Context(), usr, api.validate, api.svc); err != nil {
		return err
	}

	usr, err = api.svc.Update(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, ProfileResponse{Message: "Profile updated successfully", User: usr})
}

func (api *userApi) changePassword(ctx echo.Context) error {
	usr, err := api.ownProfile(ctx)
	if err != nil {
		return err
	}

	var data user.ChangePassword
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(usr, api.validate); err != nil {
		return err
	}
	if err = api.svc.ChangePassword(ctx.Request().Context(), usr, data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// ownProfile returns the context user if they are the one targeted by the :id param.
func (api *userApi) ownProfile(ctx echo.Context) (user.User, error) {
	id, err := paramID(ctx)
	if err != nil {
		return user.User{}, err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return user.User{}, err
	}
	if usr.ID != id {
		return user.User{}, errForbiddenProfile
	}
	return usr, nil
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	// AuthResponse is the authenticated user along with their session token.
	AuthResponse struct {
		user.User
		Token string `json:"token"`
	}

	ProfileResponse struct {
		Message string    `json:"message"`
		User    user.User `json:"user"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.WrapValidationErrors(validate.Struct(lr), "Email and password are required")
}

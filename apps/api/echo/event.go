package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/event"
)

var (
	errForbiddenEvents      = forbidden("not authorized to access these events")
	errForbiddenEventCreate = forbidden("not authorized to create events")
)

type eventApi struct {
	svc      *event.Service
	validate *validator.Validate
}

func registerEventAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := eventApi{svc: opts.EventSvc, validate: opts.Validate}

	eg := g.Group("/events", authed...)
	eg.GET("", api.query)
	eg.POST("", api.create, staffMiddleware(errForbiddenEventCreate))
}

// Handlers

// query lists the events addressed to the audience of the role param, which defaults to the user's role.
func (api *eventApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	userID, err := queryUserID(ctx, "userId")
	if err != nil {
		return err
	}
	if userID != usr.ID {
		return errForbiddenEvents
	}

	role := ctx.QueryParam("role")
	if role == "" {
		role = usr.Role
	}
	events, err := api.svc.ForAudience(ctx.Request().Context(), event.AudienceOf(role))
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data event.NewEvent
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, e)
}

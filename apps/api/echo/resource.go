package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/resource"
)

var (
	errForbiddenResources      = forbidden("not authorized to access these resources")
	errForbiddenResourceCreate = forbidden("not authorized to add resources")
	errForbiddenResolve        = forbidden("not authorized to resolve resource requests")
	errAlreadyResolved         = echo.NewHTTPError(http.StatusConflict, resource.ErrAlreadyResolved.Error())
)

type resourceApi struct {
	svc      *resource.Service
	validate *validator.Validate
}

func registerResourceAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := resourceApi{svc: opts.ResourceSvc, validate: opts.Validate}

	rg := g.Group("/resources", authed...)
	rg.GET("", api.query)
	rg.POST("", api.create, staffMiddleware(errForbiddenResourceCreate))
	rg.POST("/request", api.request)
	rg.GET("/requests", api.queryRequests)
	rg.PUT("/requests/:id", api.resolve, staffMiddleware(errForbiddenResolve))
}

// Handlers

func (api *resourceApi) query(ctx echo.Context) error {
	userID, err := queryUserID(ctx, "userId")
	if err != nil {
		return err
	}
	if err = checkSelfOrAdmin(ctx, userID, errForbiddenResources); err != nil {
		return err
	}
	resources, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api *resourceApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data resource.NewResource
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Add(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding resource")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *resourceApi) request(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data resource.NewRequest
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	req, err := api.svc.Request(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "requesting resource")
	}
	return ctx.JSON(http.StatusCreated, req)
}

// queryRequests lists every request for staff, and their own requests for everyone else.
func (api *resourceApi) queryRequests(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	userID := usr.ID
	if usr.IsStaff() {
		userID = 0
	}
	requests, err := api.svc.Requests(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying resource requests")
	}
	return ctx.JSON(http.StatusOK, requests)
}

func (api *resourceApi) resolve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	req, err := api.svc.GetRequest(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == resource.ErrRequestNotFound {
			return notFound(resource.ErrRequestNotFound)
		}
		return errors.Wrap(err, "finding resource request by ID")
	}

	var data resource.Resolution
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	req, err = api.svc.Resolve(ctx.Request().Context(), req, usr.ID, data)
	if err != nil {
		if errors.Cause(err) == resource.ErrAlreadyResolved {
			return errAlreadyResolved
		}
		return errors.Wrap(err, "resolving resource request")
	}
	return ctx.JSON(http.StatusOK, req)
}

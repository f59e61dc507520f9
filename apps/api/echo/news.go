package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/news"
	"github.com/trezcool/schoolconnect/services/realtime"
)

var (
	errForbiddenNewsCreate = forbidden("not authorized to create announcements")
	errForbiddenNewsUpdate = forbidden("not authorized to update this announcement")
	errForbiddenNewsDelete = forbidden("not authorized to delete this announcement")
)

type newsApi struct {
	svc      *news.Service
	hub      *realtime.Hub
	validate *validator.Validate
}

func registerNewsAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := newsApi{svc: opts.NewsSvc, hub: opts.Hub, validate: opts.Validate}

	// un-authed endpoints
	g.GET("/news", api.query)
	g.GET("/news/recent", api.queryRecent)

	// authed endpoints
	g.POST("/news", api.create, authed...)
	g.PUT("/news/:id", api.update, authed...)
	g.DELETE("/news/:id", api.destroy, authed...)
}

// Handlers

func (api *newsApi) query(ctx echo.Context) error {
	items, err := api.svc.List(ctx.Request().Context(), ctx.QueryParam("category"))
	if err != nil {
		return errors.Wrap(err, "querying news")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *newsApi) queryRecent(ctx echo.Context) error {
	items, err := api.svc.Recent(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying recent announcements")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *newsApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data news.NewItem
	if err = bind(ctx, &data); err != nil {
		return err
	}
	// incomplete announcements are a 400 even for non-staff
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	if !usr.IsStaff() {
		return errForbiddenNewsCreate
	}

	item, err := api.svc.Publish(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "publishing announcement")
	}
	api.hub.Publish(realtime.NotificationFrame("New "+item.Category, item.Title))
	return ctx.JSON(http.StatusCreated, item)
}

func (api *newsApi) update(ctx echo.Context) error {
	item, err := api.editableItem(ctx, errForbiddenNewsUpdate)
	if err != nil {
		return err
	}

	var data news.UpdateItem
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	item, err = api.svc.Update(ctx.Request().Context(), item, data)
	if err != nil {
		return errors.Wrap(err, "updating announcement")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *newsApi) destroy(ctx echo.Context) error {
	item, err := api.editableItem(ctx, errForbiddenNewsDelete)
	if err != nil {
		return err
	}
	if item, err = api.svc.Delete(ctx.Request().Context(), item.ID); err != nil {
		if errors.Cause(err) == news.ErrNotFound {
			return notFound(news.ErrNotFound)
		}
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.JSON(http.StatusOK, NewsDeletedResponse{Message: "Announcement deleted successfully", Announcement: item})
}

func (api *newsApi) editableItem(ctx echo.Context, denied error) (news.Item, error) {
	usr, err := getContextUser(ctx)
	if err != nil {
		return news.Item{}, err
	}
	id, err := paramID(ctx)
	if err != nil {
		return news.Item{}, err
	}

	item, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == news.ErrNotFound {
			return news.Item{}, notFound(news.ErrNotFound)
		}
		return news.Item{}, errors.Wrap(err, "finding announcement by ID")
	}
	if !api.svc.CanEdit(usr, item) {
		return news.Item{}, denied
	}
	return item, nil
}

type NewsDeletedResponse struct {
	Message      string    `json:"message"`
	Announcement news.Item `json:"announcement"`
}

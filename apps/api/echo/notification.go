package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/notification"
)

var (
	errForbiddenNotifications      = forbidden("not authorized to access these notifications")
	errForbiddenNotificationModify = forbidden("not authorized to modify this notification")
	errForbiddenNotificationsRead  = forbidden("not authorized to modify these notifications")
	errForbiddenNotificationDelete = forbidden("not authorized to delete this notification")
	errForbiddenNotificationsClear = forbidden("not authorized to delete these notifications")
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := notificationApi{svc: opts.NotificationSvc}

	ng := g.Group("/notifications", authed...)
	ng.GET("", api.query)
	ng.PUT("/read-all", api.markAllRead)
	ng.PUT("/:id/read", api.markRead)
	ng.DELETE("/:id", api.destroy)
	ng.DELETE("", api.destroyAll)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	userID, err := api.ownUserID(ctx, errForbiddenNotifications)
	if err != nil {
		return err
	}
	list, err := api.svc.List(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	n, err := api.ownNotification(ctx, errForbiddenNotificationModify)
	if err != nil {
		return err
	}
	if n, err = api.svc.MarkRead(ctx.Request().Context(), n); err != nil {
		return errors.Wrap(err, "marking notification as read")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	userID, err := api.ownUserID(ctx, errForbiddenNotificationsRead)
	if err != nil {
		return err
	}
	list, err := api.svc.MarkAllRead(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "marking all notifications as read")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *notificationApi) destroy(ctx echo.Context) error {
	n, err := api.ownNotification(ctx, errForbiddenNotificationDelete)
	if err != nil {
		return err
	}
	if n, err = api.svc.Delete(ctx.Request().Context(), n.ID); err != nil {
		if errors.Cause(err) == notification.ErrNotFound {
			return notFound(notification.ErrNotFound)
		}
		return errors.Wrap(err, "deleting notification")
	}
	return ctx.JSON(http.StatusOK, NotificationDeletedResponse{Message: "Notification deleted successfully", Notification: n})
}

func (api *notificationApi) destroyAll(ctx echo.Context) error {
	userID, err := api.ownUserID(ctx, errForbiddenNotificationsClear)
	if err != nil {
		return err
	}
	n, err := api.svc.DeleteAll(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "deleting notifications")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%d notifications deleted successfully", n)})
}

func (api *notificationApi) ownUserID(ctx echo.Context, denied error) (int, error) {
	userID, err := queryUserID(ctx, "userId")
	if err != nil {
		return 0, err
	}
	return userID, checkSelf(ctx, userID, denied)
}

// ownNotification returns the :id notification if it belongs to the context user.
func (api *notificationApi) ownNotification(ctx echo.Context, denied error) (notification.Notification, error) {
	id, err := paramID(ctx)
	if err != nil {
		return notification.Notification{}, err
	}
	n, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == notification.ErrNotFound {
			return notification.Notification{}, notFound(notification.ErrNotFound)
		}
		return notification.Notification{}, errors.Wrap(err, "finding notification by ID")
	}
	if err = checkSelf(ctx, n.UserID, denied); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

type NotificationDeletedResponse struct {
	Message      string                    `json:"message"`
	Notification notification.Notification `json:"notification"`
}

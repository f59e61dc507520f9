package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core/message"
	"github.com/trezcool/schoolconnect/services/realtime"
)

var (
	errForbiddenContacts = forbidden("not authorized to access these contacts")
	errForbiddenMessages = forbidden("not authorized to access these messages")
	errForbiddenMarkRead = forbidden("not authorized to mark this message as read")
	errNotParticipant    = echo.NewHTTPError(http.StatusForbidden, message.ErrNotParticipant.Error())
	errChatIDRequired    = echo.NewHTTPError(http.StatusBadRequest, "Chat ID is required")
)

type messageApi struct {
	svc      *message.Service
	hub      *realtime.Hub
	validate *validator.Validate
}

func registerMessageAPI(g *echo.Group, authed []echo.MiddlewareFunc, opts *Options) {
	api := messageApi{svc: opts.MessageSvc, hub: opts.Hub, validate: opts.Validate}

	mg := g.Group("/messages", authed...)
	mg.GET("/contacts", api.queryContacts)
	mg.GET("", api.queryChat)
	mg.GET("/recent", api.queryRecent)
	mg.POST("", api.send)
	mg.PUT("/:id/read", api.markRead)
}

// Handlers

func (api *messageApi) queryContacts(ctx echo.Context) error {
	userID, err := queryUserID(ctx, "userId")
	if err != nil {
		return err
	}
	if err = checkSelf(ctx, userID, errForbiddenContacts); err != nil {
		return err
	}
	contacts, err := api.svc.Contacts(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying contacts")
	}
	return ctx.JSON(http.StatusOK, ContactsResponse{Contacts: contacts})
}

func (api *messageApi) queryChat(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	chatID, err := queryInt(ctx, "chatId")
	if err != nil {
		return err
	}
	if chatID == 0 {
		return errChatIDRequired
	}

	msgs, err := api.svc.Chat(ctx.Request().Context(), chatID, usr.ID)
	if err != nil {
		if errors.Cause(err) == message.ErrNotParticipant {
			return errNotParticipant
		}
		return errors.Wrap(err, "querying chat")
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) queryRecent(ctx echo.Context) error {
	userID, err := queryUserID(ctx, "userId")
	if err != nil {
		return err
	}
	if err = checkSelf(ctx, userID, errForbiddenMessages); err != nil {
		return err
	}
	msgs, err := api.svc.Recent(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying recent messages")
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) send(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	var data message.NewMessage
	if err = bind(ctx, &data); err != nil {
		return err
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	msg, err := api.svc.Send(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	api.hub.Publish(realtime.ChatFrame(msg.SenderID, msg.Content))
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *messageApi) markRead(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx)
	if err != nil {
		return err
	}

	msg, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == message.ErrNotFound {
			return notFound(message.ErrNotFound)
		}
		return errors.Wrap(err, "finding message by ID")
	}
	if msg.RecipientID != usr.ID {
		return errForbiddenMarkRead
	}

	if msg, err = api.svc.MarkRead(ctx.Request().Context(), msg); err != nil {
		return errors.Wrap(err, "marking message as read")
	}
	return ctx.JSON(http.StatusOK, msg)
}

type ContactsResponse struct {
	Contacts []message.Contact `json:"contacts"`
}

package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// paramID parses the :id path parameter.
func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

// queryInt parses an optional id query parameter. A missing value yields 0;
// anything but a positive integer is a 400.
func queryInt(ctx echo.Context, name string) (int, error) {
	v := ctx.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errInvalidID
	}
	return n, nil
}

// queryUserID returns the userId query parameter, defaulting to the context user.
func queryUserID(ctx echo.Context, param string) (int, error) {
	usr, err := getContextUser(ctx)
	if err != nil {
		return 0, err
	}
	if ctx.QueryParam(param) == "" {
		return usr.ID, nil
	}
	return queryInt(ctx, param)
}

// bind decodes the request body into data. Malformed payloads are reported as 400s.
func bind(ctx echo.Context, data interface{}) error {
	if err := ctx.Bind(data); err != nil {
		var herr *echo.HTTPError
		if errors.As(err, &herr) {
			return errInvalidPayload
		}
		return errors.Wrap(err, "binding request")
	}
	return nil
}

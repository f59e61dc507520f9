package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/user"
)

var (
	errNotAuthenticated = echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	errInvalidPayload   = echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	errInvalidID        = echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
)

func forbidden(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusForbidden, "Forbidden: "+msg)
}

func notFound(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, err.Error())
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Every error body is {"message": ...}; validation errors also carry {"errors": {field: text}}.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string
		var fields map[string]string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = "Invalid request payload"
			fields = translateErrors(origErr, translator)
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
			if origErr.HasFields() {
				fields = translateErrors(origErr.Invalid, translator)
				for _, fErr := range origErr.Fields {
					fields[fErr.Field] = fErr.Error
				}
			}
			if message == "" {
				message = "Invalid request payload"
			}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			var usr user.User
			if u, uErr := getContextUser(ctx); uErr == nil {
				usr = u
			}
			logger.Error(message, errors.Wrap(err, message), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		body := echo.Map{"message": message}
		if len(fields) > 0 {
			body["errors"] = fields
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func translateErrors(vErrs validator.ValidationErrors, translator ut.Translator) map[string]string {
	fields := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		fields[vErr.Field()] = vErr.Translate(translator)
	}
	return fields
}

package echoweb

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/backend"
	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/session"
)

var (
	errNotAuthenticated   = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errLoginFailed        = echo.NewHTTPError(http.StatusBadRequest, "email atau kata sandi salah")
	errConfirmationNeeded = echo.NewHTTPError(http.StatusConflict, "confirmation required")
	errHTTPNotFound       = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler translates the error types the handlers are allowed
// to return. Anything unrecognized is a 500, logged with the session's admin
// attached; a core shutdown error additionally signals the server to stop.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *backend.APIError:
			// backend messages pass through; gateway-ish statuses collapse to 502
			code = origErr.StatusCode
			if code >= http.StatusInternalServerError {
				code = http.StatusBadGateway
			}
			message = origErr.Message
			if message == "" {
				message = http.StatusText(code)
			}
		default:
			if errors.Cause(err) == session.ErrRoleNotAllowed {
				code = http.StatusForbidden
				message = err.Error()
				break
			}

			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			if sess, ok := SessionFrom(ctx.Request().Context()); ok {
				logger.Error(msg, errors.Wrap(err, msg), sess.Admin)
			} else {
				logger.Error(msg, errors.Wrap(err, msg))
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

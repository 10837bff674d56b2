package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	goSSO "github.com/MrEthical07/goSSO"
)

// reject maps an engine error onto the status and body clients see.
func reject(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, goSSO.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "409 Email already registered")
	case errors.Is(err, goSSO.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, "409 Username already in use")
	case errors.Is(err, goSSO.ErrInvalidTicket):
		return echo.NewHTTPError(http.StatusForbidden, "403 Ticket is not valid!")
	case errors.Is(err, goSSO.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusForbidden, "403 Email or password not valid!")
	case errors.Is(err, goSSO.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "403")
	case errors.Is(err, goSSO.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, "400")
	case errors.Is(err, goSSO.ErrUnavailable), errors.Is(err, goSSO.ErrEngineNotReady):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "503").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "500").SetInternal(err)
	}
}

// errorHandler writes bare status bodies. Unknown methods on known routes
// answer 404 like unknown routes.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code == http.StatusMethodNotAllowed {
		code = http.StatusNotFound
	}

	body := strconv.Itoa(code)
	if he != nil {
		if msg, ok := he.Message.(string); ok && strings.HasPrefix(msg, body) {
			body = msg
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.String(code, body)
}

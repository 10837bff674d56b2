package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/internal/logging"
)

// Engine is the part of *goSSO.Engine the transport needs.
type Engine interface {
	CreateTicket(ctx context.Context, req goSSO.CreateTicketRequest) (string, error)
	Register(ctx context.Context, req goSSO.RegisterRequest) (*goSSO.RegisterResult, error)
	Login(ctx context.Context, req goSSO.LoginRequest) (*goSSO.SessionResult, error)
	ClaimSession(ctx context.Context, req goSSO.ClaimRequest) (*goSSO.ClaimResult, error)
	RefreshSession(ctx context.Context, req goSSO.RefreshRequest) (*goSSO.SessionResult, error)
	Ping(ctx context.Context) error
}

type Deps struct {
	Engine Engine
	Logger *slog.Logger
	// Metrics is mounted at GET /metrics when set.
	Metrics http.Handler
}

// New returns an echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	e.Use(
		ecM.Recover(),
		ecM.RequestID(),
		RequestLogger(logger),
		ecM.BodyLimit("64K"),
	)

	Register(e, d)
	return e
}

// Register mounts the SSO routes on e.
func Register(e *echo.Echo, d Deps) {
	h := &handler{engine: d.Engine}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", h.ready)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	e.POST("/create-ticket", h.createTicket)
	e.POST("/register", h.register)
	e.POST("/login", h.login)
	e.POST("/claim-session", h.claimSession)
	e.POST("/refresh-session", h.refreshSession)
}

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/internal/logging"
)

type handler struct {
	engine Engine
}

// decode reads a JSON body regardless of Content-Type.
func decode(c echo.Context, v any) error {
	if err := c.Echo().JSONSerializer.Deserialize(c, v); err != nil {
		logging.FromContext(c.Request().Context()).Debug("invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "400")
	}
	return nil
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

func (h *handler) ready(c echo.Context) error {
	if err := h.engine.Ping(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "503").SetInternal(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handler) createTicket(c echo.Context) error {
	var req createTicketRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	id, err := h.engine.CreateTicket(c.Request().Context(), goSSO.CreateTicketRequest{
		TicketKey:   req.TicketKey,
		RedirectURL: req.RedirectURL,
	})
	if err != nil {
		return reject(err)
	}
	return ok(c, createTicketResponse{TicketID: id})
}

func (h *handler) register(c echo.Context) error {
	var req registerRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	if _, err := h.engine.Register(c.Request().Context(), goSSO.RegisterRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		return reject(err)
	}
	return c.String(http.StatusOK, "200")
}

func (h *handler) login(c echo.Context) error {
	var req loginRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	res, err := h.engine.Login(c.Request().Context(), goSSO.LoginRequest{
		TicketID: req.TicketID,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return reject(err)
	}
	return ok(c, revealSession(res))
}

func (h *handler) claimSession(c echo.Context) error {
	var req claimRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	res, err := h.engine.ClaimSession(c.Request().Context(), goSSO.ClaimRequest{
		TicketID:  req.TicketID,
		TicketKey: req.TicketKey,
		SessionID: req.SessionID,
		Token:     req.Token,
	})
	if err != nil {
		return reject(err)
	}
	return ok(c, claimResponse{
		AccountID: res.AccountID,
		Username:  res.Username,
		Assertion: res.Assertion,
	})
}

func (h *handler) refreshSession(c echo.Context) error {
	var req refreshRequest
	if err := decode(c, &req); err != nil {
		return err
	}

	res, err := h.engine.RefreshSession(c.Request().Context(), goSSO.RefreshRequest{
		TicketID:     req.TicketID,
		SessionID:    req.SessionID,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return reject(err)
	}
	return ok(c, revealSession(res))
}

func revealSession(res *goSSO.SessionResult) sessionResponse {
	out := sessionResponse{SessionID: res.SessionID}
	out.RedirectURL, _ = res.RedirectURL.Reveal()
	out.Token, _ = res.Token.Reveal()
	out.RefreshToken, _ = res.RefreshToken.Reveal()
	return out
}

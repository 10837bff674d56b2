package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/password"
)

type testServer struct {
	mr   *miniredis.Miniredis
	echo *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := goSSO.DefaultConfig()
	cfg.Password.Algorithm = password.AlgorithmBcrypt
	cfg.Password.BcryptCost = 4

	engine, err := goSSO.New().WithConfig(cfg).WithRedis(rdb).Build()
	require.NoError(t, err)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("gosso_up 1\n"))
	})
	return &testServer{mr: mr, echo: New(Deps{Engine: engine, Metrics: metrics})}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return s.do(t, http.MethodPost, path, string(raw))
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Status int `json:"status"`
		Data   T   `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, http.StatusOK, env.Status)
	return env.Data
}

func (s *testServer) createTicket(t *testing.T) string {
	t.Helper()
	rec := s.post(t, "/create-ticket", map[string]string{"ticketKey": "k", "redirectUrl": "https://app/cb"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeData[createTicketResponse](t, rec).TicketID
}

func (s *testServer) register(t *testing.T) {
	t.Helper()
	rec := s.post(t, "/register", map[string]string{"email": "a@x.com", "username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "200", rec.Body.String())
}

func TestHandoffOverHTTP(t *testing.T) {
	s := newTestServer(t)

	t1 := s.createTicket(t)
	s.register(t)

	rec := s.post(t, "/login", map[string]string{"ticketId": t1, "email": "a@x.com", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decodeData[sessionResponse](t, rec)
	assert.NotEmpty(t, login.SessionID)
	assert.Len(t, login.Token, 64)
	assert.Len(t, login.RefreshToken, 128)
	assert.True(t, strings.HasPrefix(login.RedirectURL, "https://app/cb?"))
	assert.Contains(t, login.RedirectURL, "token="+login.Token)

	claim := map[string]string{"ticketId": t1, "ticketKey": "k", "sessionId": login.SessionID, "token": login.Token}
	rec = s.post(t, "/claim-session", claim)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeData[claimResponse](t, rec)
	assert.Equal(t, "alice", got.Username)
	assert.NotEmpty(t, got.AccountID)

	rec = s.post(t, "/claim-session", claim)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "403", rec.Body.String())

	t2 := s.createTicket(t)
	rec = s.post(t, "/refresh-session", map[string]string{"ticketId": t2, "sessionId": login.SessionID, "refreshToken": login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := decodeData[sessionResponse](t, rec)
	assert.Equal(t, login.SessionID, refreshed.SessionID)
	assert.NotEqual(t, login.Token, refreshed.Token)
}

func TestErrorBodies(t *testing.T) {
	s := newTestServer(t)
	s.register(t)

	rec := s.post(t, "/register", map[string]string{"email": "a@x.com", "username": "bob", "password": "pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "409 Email already registered", rec.Body.String())

	rec = s.post(t, "/register", map[string]string{"email": "b@x.com", "username": "alice", "password": "pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "409 Username already in use", rec.Body.String())

	rec = s.post(t, "/login", map[string]string{"ticketId": "nope", "email": "a@x.com", "password": "pw"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "403 Ticket is not valid!", rec.Body.String())

	rec = s.post(t, "/login", map[string]string{"ticketId": s.createTicket(t), "email": "a@x.com", "password": "bad"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "403 Email or password not valid!", rec.Body.String())

	rec = s.post(t, "/create-ticket", map[string]string{"ticketKey": "k"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "400", rec.Body.String())

	rec = s.do(t, http.MethodPost, "/login", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "400", rec.Body.String())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/logout", "{}")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404", rec.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "").Code)

	rec := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gosso_up 1")

	s.mr.Close()
	rec = s.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "503", rec.Body.String())
}

func TestRejectMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{goSSO.ErrEmailTaken, http.StatusConflict},
		{goSSO.ErrUsernameTaken, http.StatusConflict},
		{goSSO.ErrInvalidTicket, http.StatusForbidden},
		{goSSO.ErrInvalidCredentials, http.StatusForbidden},
		{goSSO.ErrForbidden, http.StatusForbidden},
		{goSSO.ErrInvalidRequest, http.StatusBadRequest},
		{goSSO.ErrUnavailable, http.StatusServiceUnavailable},
		{goSSO.ErrEngineNotReady, http.StatusServiceUnavailable},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.code, reject(tc.err).Code, tc.err.Error())
	}
}

package auth

import (
	"cashflow/internal/metrics"
	"cashflow/internal/middleware"
	authServ "cashflow/internal/service/auth"
	"cashflow/internal/service/token"
	"cashflow/internal/testutil/memstore"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jwtCfg struct{}

func (jwtCfg) AccessTokenSecretKey() []byte        { return []byte("a") }
func (jwtCfg) RefreshTokenSecretKey() []byte       { return []byte("r") }
func (jwtCfg) AccessTokenDuration() time.Duration  { return time.Minute }
func (jwtCfg) RefreshTokenDuration() time.Duration { return time.Hour }

type zeroBalance struct{}

func (zeroBalance) InitialBalance() decimal.Decimal { return decimal.Zero }

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	log := zap.NewNop()
	store := memstore.New()
	tokens := token.NewTokenService(store, store, store, jwtCfg{}, log)
	h := NewHandler(HandlerDeps{
		Serv:       authServ.NewAuthService(store, store, store, tokens, zeroBalance{}, metrics.New(), log),
		Log:        log,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})

	r := chi.NewRouter()
	r.Post("/signup", h.Signup)
	r.Post("/signin", h.Signin)
	r.Post("/refresh", h.Refresh)
	r.Group(func(rr chi.Router) {
		rr.Use(middleware.Auth(tokens, log))
		rr.Patch("/update", h.Update)
		rr.Patch("/update-password", h.UpdatePassword)
		rr.Post("/logout", h.Logout)
		rr.Get("/get-current-user", h.CurrentUser)
	})

	return r
}

func send(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func cookiesOf(w *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

const signupBody = `{"email":"ann@x.io","firstName":"Ann","lastName":"Lee","password":"secret"}`

func signin(t *testing.T, h http.Handler) map[string]*http.Cookie {
	t.Helper()
	require.Equal(t, http.StatusCreated, send(h, http.MethodPost, "/signup", signupBody).Code)

	w := send(h, http.MethodPost, "/signin", `{"email":"ann@x.io","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return cookiesOf(w)
}

func TestSignupAndSignin(t *testing.T) {
	h := newRouter(t)

	w := send(h, http.MethodPost, "/signup", signupBody)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")

	w = send(h, http.MethodPost, "/signup", signupBody)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(h, http.MethodPost, "/signin", `{"email":"ann@x.io","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(h, http.MethodPost, "/signin", `{"email":"ghost@x.io","password":"secret"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(h, http.MethodPost, "/signin", `{"email":"ann@x.io","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))

	cookies := cookiesOf(w)
	require.Contains(t, cookies, middleware.AccessTokenCookie)
	require.Contains(t, cookies, refreshTokenCookie)
	assert.Equal(t, body.Data.AccessToken, cookies[middleware.AccessTokenCookie].Value)
	assert.True(t, cookies[refreshTokenCookie].HttpOnly)
}

func TestCurrentUserAndUpdate(t *testing.T) {
	h := newRouter(t)
	cookies := signin(t, h)
	access := cookies[middleware.AccessTokenCookie]

	w := send(h, http.MethodPatch, "/update", `{"lastName":"Smith"}`, access)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(h, http.MethodPatch, "/update", `{}`, access)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(h, http.MethodGet, "/get-current-user", "", access)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Smith", body.Data["lastName"])
	assert.NotContains(t, body.Data, "password")
}

func TestUpdatePassword(t *testing.T) {
	h := newRouter(t)
	access := signin(t, h)[middleware.AccessTokenCookie]

	w := send(h, http.MethodPatch, "/update-password", `{"oldPassword":"nope","newPassword":"fresh1"}`, access)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(h, http.MethodPatch, "/update-password", `{"oldPassword":"secret","newPassword":"fresh1"}`, access)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(h, http.MethodPost, "/signin", `{"email":"ann@x.io","password":"fresh1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	h := newRouter(t)
	cookies := signin(t, h)

	w := send(h, http.MethodPost, "/refresh", "", cookies[refreshTokenCookie])
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := cookiesOf(w)

	// старый refresh токен после ротации не принимается
	w = send(h, http.MethodPost, "/refresh", "", cookies[refreshTokenCookie])
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// токен можно передать и в теле
	w = send(h, http.MethodPost, "/refresh",
		`{"refreshToken":"`+rotated[refreshTokenCookie].Value+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	rotated = cookiesOf(w)

	w = send(h, http.MethodPost, "/logout", "", rotated[middleware.AccessTokenCookie])
	require.Equal(t, http.StatusOK, w.Code)
	cleared := cookiesOf(w)
	assert.Equal(t, -1, cleared[refreshTokenCookie].MaxAge)

	w = send(h, http.MethodPost, "/refresh", "", rotated[refreshTokenCookie])
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/get-current-user"},
		{http.MethodPost, "/logout"},
		{http.MethodPatch, "/update"},
		{http.MethodPatch, "/update-password"},
	} {
		w := send(h, tc.method, tc.path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}

	w := send(h, http.MethodPost, "/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package auth

import (
	"cashflow/internal/api"
	dto "cashflow/internal/api/dto/auth"
	"cashflow/internal/apperr"
	"cashflow/internal/converter"
	"cashflow/internal/middleware"
	"cashflow/internal/model"
	"cashflow/internal/service"
	"cashflow/pkg/req"
	"cashflow/pkg/resp"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const refreshTokenCookie = "refreshToken"

type HandlerDeps struct {
	Serv          service.AuthService
	Log           *zap.Logger
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SecureCookies bool
}

type Handler struct {
	serv       service.AuthService
	log        *zap.Logger
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		serv:       deps.Serv,
		log:        deps.Log.Named("auth_api"),
		accessTTL:  deps.AccessTTL,
		refreshTTL: deps.RefreshTTL,
		secure:     deps.SecureCookies,
	}
}

// Signup создаёт пользователя вместе со счетом
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SignupRequest](r.Body)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	user, err := h.serv.Register(r.Context(), converter.SignupRequestToUserModel(&payload), payload.Password)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	resp.WriteData(w, http.StatusCreated, converter.ToUserResponse(user), "User registered successfully")
}

// Signin открывает сессию и отдает токены в cookies и в теле
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SigninRequest](r.Body)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	data, err := h.serv.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	h.setTokenCookies(w, data)

	resp.WriteData(w, http.StatusOK, converter.ToTokensResponse(data), "User logged in successfully")
}

// Refresh - refresh токен берется из cookie, иначе из тела
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		refreshToken = c.Value
	}

	if refreshToken == "" {
		payload, err := req.Decode[dto.RefreshRequest](r.Body)
		if err != nil && !errors.Is(err, io.EOF) {
			api.BadRequest(w, err)
			return
		}
		refreshToken = payload.RefreshToken
	}

	if refreshToken == "" {
		api.WriteError(w, r, h.log, apperr.ErrUnauthorized)
		return
	}

	data, err := h.serv.Refresh(r.Context(), refreshToken)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	h.setTokenCookies(w, data)

	resp.WriteData(w, http.StatusOK, converter.ToTokensResponse(data), "Access token refreshed")
}

// Logout закрывает все сессии пользователя
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		api.WriteError(w, r, h.log, apperr.ErrUnauthorized)
		return
	}

	if err := h.serv.Logout(r.Context(), userID); err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	h.clearCookie(w, middleware.AccessTokenCookie)
	h.clearCookie(w, refreshTokenCookie)

	resp.WriteData(w, http.StatusOK, struct{}{}, "User logged out successfully")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		api.WriteError(w, r, h.log, apperr.ErrUnauthorized)
		return
	}

	payload, err := req.Decode[dto.UpdateRequest](r.Body)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	err = h.serv.UpdateProfile(r.Context(), userID, converter.UpdateRequestToProfileUpdate(&payload))
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	resp.WriteData(w, http.StatusOK, struct{}{}, "Updated successfully")
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		api.WriteError(w, r, h.log, apperr.ErrUnauthorized)
		return
	}

	payload, err := req.Decode[dto.UpdatePasswordRequest](r.Body)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	if err := h.serv.UpdatePassword(r.Context(), userID, payload.OldPassword, payload.NewPassword); err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	resp.WriteData(w, http.StatusOK, struct{}{}, "Password updated successfully")
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		api.WriteError(w, r, h.log, apperr.ErrUnauthorized)
		return
	}

	user, err := h.serv.CurrentUser(r.Context(), userID)
	if err != nil {
		api.WriteError(w, r, h.log, err)
		return
	}

	resp.WriteData(w, http.StatusOK, converter.ToUserResponse(user), "Current user fetched successfully")
}

func (h *Handler) setTokenCookies(w http.ResponseWriter, data *model.AuthData) {
	h.setCookie(w, middleware.AccessTokenCookie, data.AccessToken, h.accessTTL)
	h.setCookie(w, refreshTokenCookie, data.RefreshToken, h.refreshTTL)
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

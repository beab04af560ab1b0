package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/njord/internal/domain"
	"github.com/dukerupert/njord/internal/middleware"
	"github.com/dukerupert/njord/internal/service"
)

// refreshCookieName is the cookie carrying the refresh token.
const refreshCookieName = "refreshToken"

// refreshCookieMaxAge matches the refresh token expiry of 72 hours.
const refreshCookieMaxAge = 72 * time.Hour

// UserHandler serves account, session, and profile endpoints.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Mobile    string `json:"mobile" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

// Register handles POST /api/v1/user/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	user, err := h.users.Register(r.Context(), &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Mobile:    req.Mobile,
	}, req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Login handles POST /api/v1/user/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.users.Login)
}

// AdminLogin handles POST /api/v1/user/admin-login.
func (h *UserHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.users.AdminLogin)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, email, password string) (*service.LoginResult, error)) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	result, err := fn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	setRefreshCookie(w, result.RefreshToken)
	respond(w, http.StatusOK, loginResponse{User: result.User, Token: result.AccessToken})
}

// Refresh handles GET /api/v1/user/refresh. The refresh token travels in an
// HttpOnly cookie, never in the body.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		respondError(w, r, h.logger, domain.Unauthorized("user.refresh", "No refresh token in cookies"))
		return
	}

	accessToken, err := h.users.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// Logout handles GET /api/v1/user/logout. It clears the stored refresh token
// and expires the cookie; an unknown token still logs out cleanly.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		if err := h.users.Logout(r.Context(), cookie.Value); err != nil {
			respondError(w, r, h.logger, err)
			return
		}
	}

	clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/user/all-users (admin).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, users)
}

// Get handles GET /api/v1/user/{id} (admin).
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user)
}

// Delete handles DELETE /api/v1/user/{id} (admin).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user)
}

type updateUserRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Mobile    string `json:"mobile" validate:"required"`
}

// Update handles PUT /api/v1/user/edit-user. Users edit their own profile.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	user, err := h.users.Update(r.Context(), middleware.GetUserID(r.Context()),
		req.FirstName, req.LastName, req.Mobile, req.Email)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user)
}

// Block handles PUT /api/v1/user/block-user/{id} (admin).
func (h *UserHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, true)
}

// Unblock handles PUT /api/v1/user/unblock-user/{id} (admin).
func (h *UserHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, false)
}

func (h *UserHandler) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	user, err := h.users.SetBlocked(r.Context(), r.PathValue("id"), blocked)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user)
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// UpdatePassword handles PUT /api/v1/user/password.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	user, err := h.users.UpdatePassword(r.Context(), middleware.GetUserID(r.Context()), req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword handles POST /api/v1/user/forgot-password.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	token, err := h.users.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusOK, map[string]string{"token": token})
}

// ResetPassword handles PUT /api/v1/user/reset-password/{token}.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	user, err := h.users.ResetPassword(r.Context(), r.PathValue("token"), req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user)
}

type saveAddressRequest struct {
	Address string `json:"address" validate:"required"`
}

// SaveAddress handles PUT /api/v1/user/address.
func (h *UserHandler) SaveAddress(w http.ResponseWriter, r *http.Request) {
	var req saveAddressRequest
	if err := decode(r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	user, err := h.users.SaveAddress(r.Context(), middleware.GetUserID(r.Context()), req.Address)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, user)
}

// WishList handles GET /api/v1/user/wishlist.
func (h *UserHandler) WishList(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetWishList(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"wishList": user.WishList})
}

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(refreshCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

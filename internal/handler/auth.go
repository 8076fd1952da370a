package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/soundhaven/account-service/internal/model"
	"github.com/soundhaven/account-service/internal/repository"
	"github.com/soundhaven/account-service/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Accounts *service.AccountService
}

func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Password  string `json:"password"`
	AvatarURL string `json:"avatarUrl"`
	Role      string `json:"role"` // user | artist | admin, defaults to user
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type forgotPasswordReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type userResp struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResp(u model.User) userResp {
	r := userResp{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.AvatarURL.Valid {
		r.AvatarURL = u.AvatarURL.String
	}
	return r
}

// Register: create user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/fullName/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, pair, err := h.Accounts.Register(ctx, req.Email, req.FullName, req.Password, req.AvatarURL, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		case errors.Is(err, service.ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		c.Logger().Errorf("register failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"user":         toUserResp(u),
		"token":        pair.Access.Token,
		"refreshToken": pair.Refresh.Token,
	})
}

// Login: verify credentials and return user plus a new token pair.
// Unknown email and wrong password are answered identically so the
// endpoint cannot be used to probe which addresses have accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, pair, err := h.Accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		c.Logger().Errorf("login failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	resp := echo.Map{
		"user":         toUserResp(u),
		"token":        pair.Access.Token,
		"refreshToken": pair.Refresh.Token,
	}
	if u.Role == model.RoleAdmin {
		resp["message"] = "Hello, admin!"
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh: exchange a valid refresh token for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}

	access, err := h.Accounts.RefreshAccess(strings.TrimSpace(req.RefreshToken))
	if err != nil {
		// Expired, forged and malformed tokens all land here.
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": access.Token})
}

// Me returns the profile of the identity embedded in the verified bearer
// token.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Accounts.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("load profile failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// ForgotPassword starts the reset flow.  The response is the same whether
// or not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.RequestPasswordReset(ctx, strings.TrimSpace(req.Email)); err != nil {
		c.Logger().Errorf("password reset request failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset request failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "If that email is registered, password reset instructions have been sent",
	})
}

// ResetPassword consumes a reset secret and installs the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Token) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.ConfirmPasswordReset(ctx, strings.TrimSpace(req.Token), req.Password); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": "Token is invalid or has expired",
			})
		}
		c.Logger().Errorf("password reset failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password updated",
	})
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/soundhaven/account-service/internal/repository"
	"github.com/soundhaven/account-service/internal/service"
)

// UserHandler bundles dependencies for the user listing, role management
// and follow-graph endpoints.  All of them sit behind JWTAuth.
type UserHandler struct {
	Accounts *service.AccountService
}

func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{Accounts: accounts}
}

type updateRoleReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// List returns all users without their password hashes.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Accounts.ListUsers(ctx)
	if err != nil {
		c.Logger().Errorf("list users failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": out})
}

// UpdateRole assigns a new role to the user named by email in the body.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and role are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Accounts.UpdateRole(ctx, req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("update role failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user": echo.Map{
			"email":    u.Email,
			"role":     u.Role,
			"fullName": u.FullName,
		},
	})
}

// Follow adds the authenticated user to the target's followers.
func (h *UserHandler) Follow(c echo.Context) error {
	targetID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	followerID, ok := c.Get("user_id").(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.Follow(ctx, targetID, followerID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot follow yourself"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("follow failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "follow failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Unfollow removes the authenticated user from the target's followers.
func (h *UserHandler) Unfollow(c echo.Context) error {
	targetID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	followerID, ok := c.Get("user_id").(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.Unfollow(ctx, targetID, followerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("unfollow failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unfollow failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Followers lists the public profiles of a user's followers.  The count
// comes from the dedicated COUNT query rather than the page length.
func (h *UserHandler) Followers(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	followers, err := h.Accounts.ListFollowers(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("list followers failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list followers failed"})
	}
	count, err := h.Accounts.FollowersCount(ctx, userID)
	if err != nil {
		c.Logger().Errorf("count followers failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list followers failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"followers": followers,
		"count":     count,
	})
}

// Following lists the public profiles of the users someone follows.
func (h *UserHandler) Following(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	following, err := h.Accounts.ListFollowing(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("list following failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list following failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"following": following,
		"count":     len(following),
	})
}

func pathUserID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("userId"), 10, 64)
}

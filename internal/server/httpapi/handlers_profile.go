package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vaultshare/internal/server/services"
)

// HandleGetProfile handles GET /api/profile.
func (h *Handler) HandleGetProfile(c echo.Context) error {
	user, err := h.users.Profile(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserJSON(user)})
}

// HandleUpdateProfile handles PATCH /api/profile. With currentPassword and
// newPassword set it performs a password change; otherwise it updates
// profile fields.
func (h *Handler) HandleUpdateProfile(c echo.Context) error {
	var req struct {
		Name            *string `json:"name"`
		Phone           *string `json:"phone"`
		Bio             *string `json:"bio"`
		AvatarURL       *string `json:"avatarUrl"`
		CurrentPassword string  `json:"currentPassword"`
		NewPassword     string  `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	userID := currentUser(c).ID

	if req.CurrentPassword != "" && req.NewPassword != "" {
		if err := h.users.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
			return h.mapServiceError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Password updated."})
	}

	user, err := h.users.UpdateProfile(ctx, userID, services.ProfileUpdate{
		Name:      req.Name,
		Phone:     req.Phone,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": toUserJSON(user)})
}

// HandleDeleteAccount handles DELETE /api/profile. Requires the account
// password; deletes stored objects, then the account with all vaults and
// files.
func (h *Handler) HandleDeleteAccount(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if err := h.users.DeleteAccount(c.Request().Context(), currentUser(c).ID, req.Password); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted."})
}

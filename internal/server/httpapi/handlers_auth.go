package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleRegister handles POST /api/auth/register.
func (h *Handler) HandleRegister(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	user, token, err := h.users.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": toUserJSON(user)})
}

// HandleLogin handles POST /api/auth/login. When the account requires a
// 2FA code and none was sent, it answers 206 with requiresTwoFA so the
// client re-submits with a code.
func (h *Handler) HandleLogin(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TOTPCode string `json:"totpCode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required."})
	}

	result, err := h.users.Login(c.Request().Context(), req.Email, req.Password, req.TOTPCode)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	if result.RequiresTwoFA {
		return c.JSON(http.StatusPartialContent, echo.Map{
			"requiresTwoFA": true,
			"message":       "2FA code required.",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"token": result.Token, "user": toUserJSON(result.User)})
}

// HandleMe handles GET /api/auth/me.
func (h *Handler) HandleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user": toUserJSON(currentUser(c))})
}

// HandleTwoFASetup handles POST /api/auth/2fa/setup. It stores a fresh
// pending secret; 2FA stays off until the user verifies a code.
func (h *Handler) HandleTwoFASetup(c echo.Context) error {
	setup, err := h.users.SetupTwoFA(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"secret":     setup.Secret,
		"qrCode":     setup.QRCode,
		"otpauthUrl": setup.OtpauthURL,
	})
}

// HandleTwoFAVerify handles POST /api/auth/2fa/verify.
func (h *Handler) HandleTwoFAVerify(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if err := h.users.VerifyTwoFA(c.Request().Context(), currentUser(c).ID, req.Token); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "2FA enabled successfully."})
}

// HandleTwoFADisable handles POST /api/auth/2fa/disable. Disabling is gated
// by the account password, not a TOTP code.
func (h *Handler) HandleTwoFADisable(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if err := h.users.DisableTwoFA(c.Request().Context(), currentUser(c).ID, req.Password); err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "2FA disabled."})
}

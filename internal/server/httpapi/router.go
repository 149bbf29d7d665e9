package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewRouter builds the echo instance with all API routes attached.
// Owner routes sit behind bearer-token auth; the share routes are public,
// with the unlock endpoint rate limited per IP alongside login.
func NewRouter(h *Handler, limiter *RateLimiter) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(RequestLogger(h.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api")

	api.POST("/auth/register", h.HandleRegister)
	api.POST("/auth/login", h.HandleLogin, limiter.Middleware())

	authed := api.Group("", h.BearerAuth())
	authed.GET("/auth/me", h.HandleMe)
	authed.POST("/auth/2fa/setup", h.HandleTwoFASetup)
	authed.POST("/auth/2fa/verify", h.HandleTwoFAVerify)
	authed.POST("/auth/2fa/disable", h.HandleTwoFADisable)

	authed.GET("/profile", h.HandleGetProfile)
	authed.PATCH("/profile", h.HandleUpdateProfile)
	authed.DELETE("/profile", h.HandleDeleteAccount)

	authed.GET("/vaults", h.HandleListVaults)
	authed.POST("/vaults", h.HandleCreateVault)
	authed.GET("/vaults/stats", h.HandleVaultStats)
	authed.GET("/vaults/:id", h.HandleGetVault)
	authed.PATCH("/vaults/:id", h.HandleUpdateVault)
	authed.DELETE("/vaults/:id", h.HandleDeleteVault)

	authed.POST("/vaults/:id/files", h.HandleInitiateUpload)
	authed.POST("/files/confirm", h.HandleConfirmUploads)
	authed.DELETE("/files/:id", h.HandleDeleteFile)
	authed.GET("/files/:id/download", h.HandleOwnerDownload)

	api.GET("/share/:code", h.HandleResolveShare)
	api.GET("/share/:code/qr", h.HandleShareQR)
	api.POST("/share/:code", h.HandleUnlockShare, limiter.Middleware())

	return e
}

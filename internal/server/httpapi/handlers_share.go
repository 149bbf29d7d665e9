package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleResolveShare handles GET /api/share/:code. No authentication:
// possession of the code is the authorization. Private vaults come back
// locked, without files.
func (h *Handler) HandleResolveShare(c echo.Context) error {
	view, err := h.shares.Resolve(c.Request().Context(), c.Param("code"))
	if err != nil {
		return h.mapServiceError(c, err)
	}

	vault := toVaultJSON(view.Vault)
	vault.OwnerName = view.OwnerName

	if view.Locked {
		return c.JSON(http.StatusOK, echo.Map{"vault": vault, "locked": true})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"vault":  vault,
		"files":  toFileListJSON(view.Files, false),
		"locked": false,
	})
}

// HandleUnlockShare handles POST /api/share/:code. For private vaults the
// password is re-verified on every call; nothing is persisted. With a
// fileId in the body the response is a download grant for that file instead
// of the listing.
func (h *Handler) HandleUnlockShare(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
		FileID   string `json:"fileId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	result, err := h.shares.Unlock(c.Request().Context(), c.Param("code"), req.Password, req.FileID)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	if result.Grant != nil {
		return c.JSON(http.StatusOK, toDownloadGrantJSON(result.Grant))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"vault":    toVaultJSON(result.Vault),
		"files":    toFileListJSON(result.Files, false),
		"unlocked": true,
	})
}

// HandleShareQR handles GET /api/share/:code/qr.
func (h *Handler) HandleShareQR(c echo.Context) error {
	qr, err := h.shares.QR(c.Request().Context(), c.Param("code"))
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"qrCode": qr.QRCode, "shareUrl": qr.ShareURL})
}

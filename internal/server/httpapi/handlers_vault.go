package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vaultshare/internal/server/services"
)

// HandleListVaults handles GET /api/vaults.
func (h *Handler) HandleListVaults(c echo.Context) error {
	items, err := h.vaults.List(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	result := make([]*vaultJSON, 0, len(items))
	for _, item := range items {
		j := toVaultJSON(&item.Vault)
		fileCount, totalSize := item.FileCount, item.TotalSize
		j.FileCount = &fileCount
		j.TotalSize = &totalSize
		result = append(result, j)
	}

	return c.JSON(http.StatusOK, echo.Map{"vaults": result})
}

// HandleCreateVault handles POST /api/vaults.
func (h *Handler) HandleCreateVault(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Visibility  string `json:"visibility"`
		Password    string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	vault, err := h.vaults.Create(c.Request().Context(), currentUser(c).ID,
		req.Name, req.Description, req.Visibility, req.Password)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"vault": toVaultJSON(vault)})
}

// HandleGetVault handles GET /api/vaults/:id. The owner sees every file,
// including unconfirmed uploads.
func (h *Handler) HandleGetVault(c echo.Context) error {
	vault, files, err := h.vaults.Get(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"vault": toVaultJSON(vault),
		"files": toFileListJSON(files, true),
	})
}

// HandleUpdateVault handles PATCH /api/vaults/:id.
func (h *Handler) HandleUpdateVault(c echo.Context) error {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Visibility  *string `json:"visibility"`
		Password    *string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	vault, err := h.vaults.Update(c.Request().Context(), currentUser(c).ID, c.Param("id"),
		services.VaultUpdate{
			Name:        req.Name,
			Description: req.Description,
			Visibility:  req.Visibility,
			Password:    req.Password,
		})
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"vault": toVaultJSON(vault)})
}

// HandleDeleteVault handles DELETE /api/vaults/:id.
func (h *Handler) HandleDeleteVault(c echo.Context) error {
	if err := h.vaults.Delete(c.Request().Context(), currentUser(c).ID, c.Param("id")); err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Vault deleted."})
}

// HandleVaultStats handles GET /api/vaults/stats.
func (h *Handler) HandleVaultStats(c echo.Context) error {
	stats, err := h.vaults.Stats(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"stats": echo.Map{
		"total_vaults":    stats.TotalVaults,
		"total_files":     stats.TotalFiles,
		"total_size":      stats.TotalSize,
		"total_downloads": stats.TotalDownloads,
	}})
}

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vaultshare/internal/server/services"
)

// HandleInitiateUpload handles POST /api/vaults/:id/files. The client sends
// file metadata; the server pre-registers unconfirmed records and returns a
// presigned upload URL per file. The client uploads directly to object
// storage and then confirms.
func (h *Handler) HandleInitiateUpload(c echo.Context) error {
	var req struct {
		Files []struct {
			Name     string `json:"name"`
			Size     int64  `json:"size"`
			MimeType string `json:"mimeType"`
		} `json:"files"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	reqs := make([]services.UploadRequest, 0, len(req.Files))
	for _, f := range req.Files {
		reqs = append(reqs, services.UploadRequest{Name: f.Name, MimeType: f.MimeType, Size: f.Size})
	}

	grants, err := h.files.InitiateUpload(c.Request().Context(), currentUser(c).ID, c.Param("id"), reqs)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	uploads := make([]echo.Map, 0, len(grants))
	for _, g := range grants {
		uploads = append(uploads, echo.Map{
			"fileId":      g.FileID,
			"fileName":    g.FileName,
			"uploadUrl":   g.UploadURL,
			"storagePath": g.StoragePath,
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"uploads": uploads})
}

// HandleConfirmUploads handles POST /api/files/confirm.
func (h *Handler) HandleConfirmUploads(c echo.Context) error {
	var req struct {
		FileIDs []string `json:"fileIds"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	files, err := h.files.Confirm(c.Request().Context(), currentUser(c).ID, req.FileIDs)
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"files": toFileListJSON(files, true)})
}

// HandleDeleteFile handles DELETE /api/files/:id.
func (h *Handler) HandleDeleteFile(c echo.Context) error {
	if err := h.files.Delete(c.Request().Context(), currentUser(c).ID, c.Param("id")); err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "File deleted."})
}

// HandleOwnerDownload handles GET /api/files/:id/download for the file's
// owner. Unconfirmed files read as not found.
func (h *Handler) HandleOwnerDownload(c echo.Context) error {
	grant, err := h.files.OwnerDownload(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDownloadGrantJSON(grant))
}

// Package httpapi exposes the REST API consumed by the frontend. Handlers
// are thin: decode, call a service, encode. All service errors funnel
// through mapServiceError so status codes stay consistent.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"vaultshare/internal/common"
	"vaultshare/internal/logging"
	"vaultshare/internal/server/models"
	"vaultshare/internal/server/services"
)

// Handler contains the HTTP handlers for the API.
type Handler struct {
	users  *services.UserService
	vaults *services.VaultService
	files  *services.FileService
	shares *services.ShareService
	logger logging.Logger
}

func NewHandler(users *services.UserService, vaults *services.VaultService,
	files *services.FileService, shares *services.ShareService, l logging.Logger) *Handler {
	return &Handler{
		users:  users,
		vaults: vaults,
		files:  files,
		shares: shares,
		logger: l.With("module", "httpapi"),
	}
}

// mapServiceError translates service-layer errors into HTTP responses.
// Masked cases (foreign or unconfirmed resources) arrive here already
// collapsed into common.ErrNotFound.
func (h *Handler) mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, common.ErrPasswordRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password required."})
	case errors.Is(err, common.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password."})
	case errors.Is(err, common.ErrInvalidTwoFactorCode):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid 2FA code."})
	case errors.Is(err, common.ErrTwoFactorNotSetUp):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Run setup first."})
	case errors.Is(err, common.ErrWrongPassword):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Wrong password."})
	case errors.Is(err, common.ErrTokenExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token expired."})
	case errors.Is(err, common.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token."})
	case errors.Is(err, common.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthenticated."})
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found."})
	case errors.Is(err, common.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "An account with this email already exists."})
	default:
		h.logger.Error(c.Request().Context(), "internal error", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error."})
	}
}

// --- response DTOs ---

type userJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	AvatarURL    *string   `json:"avatar_url"`
	TwoFAEnabled bool      `json:"two_fa_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

func toUserJSON(u *models.User) *userJSON {
	return &userJSON{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Bio:          u.Bio,
		AvatarURL:    u.AvatarURL,
		TwoFAEnabled: u.TwoFAEnabled,
		CreatedAt:    u.CreatedAt,
	}
}

type vaultJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Visibility    string    `json:"visibility"`
	ShareCode     string    `json:"share_code"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
	OwnerName     string    `json:"owner_name,omitempty"`
	FileCount     *int64    `json:"file_count,omitempty"`
	TotalSize     *int64    `json:"total_size,omitempty"`
}

func toVaultJSON(v *models.Vault) *vaultJSON {
	return &vaultJSON{
		ID:            v.ID,
		Name:          v.Name,
		Description:   v.Description,
		Visibility:    v.Visibility,
		ShareCode:     v.ShareCode,
		DownloadCount: v.DownloadCount,
		CreatedAt:     v.CreatedAt,
	}
}

type fileJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OriginalName  string    `json:"original_name"`
	MimeType      string    `json:"mime_type"`
	SizeBytes     int64     `json:"size_bytes"`
	Confirmed     *bool     `json:"confirmed,omitempty"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// toFileJSON serializes a file. The confirmed flag is only included for the
// owner view; visitors never see unconfirmed files at all.
func toFileJSON(f *models.File, ownerView bool) *fileJSON {
	j := &fileJSON{
		ID:            f.ID,
		Name:          f.Name,
		OriginalName:  f.OriginalName,
		MimeType:      f.MimeType,
		SizeBytes:     f.SizeBytes,
		DownloadCount: f.DownloadCount,
		CreatedAt:     f.CreatedAt,
	}
	if ownerView {
		confirmed := f.Confirmed
		j.Confirmed = &confirmed
	}
	return j
}

func toFileListJSON(files []*models.File, ownerView bool) []*fileJSON {
	result := make([]*fileJSON, 0, len(files))
	for _, f := range files {
		result = append(result, toFileJSON(f, ownerView))
	}
	return result
}

type downloadGrantJSON struct {
	DownloadURL string `json:"downloadUrl"`
	FileName    string `json:"fileName"`
	MimeType    string `json:"mimeType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

func toDownloadGrantJSON(g *services.DownloadGrant) *downloadGrantJSON {
	return &downloadGrantJSON{
		DownloadURL: g.DownloadURL,
		FileName:    g.FileName,
		MimeType:    g.MimeType,
		SizeBytes:   g.SizeBytes,
	}
}

package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamhm/matrimony-backend/internal/application"
	"github.com/teamhm/matrimony-backend/internal/interface/middleware"
	"github.com/teamhm/matrimony-backend/pkg/response"
	"github.com/teamhm/matrimony-backend/pkg/validation"
)

// 8 MiB is plenty for a photo upload.
const maxPhotoBytes = 8 << 20

type ProfileHandler struct {
	Profiles *application.ProfileService
	Logger   *logrus.Logger
}

func NewProfileHandler(profiles *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Logger: logger}
}

// List returns approved profiles as trimmed cards.
func (h *ProfileHandler) List(c *gin.Context) {
	ps, err := h.Profiles.ListApproved(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list profiles failed")
		response.Error(c, http.StatusInternalServerError, "failed to list profiles", nil)
		return
	}
	response.Success(c, http.StatusOK, profileCards(ps), "profiles")
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.Profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "profile not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileView(p), "profile")
}

// Me returns the caller's own profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.Profiles.GetByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "profile not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get own profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileView(p), "profile")
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req updateProfilePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"dob": "must match date format: 2006-01-02"})
		return
	}
	p, err := h.Profiles.UpdateByUser(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "profile not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileView(p), "profile updated")
}

func (h *ProfileHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}
	hits, err := h.Profiles.Search(c.Request.Context(), q, 20)
	if err != nil {
		h.Logger.WithError(err).Error("profile search failed")
		response.Error(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}

func (h *ProfileHandler) UploadProfilePhoto(c *gin.Context) {
	h.uploadPhoto(c, h.Profiles.UploadProfilePhoto)
}

func (h *ProfileHandler) UploadAdditionalPhoto(c *gin.Context) {
	h.uploadPhoto(c, h.Profiles.UploadAdditionalPhoto)
}

type uploadFunc func(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error)

func (h *ProfileHandler) uploadPhoto(c *gin.Context, upload uploadFunc) {
	fh, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing photo file", nil)
		return
	}
	if fh.Size > maxPhotoBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "photo too large", nil)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, http.StatusBadRequest, "photo must be an image", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable photo file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := upload(c.Request.Context(), middleware.UserID(c), f, fh.Filename, contentType)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			response.Error(c, http.StatusNotFound, "profile not found", nil)
		case errors.Is(err, application.ErrPhotoLimit):
			response.Error(c, http.StatusBadRequest, "additional photo limit reached", nil)
		default:
			h.Logger.WithError(err).Error("photo upload failed")
			response.Error(c, http.StatusInternalServerError, "photo upload failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "photo uploaded")
}

type removePhotoRequest struct {
	URL  string `json:"url" binding:"required,url"`
	Type string `json:"type" binding:"required"`
}

func (h *ProfileHandler) RemovePhoto(c *gin.Context) {
	var req removePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Profiles.RemovePhoto(c.Request.Context(), middleware.UserID(c), req.URL, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidPhotoType):
			response.Error(c, http.StatusBadRequest, "type must be profile or additional", nil)
		case errors.Is(err, application.ErrNotFound):
			response.Error(c, http.StatusNotFound, "photo not found", nil)
		default:
			h.Logger.WithError(err).Error("photo removal failed")
			response.Error(c, http.StatusInternalServerError, "photo removal failed", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "photo removed")
}

func (h *ProfileHandler) Favorite(c *gin.Context) {
	err := h.Profiles.Favorite(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "profile not found", nil)
			return
		}
		h.Logger.WithError(err).Error("favorite failed")
		response.Error(c, http.StatusInternalServerError, "failed to add favorite", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"favorited": true}, "favorite added")
}

func (h *ProfileHandler) Unfavorite(c *gin.Context) {
	err := h.Profiles.Unfavorite(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "profile not found", nil)
			return
		}
		h.Logger.WithError(err).Error("unfavorite failed")
		response.Error(c, http.StatusInternalServerError, "failed to remove favorite", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"favorited": false}, "favorite removed")
}

func (h *ProfileHandler) ListFavorites(c *gin.Context) {
	ps, err := h.Profiles.ListFavorites(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "profile not found", nil)
			return
		}
		h.Logger.WithError(err).Error("list favorites failed")
		response.Error(c, http.StatusInternalServerError, "failed to list favorites", nil)
		return
	}
	response.Success(c, http.StatusOK, profileCards(ps), "favorites")
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamhm/matrimony-backend/internal/application"
	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	"github.com/teamhm/matrimony-backend/pkg/response"
	"github.com/teamhm/matrimony-backend/pkg/validation"
)

type AdminHandler struct {
	Approval *application.ApprovalService
	Profiles *application.ProfileService
	Logger   *logrus.Logger
}

func NewAdminHandler(approval *application.ApprovalService, profiles *application.ProfileService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Approval: approval, Profiles: profiles, Logger: logger}
}

func (h *AdminHandler) ListPending(c *gin.Context) {
	h.list(c, h.Profiles.ListPending)
}

func (h *AdminHandler) ListApproved(c *gin.Context) {
	h.list(c, h.Profiles.ListApproved)
}

func (h *AdminHandler) ListAll(c *gin.Context) {
	h.list(c, h.Profiles.ListAll)
}

func (h *AdminHandler) list(c *gin.Context, fn func(ctx context.Context) ([]*entity.Profile, error)) {
	ps, err := fn(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("admin list profiles failed")
		response.Error(c, http.StatusInternalServerError, "failed to list profiles", nil)
		return
	}
	response.Success(c, http.StatusOK, profileViews(ps), "profiles")
}

// Approve activates the pending account and triggers the credentials email.
func (h *AdminHandler) Approve(c *gin.Context) {
	username, err := h.Approval.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			response.Error(c, http.StatusNotFound, "profile not found", nil)
		case errors.Is(err, application.ErrAlreadyApproved):
			response.Error(c, http.StatusConflict, "profile already approved", nil)
		default:
			h.Logger.WithError(err).Error("approval failed")
			response.Error(c, http.StatusInternalServerError, "approval failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"username": username}, "profile approved")
}

func (h *AdminHandler) Suspend(c *gin.Context) {
	if err := h.Approval.Suspend(c.Request.Context(), c.Param("userId")); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("suspension failed")
		response.Error(c, http.StatusInternalServerError, "suspension failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"suspended": true}, "user suspended")
}

// Delete removes a profile and its user account together.
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.Approval.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "profile not found", nil)
			return
		}
		h.Logger.WithError(err).Error("profile deletion failed")
		response.Error(c, http.StatusInternalServerError, "profile deletion failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "profile deleted")
}

// Update lets an administrator edit any profile.
func (h *AdminHandler) Update(c *gin.Context) {
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
	p, err := h.Profiles.UpdateByID(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "profile not found", nil)
			return
		}
		h.Logger.WithError(err).Error("admin profile update failed")
		response.Error(c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileView(p), "profile updated")
}

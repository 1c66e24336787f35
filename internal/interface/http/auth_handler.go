package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/teamhm/matrimony-backend/internal/application"
	"github.com/teamhm/matrimony-backend/pkg/response"
	"github.com/teamhm/matrimony-backend/pkg/validation"
)

type AuthHandler struct {
	Identity *application.IdentityService
	Logger   *logrus.Logger
}

func NewAuthHandler(identity *application.IdentityService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Identity: identity, Logger: logger}
}

type registerRequest struct {
	Email   string         `json:"email" binding:"required,email"`
	Profile profilePayload `json:"profile" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

// Register accepts a public submission. The account stays pending until an
// administrator approves it, so the response carries no credentials.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	profile, err := req.Profile.toEntity()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"dob": "must match date format: 2006-01-02"})
		return
	}

	if err := h.Identity.Register(c.Request.Context(), req.Email, profile); err != nil {
		if errors.Is(err, application.ErrDuplicateEmail) {
			response.Error(c, http.StatusConflict, "user already exists", nil)
			return
		}
		h.Logger.WithError(err).Error("registration failed")
		response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"profile_id": profile.ID}, "registration submitted, pending approval")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	pair, err := h.Identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token":            pair.AccessToken,
		"tokenExpiresAt":   pair.AccessTokenExpiry,
		"refreshToken":     pair.RefreshToken,
		"refreshExpiresAt": pair.RefreshTokenExpiry,
	}, "login successful")
}

// Logout revokes exactly the session holding the presented refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Identity.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, application.ErrInvalidToken) {
			response.Error(c, http.StatusUnauthorized, "invalid refresh token", nil)
			return
		}
		h.Logger.WithError(err).Error("logout failed")
		response.Error(c, http.StatusInternalServerError, "logout failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	access, exp, err := h.Identity.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, application.ErrInvalidOrExpiredToken) {
			response.Error(c, http.StatusUnauthorized, "invalid or expired refresh token", nil)
			return
		}
		h.Logger.WithError(err).Error("token refresh failed")
		response.Error(c, http.StatusInternalServerError, "token refresh failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": access, "tokenExpiresAt": exp}, "token refreshed")
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Identity.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("password reset request failed")
		response.Error(c, http.StatusInternalServerError, "password reset request failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "password reset email sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Identity.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		if errors.Is(err, application.ErrInvalidOrExpiredToken) {
			response.Error(c, http.StatusBadRequest, "invalid or expired reset token", nil)
			return
		}
		h.Logger.WithError(err).Error("password reset failed")
		response.Error(c, http.StatusInternalServerError, "password reset failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password has been reset")
}

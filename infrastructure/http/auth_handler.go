package http

import (
	"fmt"
	"net/http"

	"givelink/auth"
	"givelink/domain"
	"givelink/errors"
	"givelink/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth     services.IAuthService
	profiles services.IProfileService
}

func NewAuthHandler(authService services.IAuthService, profileService services.IProfileService) *AuthHandler {
	return &AuthHandler{auth: authService, profiles: profileService}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(c, fmt.Errorf("%w: %v", errors.ErrInvalidRole, err))
		return
	}

	token, err := h.auth.Register(req.Email, req.Password, role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me returns the caller's own profile, complete or not.
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.profiles.Get(auth.MustUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toProfileView(profile)})
}

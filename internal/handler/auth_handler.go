package handler

import (
	"errors"
	"net/http"

	"microloan/internal/service"
	"microloan/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Telephone string `json:"telephone" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request: "+err.Error(), http.StatusBadRequest))
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Telephone, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse(service.ErrInvalidCredentials.Error(), http.StatusUnauthorized))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to login", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Login successful", gin.H{
		"token": token,
		"user":  user,
	}, http.StatusOK))
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}
}

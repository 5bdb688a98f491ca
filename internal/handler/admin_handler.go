package handler

import (
	"log"
	"net/http"

	"microloan/internal/model"
	"microloan/internal/service"
	"microloan/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles administrative requests
type AdminHandler struct {
	adminService service.AdminService
	userService  service.UserService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, userService service.UserService) *AdminHandler {
	return &AdminHandler{adminService: adminService, userService: userService}
}

// CreateAdmin registers a new ADMIN account; the route is admin-guarded
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request: "+err.Error(), http.StatusBadRequest))
		return
	}

	user, token, err := h.userService.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		renderUserCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Admin created successfully", gin.H{
		"user":  user,
		"token": token,
	}, http.StatusCreated))
}

// Stats returns platform-wide user and loan counts
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching platform stats: %v", err)
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch stats", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Stats fetched successfully", stats, http.StatusOK))
}

// RegisterAdminRoutes registers admin routes
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminGroup := rg.Group("/admin", authMW, adminMW)
	{
		adminGroup.POST("/create", h.CreateAdmin)
		adminGroup.GET("/stats", h.Stats)
	}
}

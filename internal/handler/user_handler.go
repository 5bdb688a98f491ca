package handler

import (
	"errors"
	"log"
	"net/http"

	"microloan/internal/model"
	"microloan/internal/service"
	"microloan/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user registration and lookup requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Create registers a new end-user account and returns it with a session token
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request: "+err.Error(), http.StatusBadRequest))
		return
	}

	user, token, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		renderUserCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("User created successfully", gin.H{
		"user":  user,
		"token": token,
	}, http.StatusCreated))
}

func renderUserCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTelephoneExists):
		c.JSON(http.StatusConflict, utils.ErrorResponse(err.Error(), http.StatusConflict))
	case errors.Is(err, model.ErrInvalidTelephone), errors.Is(err, model.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error(), http.StatusBadRequest))
	default:
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create user", http.StatusInternalServerError))
	}
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid user ID", http.StatusBadRequest))
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse(service.ErrUserNotFound.Error(), http.StatusNotFound))
			return
		}
		log.Printf("Error getting user by ID: %v", err)
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to retrieve user", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("User fetched successfully", gin.H{"user": user}, http.StatusOK))
}

// List returns one page of users for admins, filterable by role (userType)
// and a free-text search over names and telephone
func (h *UserHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	var filters model.UserFilters
	if roleParam := c.Query("userType"); roleParam != "" {
		if roleParam != model.RoleEndUser && roleParam != model.RoleAdmin {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid userType filter", http.StatusBadRequest))
			return
		}
		filters.Role = &roleParam
	}
	if q := c.Query("q"); q != "" {
		filters.Search = &q
	}

	users, meta, err := h.service.List(c.Request.Context(), filters, page, limit)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to retrieve users", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Users fetched successfully", gin.H{
		"users": users,
		"meta":  meta,
	}, http.StatusOK))
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	userGroup := rg.Group("/user")
	{
		userGroup.POST("/create", h.Create)
		userGroup.GET("/:id", authMW, h.GetByID)
		userGroup.GET("", authMW, adminMW, h.List)
	}
}

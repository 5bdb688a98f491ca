package handler

import (
	"errors"
	"strconv"

	"microloan/internal/middleware"
	"microloan/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getAuthUserID returns the authenticated user ID set by the JWT middleware
func getAuthUserID(c *gin.Context) (uuid.UUID, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// pageParams reads page/limit query parameters, falling back to the
// defaults for missing or non-positive values
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(model.DefaultPage)))
	if err != nil {
		page = model.DefaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(model.DefaultLimit)))
	if err != nil {
		limit = model.DefaultLimit
	}
	return model.ClampPage(page, limit)
}

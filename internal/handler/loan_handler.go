package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"microloan/internal/model"
	"microloan/internal/service"
	"microloan/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoanHandler handles loan lifecycle requests
type LoanHandler struct {
	service service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(s service.LoanService) *LoanHandler {
	return &LoanHandler{service: s}
}

func (h *LoanHandler) Create(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse(err.Error(), http.StatusUnauthorized))
		return
	}

	var req model.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request: "+err.Error(), http.StatusBadRequest))
		return
	}

	loan, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrAmountExceedsRule) {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error(), http.StatusBadRequest))
			return
		}
		log.Printf("Error creating loan: %v", err)
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create loan", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Loan created successfully", gin.H{"loan": loan}, http.StatusCreated))
}

func (h *LoanHandler) Submit(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse(err.Error(), http.StatusUnauthorized))
		return
	}

	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid loan ID", http.StatusBadRequest))
		return
	}

	loan, err := h.service.Submit(c.Request.Context(), userID, loanID)
	if err != nil {
		h.renderLifecycleError(c, err, "Failed to submit loan")
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Loan submitted successfully", gin.H{"loan": loan}, http.StatusOK))
}

func (h *LoanHandler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve, "Loan approved successfully", "Failed to approve loan")
}

func (h *LoanHandler) Decline(c *gin.Context) {
	h.review(c, h.service.Decline, "Loan declined successfully", "Failed to decline loan")
}

func (h *LoanHandler) review(c *gin.Context, transition func(ctx context.Context, id uuid.UUID) (*model.Loan, error), okMsg, failMsg string) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid loan ID", http.StatusBadRequest))
		return
	}

	loan, err := transition(c.Request.Context(), loanID)
	if err != nil {
		h.renderLifecycleError(c, err, failMsg)
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse(okMsg, gin.H{"loan": loan}, http.StatusOK))
}

func (h *LoanHandler) renderLifecycleError(c *gin.Context, err error, failMsg string) {
	switch {
	case errors.Is(err, service.ErrLoanNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse(service.ErrLoanNotFound.Error(), http.StatusNotFound))
	case errors.Is(err, service.ErrNotLoanOwner):
		c.JSON(http.StatusForbidden, utils.ErrorResponse(service.ErrNotLoanOwner.Error(), http.StatusForbidden))
	case errors.Is(err, service.ErrLoanNotPending), errors.Is(err, service.ErrLoanNotSubmitted):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error(), http.StatusBadRequest))
	default:
		log.Printf("%s: %v", failMsg, err)
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(failMsg, http.StatusInternalServerError))
	}
}

func (h *LoanHandler) GetByID(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid loan ID", http.StatusBadRequest))
		return
	}

	loan, err := h.service.GetByID(c.Request.Context(), loanID)
	if err != nil {
		h.renderLifecycleError(c, err, "Failed to retrieve loan")
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Loan fetched successfully", gin.H{"loan": loan}, http.StatusOK))
}

// List returns one page of loans for admins, filterable by status and owner
func (h *LoanHandler) List(c *gin.Context) {
	page, limit := pageParams(c)

	var filters model.LoanFilters
	if statusParam := c.Query("status"); statusParam != "" {
		switch statusParam {
		case model.LoanStatusPending, model.LoanStatusSubmitted, model.LoanStatusApproved, model.LoanStatusDeclined:
			filters.Status = &statusParam
		default:
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid status filter", http.StatusBadRequest))
			return
		}
	}
	if userIDParam := c.Query("userId"); userIDParam != "" {
		ownerID, err := uuid.Parse(userIDParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid userId filter", http.StatusBadRequest))
			return
		}
		filters.UserID = &ownerID
	}

	loans, meta, err := h.service.List(c.Request.Context(), filters, page, limit)
	if err != nil {
		log.Printf("Error listing loans: %v", err)
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to retrieve loans", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Loans fetched successfully", gin.H{
		"loans": loans,
		"meta":  meta,
	}, http.StatusOK))
}

func (h *LoanHandler) Delete(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid loan ID", http.StatusBadRequest))
		return
	}

	loan, err := h.service.Delete(c.Request.Context(), loanID)
	if err != nil {
		h.renderLifecycleError(c, err, "Failed to delete loan")
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Loan deleted successfully", gin.H{"loan": loan}, http.StatusOK))
}

// RegisterLoanRoutes registers loan routes. Create and submit belong to end
// users, the review and admin listing routes to admins, and reads to any
// authenticated caller.
func (h *LoanHandler) RegisterLoanRoutes(rg *gin.RouterGroup, authMW, endUserMW, adminMW gin.HandlerFunc) {
	loanGroup := rg.Group("/loan")
	loanGroup.Use(authMW)
	{
		loanGroup.POST("/create", endUserMW, h.Create)
		loanGroup.PATCH("/submit/:id", endUserMW, h.Submit)
		loanGroup.PATCH("/approve/:id", adminMW, h.Approve)
		loanGroup.PATCH("/decline/:id", adminMW, h.Decline)
		loanGroup.GET("", adminMW, h.List)
		loanGroup.GET("/:id", h.GetByID)
		loanGroup.DELETE("/:id", adminMW, h.Delete)
	}
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subledger-inc/subledger/internal/application/subscription/usecases"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	"github.com/subledger-inc/subledger/internal/shared/id"
	"github.com/subledger-inc/subledger/internal/shared/logger"
	"github.com/subledger-inc/subledger/internal/shared/utils"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// SubscriptionHandler handles subscription lifecycle and billing operations
type SubscriptionHandler struct {
	createUseCase  *usecases.CreateSubscriptionUseCase
	getUseCase     *usecases.GetSubscriptionUseCase
	listUseCase    *usecases.ListSubscriptionsUseCase
	updateUseCase  *usecases.UpdateSubscriptionUseCase
	deleteUseCase  *usecases.DeleteSubscriptionUseCase
	pauseUseCase   *usecases.PauseSubscriptionUseCase
	resumeUseCase  *usecases.ResumeSubscriptionUseCase
	cancelUseCase  *usecases.CancelSubscriptionUseCase
	billingUseCase *usecases.ProcessBillingUseCase
	invoiceUseCase *usecases.GenerateInvoiceUseCase
	logger         logger.Interface
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	createUC *usecases.CreateSubscriptionUseCase,
	getUC *usecases.GetSubscriptionUseCase,
	listUC *usecases.ListSubscriptionsUseCase,
	updateUC *usecases.UpdateSubscriptionUseCase,
	deleteUC *usecases.DeleteSubscriptionUseCase,
	pauseUC *usecases.PauseSubscriptionUseCase,
	resumeUC *usecases.ResumeSubscriptionUseCase,
	cancelUC *usecases.CancelSubscriptionUseCase,
	billingUC *usecases.ProcessBillingUseCase,
	invoiceUC *usecases.GenerateInvoiceUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUseCase:  createUC,
		getUseCase:     getUC,
		listUseCase:    listUC,
		updateUseCase:  updateUC,
		deleteUseCase:  deleteUC,
		pauseUseCase:   pauseUC,
		resumeUseCase:  resumeUC,
		cancelUseCase:  cancelUC,
		billingUseCase: billingUC,
		invoiceUseCase: invoiceUC,
		logger:         logger,
	}
}

// CreateSubscriptionRequest represents the request to create a subscription
type CreateSubscriptionRequest struct {
	CustomerRef string                 `json:"customer_ref" binding:"required" validate:"required,min=1,max=255"`
	Plan        string                 `json:"plan" binding:"required" validate:"required,min=1,max=255"`
	Amount      string                 `json:"amount" binding:"required" validate:"required"`
	Cadence     string                 `json:"cadence" validate:"omitempty,oneof=weekly monthly quarterly yearly"`
	AnchorDate  string                 `json:"anchor_date" validate:"omitempty,datetime=2006-01-02"`
	Notes       string                 `json:"notes" validate:"max=1000"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// UpdateSubscriptionRequest represents the request to update a subscription
type UpdateSubscriptionRequest struct {
	CustomerRef string `json:"customer_ref" binding:"required" validate:"required,min=1,max=255"`
	Plan        string `json:"plan" binding:"required" validate:"required,min=1,max=255"`
	Amount      string `json:"amount" binding:"required" validate:"required"`
	Cadence     string `json:"cadence" binding:"required" validate:"required,oneof=weekly monthly quarterly yearly"`
	Notes       string `json:"notes" validate:"max=1000"`
	AutoRenew   bool   `json:"auto_renew"`
}

// CancelSubscriptionRequest carries the optional cancellation reason
type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

// ProcessBillingRequest carries the optional billing date override
type ProcessBillingRequest struct {
	BillingDate string `json:"billing_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var anchorDate time.Time
	if req.AnchorDate != "" {
		parsed, err := biztime.ParseDate(req.AnchorDate)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid anchor_date, expected YYYY-MM-DD")
			return
		}
		anchorDate = parsed
	}

	cmd := usecases.CreateSubscriptionCommand{
		CustomerRef: req.CustomerRef,
		Plan:        req.Plan,
		Amount:      req.Amount,
		Cadence:     req.Cadence,
		AnchorDate:  anchorDate,
		Notes:       req.Notes,
		Metadata:    req.Metadata,
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscription created successfully")
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sid, ok := h.subscriptionSID(c)
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), usecases.GetSubscriptionCommand{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	if status := c.Query("status"); status != "" {
		if err := utils.ValidateStatus(status); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}
	if cadence := c.Query("cadence"); cadence != "" {
		if err := utils.ValidateCadence(cadence); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	cmd := usecases.ListSubscriptionsCommand{
		Status:    c.Query("status"),
		Cadence:   c.Query("cadence"),
		Search:    c.Query("search"),
		DueOnly:   c.Query("due") == "true",
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      1,
		PageSize:  defaultPageSize,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			cmd.Page = p
		}
	}
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 && ps <= maxPageSize {
			cmd.PageSize = ps
		}
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Subscriptions, result.Total, result.Page, result.PageSize)
}

func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	sid, ok := h.subscriptionSID(c)
	if !ok {
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update subscription", "error", err, "sid", sid)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.UpdateSubscriptionCommand{
		SID:         sid,
		CustomerRef: req.CustomerRef,
		Plan:        req.Plan,
		Amount:      req.Amount,
		Cadence:     req.Cadence,
		Notes:       req.Notes,
		AutoRenew:   req.AutoRenew,
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription updated successfully", result)
}

func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	sid, ok := h.subscriptionSID(c)
	if !ok {
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), usecases.DeleteSubscriptionCommand{SID: sid}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *SubscriptionHandler) PauseSubscription(c *gin.Context) {
	sid, ok := h.subscriptionSID(c)
	if !ok {
		return
	}

	result, err := h.pauseUseCase.Execute(c.Request.Context(), usecases.PauseSubscriptionCommand{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription paused", result)
}

func (h *SubscriptionHandler) ResumeSubscription(c *gin.Context) {
	sid, ok := h.subscriptionSID(c)
	if !ok {
		return
	}

	result, err := h.resumeUseCase.Execute(c.Request.Context(), usecases.ResumeSubscriptionCommand{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription resumed", result)
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	sid, ok := h.subscriptionSID(c)
	if !ok {
		return
	}

	var req CancelSubscriptionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		SID:    sid,
		Reason: req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", result)
}

func (h *SubscriptionHandler) ProcessBilling(c *gin.Context) {
	sid, ok := h.subscriptionSID(c)
	if !ok {
		return
	}

	var req ProcessBillingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if err := utils.ValidateStruct(&req); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	cmd := usecases.ProcessBillingCommand{SID: sid}
	if req.BillingDate != "" {
		parsed, err := biztime.ParseDate(req.BillingDate)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid billing_date, expected YYYY-MM-DD")
			return
		}
		cmd.BillingDate = &parsed
	}

	result, err := h.billingUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription billed", result)
}

func (h *SubscriptionHandler) GenerateInvoiceDraft(c *gin.Context) {
	sid, ok := h.subscriptionSID(c)
	if !ok {
		return
	}

	result, err := h.invoiceUseCase.Execute(c.Request.Context(), usecases.GenerateInvoiceCommand{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// subscriptionSID extracts and validates the sub_xxx path parameter.
func (h *SubscriptionHandler) subscriptionSID(c *gin.Context) (string, bool) {
	sid := c.Param("id")
	if err := id.ValidatePrefix(sid, id.PrefixSubscription); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid subscription ID format, expected sub_xxxxx")
		return "", false
	}
	return sid, true
}

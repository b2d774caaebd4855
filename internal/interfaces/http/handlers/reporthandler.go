package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subledger-inc/subledger/internal/application/subscription/usecases"
	"github.com/subledger-inc/subledger/internal/shared/logger"
	"github.com/subledger-inc/subledger/internal/shared/utils"
)

// ReportHandler serves revenue and billing reports
type ReportHandler struct {
	mrrUseCase   *usecases.CalculateMRRUseCase
	dueUseCase   *usecases.ListDueSubscriptionsUseCase
	sweepUseCase *usecases.ProcessBillingUseCase
	logger       logger.Interface
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	mrrUC *usecases.CalculateMRRUseCase,
	dueUC *usecases.ListDueSubscriptionsUseCase,
	sweepUC *usecases.ProcessBillingUseCase,
	logger logger.Interface,
) *ReportHandler {
	return &ReportHandler{
		mrrUseCase:   mrrUC,
		dueUseCase:   dueUC,
		sweepUseCase: sweepUC,
		logger:       logger,
	}
}

// MRRReport returns the current monthly recurring revenue breakdown
func (h *ReportHandler) MRRReport(c *gin.Context) {
	result, err := h.mrrUseCase.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// DueReport returns subscriptions currently due for billing
func (h *ReportHandler) DueReport(c *gin.Context) {
	result, err := h.dueUseCase.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RunBillingSweep bills every due subscription and reports the outcome
func (h *ReportHandler) RunBillingSweep(c *gin.Context) {
	report, err := h.sweepUseCase.RunSweep(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Billing sweep completed", report)
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subledger-inc/subledger/internal/interfaces/http/middleware"
	"github.com/subledger-inc/subledger/internal/shared/utils"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.Recovery())
	c.engine.Use(middleware.Logger(c.log))

	c.engine.GET("/health", func(ctx *gin.Context) {
		utils.SuccessResponse(ctx, http.StatusOK, "", gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := c.engine.Group("/api/v1")

	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.POST("", c.subscriptionHandler.CreateSubscription)
		subscriptions.GET("", c.subscriptionHandler.ListSubscriptions)
		subscriptions.GET("/:id", c.subscriptionHandler.GetSubscription)
		subscriptions.PUT("/:id", c.subscriptionHandler.UpdateSubscription)
		subscriptions.DELETE("/:id", c.subscriptionHandler.DeleteSubscription)

		subscriptions.POST("/:id/pause", c.subscriptionHandler.PauseSubscription)
		subscriptions.POST("/:id/resume", c.subscriptionHandler.ResumeSubscription)
		subscriptions.POST("/:id/cancel", c.subscriptionHandler.CancelSubscription)
		subscriptions.POST("/:id/bill", c.subscriptionHandler.ProcessBilling)
		subscriptions.GET("/:id/invoice-draft", c.subscriptionHandler.GenerateInvoiceDraft)
	}

	reports := v1.Group("/reports")
	{
		reports.GET("/mrr", c.reportHandler.MRRReport)
		reports.GET("/due", c.reportHandler.DueReport)
	}

	v1.POST("/billing/run", c.reportHandler.RunBillingSweep)
}

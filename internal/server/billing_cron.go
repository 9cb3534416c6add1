package server

import (
	"net/http"
	"time"

	"github.com/Huve14/Go-Moto-sub000/internal/billing/lifecycle"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type billingCronResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Error     string            `json:"error,omitempty"`
	Results   lifecycle.Summary `json:"results"`
	Timestamp string            `json:"timestamp,omitempty"`
}

// RunBillingCron executes one subscription lifecycle run. The wall clock is
// read once here and threaded through all three passes.
func (s *Server) RunBillingCron(c *gin.Context) {
	now := s.clk.Now()

	summary, err := s.runner.Run(c.Request.Context(), now)
	if err != nil {
		s.log.Error("billing cron failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, billingCronResponse{
			Success: false,
			Error:   "Internal server error",
			Results: summary,
		})
		return
	}

	c.JSON(http.StatusOK, billingCronResponse{
		Success:   true,
		Message:   "Billing cron job completed",
		Results:   summary,
		Timestamp: now.Format(time.RFC3339),
	})
}

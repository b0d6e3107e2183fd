package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devreport/year-in-review/internal/domain"
	"github.com/devreport/year-in-review/internal/report"
)

// Handler serves a report computed once at startup
type Handler struct {
	report   *domain.Report
	markdown string
}

// NewHandler creates a new API handler for a computed report
func NewHandler(r *domain.Report) *Handler {
	return &Handler{
		report:   r,
		markdown: report.Render(r),
	}
}

// HealthCheck returns service health
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"year":   h.report.Year,
	})
}

// GetReport returns the rendered Markdown report
// GET /api/v1/report
func (h *Handler) GetReport(c *gin.Context) {
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(h.markdown))
}

// GetMetrics returns the raw metrics object
// GET /api/v1/metrics
func (h *Handler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.report,
	})
}

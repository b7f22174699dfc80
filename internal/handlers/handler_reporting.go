package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/dto"
	"github.com/SscSPs/ohada_reporting_app/internal/middleware"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/analytics"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportingHandler handles HTTP requests related to report generation
type reportingHandler struct {
	reportingService portssvc.ReportingService
	analytics        *analytics.PosthogClientWrapper
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, posthog *analytics.PosthogClientWrapper) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		analytics:        posthog,
	}
}

// registerReportingRoutes registers the report and journal routes. Generation
// is rate limited when limit is non-nil.
func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingService, posthog *analytics.PosthogClientWrapper, limit gin.HandlerFunc) {
	h := newReportingHandler(rs, posthog)

	generate := []gin.HandlerFunc{h.generateReport}
	if limit != nil {
		generate = append([]gin.HandlerFunc{limit}, generate...)
	}

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/types", h.listReportTypes)
		reportingGroup.POST("", generate...)
	}
	rg.POST("/journal/print", h.printJournal)
}

// listReportTypes godoc
// @Summary List report types
// @Description Lists the implemented report codes in menu order
// @Tags reports
// @Produce json
// @Success 200 {array} dto.ReportTypeResponse
// @Router /reports/types [get]
func (h *reportingHandler) listReportTypes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToReportTypeResponses())
}

// generateReport godoc
// @Summary Generate a report
// @Description Builds a ledger or trial balance workbook for a company and month range, or serves it from the cache.
// @Description The X-Cache response header is HIT when the workbook was already cached. Pass format=json to get the artifact description instead of the file.
// @Tags reports
// @Accept json,x-www-form-urlencoded
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,json
// @Param request body dto.GenerateReportRequest true "Report parameters"
// @Param format query string false "json to describe the artifact instead of downloading it"
// @Success 200 {file} file "Report workbook"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Missing source file"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Failure 501 {object} dto.ErrorResponse "Not Yet Implemented"
// @Router /reports [post]
func (h *reportingHandler) generateReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Invalid report request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("report_type", req.ReportType),
		slog.String("company_code", req.CompanyCode),
		slog.Int("year", req.Year),
	)
	logger.Info("Received request to generate report")

	artifact, err := h.reportingService.GenerateReport(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}

	logger.Info("Report ready",
		slog.String("file", artifact.FileName),
		slog.Bool("cache_hit", artifact.CacheHit),
		slog.Int("warnings", len(artifact.Warnings)))
	middleware.PosthogEvent(c, h.analytics, "report_generated", map[string]any{
		"report_type":  req.ReportType,
		"company_code": req.CompanyCode,
		"cache_hit":    artifact.CacheHit,
		"empty":        artifact.Empty,
	})

	writeArtifact(c, artifact)
}

// printJournal godoc
// @Summary Print an accounting slip
// @Description Renders the "Fiche Comptable" of one document number over the fiscal year. Never cached.
// @Tags reports
// @Accept json,x-www-form-urlencoded
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,json
// @Param request body dto.PrintJournalRequest true "Document selection"
// @Success 200 {file} file "Journal workbook"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "No line for the document number"
// @Failure 500 {object} dto.ErrorResponse "Failed to print journal"
// @Router /journal/print [post]
func (h *reportingHandler) printJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PrintJournalRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Invalid journal request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	artifact, err := h.reportingService.PrintJournal(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to print journal")
		return
	}
	logger.Info("Journal printed", slog.String("document_number", req.DocumentNumber), slog.String("file", artifact.FileName))

	writeArtifact(c, artifact)
}

// writeArtifact sends the workbook as an attachment, or its description when format=json.
func writeArtifact(c *gin.Context, artifact *domain.ReportArtifact) {
	cache := "MISS"
	if artifact.CacheHit {
		cache = "HIT"
	}
	c.Header("X-Cache", cache)
	if artifact.CacheKey != "" {
		c.Header("X-Cache-Key", artifact.CacheKey)
	}
	if len(artifact.Warnings) > 0 {
		c.Header("X-Report-Warnings", strconv.Itoa(len(artifact.Warnings)))
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, dto.ToReportArtifactResponse(artifact))
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.FileAttachment(artifact.Path, artifact.FileName)
}

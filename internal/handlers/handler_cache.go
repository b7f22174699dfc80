package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/dto"
	"github.com/SscSPs/ohada_reporting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const defaultEntriesLimit = 20

type cacheHandler struct {
	reportingService portssvc.ReportingService
}

func newCacheHandler(rs portssvc.ReportingService) *cacheHandler {
	return &cacheHandler{reportingService: rs}
}

// registerCacheRoutes registers the cache maintenance routes behind the given auth chain.
func registerCacheRoutes(rg *gin.RouterGroup, rs portssvc.ReportingService, auth ...gin.HandlerFunc) {
	h := newCacheHandler(rs)

	cacheGroup := rg.Group("/cache", auth...)
	{
		cacheGroup.GET("/stats", h.getStats)
		cacheGroup.GET("/entries", h.listEntries)
		cacheGroup.POST("/clear", h.clearCache)
	}
}

// getStats godoc
// @Summary Report cache statistics
// @Description Number of cached artifacts, their total size and the backend holding the entries
// @Tags cache
// @Produce json
// @Success 200 {object} dto.CacheStatsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to read cache statistics"
// @Security BearerAuth
// @Router /cache/stats [get]
func (h *cacheHandler) getStats(c *gin.Context) {
	stats, err := h.reportingService.CacheStats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to read cache statistics")
		return
	}
	c.JSON(http.StatusOK, dto.ToCacheStatsResponse(stats))
}

// listEntries godoc
// @Summary List cached artifacts
// @Description Pages through the cache entries, most recently accessed first
// @Tags cache
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param pageToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.CacheEntryPageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid limit or page token"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list cache entries"
// @Security BearerAuth
// @Router /cache/entries [get]
func (h *cacheHandler) listEntries(c *gin.Context) {
	limit := defaultEntriesLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit: " + raw})
			return
		}
		limit = parsed
	}

	page, err := h.reportingService.CacheEntries(c.Request.Context(), limit, c.Query("pageToken"))
	if err != nil {
		respondError(c, err, "Failed to list cache entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToCacheEntryPageResponse(page))
}

// clearCache godoc
// @Summary Clear the report cache
// @Description Deletes one cached artifact selected by its key, or every artifact when no key is given
// @Tags cache
// @Accept json
// @Produce json
// @Param request body dto.ClearCacheRequest false "Entry to clear"
// @Param key query string false "Entry to clear, alternative to the body"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse "Malformed cache key"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Failed to clear cache"
// @Security BearerAuth
// @Router /cache/clear [post]
func (h *cacheHandler) clearCache(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ClearCacheRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
			return
		}
	}
	if req.CacheKey == "" {
		req.CacheKey = c.Query("key")
	}

	var key *domain.CacheKey
	if req.CacheKey != "" {
		parsed, err := domain.ParseCacheKey(req.CacheKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		key = &parsed
	}

	if err := h.reportingService.ClearCache(c.Request.Context(), key); err != nil {
		respondError(c, err, "Failed to clear cache")
		return
	}

	operator, _ := middleware.GetOperatorIDFromContext(c)
	if key == nil {
		logger.Info("Report cache cleared", slog.String("operator", operator))
		c.JSON(http.StatusOK, gin.H{"message": "Cache cleared"})
		return
	}
	logger.Info("Report cache entry cleared", slog.String("operator", operator), slog.String("cache_key", req.CacheKey))
	c.JSON(http.StatusOK, gin.H{"message": "Cache entry cleared"})
}

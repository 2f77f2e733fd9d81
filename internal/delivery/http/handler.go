package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecorec/backend/internal/domain"
	"github.com/ecorec/backend/internal/logging"
	"github.com/ecorec/backend/internal/usecase"
)

// Version is reported by the health check
const Version = "1.0.0"

// HandlerConfig holds request defaults
type HandlerConfig struct {
	DefaultMinPrice float64
	DefaultMaxPrice float64
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog *usecase.CatalogService
	cfg     HandlerConfig
	log     zerolog.Logger
}

// NewHandler creates a new HTTP handler. A nil catalog service makes every
// catalog endpoint answer 501.
func NewHandler(catalog *usecase.CatalogService, cfg HandlerConfig) *Handler {
	if cfg.DefaultMaxPrice <= 0 {
		cfg.DefaultMinPrice = domain.DefaultMinPrice
		cfg.DefaultMaxPrice = domain.DefaultMaxPrice
	}
	return &Handler{
		catalog: catalog,
		cfg:     cfg,
		log:     logging.Component("handler"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ecorec-backend",
		"version": Version,
	})
}

// searchQuery holds the query parameters of a product search
type searchQuery struct {
	Query    string   `form:"q"`
	Mode     string   `form:"mode"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
}

// SearchProducts handles GET /api/v1/products/search
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	opts := h.filterOptions(q)
	result, err := h.catalog.Search(c.Request.Context(), "", q.Query, opts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// filterOptions fills unset price bounds with the configured defaults
func (h *Handler) filterOptions(q searchQuery) domain.FilterOptions {
	opts := domain.FilterOptions{
		Mode:     domain.FilterMode(q.Mode),
		MinPrice: h.cfg.DefaultMinPrice,
		MaxPrice: h.cfg.DefaultMaxPrice,
	}
	if q.MinPrice != nil {
		opts.MinPrice = *q.MinPrice
	}
	if q.MaxPrice != nil {
		opts.MaxPrice = *q.MaxPrice
	}
	return opts
}

// recommendQuery holds the query parameters of a recommendation lookup
type recommendQuery struct {
	Name string `form:"name" binding:"required"`
	N    int    `form:"n" binding:"gte=0,lte=100"`
}

// Recommendations handles GET /api/v1/products/recommendations
func (h *Handler) Recommendations(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var q recommendQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	recs, err := h.catalog.Recommend(c.Request.Context(), "", q.Name, q.N)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":            q.Name,
		"recommendations": recs,
	})
}

// Browse handles POST /api/v1/browse
func (h *Handler) Browse(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	// Price bounds absent from the body keep the defaults
	req := domain.BrowseRequest{
		Options: domain.FilterOptions{
			MinPrice: h.cfg.DefaultMinPrice,
			MaxPrice: h.cfg.DefaultMaxPrice,
		},
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.catalog.Browse(c.Request.Context(), "", req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CatalogStats handles GET /api/v1/catalog/stats
func (h *Handler) CatalogStats(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	stats, err := h.catalog.Stats(c.Request.Context(), "")
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ready answers 501 when no catalog service is wired
func (h *Handler) ready(c *gin.Context) bool {
	if h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "catalog service not configured"})
		return false
	}
	return true
}

// respondError maps service errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrMissingColumn):
		h.log.Error().Err(err).Msg("catalog unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

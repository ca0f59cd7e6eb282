package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/internal/domain/dto"
	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/guttosm/nfsindex/internal/middleware"
	"github.com/guttosm/nfsindex/internal/service"
	"github.com/guttosm/nfsindex/internal/upstream"
)

const maxPerPage = 500

// Handler provides HTTP handlers for the dashboard endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters and bodies
//   - Delegate to the dashboard service and session store
//   - Translate results into response DTOs
//   - Map service errors to HTTP status codes
type Handler struct {
	svc      service.DashboardService
	sessions *service.SessionStore
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.DashboardService): builds listings, analytics and dashboards.
//   - sessions (*service.SessionStore): per-session views.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.DashboardService, sessions *service.SessionStore) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// GetModels godoc
// @Summary      List vehicle models
// @Description  Returns every model known to the data source
// @Tags         models
// @Produce      json
// @Success      200  {object}  dto.ModelsResponse  "Success"
// @Failure      502  {object}  dto.ErrorResponse   "Upstream Error"
// @Router       /api/v1/models [get]
func (h *Handler) GetModels(c *gin.Context) {
	out, err := h.svc.Models(c.Request.Context())
	if err != nil {
		writeError(c, "failed to fetch models", err)
		return
	}
	if out == nil {
		out = []models.VehicleModel{}
	}
	c.JSON(http.StatusOK, dto.ModelsResponse{Models: out})
}

// GetListings handles GET /api/v1/listings requests.
//
// Query Parameters:
//   - model_id (int, required): positive model id.
//   - trim (string, optional): case-insensitive trim filter.
//   - page, per_page (int, optional): 1-based pagination; omitted per_page returns everything.
//
// GetListings godoc
// @Summary      List sale listings of a model
// @Description  Returns the listings of a model, optionally filtered by trim and paginated
// @Tags         listings
// @Produce      json
// @Param        model_id  query     int     true   "Model id" example(1)
// @Param        trim      query     string  false  "Trim filter" example(ROADSTER)
// @Param        page      query     int     false  "Page (1-based)" example(1)
// @Param        per_page  query     int     false  "Page size" example(50)
// @Success      200       {object}  dto.ListingsResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse     "Bad Request"
// @Failure      404       {object}  dto.ErrorResponse     "Not Found"
// @Failure      502       {object}  dto.ErrorResponse     "Upstream Error"
// @Router       /api/v1/listings [get]
func (h *Handler) GetListings(c *gin.Context) {
	modelID, ok := modelIDParam(c)
	if !ok {
		return
	}
	page, perPage, ok := pageParams(c)
	if !ok {
		return
	}
	trim := trimParam(c)

	listings, err := h.svc.Listings(c.Request.Context(), modelID, trim)
	if err != nil {
		writeError(c, "failed to fetch listings", err)
		return
	}

	resp := dto.ListingsResponse{ModelID: modelID, Trim: trim, Total: len(listings)}
	if perPage > 0 {
		resp.Page, resp.PerPage = page, perPage
		listings = paginate(listings, page, perPage)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	resp.Count = len(listings)
	resp.Listings = listings
	c.JSON(http.StatusOK, resp)
}

// GetTrends godoc
// @Summary      Monthly price trend of a model
// @Description  Server-computed when unfiltered (analytics mode auto), recomputed from listings otherwise
// @Tags         analytics
// @Produce      json
// @Param        model_id  query     int     true   "Model id" example(1)
// @Param        trim      query     string  false  "Trim filter"
// @Success      200       {object}  dto.TrendsResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse   "Bad Request"
// @Failure      502       {object}  dto.ErrorResponse   "Upstream Error"
// @Router       /api/v1/analytics/trends [get]
func (h *Handler) GetTrends(c *gin.Context) {
	modelID, ok := modelIDParam(c)
	if !ok {
		return
	}
	trim := trimParam(c)

	trends, src, err := h.svc.Trends(c.Request.Context(), modelID, trim)
	if err != nil {
		writeError(c, "failed to compute trends", err)
		return
	}
	if trends == nil {
		trends = []models.TrendPoint{}
	}
	c.JSON(http.StatusOK, dto.TrendsResponse{ModelID: modelID, Trim: trim, Source: src, Trends: trends})
}

// GetStats godoc
// @Summary      Summary statistics of a model
// @Description  Server-computed when unfiltered (analytics mode auto), recomputed from listings otherwise
// @Tags         analytics
// @Produce      json
// @Param        model_id  query     int     true   "Model id" example(1)
// @Param        trim      query     string  false  "Trim filter"
// @Success      200       {object}  dto.StatsResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse  "Bad Request"
// @Failure      502       {object}  dto.ErrorResponse  "Upstream Error"
// @Router       /api/v1/analytics/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	modelID, ok := modelIDParam(c)
	if !ok {
		return
	}
	trim := trimParam(c)

	stats, src, err := h.svc.Stats(c.Request.Context(), modelID, trim)
	if err != nil {
		writeError(c, "failed to compute stats", err)
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{ModelID: modelID, Trim: trim, Source: src, Stats: stats})
}

// GetDashboard godoc
// @Summary      Full dashboard view
// @Description  Listings, trims, stats and trends of a model in one response
// @Tags         dashboard
// @Produce      json
// @Param        model_id  query     int     true   "Model id" example(1)
// @Param        trim      query     string  false  "Trim filter"
// @Success      200       {object}  models.Dashboard   "Success"
// @Failure      400       {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404       {object}  dto.ErrorResponse  "Not Found"
// @Failure      502       {object}  dto.ErrorResponse  "Upstream Error"
// @Router       /api/v1/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	modelID, ok := modelIDParam(c)
	if !ok {
		return
	}

	d, err := h.svc.Dashboard(c.Request.Context(), modelID, trimParam(c))
	if err != nil {
		writeError(c, "failed to build dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// modelIDParam parses the required model_id query parameter, writing a 400
// on failure.
func modelIDParam(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Query("model_id"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("model_id is required", nil))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("model_id must be a positive integer", err))
		return 0, false
	}
	return id, true
}

// pageParams parses optional page/per_page. page defaults to 1; per_page 0
// means no pagination.
func pageParams(c *gin.Context) (page, perPage int, ok bool) {
	page = 1
	if s := c.Query("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("page must be a positive integer", err))
			return 0, 0, false
		}
		page = v
	}
	if s := c.Query("per_page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxPerPage {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("per_page must be between 1 and 500", err))
			return 0, 0, false
		}
		perPage = v
	}
	return page, perPage, true
}

func trimParam(c *gin.Context) string {
	return strings.TrimSpace(c.Query("trim"))
}

// paginate returns page (1-based) of listings. Pages past the end are empty;
// the bound is checked before multiplying so huge page numbers cannot overflow.
func paginate(listings []models.Listing, page, perPage int) []models.Listing {
	if page < 1 || perPage < 1 || page-1 >= (len(listings)+perPage-1)/perPage {
		return []models.Listing{}
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > len(listings) {
		end = len(listings)
	}
	return listings[start:end]
}

// statusFor maps service and data source errors to HTTP status codes.
func statusFor(err error) int {
	var apiErr *upstream.APIError
	var urlErr *url.Error
	switch {
	case errors.Is(err, service.ErrModelNotFound), errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSuperseded), errors.Is(err, service.ErrNoSelection):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case upstream.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &apiErr), errors.As(err, &urlErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, message string, err error) {
	middleware.AbortWithError(c, statusFor(err), message, err)
}

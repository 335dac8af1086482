package handlers

import (
	"net/http"
	"strconv"

	"restaurant-delivery-lab/internal/queries"
	"restaurant-delivery-lab/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// knownCuisines is the closed selection list the dashboard offers
var knownCuisines = map[string]bool{
	queries.CuisineAll: true,
	"american":         true,
	"mexican":          true,
	"asian":            true,
	"italian":          true,
	"indian":           true,
}

// RecommendationHandler handles dashboard recommendation requests
type RecommendationHandler struct {
	service *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// RegisterRoutes registers the handler's routes with the router
func (h *RecommendationHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/recommendations", h.GetRecommendations)
}

// GetRecommendations validates the selected filters and runs the matching
// ranking. Zero matching rows is a normal outcome, reported as an explicit
// empty state rather than an error.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	pref := queries.Preference(c.DefaultQuery("preference", string(queries.PreferenceFastest)))
	switch pref {
	case queries.PreferenceFastest, queries.PreferenceValue, queries.PreferencePopular:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "preference must be one of fastest, value, popular"})
		return
	}

	cuisine := c.DefaultQuery("cuisine", queries.CuisineAll)
	if !knownCuisines[cuisine] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown cuisine"})
		return
	}

	market := int64(0)
	if raw := c.Query("market"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "market must be a non-negative integer"})
			return
		}
		market = v
	}

	limit := queries.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = v
	}

	filters := queries.Filters{Cuisine: cuisine, Market: market, Limit: limit}
	rows, err := h.service.Recommend(c.Request.Context(), pref, filters)
	if err != nil {
		log.Error().Err(err).Str("preference", string(pref)).Msg("Recommendation query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run recommendation query"})
		return
	}

	if len(rows) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "No matching restaurants found for your filters.",
			"results": []queries.RecommendationRow{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(rows),
		"results": rows,
	})
}

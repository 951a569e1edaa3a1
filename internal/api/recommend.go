package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/chefbot-v2/backend/internal/middleware"
	"github.com/pageza/chefbot-v2/backend/internal/service"
)

type RecommendHandler struct {
	recommender *service.Recommender
	searches    *service.SearchLogService
}

func NewRecommendHandler(recommender *service.Recommender, searches *service.SearchLogService) *RecommendHandler {
	return &RecommendHandler{
		recommender: recommender,
		searches:    searches,
	}
}

type RecommendRequest struct {
	Ingredients string   `json:"ingredients" binding:"required"`
	MaxTime     *float64 `json:"max_time"`
	IsVeg       bool     `json:"is_veg"`
}

type NutritionRecommendRequest struct {
	Ingredients     string             `json:"ingredients" binding:"required"`
	MaxTime         *float64           `json:"max_time"`
	IsVeg           bool               `json:"is_veg"`
	NutritionTarget map[string]float64 `json:"nutrition_target" binding:"required"`
	Tolerance       *float64           `json:"tolerance"`
}

// RegisterRoutes wires the recommendation endpoints. The group must already
// carry the auth middleware; rate limiting applies only to the scoring
// endpoints, not to status polling.
func (h *RecommendHandler) RegisterRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	router.GET("/model/status", h.ModelStatus)
	router.GET("/me/stats", h.UserStats)

	scored := router.Group("")
	if limiter != nil {
		scored.Use(limiter.Middleware())
	}
	scored.POST("/recommend", h.Recommend)
	scored.POST("/recommend/nutrition", h.RecommendWithNutrition)
}

// ModelStatus reports the readiness gate for client polling.
func (h *RecommendHandler) ModelStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.recommender.Status())
}

func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.respond(c, service.Query{
		Ingredients: req.Ingredients,
		MaxTime:     req.MaxTime,
		VegOnly:     req.IsVeg,
	})
}

func (h *RecommendHandler) RecommendWithNutrition(c *gin.Context) {
	var req NutritionRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// gin's required binding accepts a non-nil empty map, so the no-targets
	// case has to be rejected here; downgrading to a basic recommend would
	// silently ignore what the caller asked for.
	if len(req.NutritionTarget) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nutrition_target must include calories or protein"})
		return
	}

	h.respond(c, service.Query{
		Ingredients:     req.Ingredients,
		MaxTime:         req.MaxTime,
		VegOnly:         req.IsVeg,
		NutritionTarget: req.NutritionTarget,
		Tolerance:       req.Tolerance,
	})
}

func (h *RecommendHandler) respond(c *gin.Context, q service.Query) {
	h.logSearch(c, q)

	candidates, err := h.recommender.Recommend(c.Request.Context(), q)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.Is(err, service.ErrNotReady):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "model is still loading, please wait",
				"results": []RecipeResult{},
			})
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		default:
			log.Printf("recommendation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate recommendations"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": toRecipeResults(candidates)})
}

// logSearch records the query against the authenticated user. Best-effort;
// the search log never blocks a recommendation.
func (h *RecommendHandler) logSearch(c *gin.Context, q service.Query) {
	if h.searches == nil {
		return
	}
	userID, exists := c.Get("user_id")
	if !exists {
		return
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		return
	}
	h.searches.Record(c.Request.Context(), id, q)
}

// UserStats returns the authenticated user's search history stats.
func (h *RecommendHandler) UserStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	stats, err := h.searches.Stats(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/chefbot-v2/backend/config"
	"github.com/pageza/chefbot-v2/backend/internal/models"
	"github.com/pageza/chefbot-v2/backend/internal/service"
	"github.com/pageza/chefbot-v2/backend/internal/types"
)

type staticSim struct{}

func (staticSim) Score(tokens []string, recipeID int) (float64, error) { return 0.5, nil }

type staticNutrition struct{}

func (staticNutrition) Predict(recipeID int) (map[string]float64, error) {
	return map[string]float64{"calories": 400}, nil
}

func (staticNutrition) Ready() bool { return true }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SearchRecord{}))

	recipes := []types.Recipe{{ID: 0, Title: "Pancakes", Ingredients: "flour, egg, milk"}}
	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: "0"}

	return New(cfg, Deps{
		Auth:        service.NewAuthService(db, "test-secret"),
		Recommender: service.NewRecommender(recipes, staticSim{}, staticNutrition{}, 10),
		Searches:    service.NewSearchLogService(db),
	})
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer(t)

	t.Run("health is public", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("auth routes are public", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("recommendation routes require a token", func(t *testing.T) {
		for _, path := range []string{"/api/v1/recommend", "/api/v1/recommend/nutrition"} {
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}

		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/model/status", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

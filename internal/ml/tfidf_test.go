package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/chefbot-v2/backend/internal/types"
)

func testRecipes() []types.Recipe {
	return []types.Recipe{
		{ID: 0, Title: "Pancakes", Ingredients: "2 cups flour, 1 egg, 1 cup milk", Instructions: "Whisk flour with egg and milk and fry the batter."},
		{ID: 1, Title: "Omelette", Ingredients: "3 eggs, 1 tbsp butter, pinch salt", Instructions: "Beat the eggs and cook in butter."},
		{ID: 2, Title: "Tomato Pasta", Ingredients: "200 g pasta, 3 tomatoes, 2 cloves garlic", Instructions: "Boil pasta and simmer tomatoes with garlic."},
		{ID: 3, Title: "Fried Rice", Ingredients: "2 cups rice, 2 eggs, 1 cup peas, soy sauce", Instructions: "Stir fry rice with eggs and peas in soy sauce."},
	}
}

func TestTFIDFModelScoreBeforeFit(t *testing.T) {
	m := NewTFIDFModel()
	_, err := m.Score([]string{"flour"}, 0)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestTFIDFModelFitEmptyDataset(t *testing.T) {
	m := NewTFIDFModel()
	assert.Error(t, m.Fit(nil))
}

func TestTFIDFModelScoreRange(t *testing.T) {
	m := NewTFIDFModel()
	require.NoError(t, m.Fit(testRecipes()))

	queries := [][]string{
		{"flour", "egg", "milk"},
		{"pasta", "garlic"},
		{"unrelated", "words"},
		{},
	}
	for _, q := range queries {
		for _, r := range testRecipes() {
			score, err := m.Score(q, r.ID)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestTFIDFModelRelevanceOrdering(t *testing.T) {
	m := NewTFIDFModel()
	require.NoError(t, m.Fit(testRecipes()))

	query := NormalizeIngredients("2 cups flour, 1 egg, 1 cup milk")
	pancakes, err := m.Score(query, 0)
	require.NoError(t, err)
	pasta, err := m.Score(query, 2)
	require.NoError(t, err)

	assert.Greater(t, pancakes, pasta, "exact ingredient match should outscore an unrelated recipe")
}

func TestTFIDFModelUnknownRecipe(t *testing.T) {
	m := NewTFIDFModel()
	require.NoError(t, m.Fit(testRecipes()))
	_, err := m.Score([]string{"flour"}, 99)
	assert.Error(t, err)
}

func TestTFIDFModelDeterministicScores(t *testing.T) {
	query := NormalizeIngredients("eggs, rice, soy sauce")

	var first []float64
	for run := 0; run < 3; run++ {
		m := NewTFIDFModel()
		require.NoError(t, m.Fit(testRecipes()))

		scores := make([]float64, 0, 4)
		for _, r := range testRecipes() {
			s, err := m.Score(query, r.ID)
			require.NoError(t, err)
			scores = append(scores, s)
		}
		if first == nil {
			first = scores
			continue
		}
		assert.Equal(t, first, scores, "repeated fits must produce bit-identical scores")
	}
}

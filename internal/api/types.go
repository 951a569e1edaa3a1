package api

import "github.com/pageza/chefbot-v2/backend/internal/service"

// RecipeResult is the flat response record for one recommended recipe.
type RecipeResult struct {
	Title             string             `json:"title"`
	Ingredients       string             `json:"ingredients"`
	PrepTime          *float64           `json:"prep_time,omitempty"`
	Instructions      string             `json:"instructions,omitempty"`
	ImageURL          string             `json:"image_url,omitempty"`
	Cuisine           string             `json:"cuisine,omitempty"`
	FinalScore        float64            `json:"final_score"`
	NutritionPred     map[string]float64 `json:"nutrition_pred,omitempty"`
	NutritionDistance *float64           `json:"nutrition_distance,omitempty"`
}

func toRecipeResults(candidates []service.ScoredCandidate) []RecipeResult {
	results := make([]RecipeResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, RecipeResult{
			Title:             c.Recipe.Title,
			Ingredients:       c.Recipe.Ingredients,
			PrepTime:          c.Recipe.PrepTime,
			Instructions:      c.Recipe.Instructions,
			ImageURL:          c.Recipe.ImageURL,
			Cuisine:           c.Recipe.Cuisine,
			FinalScore:        c.FinalScore,
			NutritionPred:     c.NutritionPred,
			NutritionDistance: c.NutritionDistance,
		})
	}
	return results
}

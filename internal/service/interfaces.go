package service

// SimilarityModel scores how well one recipe matches a normalized ingredient
// query. Implementations are treated as opaque: the pipeline only assumes the
// score lands in [0,1] with higher meaning a better match.
type SimilarityModel interface {
	Score(queryTokens []string, recipeID int) (float64, error)
}

// NutritionModel predicts nutrient values for one recipe, keyed by nutrient
// name (calories, protein, fat, carbohydrates).
type NutritionModel interface {
	Predict(recipeID int) (map[string]float64, error)
	Ready() bool
}

package types

// Recipe is one entry from the recipe dataset. The dataset is loaded once at
// startup and is read-only for the lifetime of the process.
type Recipe struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Ingredients  string   `json:"ingredients"`
	PrepTime     *float64 `json:"prep_time,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Cuisine      string   `json:"cuisine,omitempty"`

	// IsVeg is nil when the dataset has no vegetarian column or the cell
	// could not be interpreted.
	IsVeg *bool `json:"is_veg,omitempty"`

	// Nutrition columns, present only when the dataset carries them.
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Carbs    *float64 `json:"carbohydrates,omitempty"`
}

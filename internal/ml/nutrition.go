package ml

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pageza/chefbot-v2/backend/internal/types"
)

const neighborCount = 8

// NeighborNutritionModel predicts nutrition values for a recipe. Recipes whose
// dataset row already carries a value return it directly; the rest get the
// similarity-weighted mean over their nearest labeled neighbours, measured by
// ingredient-set overlap.
type NeighborNutritionModel struct {
	known   map[int]map[string]float64
	ingSets map[int]map[string]struct{}
	labeled []int
	fitted  bool
}

// NewNeighborNutritionModel returns an unfitted model.
func NewNeighborNutritionModel() *NeighborNutritionModel {
	return &NeighborNutritionModel{}
}

// Fit indexes the labeled subset of the dataset.
func (m *NeighborNutritionModel) Fit(recipes []types.Recipe) error {
	known := make(map[int]map[string]float64)
	ingSets := make(map[int]map[string]struct{}, len(recipes))
	var labeled []int
	for _, r := range recipes {
		set := make(map[string]struct{})
		for _, t := range NormalizeIngredients(r.Ingredients) {
			set[t] = struct{}{}
		}
		ingSets[r.ID] = set

		vals := make(map[string]float64)
		if r.Calories != nil {
			vals["calories"] = *r.Calories
		}
		if r.Protein != nil {
			vals["protein"] = *r.Protein
		}
		if r.Fat != nil {
			vals["fat"] = *r.Fat
		}
		if r.Carbs != nil {
			vals["carbohydrates"] = *r.Carbs
		}
		if len(vals) > 0 {
			known[r.ID] = vals
			labeled = append(labeled, r.ID)
		}
	}
	sort.Ints(labeled)

	m.known = known
	m.ingSets = ingSets
	m.labeled = labeled
	m.fitted = true
	return nil
}

// Ready reports whether the dataset carried any nutrition labels at all.
func (m *NeighborNutritionModel) Ready() bool {
	return m.fitted && len(m.labeled) > 0
}

// Predict returns the predicted nutrient values for one recipe.
func (m *NeighborNutritionModel) Predict(recipeID int) (map[string]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if vals, ok := m.known[recipeID]; ok {
		out := make(map[string]float64, len(vals))
		for k, v := range vals {
			out[k] = v
		}
		return out, nil
	}
	set, ok := m.ingSets[recipeID]
	if !ok {
		return nil, fmt.Errorf("unknown recipe id %d", recipeID)
	}
	if len(m.labeled) == 0 {
		return nil, errors.New("dataset carries no nutrition labels")
	}

	type neighbor struct {
		id  int
		sim float64
	}
	neighbors := make([]neighbor, 0, len(m.labeled))
	for _, id := range m.labeled {
		neighbors = append(neighbors, neighbor{id: id, sim: jaccard(set, m.ingSets[id])})
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].sim != neighbors[j].sim {
			return neighbors[i].sim > neighbors[j].sim
		}
		return neighbors[i].id < neighbors[j].id
	})
	if len(neighbors) > neighborCount {
		neighbors = neighbors[:neighborCount]
	}

	weightedSums := make(map[string]float64)
	weights := make(map[string]float64)
	plainSums := make(map[string]float64)
	counts := make(map[string]float64)
	for _, nb := range neighbors {
		for name, v := range m.known[nb.id] {
			weightedSums[name] += v * nb.sim
			weights[name] += nb.sim
			plainSums[name] += v
			counts[name]++
		}
	}

	pred := make(map[string]float64, len(plainSums))
	for _, name := range sortedKeys(plainSums) {
		if weights[name] > 0 {
			pred[name] = weightedSums[name] / weights[name]
		} else {
			// no ingredient overlap with any labeled recipe: plain mean
			pred[name] = plainSums[name] / counts[name]
		}
	}
	return pred, nil
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

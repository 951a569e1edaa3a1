package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pageza/chefbot-v2/backend/internal/ml"
	"github.com/pageza/chefbot-v2/backend/internal/types"
)

// ErrNotReady is returned while the models are still loading (or after the
// fit failed). Clients are expected to poll the status endpoint and retry.
var ErrNotReady = errors.New("model is still loading")

// ValidationError reports invalid request input. Handlers map it to a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

const (
	DefaultResultCap = 10
	DefaultTolerance = 0.2

	// The nutrition path scores a wider pool before the tolerance filter so
	// that discarding candidates still leaves enough to fill the result cap.
	candidatePoolMult = 6
)

// recognizedTargets are the nutrients callers may set targets for.
var recognizedTargets = map[string]struct{}{
	"calories": {},
	"protein":  {},
}

// Query is one recommendation request after JSON binding.
type Query struct {
	Ingredients     string
	MaxTime         *float64
	VegOnly         bool
	NutritionTarget map[string]float64
	// Tolerance is the allowed fractional deviation per nutrient target.
	// Nil means DefaultTolerance; an explicit zero demands exact matches.
	Tolerance *float64
}

// ScoredCandidate pairs a recipe with the scores computed for one request.
// Candidates live only for the duration of the request.
type ScoredCandidate struct {
	Recipe            *types.Recipe
	MatchScore        float64
	FinalScore        float64
	NutritionPred     map[string]float64
	NutritionDistance *float64
}

// Recommender runs the scoring pipeline over the in-memory dataset. The
// pipeline is stateless per request; the only shared mutable state is the
// readiness gate.
type Recommender struct {
	recipes   []types.Recipe
	sim       SimilarityModel
	nutrition NutritionModel
	gate      *ReadinessGate
	resultCap int
}

// NewRecommender creates a recommender over an immutable recipe dataset.
func NewRecommender(recipes []types.Recipe, sim SimilarityModel, nutrition NutritionModel, resultCap int) *Recommender {
	if resultCap <= 0 {
		resultCap = DefaultResultCap
	}
	return &Recommender{
		recipes:   recipes,
		sim:       sim,
		nutrition: nutrition,
		gate:      NewReadinessGate(),
		resultCap: resultCap,
	}
}

// StartFit kicks off the background model fit through the readiness gate.
func (r *Recommender) StartFit(fit func() error) bool {
	return r.gate.StartFit(fit)
}

// ModelStatus is the readiness polling contract.
type ModelStatus struct {
	Fitted          bool `json:"fitted"`
	Fitting         bool `json:"fitting"`
	NutritionLoaded bool `json:"nutrition_loaded"`
}

// Status reports the gate state for client polling. The nutrition model is
// only consulted once the gate is fitted: the atomic state transition is what
// orders the fit goroutine's writes before this read, so touching the model
// any earlier would race with Fit.
func (r *Recommender) Status() ModelStatus {
	fitted, fitting := r.gate.Status()
	return ModelStatus{
		Fitted:          fitted,
		Fitting:         fitting,
		NutritionLoaded: fitted && r.nutrition != nil && r.nutrition.Ready(),
	}
}

// Recommend scores the dataset against the query and returns the ranked
// candidates, capped at the configured result cap. An empty slice is a valid
// outcome meaning no recipe survived the filters.
func (r *Recommender) Recommend(ctx context.Context, q Query) ([]ScoredCandidate, error) {
	if !r.gate.Ready() {
		return nil, ErrNotReady
	}

	tokens := ml.NormalizeIngredients(q.Ingredients)
	if len(tokens) == 0 {
		return nil, &ValidationError{Message: "ingredients must not be empty"}
	}
	if q.MaxTime != nil && *q.MaxTime < 0 {
		return nil, &ValidationError{Message: "max_time must not be negative"}
	}
	targets, err := validateTargets(q.NutritionTarget)
	if err != nil {
		return nil, err
	}

	tolerance := DefaultTolerance
	if q.Tolerance != nil {
		tolerance = *q.Tolerance
	}
	if tolerance < 0 {
		return nil, &ValidationError{Message: "tolerance must not be negative"}
	}

	pool := r.resultCap
	if len(targets) > 0 {
		pool = r.resultCap * candidatePoolMult
	}

	candidates, err := r.matchCandidates(tokens, q.MaxTime, q.VegOnly, pool)
	if err != nil {
		return nil, err
	}

	if len(targets) > 0 {
		candidates, err = r.evaluateNutrition(candidates, targets, tolerance)
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].FinalScore != candidates[j].FinalScore {
			return candidates[i].FinalScore > candidates[j].FinalScore
		}
		return lessByTieBreak(&candidates[i], &candidates[j])
	})
	if len(candidates) > r.resultCap {
		candidates = candidates[:r.resultCap]
	}
	return candidates, nil
}

// validateTargets filters the request targets down to recognized nutrients.
// A nil result means nutrition mode was not requested.
func validateTargets(raw map[string]float64) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	targets := make(map[string]float64)
	for name, v := range raw {
		if _, ok := recognizedTargets[name]; !ok {
			continue
		}
		if v <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("nutrition target %q must be positive", name)}
		}
		targets[name] = v
	}
	if len(targets) == 0 {
		return nil, &ValidationError{Message: "nutrition_target must include calories or protein"}
	}
	return targets, nil
}

// matchCandidates applies the time and vegetarian filters, scores the
// survivors and returns the top candidates by match score.
func (r *Recommender) matchCandidates(tokens []string, maxTime *float64, vegOnly bool, pool int) ([]ScoredCandidate, error) {
	candidates := make([]ScoredCandidate, 0, pool)
	for i := range r.recipes {
		rec := &r.recipes[i]
		// Recipes without a known prep time are excluded once a ceiling is
		// requested: an unknown time cannot be shown to satisfy it. The same
		// goes for recipes the dataset does not mark vegetarian.
		if maxTime != nil && (rec.PrepTime == nil || *rec.PrepTime > *maxTime) {
			continue
		}
		if vegOnly && (rec.IsVeg == nil || !*rec.IsVeg) {
			continue
		}
		score, err := r.sim.Score(tokens, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("similarity model: %w", err)
		}
		candidates = append(candidates, ScoredCandidate{Recipe: rec, MatchScore: score, FinalScore: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MatchScore != candidates[j].MatchScore {
			return candidates[i].MatchScore > candidates[j].MatchScore
		}
		return lessByTieBreak(&candidates[i], &candidates[j])
	})
	if len(candidates) > pool {
		candidates = candidates[:pool]
	}
	return candidates, nil
}

// evaluateNutrition predicts nutrition for each candidate and drops any whose
// predicted value deviates from a requested target by more than the tolerance.
// The gate is per nutrient: one out-of-range nutrient excludes the candidate
// even when the mean deviation looks acceptable.
func (r *Recommender) evaluateNutrition(candidates []ScoredCandidate, targets map[string]float64, tolerance float64) ([]ScoredCandidate, error) {
	if r.nutrition == nil {
		return nil, errors.New("nutrition model unavailable")
	}
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	kept := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		pred, err := r.nutrition.Predict(c.Recipe.ID)
		if err != nil {
			return nil, fmt.Errorf("nutrition model: %w", err)
		}
		var sum float64
		within := true
		for _, name := range names {
			p, ok := pred[name]
			if !ok {
				// cannot verify the target for this recipe
				within = false
				break
			}
			d := math.Abs(p-targets[name]) / targets[name]
			if d > tolerance {
				within = false
				break
			}
			sum += d
		}
		if !within {
			continue
		}
		dist := sum / float64(len(names))
		c.NutritionPred = pred
		c.NutritionDistance = &dist
		final := c.MatchScore * (1 - math.Min(dist, 1))
		if final < 0 {
			final = 0
		} else if final > 1 {
			final = 1
		}
		c.FinalScore = final
		kept = append(kept, c)
	}
	return kept, nil
}

// lessByTieBreak orders equally-scored candidates: shorter prep time first,
// unknown prep time last, then recipe id for full determinism.
func lessByTieBreak(a, b *ScoredCandidate) bool {
	ap, bp := a.Recipe.PrepTime, b.Recipe.PrepTime
	switch {
	case ap != nil && bp != nil && *ap != *bp:
		return *ap < *bp
	case ap == nil && bp != nil:
		return false
	case ap != nil && bp == nil:
		return true
	}
	return a.Recipe.ID < b.Recipe.ID
}

package ml

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pageza/chefbot-v2/backend/internal/types"
)

// ErrNotFitted is returned when a model is queried before Fit has completed.
var ErrNotFitted = errors.New("model is not fitted")

const (
	cosineWeight  = 0.6
	overlapWeight = 0.4
	minDocFreq    = 2
)

// TFIDFModel scores recipes against an ingredient query. Each recipe document
// combines its ingredients, instructions and title; the score blends TF-IDF
// cosine similarity with the share of the recipe's ingredients the query
// covers, so recipes a user can actually cook rank above ones that merely
// mention an ingredient in passing.
type TFIDFModel struct {
	idf     map[string]float64
	docs    map[int]map[string]float64
	ingSets map[int]map[string]struct{}
	fitted  bool
}

// NewTFIDFModel returns an unfitted model.
func NewTFIDFModel() *TFIDFModel {
	return &TFIDFModel{}
}

// Fit builds the vocabulary and per-recipe vectors. It must complete before
// Score is called; refitting replaces the previous state.
func (m *TFIDFModel) Fit(recipes []types.Recipe) error {
	if len(recipes) == 0 {
		return errors.New("recipe dataset is empty")
	}

	terms := make(map[int][]string, len(recipes))
	ingSets := make(map[int]map[string]struct{}, len(recipes))
	df := make(map[string]int)
	for _, r := range recipes {
		ingTokens := NormalizeIngredients(r.Ingredients)
		set := make(map[string]struct{}, len(ingTokens))
		for _, t := range ingTokens {
			set[t] = struct{}{}
		}
		ingSets[r.ID] = set

		ts := withBigrams(append(ingTokens, tokenize(r.Instructions+" "+r.Title)...))
		terms[r.ID] = ts
		seen := make(map[string]struct{}, len(ts))
		for _, t := range ts {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(recipes))
	idf := buildIDF(df, n, minDocFreq)
	if len(idf) == 0 {
		// tiny or very diverse datasets: keep every term
		idf = buildIDF(df, n, 1)
	}

	docs := make(map[int]map[string]float64, len(terms))
	for id, ts := range terms {
		docs[id] = vectorize(ts, idf)
	}

	m.idf = idf
	m.docs = docs
	m.ingSets = ingSets
	m.fitted = true
	return nil
}

// Score returns the match score for one recipe, in [0,1].
func (m *TFIDFModel) Score(queryTokens []string, recipeID int) (float64, error) {
	if !m.fitted {
		return 0, ErrNotFitted
	}
	doc, ok := m.docs[recipeID]
	if !ok {
		return 0, fmt.Errorf("unknown recipe id %d", recipeID)
	}
	query := vectorize(withBigrams(queryTokens), m.idf)
	cos := dot(query, doc)

	var overlap float64
	if set := m.ingSets[recipeID]; len(set) > 0 {
		matched := 0
		seen := make(map[string]struct{}, len(queryTokens))
		for _, t := range queryTokens {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			if _, ok := set[t]; ok {
				matched++
			}
		}
		overlap = float64(matched) / float64(len(set))
	}

	return clamp01(cosineWeight*cos + overlapWeight*overlap), nil
}

func withBigrams(tokens []string) []string {
	out := make([]string, 0, len(tokens)*2)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func buildIDF(df map[string]int, n float64, minDF int) map[string]float64 {
	idf := make(map[string]float64)
	for t, c := range df {
		if c < minDF {
			continue
		}
		idf[t] = math.Log((1+n)/(1+float64(c))) + 1
	}
	return idf
}

// vectorize builds an l2-normalized TF-IDF vector over the fitted vocabulary.
// Terms outside the vocabulary are ignored, mirroring a transform against a
// frozen vectorizer.
func vectorize(tokens []string, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64)
	for _, t := range tokens {
		if _, ok := idf[t]; ok {
			vec[t]++
		}
	}
	var norm float64
	for _, t := range sortedKeys(vec) {
		w := vec[t] * idf[t]
		vec[t] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

// dot iterates keys in sorted order so identical inputs always sum in the
// same order and produce bit-identical scores.
func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for _, t := range sortedKeys(a) {
		if w, ok := b[t]; ok {
			sum += a[t] * w
		}
	}
	return sum
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

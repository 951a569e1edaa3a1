package ml

import (
	"regexp"
	"strings"
)

var (
	itemSplitRe = regexp.MustCompile(`[,;\n]`)
	quantityRe  = regexp.MustCompile(`[\d/]+(\.\d+)?\s*(cups?|tbsp|tsp|tablespoons?|teaspoons?|grams?|g|kg|ml|l|oz|ounces?|pinch|slices?|packets?)?`)
	nonAlphaRe  = regexp.MustCompile(`[^a-z\s]`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// NormalizeIngredients splits a free-text ingredient list into cleaned,
// lower-cased word tokens. Quantities and measurement units are stripped so
// "2 cups flour" and "flour" match the same way. Empty items are dropped.
func NormalizeIngredients(text string) []string {
	var tokens []string
	for _, item := range itemSplitRe.Split(text, -1) {
		s := strings.ToLower(strings.TrimSpace(item))
		s = quantityRe.ReplaceAllString(s, "")
		s = nonAlphaRe.ReplaceAllString(s, " ")
		s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
		if s == "" {
			continue
		}
		tokens = append(tokens, strings.Fields(s)...)
	}
	return tokens
}

// tokenize lower-cases free text and splits it into word tokens.
func tokenize(text string) []string {
	s := strings.ToLower(text)
	s = nonAlphaRe.ReplaceAllString(s, " ")
	return strings.Fields(s)
}

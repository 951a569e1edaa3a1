package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pageza/chefbot-v2/backend/internal/types"
)

// columns maps header names onto Recipe fields by loose matching, since
// public recipe datasets rarely agree on column naming.
type columns struct {
	title        int
	ingredients  int
	instructions int
	prepTime     int
	imageURL     int
	cuisine      int
	isVeg        int
	calories     int
	protein      int
	fat          int
	carbs        int
}

// Load reads the first CSV file found under dir and returns the parsed
// recipes. Recipe IDs are assigned in file order and stay stable for the
// lifetime of the process.
func Load(dir string) ([]types.Recipe, error) {
	path, err := findCSV(dir)
	if err != nil {
		return nil, err
	}
	log.Printf("loading recipe dataset from %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads recipes from CSV data with a header row. Rows without an
// ingredient list are skipped.
func Parse(r io.Reader) ([]types.Recipe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols, err := detectColumns(header)
	if err != nil {
		return nil, err
	}

	var recipes []types.Recipe
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		ingredients := field(row, cols.ingredients)
		if ingredients == "" {
			continue
		}
		recipes = append(recipes, types.Recipe{
			ID:           len(recipes),
			Title:        field(row, cols.title),
			Ingredients:  ingredients,
			Instructions: field(row, cols.instructions),
			ImageURL:     field(row, cols.imageURL),
			Cuisine:      field(row, cols.cuisine),
			IsVeg:        boolField(row, cols.isVeg),
			PrepTime:     numField(row, cols.prepTime),
			Calories:     numField(row, cols.calories),
			Protein:      numField(row, cols.protein),
			Fat:          numField(row, cols.fat),
			Carbs:        numField(row, cols.carbs),
		})
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("no usable recipes in dataset")
	}
	return recipes, nil
}

func detectColumns(header []string) (columns, error) {
	cols := columns{
		title: -1, ingredients: -1, instructions: -1, prepTime: -1,
		imageURL: -1, cuisine: -1, isVeg: -1,
		calories: -1, protein: -1, fat: -1, carbs: -1,
	}
	for i, name := range header {
		lc := strings.ToLower(strings.TrimSpace(name))
		switch {
		case strings.Contains(lc, "ingredient"):
			set(&cols.ingredients, i)
		case strings.Contains(lc, "instruction") || strings.Contains(lc, "step"):
			set(&cols.instructions, i)
		case strings.Contains(lc, "image"):
			set(&cols.imageURL, i)
		case strings.Contains(lc, "time"):
			set(&cols.prepTime, i)
		case strings.Contains(lc, "cuisine"):
			set(&cols.cuisine, i)
		case strings.Contains(lc, "veg"):
			set(&cols.isVeg, i)
		case strings.Contains(lc, "calor"):
			set(&cols.calories, i)
		case strings.Contains(lc, "protein"):
			set(&cols.protein, i)
		case strings.Contains(lc, "fat"):
			set(&cols.fat, i)
		case strings.Contains(lc, "carb"):
			set(&cols.carbs, i)
		case (strings.Contains(lc, "title") || strings.Contains(lc, "name")) && !strings.Contains(lc, "author"):
			set(&cols.title, i)
		}
	}
	if cols.ingredients < 0 {
		return cols, fmt.Errorf("no ingredients column in header %v", header)
	}
	return cols, nil
}

// set keeps the first matching column when a heuristic fires twice.
func set(col *int, idx int) {
	if *col < 0 {
		*col = idx
	}
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// boolField parses a vegetarian marker cell. Datasets encode these as 0/1,
// true/false or yes/no; anything else is treated as unknown.
func boolField(row []string, idx int) *bool {
	s := strings.ToLower(field(row, idx))
	var v bool
	switch s {
	case "1", "true", "yes", "y", "veg", "vegetarian":
		v = true
	case "0", "false", "no", "n", "non-veg":
		v = false
	default:
		return nil
	}
	return &v
}

// numField parses an optional numeric cell; unparseable values become absent
// rather than failing the whole dataset.
func numField(row []string, idx int) *float64 {
	s := field(row, idx)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func findCSV(dir string) (string, error) {
	var path string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "" && !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".csv") {
			path = p
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if path == "" {
		return "", fmt.Errorf("no CSV dataset found in %s", dir)
	}
	return path, nil
}

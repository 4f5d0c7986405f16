package drink

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Drink is a menu item with a layered recipe.
type Drink struct {
	ID     int64
	Title  string
	Recipe []Ingredient
}

// Ingredient is one colored layer of a drink.
type Ingredient struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Parts float64 `json:"parts"`
}

// New builds a drink ready for insertion.
func New(title string, recipe []Ingredient) (*Drink, error) {
	if recipe == nil {
		return nil, fmt.Errorf("recipe is required")
	}
	return &Drink{Title: title, Recipe: recipe}, nil
}

// ParseRecipe decodes a recipe given either as a list of ingredients or as a
// single ingredient object.
func ParseRecipe(raw []byte) ([]Ingredient, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("recipe is required")
	}
	if raw[0] == '{' {
		var one Ingredient
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		return []Ingredient{one}, nil
	}
	var list []Ingredient
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	if list == nil {
		list = []Ingredient{}
	}
	return list, nil
}

// EncodeRecipe is the storage form of a recipe.
func EncodeRecipe(recipe []Ingredient) (string, error) {
	if recipe == nil {
		recipe = []Ingredient{}
	}
	b, err := json.Marshal(recipe)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeRecipe reverses EncodeRecipe.
func DecodeRecipe(s string) ([]Ingredient, error) {
	return ParseRecipe([]byte(s))
}

package handlers

import (
	"net/http"

	"fullstack/internal/domain/drink"
	"fullstack/internal/services/coffee"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type shortIngredient struct {
	Color string  `json:"color"`
	Parts float64 `json:"parts"`
}

type shortDrink struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []shortIngredient `json:"recipe"`
}

type longDrink struct {
	ID     int64              `json:"id"`
	Title  string             `json:"title"`
	Recipe []drink.Ingredient `json:"recipe"`
}

func toShort(d *drink.Drink) shortDrink {
	recipe := make([]shortIngredient, 0, len(d.Recipe))
	for _, in := range d.Recipe {
		recipe = append(recipe, shortIngredient{Color: in.Color, Parts: in.Parts})
	}
	return shortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

func toLong(d *drink.Drink) longDrink {
	recipe := d.Recipe
	if recipe == nil {
		recipe = []drink.Ingredient{}
	}
	return longDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

type shortDrinksResponse struct {
	Success bool         `json:"success"`
	Drinks  []shortDrink `json:"drinks"`
}

type longDrinksResponse struct {
	Success bool        `json:"success"`
	Drinks  []longDrink `json:"drinks"`
}

type deleteDrinkResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}

type drinkRequest struct {
	Title  *string         `json:"title"`
	Recipe json.RawMessage `json:"recipe"`
}

func (req drinkRequest) input() coffee.DrinkInput {
	return coffee.DrinkInput{Title: req.Title, Recipe: req.Recipe}
}

// ListDrinks serves the public menu.
func ListDrinks(svc *coffee.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drinks, err := svc.Drinks(r.Context())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		out := make([]shortDrink, 0, len(drinks))
		for _, d := range drinks {
			out = append(out, toShort(d))
		}
		writeJSON(w, http.StatusOK, shortDrinksResponse{Success: true, Drinks: out})
	}
}

// ListDrinksDetail serves the menu with full recipes.
func ListDrinksDetail(svc *coffee.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drinks, err := svc.Drinks(r.Context())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		out := make([]longDrink, 0, len(drinks))
		for _, d := range drinks {
			out = append(out, toLong(d))
		}
		writeJSON(w, http.StatusOK, longDrinksResponse{Success: true, Drinks: out})
	}
}

func CreateDrink(svc *coffee.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req drinkRequest
		if err := decodeJSON(r, "handlers.create_drink", &req); err != nil {
			WriteError(w, r, err)
			return
		}
		d, err := svc.CreateDrink(r.Context(), req.input())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		log.Info().Str("subject", subject(r)).Int64("drink_id", d.ID).Msg("drink created")
		writeJSON(w, http.StatusOK, shortDrinksResponse{Success: true, Drinks: []shortDrink{toShort(d)}})
	}
}

// UpdateDrink replaces title and recipe. A missing drink is reported before
// a malformed body.
func UpdateDrink(svc *coffee.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.update_drink"

		id, err := idParam(r, op)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		var req drinkRequest
		if err := decodeJSON(r, op, &req); err != nil {
			req = drinkRequest{}
		}
		d, err := svc.UpdateDrink(r.Context(), id, req.input())
		if err != nil {
			WriteError(w, r, err)
			return
		}
		log.Info().Str("subject", subject(r)).Int64("drink_id", d.ID).Msg("drink updated")
		writeJSON(w, http.StatusOK, longDrinksResponse{Success: true, Drinks: []longDrink{toLong(d)}})
	}
}

func DeleteDrink(svc *coffee.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "handlers.delete_drink")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		if err := svc.DeleteDrink(r.Context(), id); err != nil {
			WriteError(w, r, err)
			return
		}
		log.Info().Str("subject", subject(r)).Int64("drink_id", id).Msg("drink deleted")
		writeJSON(w, http.StatusOK, deleteDrinkResponse{Success: true, Delete: id})
	}
}

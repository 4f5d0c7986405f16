package httpx

import (
	"net/http"
	"time"

	"fullstack/internal/auth"
	"fullstack/internal/config"
	"fullstack/internal/http/handlers"
	middlewarex "fullstack/internal/http/middleware"
	"fullstack/internal/services/booking"
	"fullstack/internal/services/coffee"
	"fullstack/internal/services/trivia"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config   config.HTTPCfg
	Trivia   *trivia.Service
	Coffee   *coffee.Service
	Booking  *booking.Service
	Verifier *auth.Verifier
	Metrics  *middlewarex.Metrics
	Health   handlers.Pinger
}

// NewRouter mounts the trivia, coffee shop and booking APIs.
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middlewarex.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if deps.Config.RateLimitPerMin > 0 {
		r.Use(httprate.LimitByIP(deps.Config.RateLimitPerMin, time.Minute))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", handlers.Health(deps.Health))

	// Trivia
	r.Get("/categories", handlers.ListCategories(deps.Trivia))
	r.Get("/categories/{id}/questions", handlers.QuestionsByCategory(deps.Trivia))
	r.Route("/questions", func(r chi.Router) {
		r.Get("/", handlers.ListQuestions(deps.Trivia))
		r.Post("/", handlers.PostQuestions(deps.Trivia))
		r.Delete("/{id}", handlers.DeleteQuestion(deps.Trivia))
	})
	r.Post("/quizzes", handlers.NextQuizQuestion(deps.Trivia))

	// Coffee shop, every route but the public menu needs a scoped token
	scope := func(perm string) func(http.Handler) http.Handler {
		return middlewarex.RequireScope(deps.Verifier, perm, handlers.WriteError)
	}
	r.Get("/drinks", handlers.ListDrinks(deps.Coffee))
	r.With(scope("get:drinks-detail")).Get("/drinks-detail", handlers.ListDrinksDetail(deps.Coffee))
	r.With(scope("post:drinks")).Post("/drinks", handlers.CreateDrink(deps.Coffee))
	r.With(scope("patch:drinks")).Patch("/drinks/{id}", handlers.UpdateDrink(deps.Coffee))
	r.With(scope("delete:drinks")).Delete("/drinks/{id}", handlers.DeleteDrink(deps.Coffee))

	// Booking
	r.Route("/venues", func(r chi.Router) {
		r.Get("/", handlers.ListAreas(deps.Booking))
		r.Post("/search", handlers.SearchVenues(deps.Booking))
		r.Post("/create", handlers.CreateVenue(deps.Booking))
		r.Get("/{id}", handlers.GetVenue(deps.Booking))
		r.Post("/{id}/edit", handlers.UpdateVenue(deps.Booking))
		r.Delete("/{id}", handlers.DeleteVenue(deps.Booking))
	})
	r.Route("/artists", func(r chi.Router) {
		r.Get("/", handlers.ListArtists(deps.Booking))
		r.Post("/search", handlers.SearchArtists(deps.Booking))
		r.Post("/create", handlers.CreateArtist(deps.Booking))
		r.Get("/{id}", handlers.GetArtist(deps.Booking))
		r.Post("/{id}/edit", handlers.UpdateArtist(deps.Booking))
		r.Delete("/{id}", handlers.DeleteArtist(deps.Booking))
	})
	r.Get("/shows", handlers.ListShows(deps.Booking))
	r.Post("/shows/create", handlers.CreateShow(deps.Booking))

	return r
}

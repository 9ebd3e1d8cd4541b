package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"finsentinel-server/src/db"
	"finsentinel-server/src/events"
	"finsentinel-server/src/handlers"
	"finsentinel-server/src/middleware"
	"finsentinel-server/src/services"
	"finsentinel-server/src/util"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Store     handlers.Store
	Cache     *db.Cache
	Publisher events.Publisher
	Insights  *services.InsightService
	Logger    zerolog.Logger

	JWTSecret      string
	JWTExpire      time.Duration
	AllowedOrigins []string
	DemoMode       bool
}

func NewRouter(d Deps) *chi.Mux {
	if d.Publisher == nil {
		d.Publisher = events.NoopPublisher{}
	}
	if d.Insights == nil {
		d.Insights = services.NewInsightService(d.Store)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORSMiddleware(d.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(d.DemoMode))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		util.WriteError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		util.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health())

		r.Post("/auth/signup", handlers.Signup(d.Store, d.JWTSecret, d.JWTExpire))
		r.Post("/auth/login", handlers.Login(d.Store, d.JWTSecret, d.JWTExpire))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(d.JWTSecret)).Group(func(r chi.Router) {
			// User
			r.Get("/users/me", handlers.GetCurrentUser(d.Store))
			r.Put("/users/me/password", handlers.ChangePassword(d.Store))
			r.Delete("/users/me", handlers.DeleteAccount(d.Store, d.Cache))

			// Expenses
			r.Get("/expenses", handlers.GetExpenses(d.Store))
			r.Post("/expenses", handlers.CreateExpense(d.Store, d.Cache, d.Publisher))
			r.Get("/expenses/summary", handlers.GetSummary(d.Store, d.Cache))
			r.Get("/expenses/export", handlers.ExportExpenses(d.Store))
			r.Put("/expenses/{id}", handlers.UpdateExpense(d.Store, d.Cache, d.Publisher))
			r.Delete("/expenses/{id}", handlers.DeleteExpense(d.Store, d.Cache, d.Publisher))

			// Budgets
			r.Get("/budgets", handlers.GetBudgets(d.Store))
			r.Post("/budgets", handlers.CreateBudget(d.Store))
			r.Get("/budgets/{id}", handlers.GetBudgetByID(d.Store))
			r.Put("/budgets/{id}", handlers.UpdateBudget(d.Store))
			r.Delete("/budgets/{id}", handlers.DeleteBudget(d.Store))

			// Insights
			r.Get("/insights", handlers.GetInsights(d.Insights))

			// Simulations
			r.Post("/simulations", handlers.RunSimulation())
		})
	})

	return r
}

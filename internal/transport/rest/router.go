package rest

import (
	"net/http"

	"github.com/frahmantamala/pos-management/internal/auth"
	"github.com/frahmantamala/pos-management/internal/dashboard"
	"github.com/frahmantamala/pos-management/internal/document"
	"github.com/frahmantamala/pos-management/internal/item"
	"github.com/frahmantamala/pos-management/internal/transaction"
	"github.com/frahmantamala/pos-management/internal/transport/middleware"
	"github.com/frahmantamala/pos-management/internal/transport/swagger"
	"github.com/go-chi/chi"
)

// Route binds a handler to the permission it needs. An empty Permission means any
// authenticated session.
type Route struct {
	Method     string
	Pattern    string
	Permission string
	Handler    http.HandlerFunc
}

type Handlers struct {
	Auth         *auth.Handler
	Items        *item.Handler
	Transactions *transaction.Handler
	Dashboard    *dashboard.Handler
	Documents    *document.Handler
	Health       *HealthHandler
}

type Options struct {
	RBAC *auth.RBACAuthorization
	// LoginLimiter throttles POST /login when set.
	LoginLimiter *middleware.RateLimiter
	// Metrics exposes MetricsPath when set.
	Metrics     *middleware.Metrics
	MetricsPath string
	OpenAPIFile string
}

// APIRoutes is the /api route table.
func APIRoutes(h Handlers) []Route {
	return []Route{
		{http.MethodGet, "/user", "", h.Auth.CurrentUser},

		{http.MethodGet, "/items", auth.PermReadItem, h.Items.ListItems},
		{http.MethodPost, "/items", auth.PermCreateItem, h.Items.CreateItem},
		{http.MethodPut, "/items/{id}", auth.PermUpdateItem, h.Items.UpdateItem},
		{http.MethodDelete, "/items/{id}", auth.PermDeleteItem, h.Items.DeleteItem},

		{http.MethodGet, "/transactions", "", h.Transactions.ListTransactions},
		{http.MethodPost, "/transactions", "", h.Transactions.CreateTransaction},

		{http.MethodGet, "/dashboard-stats", "", h.Dashboard.Stats},

		{http.MethodGet, "/generate-invoice/{transactionId}", "", h.Documents.GenerateInvoice},
		{http.MethodPost, "/generate-report", "", h.Documents.GenerateReport},
	}
}

func NewRouter(h Handlers, opts Options) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Instrument)
	}
	router.Use(middleware.Logging)

	if opts.Metrics != nil {
		router.Method(http.MethodGet, opts.MetricsPath, opts.Metrics.Handler())
	}

	// Pages
	router.Get("/", h.Auth.Home)
	router.Get("/dashboard", h.Auth.Dashboard)
	router.Get("/logout", h.Auth.Logout)
	if opts.LoginLimiter != nil {
		router.With(opts.LoginLimiter.Handler).Post("/login", h.Auth.Login)
	} else {
		router.Post("/login", h.Auth.Login)
	}

	router.Route("/api", func(r chi.Router) {
		r.Group(func(pr chi.Router) {
			pr.Use(opts.RBAC.Authenticate)
			for _, route := range APIRoutes(h) {
				pr.With(opts.RBAC.Require(route.Permission)).Method(route.Method, route.Pattern, route.Handler)
			}
		})

		r.Route("/v1", func(vr chi.Router) {
			vr.Get("/health", h.Health.Health)
			vr.Get("/ping", h.Health.Ping)
		})
	})

	if opts.OpenAPIFile != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.OpenAPIFile)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	return router
}

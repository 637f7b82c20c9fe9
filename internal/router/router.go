package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/investor-portal/internal/handlers"
	"github.com/GregMSThompson/investor-portal/internal/middleware"
)

// NewRouter wires every route. auth resolves the investor uid for the
// protected routes; /health stays open for the platform probes.
func NewRouter(deps *handlers.Deps, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	hh := handlers.NewHealthHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)
	ch := handlers.NewChatHandlers(deps)
	lh := handlers.NewLibraryHandlers(deps)

	r.Get("/health", hh.Health)
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Mount("/dashboard", dh.DashboardRoutes())
		r.Mount("/chat", ch.ChatRoutes())
		r.Mount("/documents", lh.DocumentRoutes())
		r.Mount("/calendar", lh.CalendarRoutes())
		r.Mount("/funds", lh.FundRoutes())
	})
	return r
}

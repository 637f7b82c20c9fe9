package bootstrap

import (
	"net/http"

	"github.com/GregMSThompson/investor-portal/internal/config"
	"github.com/GregMSThompson/investor-portal/internal/handlers"
	"github.com/GregMSThompson/investor-portal/internal/intent"
	"github.com/GregMSThompson/investor-portal/internal/middleware"
	"github.com/GregMSThompson/investor-portal/internal/registry"
	"github.com/GregMSThompson/investor-portal/internal/response"
	"github.com/GregMSThompson/investor-portal/internal/services"
	"github.com/GregMSThompson/investor-portal/internal/store"
)

// App is the wired service graph shared by the API server and portalctl.
type App struct {
	Registry *registry.Registry
	Resolver *intent.Resolver
	Deps     *handlers.Deps
}

// NewApp picks the stores for cfg.Storage, starts the widget registry and
// builds the services. Call Close to stop the registry.
func NewApp(cfg *config.Config, bs *Bootstrap) *App {
	var (
		dstore registry.Store
		cstore services.ChatStore
	)
	if cfg.Storage == config.StorageFirestore {
		dstore = store.NewDashboardStore(bs.Firestore)
		cstore = store.NewChatStore(bs.Firestore)
	} else {
		dstore = store.NewMemoryDashboardStore()
		cstore = store.NewMemoryChatStore()
	}

	reg := registry.New(dstore, bs.Data)
	reg.Start()
	resolver := intent.NewResolver(bs.Lexicon, bs.Data)

	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.DashboardSvc = services.NewDashboardService(reg, bs.Data)
	deps.InsightsSvc = services.NewInsightsService(reg)
	deps.ChatSvc = services.NewChatService(resolver, reg, cstore, cfg.ThinkDelay, cfg.AITTL)
	deps.DocumentSvc = services.NewDocumentService(bs.Data, nil)
	deps.CalendarSvc = services.NewCalendarService(bs.Data)
	deps.FundSvc = services.NewFundService(bs.Data)

	return &App{Registry: reg, Resolver: resolver, Deps: deps}
}

// Auth returns the middleware that resolves the investor uid.
func (a *App) Auth(cfg *config.Config, bs *Bootstrap) func(http.Handler) http.Handler {
	if cfg.AuthMode == config.AuthNone {
		bs.Log.Warn("authentication disabled, serving the demo investor", "uid", cfg.DemoUID)
		return middleware.StaticUID(cfg.DemoUID)
	}
	return middleware.NewMiddleware(bs.Firebase).FirebaseAuth
}

func (a *App) Close() {
	a.Registry.Close()
}

package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"finboard/internal/actions"
	"finboard/internal/auth"
	"finboard/internal/cache"
	"finboard/internal/core"
	"finboard/internal/filter"
	"finboard/internal/log"
	"finboard/internal/metrics"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
	"finboard/internal/services"
)

// cleanupInterval is how often expired view cache entries and idle rate
// limiter clients are dropped.
const cleanupInterval = 5 * time.Minute

// ReadyChecker reports whether a dependency can serve requests.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Deps are the collaborators of the server. Actions, Views and Auth are
// required; the rest fall back to no-ops.
type Deps struct {
	Actions *actions.Actions
	Views   *services.Views
	Auth    *auth.Authenticator
	DB      ReadyChecker
	Metrics *metrics.Metrics
	Logger  *log.Logger

	// ViewCache is registered with the cleanup loop when it expires entries.
	ViewCache          cache.Cleaner
	RateLimitPerMinute int
}

// Server is the JSON API server.
type Server struct {
	http.Server

	actions  *actions.Actions
	views    *services.Views
	db       ReadyChecker
	started  time.Time
	caches   *cache.Manager
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		actions:  deps.Actions,
		views:    deps.Views,
		db:       deps.DB,
		started:  time.Now(),
		caches:   cache.NewManager(logger.WithComponent(log.ComponentCache).Logger),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		detector: security.NewDetector(logger),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger, deps.Metrics)

	if deps.ViewCache != nil {
		s.caches.Register(deps.ViewCache)
	}
	s.caches.Register(s.limiter)
	s.caches.StartCleanup(cleanupInterval)

	api := http.NewServeMux()
	s.routes(api)

	apiChain := chain(api,
		s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, _ *http.Request) {
			TooManyRequestsError().Write(w)
		}),
		deps.Auth.Middleware,
		requestCacheMiddleware,
		filterMiddleware,
	)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.handleHealth)
	root.HandleFunc("GET /readyz", s.handleReady)
	if deps.Metrics != nil {
		root.Handle("GET /metrics", deps.Metrics.Handler())
	}
	root.Handle("/api/", apiChain)

	s.Server = http.Server{
		Addr: addr,
		Handler: chain(root,
			log.Middleware(logger),
			s.tracer.Middleware,
			security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware,
			s.detector.Middleware,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// chain wraps h so that the first middleware runs outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func (s *Server) routes(mux *http.ServeMux) {
	registerEntity(s, mux, "categories", entityHandlers[core.Category, core.CategoryInput, core.CategoryPatch]{
		create: s.actions.CreateCategory,
		update: s.actions.UpdateCategory,
		remove: s.actions.DeleteCategory,
		list:   s.views.Categories,
	})
	registerEntity(s, mux, "accounts", entityHandlers[core.Account, core.AccountInput, core.AccountPatch]{
		create: s.actions.CreateAccount,
		update: s.actions.UpdateAccount,
		remove: s.actions.DeleteAccount,
		list:   s.views.AccountList,
	})
	registerEntity(s, mux, "investments", entityHandlers[core.Investment, core.InvestmentInput, core.InvestmentPatch]{
		create: s.actions.CreateInvestment,
		update: s.actions.UpdateInvestment,
		remove: s.actions.DeleteInvestment,
		list:   s.views.Investments,
	})
	registerEntity(s, mux, "transactions", entityHandlers[core.Transaction, core.TransactionInput, core.TransactionPatch]{
		create: s.actions.CreateTransaction,
		update: s.actions.UpdateTransaction,
		remove: s.actions.DeleteTransaction,
		list:   s.views.Transactions,
	})
	registerEntity(s, mux, "budgets", entityHandlers[core.Budget, core.BudgetInput, core.BudgetPatch]{
		create: s.actions.CreateBudget,
		update: s.actions.UpdateBudget,
		remove: s.actions.DeleteBudget,
		list:   s.views.Budgets,
	})
	registerEntity(s, mux, "members", entityHandlers[core.Member, core.MemberInput, core.MemberPatch]{
		create: s.actions.CreateMember,
		update: s.actions.UpdateMember,
		remove: s.actions.DeleteMember,
		list:   s.views.Members,
	})

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/accounts/view", s.handleAccountsView)
	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthlyReport)

	mux.HandleFunc("GET /api/filter", s.handleGetFilter)
	mux.HandleFunc("POST /api/filter", s.handleSetFilter)
	mux.HandleFunc("POST /api/filter/reset", s.handleResetFilter)
}

// requestCacheMiddleware gives each request its own read memo.
func requestCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := cache.WithRequestCache(r.Context(), cache.NewRequestCache())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// filterMiddleware loads the dashboard scope from the filter cookie. A
// cookie that cannot be decoded is ignored.
func filterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := filter.NewStore(filter.NewCookieStorage(w, r)).Load(r.Context())
		if err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Ignoring unreadable filter cookie",
				log.FieldError, err.Error())
		}
		next.ServeHTTP(w, r.WithContext(filter.WithState(r.Context(), st)))
	})
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

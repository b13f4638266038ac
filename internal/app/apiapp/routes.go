package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
	candsvc "github.com/TomShtern/Date-Program-sub013/internal/services/candidates"
	matchessvc "github.com/TomShtern/Date-Program-sub013/internal/services/matches"
	quotasvc "github.com/TomShtern/Date-Program-sub013/internal/services/quota"
	sessionsvc "github.com/TomShtern/Date-Program-sub013/internal/services/sessions"
	swipesvc "github.com/TomShtern/Date-Program-sub013/internal/services/swipes"
	undosvc "github.com/TomShtern/Date-Program-sub013/internal/services/undo"
	"github.com/TomShtern/Date-Program-sub013/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService      *authsvc.Service
	CandidateService *candsvc.Service
	QuotaService     *quotasvc.Service
	SwipeService     *swipesvc.Service
	UndoService      *undosvc.Service
	SessionService   *sessionsvc.Service
	MatchService     *matchessvc.Service
	Logger           *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	candidateHandler := handlers.NewCandidateHandler(deps.CandidateService)
	quotaHandler := handlers.NewQuotaHandler(deps.QuotaService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	undoHandler := handlers.NewUndoHandler(deps.UndoService)
	sessionHandler := handlers.NewSessionHandler(deps.SessionService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.Refresh)
	r.With(authMW).Post("/auth/logout", authHandler.Logout)

	r.With(authMW).Get("/candidates", candidateHandler.List)
	r.With(authMW).Get("/quota", quotaHandler.Get)

	r.With(authMW).Post("/swipes", swipeHandler.Handle)
	r.With(authMW).Get("/swipes/undo", undoHandler.Status)
	r.With(authMW).Post("/swipes/undo", undoHandler.Undo)

	r.With(authMW).Get("/session", sessionHandler.Active)
	r.With(authMW).Post("/session/end", sessionHandler.End)
	r.With(authMW).Get("/session/stats", sessionHandler.Stats)

	r.With(authMW).Get("/matches", matchesHandler.List)
	r.With(authMW).Post("/matches/{id}/unmatch", matchesHandler.Unmatch)
}

package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TomShtern/Date-Program-sub013/internal/config"
	"github.com/TomShtern/Date-Program-sub013/internal/jobs/cleanup"
	pgrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/postgres"
	redrepo "github.com/TomShtern/Date-Program-sub013/internal/repo/redis"
	authsvc "github.com/TomShtern/Date-Program-sub013/internal/services/auth"
	candsvc "github.com/TomShtern/Date-Program-sub013/internal/services/candidates"
	matchessvc "github.com/TomShtern/Date-Program-sub013/internal/services/matches"
	quotasvc "github.com/TomShtern/Date-Program-sub013/internal/services/quota"
	ratesvc "github.com/TomShtern/Date-Program-sub013/internal/services/rate"
	sessionsvc "github.com/TomShtern/Date-Program-sub013/internal/services/sessions"
	swipesvc "github.com/TomShtern/Date-Program-sub013/internal/services/swipes"
	undosvc "github.com/TomShtern/Date-Program-sub013/internal/services/undo"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, int32(cfg.Postgres.MaxConns))
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	runTx := pgrepo.PoolTxRunner(pool)

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	authSessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	blockRepo := pgrepo.NewBlockRepo(pool)
	undoRepo := pgrepo.NewUndoRepo(pool)
	sessionRepo := pgrepo.NewSessionRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, authSessionRepo, cfg.Auth.LoginSecret, cfg.Auth.RefreshTTL)

	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Matching.SwipesPerMinute, cfg.Matching.SwipesPer10Seconds)

	quotaService := quotasvc.NewService(swipeRepo, userRepo, quotasvc.Config{
		DailyLikeLimit:  cfg.Matching.DailyLikeLimit,
		DailyPassLimit:  cfg.Matching.DailyPassLimit,
		DefaultTimezone: cfg.Matching.DefaultTimezone,
	})
	undoService := undosvc.NewService(runTx, undoRepo, swipeRepo, matchRepo, undosvc.Config{
		Window: cfg.Matching.UndoWindow,
	})
	sessionService := sessionsvc.NewService(sessionRepo, sessionsvc.Config{
		IdleTimeout:         cfg.Matching.SessionIdleTimeout,
		MaxSwipesPerSession: cfg.Matching.MaxSwipesPerSession,
	})
	candidateService := candsvc.NewService(userRepo, swipeRepo, blockRepo, candsvc.Config{
		Limit: cfg.Matching.CandidateLimit,
	})
	matchService := matchessvc.NewService(matchRepo, matchessvc.Config{
		ListLimit: cfg.Matching.MatchListLimit,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		RunTx:       runTx,
		SwipeStore:  swipeRepo,
		MatchStore:  matchRepo,
		BlockStore:  blockRepo,
		UserStore:   userRepo,
		Quota:       quotaService,
		Undo:        undoService,
		Sessions:    sessionService,
		RateLimiter: rateLimiter,
	})

	RegisterRoutes(r, Dependencies{
		AuthService:      authService,
		CandidateService: candidateService,
		QuotaService:     quotaService,
		SwipeService:     swipeService,
		UndoService:      undoService,
		SessionService:   sessionService,
		MatchService:     matchService,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		cleanupJob: cleanup.New(undoService, sessionService, log),
		httpRouter: r,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.runSweepLoop(ctx)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) runSweepLoop(ctx context.Context) {
	if a.cleanupJob == nil {
		return
	}

	interval := a.cfg.Matching.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.cleanupJob.Run(ctx); err != nil {
				a.logger.Warn("sweep run failed", zap.Error(err))
			}
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

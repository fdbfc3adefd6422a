package app

import (
	"context"

	authAPI "cluster_backend/internal/api/auth"
	gridAPI "cluster_backend/internal/api/grid"
	"cluster_backend/internal/config"
	"cluster_backend/internal/config/env"
	"cluster_backend/internal/middleware"
	"cluster_backend/internal/repository"
	"cluster_backend/internal/repository/auth_repo"
	"cluster_backend/internal/repository/grid_stats_repo"
	"cluster_backend/internal/repository/spin_history_repo"
	"cluster_backend/internal/repository/user_repo"
	"cluster_backend/internal/service"
	"cluster_backend/internal/service/auth"
	"cluster_backend/internal/service/grid"
	"cluster_backend/internal/service/grid/engine"
	"cluster_backend/pkg/rng"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceProvider struct {
	// TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Auth bits
	jwtCfg   config.JWTConfig
	authRepo repository.AuthRepository
	authServ service.AuthService
	authHand *authAPI.Handler

	// User bits
	userRepo repository.UserRepository

	// Grid bits
	engineCfg   config.EngineConfig
	statsRepo   repository.GridStatsRepository
	historyRepo repository.SpinHistoryRepository
	gridEngine  *engine.Engine
	gridServ    service.GridService
	gridHand    *gridAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(sp.TXManager(ctx), sp.UserRepo(ctx), sp.AuthRepo(ctx), sp.JWTCfg())
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{Serv: sp.AuthService(ctx)})
	}
	return sp.authHand
}

func (sp *ServiceProvider) EngineCfg() config.EngineConfig {
	if sp.engineCfg == nil {
		cfg, err := env.NewEngineConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get engine config: " + err.Error())
		}
		sp.engineCfg = cfg
	}
	return sp.engineCfg
}

func (sp *ServiceProvider) GridStatsRepository() repository.GridStatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = grid_stats_repo.NewGridStatsRepository(sp.EngineCfg())
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) SpinHistoryRepository(ctx context.Context) repository.SpinHistoryRepository {
	if sp.historyRepo == nil {
		sp.historyRepo = spin_history_repo.NewSpinHistoryRepository(sp.DBClient(ctx))
	}
	return sp.historyRepo
}

func (sp *ServiceProvider) GridEngine() *engine.Engine {
	if sp.gridEngine == nil {
		sp.gridEngine = engine.New(sp.EngineCfg(), sp.GridStatsRepository(), rng.Default())
	}
	return sp.gridEngine
}

func (sp *ServiceProvider) GridService(ctx context.Context) service.GridService {
	if sp.gridServ == nil {
		sp.gridServ = grid.NewGridService(sp.GridEngine(), sp.UserRepo(ctx), sp.SpinHistoryRepository(ctx), sp.TXManager(ctx))
	}
	return sp.gridServ
}

func (sp *ServiceProvider) GridHandler(ctx context.Context) *gridAPI.Handler {
	if sp.gridHand == nil {
		sp.gridHand = gridAPI.NewHandler(gridAPI.HandlerDeps{Serv: sp.GridService(ctx)})
	}
	return sp.gridHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}
	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Auth endpoints (публичные)
		authHandler := sp.AuthHandler(ctx)
		r.Route("/auth", func(rr chi.Router) {
			rr.Post("/register", authHandler.Register)
			rr.Post("/login", authHandler.Login)
			rr.Post("/refresh", authHandler.Refresh)
			rr.Post("/logout", authHandler.Logout)
		})

		// Grid endpoints (под JWT)
		gridHandler := sp.GridHandler(ctx)
		r.Route("/grid", func(rr chi.Router) {
			rr.Use(middleware.Authenticate(sp.JWTCfg()))
			rr.Post("/spin", gridHandler.Spin)
			rr.Post("/deposit", gridHandler.Deposit)
			rr.Get("/check-data", gridHandler.CheckData)
			rr.Get("/history", gridHandler.History)
			rr.Get("/probabilities", gridHandler.Probabilities)
			rr.Get("/variance", gridHandler.Variance)
		})

		sp.router = r
	}

	return sp.router
}

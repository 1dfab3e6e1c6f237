package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/blood-donation-service/internal/api/http"
	"github.com/spec-kit/blood-donation-service/internal/api/http/handlers"
	"github.com/spec-kit/blood-donation-service/internal/auth"
	"github.com/spec-kit/blood-donation-service/internal/config"
	"github.com/spec-kit/blood-donation-service/internal/events"
	"github.com/spec-kit/blood-donation-service/internal/observability"
	"github.com/spec-kit/blood-donation-service/internal/persistence"
	"github.com/spec-kit/blood-donation-service/internal/repository"
	"github.com/spec-kit/blood-donation-service/internal/service"
	"github.com/spec-kit/blood-donation-service/internal/worker"
)

type repositories struct {
	users     repository.UserRepository
	requests  repository.BloodRequestRepository
	responses repository.ResponseRepository
	contacts  repository.ContactRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var (
		redis   *persistence.Redis
		revoked auth.RevocationList
	)
	if cfg.Redis.Enabled() {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		revoked = auth.NewRedisRevocationList(redis.Client)
	} else {
		logger.Warn("REDIS_ADDR not provided; token revocations are kept in memory")
		revoked = auth.NewMemoryRevocationList()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	repos := buildRepositories(pg, logger)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartActivityWorker(service.NewActivityService(dispatcher, logger))

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:       repos.users,
		RevocationList: revoked,
	})
	requestService := service.NewBloodRequestService(service.BloodRequestDependencies{
		RequestRepo:  repos.requests,
		ResponseRepo: repos.responses,
		UserRepo:     repos.users,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	responseService := service.NewResponseService(service.ResponseDependencies{
		ResponseRepo: repos.responses,
		RequestRepo:  repos.requests,
		UserRepo:     repos.users,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	userService := service.NewUserService(repos.users)
	contactService := service.NewContactService(repos.contacts, repos.users)

	app := httptransport.NewApp(cfg.App, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		BloodRequests:  handlers.NewBloodRequestsHandler(requestService),
		Responses:      handlers.NewResponsesHandler(responseService),
		Contacts:       handlers.NewContactsHandler(contactService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), repos.users, revoked),
		Gatherer:       registry,
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	if cfg.Expiry.Enabled {
		expiry := worker.NewExpiryWorker(requestService, cfg.Expiry.Interval(), logger)
		group.Go(func() error {
			return expiry.Run(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Warn("using in-memory store; data is lost on restart")
		store := repository.NewMemoryStore()
		return repositories{
			users:     store.Users(),
			requests:  store.BloodRequests(),
			responses: store.Responses(),
			contacts:  store.Contacts(),
		}
	}
	return repositories{
		users:     repository.NewUserRepository(pool),
		requests:  repository.NewBloodRequestRepository(pool),
		responses: repository.NewResponseRepository(pool),
		contacts:  repository.NewContactRepository(pool),
	}
}

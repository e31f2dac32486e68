package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vladlyt/mj/internal/browser"
	"github.com/vladlyt/mj/internal/config"
	"github.com/vladlyt/mj/internal/domain"
	"github.com/vladlyt/mj/internal/httpserver"
	"github.com/vladlyt/mj/internal/httpserver/deps"
	"github.com/vladlyt/mj/internal/logger"
	"github.com/vladlyt/mj/internal/redis"
	"github.com/vladlyt/mj/internal/roomservice"
	"github.com/vladlyt/mj/internal/scheduler"
	"github.com/vladlyt/mj/internal/store/document"
	redisstore "github.com/vladlyt/mj/internal/store/redis"
	"github.com/vladlyt/mj/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	store  *document.Store

	Aliases  *domain.AliasRegistry
	Resolver *domain.RoomResolver
	Export   *domain.ExportService
	Browser  browser.Opener
}

// New opens the config document and wires the room services around it.
// The document is created on first use.
func New(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	store, err := document.Open(cfg.ConfigPath, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %s: %w", cfg.ConfigPath, err)
	}

	aliases := domain.NewAliasRegistry(store)
	resolver := domain.NewRoomResolver(cfg.Host, aliases)
	client := roomservice.New(cfg.Host, cfg.ExportTimeout, loggerClient)

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		store:    store,
		Aliases:  aliases,
		Resolver: resolver,
		Export:   domain.NewExportService(resolver, client, domain.NewReportBuilder()),
		Browser:  browser.New(os.Stdout),
	}, nil
}

// ConfigPath returns the location of the active config document.
func (a *App) ConfigPath() string { return a.store.Path() }

// UsageStore connects to Redis for reading redirect counters.
// The returned func closes the connection.
func (a *App) UsageStore(ctx context.Context) (*redisstore.Store, func(), error) {
	if a.cfg.RedisAddr == "" {
		return nil, nil, fmt.Errorf("redis is not configured, set MJ_REDIS_ADDR")
	}
	client, err := redis.New(ctx, a.redisOptions(), a.logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}
	return redisstore.NewStore(client), closeFn, nil
}

func (a *App) redisOptions() redis.ConnectOptions {
	return redis.ConnectOptions{
		Addr:           a.cfg.RedisAddr,
		User:           a.cfg.RedisUser,
		Password:       a.cfg.RedisPassword,
		RedisDB:        a.cfg.RedisDB,
		ConnectTimeout: a.cfg.RedisConnectTimeout,
		RetryInterval:  a.cfg.RedisRetryInterval,
		MaxWait:        a.cfg.RedisMaxWait,
		PingTimeout:    a.cfg.RedisPingTimeout,
	}
}

// Serve runs the redirect server until ctx is done or SIGINT/SIGTERM.
func (a *App) Serve(ctx context.Context) error {
	log := a.logger
	if a.cfg.LogLevel == "" {
		log = logger.New("info", a.cfg.PrettyLog)
		defer func() { _ = log.Sync() }()
	}

	log.Infof("🚀 Starting mj %s on %s", version.Version, a.cfg.ListenPort)
	log.Info(version.Full())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: without it redirects are simply not counted.
	var redisClient *goredis.Client
	var usage deps.UsageCounter
	if a.cfg.RedisAddr != "" {
		client, err := redis.New(ctx, a.redisOptions(), log)
		if err != nil {
			log.Warn("usage counters disabled", logger.Error(err))
		} else {
			redisClient = client
			usage = redisstore.NewStore(client)
		}
	} else {
		log.Info("redis not configured, usage counters disabled")
	}

	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewConfigReloader(a.store, log, a.cfg.ReloadInterval, reloadTrigger)
	if err := reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start config reloader: %w", err)
	}
	log.Info("config reloader started",
		logger.String("file", a.store.Path()),
		logger.Duration("interval", a.cfg.ReloadInterval))

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		Resolver:      a.Resolver,
		Aliases:       a.Aliases,
		Usage:         usage,
		AllowedCIDRS:  a.cfg.AllowedCIDRS,
		ReloadTrigger: reloadTrigger,
	}
	server := httpserver.New(a.cfg.ListenPort, log, d)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warnf("failed to close redis: %v", err)
		} else {
			log.Info("✅ Redis closed cleanly")
		}
	}

	if runErr == nil {
		log.Info("✅ mj stopped cleanly")
	}
	return runErr
}

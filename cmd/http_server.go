package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/auth"
	authPostgres "github.com/frahmantamala/pos-management/internal/auth/postgres"
	"github.com/frahmantamala/pos-management/internal/core/events"
	"github.com/frahmantamala/pos-management/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/pos-management/internal/dashboard/postgres"
	"github.com/frahmantamala/pos-management/internal/document"
	"github.com/frahmantamala/pos-management/internal/item"
	itemPostgres "github.com/frahmantamala/pos-management/internal/item/postgres"
	"github.com/frahmantamala/pos-management/internal/session"
	"github.com/frahmantamala/pos-management/internal/transaction"
	transactionPostgres "github.com/frahmantamala/pos-management/internal/transaction/postgres"
	"github.com/frahmantamala/pos-management/internal/transport"
	"github.com/frahmantamala/pos-management/internal/transport/middleware"
	"github.com/frahmantamala/pos-management/internal/transport/rest"
	"github.com/frahmantamala/pos-management/internal/transport/swagger"
	"github.com/frahmantamala/pos-management/pkg/logger"
	"github.com/frahmantamala/pos-management/web"

	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const openAPIFile = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the login pages and the /api endpoints`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Redis    *redis.Client
	Router   http.Handler
	Logger   *slog.Logger
	Sessions session.Store
	Limiter  *middleware.RateLimiter
	EventBus *events.EventBus
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "base_url", deps.Config.Server.BaseURL)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	done := make(chan struct{})
	deps.Limiter.StartCleanup(time.Minute, done)
	if mem, ok := deps.Sessions.(*session.MemoryStore); ok {
		mem.StartSweeper(5*time.Minute, done)
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	close(done)

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := deps.EventBus.Drain(drainCtx); err != nil {
		deps.Logger.Warn("Event handlers did not finish", "error", err)
	}

	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			deps.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	store, redisClient, err := initSessionStore(cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	sessions := session.NewManager(store, session.Options{
		Secret:     cfg.Security.SessionSecret,
		TTL:        cfg.Security.SessionTTL,
		CookieName: cfg.Security.CookieName,
		Secure:     cfg.Security.CookieSecure,
	})

	pages, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	base := transport.NewBaseHandler(lg)
	eventBus := events.NewEventBus(lg)

	itemRepo := itemPostgres.NewItemRepository(gormDB)
	item.NewEventHandler(itemRepo, cfg.Inventory.LowStockThreshold, lg).RegisterEventHandlers(eventBus)
	itemService := item.NewService(itemRepo, lg, cfg.Tenancy.Isolated)

	transactionService := transaction.NewService(
		transactionPostgres.NewTransactionRepository(gormDB),
		eventBus,
		lg,
		transaction.Options{
			Isolated:           cfg.Tenancy.Isolated,
			AllowNegativeStock: cfg.Inventory.AllowNegativeStock,
		},
	)

	dashboardService := dashboard.NewService(dashboardPostgres.NewRepository(db), sessions, lg, dashboard.Options{
		Isolated:      cfg.Tenancy.Isolated,
		ActiveUsers:   cfg.Dashboard.ActiveUsers,
		CountSessions: cfg.Dashboard.CountSessions,
	})

	documentService := document.NewService(transactionService, document.NewPDFRenderer(true), document.NewSpreadsheetRenderer(), lg)

	authService := auth.NewService(authPostgres.NewRepository(db), lg, cfg.Security.BCryptCost)

	var redisPinger rest.Pinger
	if rs, ok := store.(*session.RedisStore); ok {
		redisPinger = rs
	}

	limiter := middleware.NewRateLimiter(cfg.Security.LoginRatePerMinute, cfg.Security.LoginBurst)

	opts := rest.Options{
		RBAC:         auth.NewRBACAuthorization(sessions, lg),
		LoginLimiter: limiter,
	}
	if _, err := swagger.LoadContract(context.Background(), openAPIFile); err != nil {
		lg.Warn("OpenAPI contract unavailable, swagger UI disabled", "error", err)
	} else {
		opts.OpenAPIFile = openAPIFile
	}
	if cfg.Observability.Metrics.Enabled {
		opts.Metrics = middleware.NewMetrics("pos", cfg.Observability.Metrics.Path)
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}

	router := rest.NewRouter(rest.Handlers{
		Auth:         auth.NewHandler(base, authService, sessions, pages),
		Items:        item.NewHandler(base, itemService),
		Transactions: transaction.NewHandler(base, transactionService),
		Dashboard:    dashboard.NewHandler(base, dashboardService),
		Documents:    document.NewHandler(base, documentService),
		Health:       rest.NewHealthHandler(db.DB, redisPinger),
	}, opts)

	return &Dependencies{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Router:   router,
		Sessions: store,
		Logger:   lg,
		Limiter:  limiter,
		EventBus: eventBus,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm opens gorm on top of the sqlx pool so both share one set of connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}

func initSessionStore(cfg *internal.Config) (session.Store, *redis.Client, error) {
	if cfg.Session.Store != internal.SessionStoreRedis {
		return session.NewMemoryStore(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return session.NewRedisStore(client, cfg.Session.KeyPrefix), client, nil
}

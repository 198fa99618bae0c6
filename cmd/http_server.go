package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Goutham-Raj07/shanandassociates-sub000/internal"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/auth"
	authPostgres "github.com/Goutham-Raj07/shanandassociates-sub000/internal/auth/postgres"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/core/events"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/job"
	jobPostgres "github.com/Goutham-Raj07/shanandassociates-sub000/internal/job/postgres"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/notification"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/payment"
	paymentPostgres "github.com/Goutham-Raj07/shanandassociates-sub000/internal/payment/postgres"
	"github.com/Goutham-Raj07/shanandassociates-sub000/internal/transport/rest"
	"github.com/Goutham-Raj07/shanandassociates-sub000/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Router     *chi.Mux
	Logger     *slog.Logger
	Dispatcher *notification.Dispatcher
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Dispatcher.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	appLogger := logger.Default()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	userRepo := authPostgres.NewUserRepository(gormDB)
	jobRepo := jobPostgres.NewJobRepository(gormDB)
	paymentRepo := paymentPostgres.NewPaymentRepository(gormDB)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(userRepo, tokenGen, config.Security.BCryptCost, appLogger)
	jobService := job.NewService(jobRepo, appLogger)
	paymentService := payment.NewService(paymentRepo, jobService, eventBus, appLogger)

	emailSender := notification.NewEmailSender(
		config.Notification.SMTPHost,
		strconv.Itoa(config.Notification.SMTPPort),
		config.Notification.SMTPUser,
		config.Notification.SMTPPass,
		config.Notification.FromAddress,
		userRepo,
	)
	dispatcher := notification.NewDispatcher(notification.Config{
		MaxWorkers:   config.Notification.Workers,
		JobQueueSize: config.Notification.QueueSize,
	}, emailSender, appLogger)

	payment.NewEventHandler(dispatcher, appLogger).RegisterEventHandlers(eventBus)

	authHandler := auth.NewHandler(authService, appLogger)
	jobHandler := job.NewHandler(jobService, appLogger)
	paymentHandler := payment.NewHandler(paymentService, appLogger)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, jobHandler, paymentHandler, appLogger)

	return &Dependencies{
		Config:     config,
		DB:         db,
		Router:     router,
		Logger:     appLogger,
		Dispatcher: dispatcher,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
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

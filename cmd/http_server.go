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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/approval"
	approvalPostgres "github.com/frahmantamala/custom-timesheet/internal/approval/postgres"
	"github.com/frahmantamala/custom-timesheet/internal/attachment"
	"github.com/frahmantamala/custom-timesheet/internal/auth"
	authPostgres "github.com/frahmantamala/custom-timesheet/internal/auth/postgres"
	"github.com/frahmantamala/custom-timesheet/internal/core/events"
	"github.com/frahmantamala/custom-timesheet/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/custom-timesheet/internal/dashboard/postgres"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
	"github.com/frahmantamala/custom-timesheet/internal/docstore"
	"github.com/frahmantamala/custom-timesheet/internal/lifecycle"
	"github.com/frahmantamala/custom-timesheet/internal/notification"
	notificationPostgres "github.com/frahmantamala/custom-timesheet/internal/notification/postgres"
	"github.com/frahmantamala/custom-timesheet/internal/project"
	projectPostgres "github.com/frahmantamala/custom-timesheet/internal/project/postgres"
	"github.com/frahmantamala/custom-timesheet/internal/storage"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/custom-timesheet/internal/timesheet/postgres"
	"github.com/frahmantamala/custom-timesheet/internal/transport/middleware"
	"github.com/frahmantamala/custom-timesheet/internal/transport/rest"
	"github.com/frahmantamala/custom-timesheet/internal/user"
	userPostgres "github.com/frahmantamala/custom-timesheet/internal/user/postgres"
	"github.com/frahmantamala/custom-timesheet/pkg/logger"
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
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Blobs    *storage.BlobStore
	EventBus *events.EventBus
	Router   *chi.Mux
	Ready    *lifecycle.Ready
	Logger   *slog.Logger
}

// Services is the server-side object graph shared by the HTTP server and the
// worker commands.
type Services struct {
	Auth          *auth.Service
	Users         *user.Service
	Timesheets    *timesheet.Service
	Approvals     *approval.Service
	Projects      *project.Service
	Dashboard     *dashboard.Service
	ToDos         *notificationPostgres.ToDoRepository
	Notifications *notification.EventHandler
	Documents     *docservice.Local
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	log := deps.Logger

	if err := setupRoutes(deps); err != nil {
		deps.Ready.Fail(err)
		log.Error("failed to register routes", "error", err)
		os.Exit(1)
	}
	deps.Ready.Resolve()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	log.Info("starting http server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
		if err := deps.EventBus.Drain(ctx); err != nil {
			log.Warn("event handlers still running at shutdown", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			log.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	svc := buildServices(deps)

	rules := make([]middleware.RedirectRule, 0, len(cfg.Navigation.Redirects))
	for _, r := range cfg.Navigation.Redirects {
		rules = append(rules, middleware.RedirectRule{From: r.From, To: r.To})
	}
	if len(rules) == 0 {
		rules = append(rules, middleware.RedirectRule{From: "Timesheet", To: docservice.DoctypeTimesheet})
	}

	opts := rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenAPIPath:    cfg.Server.OpenAPIPath,
		Redirector:     middleware.NewRedirector(rules),
		Files:          deps.Blobs.PublicHandler(),
		FilesPrefix:    deps.Blobs.PublicURL(),
	}
	if cfg.Server.ValidateRequests {
		doc, err := middleware.LoadOpenAPI(context.Background(), cfg.Server.OpenAPIPath)
		if err != nil {
			return err
		}
		validator, err := middleware.RequestValidator(doc, deps.Logger)
		if err != nil {
			return err
		}
		opts.Validator = validator
	}

	handlers := rest.Handlers{
		Health:     rest.NewHealthHandler(deps.DB, deps.Ready),
		Auth:       auth.NewHandler(svc.Auth, deps.Logger),
		User:       user.NewHandler(svc.Users, deps.Logger),
		Timesheet:  timesheet.NewHandler(svc.Timesheets, deps.Logger),
		Attachment: attachment.NewHandler(svc.Documents, deps.Logger),
		Approval:   approval.NewHandler(svc.Approvals, deps.Logger),
		Project:    project.NewHandler(svc.Projects, deps.Logger),
		Dashboard:  dashboard.NewHandler(svc.Dashboard, deps.Logger),
		ToDo:       notification.NewHandler(svc.ToDos, deps.Logger),
		DocService: docservice.NewHandler(svc.Documents, deps.Logger),
	}

	rest.RegisterAllRoutes(deps.Router, handlers, opts, deps.Logger)
	return nil
}

func buildServices(deps *Dependencies) *Services {
	cfg := deps.Config
	lg := deps.Logger

	authRepo := authPostgres.NewRepository(deps.Gorm)
	authService := auth.NewService(authRepo, auth.NewJWTTokenGenerator(cfg.Security), cfg.Security.BCryptCost, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), cfg.Security.BCryptCost, lg)

	projectService := project.NewService(projectPostgres.NewProjectRepository(deps.Gorm), lg)

	timesheetRepo := timesheetPostgres.NewTimesheetRepository(deps.Gorm)
	timesheetService := timesheet.NewService(timesheetRepo, projectService, nil, deps.EventBus, lg)
	approvalService := approval.NewService(approvalPostgres.NewApprovalRepository(deps.Gorm), timesheetRepo, deps.EventBus, lg)
	timesheetService.SetApprovalRequester(approvalService)

	todos := notificationPostgres.NewToDoRepository(deps.Gorm)
	notifications := notification.NewEventHandler(todos, lg)
	notifications.RegisterEventHandlers(deps.EventBus)

	actions := docservice.NewActions()
	approvalService.RegisterActions(actions)

	documents := docservice.NewLocal(docstore.NewStore(deps.Gorm, docstore.DefaultRegistry(), lg), deps.Blobs, actions, lg)
	documents.Guard(docservice.DoctypeTimesheet, timesheet.ReadGuard)
	documents.Guard(docservice.DoctypeApproval, approval.ReadGuard)
	documents.Guard(docservice.DoctypeToDo, notification.ReadGuard)
	documents.GuardDelete(docservice.DoctypeTimesheet, timesheet.DeleteGuard)
	documents.SetMaxUploadBytes(cfg.Storage.MaxUploadBytes)

	return &Services{
		Auth:          authService,
		Users:         userService,
		Timesheets:    timesheetService,
		Approvals:     approvalService,
		Projects:      projectService,
		Dashboard:     dashboard.NewService(dashboardPostgres.NewDashboardRepository(deps.DB), lg),
		ToDos:         todos,
		Notifications: notifications,
		Documents:     documents,
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	blobs, err := storage.NewFromConfig(config.Storage)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	lg := logger.L()
	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gdb,
		Blobs:    blobs,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
		Ready:    lifecycle.NewReady(),
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

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}

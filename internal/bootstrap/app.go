package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"docintake/internal/documents"
	"docintake/internal/emails"
	"docintake/internal/llm"
	"docintake/internal/llm/gemini"
	"docintake/internal/mail"
	"docintake/internal/services/health"
	"docintake/internal/shared/config"
	"docintake/internal/shared/server"
	"docintake/internal/shared/storage/db"
	"docintake/internal/shared/storage/object"
	localstore "docintake/internal/shared/storage/object/local"
	s3store "docintake/internal/shared/storage/object/s3"
	"docintake/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Gorm             *gorm.DB
	Store            object.ObjectStore
	LLM              llm.Client
	Mailer           mail.Sender
	DocumentsRepo    documents.DocumentsRepo
	EmailRepo        emails.HistoryRepo
	DocumentsService *documents.Service
	EmailService     *emails.Service
	DocumentsHandler *documents.Handler
	EmailHandler     *emails.Handler
	Health           *health.Service
}

// Option overrides a dependency before services are wired.
type Option func(*App)

// WithLLM replaces the summarization client.
func WithLLM(client llm.Client) Option {
	return func(a *App) { a.LLM = client }
}

// WithMailer replaces the mail sender.
func WithMailer(sender mail.Sender) Option {
	return func(a *App) { a.Mailer = sender }
}

// WithStore replaces the object store.
func WithStore(store object.ObjectStore) Option {
	return func(a *App) { a.Store = store }
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.DBDriver) == "" {
		cfg.DBDriver = "memory"
	}
	ctx := context.Background()

	app := &App{Config: cfg, Health: health.NewService()}
	for _, opt := range opts {
		opt(app)
	}

	if err := buildDB(ctx, app); err != nil {
		return nil, err
	}

	if app.Store == nil {
		store, err := buildStore(ctx, cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Store = store
	}
	if app.LLM == nil {
		client, err := buildLLM(cfg)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.LLM = client
	}
	if app.Mailer == nil {
		app.Mailer = buildMailer(cfg)
	}

	if err := buildServices(app); err != nil {
		app.Close()
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          app.Health,
		DocumentHandler: app.DocumentsHandler,
		EmailHandler:    app.EmailHandler,
	})

	return app, nil
}

// Close releases database handles.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Gorm != nil {
		if sqlDB, err := a.Gorm.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.DBDriver {
	case "memory":
		telemetry.Info("bootstrap.db", map[string]any{"driver": "memory"})
		return nil
	case "sqlite":
		gdb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		app.Gorm = gdb
		app.Health.Register("database", func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
		telemetry.Info("bootstrap.db", map[string]any{"driver": "sqlite", "path": cfg.SQLitePath})
		return nil
	case "postgres":
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err == nil {
			if err = db.RunMigrations(ctx, sqlDB); err != nil {
				sqlDB.Close()
			}
		}
		if err != nil {
			if cfg.Env == "dev" {
				telemetry.Warn("bootstrap.db.fallback", map[string]any{"driver": "memory", "error": err})
				app.Config.DBDriver = "memory"
				return nil
			}
			return err
		}
		app.DB = sqlDB
		app.Health.Register("database", sqlDB.PingContext)
		telemetry.Info("bootstrap.db", map[string]any{"driver": "postgres"})
		return nil
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return llm.PlaceholderClient{}, nil
	}
	timeout := time.Duration(cfg.GeminiTimeoutSeconds) * time.Second
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, timeout)
}

func buildMailer(cfg config.Config) mail.Sender {
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		StartTLS: cfg.SMTPStartTLS,
		Timeout:  time.Duration(cfg.SMTPTimeoutSeconds) * time.Second,
	})
}

func buildServices(app *App) error {
	switch {
	case app.DB != nil:
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.EmailRepo = &emails.PGRepo{DB: app.DB}
	case app.Gorm != nil:
		docRepo, err := documents.NewGormRepo(app.Gorm)
		if err != nil {
			return err
		}
		emailRepo, err := emails.NewGormRepo(app.Gorm)
		if err != nil {
			return err
		}
		app.DocumentsRepo = docRepo
		app.EmailRepo = emailRepo
	default:
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.EmailRepo = emails.NewMemoryRepo()
	}

	app.DocumentsService = &documents.Service{
		Store: app.Store,
		Repo:  app.DocumentsRepo,
		LLM:   app.LLM,
	}
	from := app.Config.SMTPUser
	if sender, ok := app.Mailer.(*mail.SMTPSender); ok {
		from = sender.From()
	}
	app.EmailService = &emails.Service{
		Docs:   app.DocumentsService,
		Mailer: app.Mailer,
		Repo:   app.EmailRepo,
		From:   from,
	}
	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.EmailHandler = emails.NewHandler(app.EmailService)

	if app.DocumentsHandler == nil || app.EmailHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

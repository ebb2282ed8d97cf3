package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/db"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/handlers"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository/memory"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/repository/mongodb"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/router"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/router/config"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/services"
	"github.com/abdulazizDevop/metonex-marketplace-sub002/internal/storage"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// repositories - набор хранилищ, выбранный конфигурацией.
type repositories struct {
	rfqs      repository.RFQRepository
	offers    repository.OfferRepository
	orders    repository.OrderRepository
	catalog   repository.CatalogRepository
	companies repository.CompanyRepository
	documents repository.DocumentRepository
	analytics repository.AnalyticsRepository
}

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, closeRepos := openRepositories(ctx, cfg)
	defer closeRepos()

	history, closeHistory := openHistory(ctx, cfg)
	defer closeHistory()

	var objects storage.ObjectStore
	if cfg.StorageEnabled() {
		client, err := storage.NewClient(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretAccessKey, cfg.S3Bucket)
		if err != nil {
			slog.Error("failed to configure object storage", "error", err)
			os.Exit(1)
		}
		objects = client
		slog.Info("object storage configured", "bucket", client.Bucket())
	} else {
		slog.Warn("object storage not configured, document uploads are disabled")
	}

	deps := services.Deps{
		RFQs:    repos.rfqs,
		Offers:  repos.offers,
		Orders:  repos.orders,
		History: history,
		Logger:  logger,
	}
	rfqService := services.NewRFQService(deps)
	offerService := services.NewOfferService(deps)
	documentService := services.NewDocumentService(repos.documents, repos.companies, objects, logger)
	orderService := services.NewOrderService(deps, documentService)
	catalogService := services.NewCatalogService(repos.catalog, logger)
	companyService := services.NewCompanyService(repos.companies, logger)
	analyticsService := services.NewAnalyticsService(repos.analytics, logger)

	routes := router.InitRoutes(router.Handlers{
		RFQ:      handlers.NewRFQHandler(rfqService, offerService, logger, cfg.RequestTimeout),
		Offer:    handlers.NewOfferHandler(offerService, logger, cfg.RequestTimeout),
		Order:    handlers.NewOrderHandler(orderService, logger, cfg.RequestTimeout),
		Document: handlers.NewDocumentHandler(documentService, logger, cfg.RequestTimeout),
		Catalog:  handlers.NewCatalogHandler(catalogService, companyService, analyticsService, logger, cfg.RequestTimeout),
	})

	go rfqService.RunExpirySweeper(ctx, cfg.ExpirySweepInterval)

	server := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      routes,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server is listening", "addr", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return
	}
	slog.Info("server stopped")
}

// openRepositories подключает PostgreSQL, если он настроен; иначе данные хранятся в памяти.
func openRepositories(ctx context.Context, cfg config.Config) (repositories, func()) {
	if !cfg.PostgresEnabled() {
		slog.Warn("postgres not configured, using in-memory storage")
		store := memory.NewStore()
		store.AddCategories(memory.DefaultCategories()...)
		return repositories{
			rfqs:      store,
			offers:    store,
			orders:    store,
			catalog:   store,
			companies: store,
			documents: store,
			analytics: store,
		}, func() {}
	}

	connString, err := db.ConnString(cfg)
	if err != nil {
		slog.Error("invalid database configuration", "error", err)
		os.Exit(1)
	}
	runDBMigration(cfg.MigrationURL, connString)

	database, err := db.InitDb(ctx, cfg)
	if err != nil {
		slog.Error("error initializing database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database")

	return repositories{
		rfqs:      repository.NewPostgresRFQRepository(database),
		offers:    repository.NewPostgresOfferRepository(database),
		orders:    repository.NewPostgresOrderRepository(database),
		catalog:   repository.NewPostgresCatalogRepository(database),
		companies: repository.NewPostgresCompanyRepository(database),
		documents: repository.NewPostgresDocumentRepository(database),
		analytics: repository.NewPostgresAnalyticsRepository(database),
	}, database.Close
}

// openHistory подключает журнал статусов в MongoDB, если задан MONGO_URI.
func openHistory(ctx context.Context, cfg config.Config) (services.StatusHistory, func()) {
	if cfg.MongoURI == "" {
		slog.Warn("mongo not configured, status history is disabled")
		return mongodb.NopHistoryRepository{}, func() {}
	}
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("failed to connect to mongo", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to mongo", "database", cfg.MongoDatabase)
	return mongodb.NewHistoryRepository(client, cfg.MongoDatabase), func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			slog.Error("failed to disconnect from mongo", "error", err)
		}
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		slog.Error("cannot create a new migrate instance", "error", err)
		os.Exit(1)
	}

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		slog.Error("failed to run migrate up", "error", err)
		os.Exit(1)
	}
	slog.Info("db migrated successfully")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/application/usecase"
	domaininv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventory-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventory-ledger/pkg/config"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// backend repositorios y unidad de trabajo del driver elegido.
type backend struct {
	txRunner   inventory.TxRunner
	movements  repository.StockMovementRepository
	stock      repository.StockRepository
	finder     repository.EntityFinder
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	reg := metrics.NewRegistry()
	ledgerMetrics := metrics.NewLedger(reg)

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, ledgerMetrics, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	costPolicy, err := domaininv.NewCostPolicy(cfg.Ledger.CostPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de costo")
	}
	recorder := inventory.NewRecordMovementUseCase(store.txRunner, inventory.WriterConfig{
		AllowNegative:  cfg.Ledger.AllowNegative,
		AllowClientIDs: !cfg.App.IsProduction(),
		CostPolicy:     costPolicy,
	}, ledgerMetrics, log)
	query := inventory.NewMovementQueryUseCase(store.txRunner, store.movements, store.stock, store.finder)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Ledger API",
	}))

	deps := httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		Recorder:    recorder,
		Query:       query,
		Fulfillment: inventory.NewFulfillmentUseCase(recorder),
		ProductUC:   usecase.NewProductUseCase(store.products, recorder),
		WarehouseUC: usecase.NewWarehouseUseCase(store.warehouses),
		JWTSecret:   cfg.JWT.Secret,
	}
	if cfg.Metrics.Enabled {
		deps.MetricsHandler = metrics.Handler(reg)
		deps.MetricsPath = cfg.Metrics.Path
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openBackend(ctx context.Context, cfg *config.Config, obs postgres.TxObserver, log *logger.Logger) (*backend, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &backend{
			txRunner:   s,
			movements:  s.Movements(),
			stock:      s.Stock(),
			finder:     s.Finder(),
			products:   s.Products(),
			warehouses: s.Warehouses(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return postgresBackend(pool, cfg, obs, log), nil
}

func postgresBackend(pool *pgxpool.Pool, cfg *config.Config, obs postgres.TxObserver, log *logger.Logger) *backend {
	return &backend{
		txRunner:   postgres.NewTxRunner(pool, postgres.TxOptionsFromConfig(cfg.Ledger), obs, log.WithComponent("tx")),
		movements:  postgres.NewStockMovementRepository(pool),
		stock:      postgres.NewStockRepository(pool),
		finder:     postgres.NewEntityFinder(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		close:      pool.Close,
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/ventas-api/internal/application/ledger"
	"github.com/jhoicas/ventas-api/internal/application/reporting"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/validation"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ventas-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// storage agrupa lo que cada backend aporta al wiring.
type storage struct {
	tx        ledger.TxRunner
	products  repository.ProductRepository
	movements repository.StockMovementReader
	sales     repository.SaleReader
	payments  repository.PaymentTransactionRepository
	reports   repository.ReportRepository
	close     func()
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	var reportCache *cache.ReportCache
	var invalidator sales.ReportInvalidator
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, reportes sin caché")
		} else {
			defer client.Close()
			reportCache = cache.NewReportCache(client, cfg.Redis.ReportCacheTTL)
			invalidator = reportCache
		}
	}

	recorder := sales.NewPaymentRecorder(store.payments, log, cfg.Sales.PaymentAuditBuffer)

	v := validation.New()
	l := ledger.New()
	coordinator := sales.NewCoordinator(store.tx, store.sales, l, v, recorder, invalidator, log, sales.Config{
		DefaultTaxRate:       cfg.Sales.DefaultTaxRate,
		AllowCancelCompleted: cfg.Sales.AllowCancelCompleted,
	})
	inventorySvc := ledger.NewService(store.tx, store.movements, store.products, l, v)
	reportsUC := reporting.NewUseCase(store.reports, reportCache)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sales:     coordinator,
		Inventory: inventorySvc,
		Reports:   reportsUC,
		JWTSecret: cfg.JWT.Secret,
	})

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
	// Vacía la cola de auditoría antes de cerrar el pool.
	recorder.Close()

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		st := memory.NewStore()
		return &storage{
			tx:        st,
			products:  st,
			movements: st,
			sales:     st.Sales(),
			payments:  st.Payments(),
			reports:   st.Reports(),
			close:     func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		tx:        postgres.NewTxRunner(pool, cfg.DB.LockTimeout, cfg.DB.StatementTimeout),
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		payments:  postgres.NewPaymentTransactionRepository(pool),
		reports:   postgres.NewReportRepository(pool),
		close:     pool.Close,
	}, nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/auth"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/fulfillment"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/procurement"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/usecase"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/infrastructure/messaging"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/infrastructure/postgres"
	httpRouter "github.com/kaoutarlabjioui/SmartSuppl-API/internal/interfaces/http"
	"github.com/kaoutarlabjioui/SmartSuppl-API/pkg/config"
	"github.com/kaoutarlabjioui/SmartSuppl-API/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	stockRepo := postgres.NewStockRecordRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Productor Kafka opcional: sin brokers configurados el motor no publica.
	var publisher inventory.MovementPublisher
	if cfg.Kafka.Enabled() {
		producer := messaging.NewMovementProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).
			Msg("productor de movimientos habilitado")
	}

	engine := inventory.NewEngine(txRunner, stockRepo, productRepo, warehouseRepo, publisher)
	orderUC := fulfillment.NewSalesOrderUseCase(orderRepo, userRepo, warehouseRepo, productRepo, engine, txRunner)
	poUC := procurement.NewPurchaseOrderUseCase(poRepo, supplierRepo, productRepo, warehouseRepo, engine)

	productUC := usecase.NewProductUseCase(productRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		WarehouseUC:  warehouseUC,
		SupplierUC:   supplierUC,
		Engine:       engine,
		StockRepo:    stockRepo,
		MovementRepo: movementRepo,
		OrderUC:      orderUC,
		POUC:         poUC,
		JWTSecret:    cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}

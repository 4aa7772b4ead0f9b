package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/Panaderia-api/docs"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/application/orders"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Panaderia-api/internal/interfaces/http"
	"github.com/jhoicas/Panaderia-api/pkg/config"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("oversell", cfg.Inventory.OversellPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if _, err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
	}
	// Sin tablas de movimientos no se arranca: toda escritura de stock necesita el libro.
	if err := postgres.VerifySchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema incompleto")
	}

	itemRepo := postgres.NewItemRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	salesOrderRepo := postgres.NewSalesOrderRepository(pool)
	productionOrderRepo := postgres.NewProductionOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	policy, err := inventory.ParseOversellPolicy(cfg.Inventory.OversellPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de inventario")
	}
	engine := inventory.NewStockEngine(inventory.EngineConfig{
		DefaultLocation: cfg.Inventory.DefaultLocation,
		Oversell:        policy,
	})

	adjustUC := inventory.NewAdjustStockUseCase(txRunner, itemRepo, engine, log.Component("adjust"))
	saleUC := inventory.NewSaleUseCase(txRunner, itemRepo, engine, log.Component("sale"))
	queryUC := inventory.NewStockQueryUseCase(itemRepo, stockRepo, movementRepo, cfg.Inventory.DefaultLocation, log.Component("stock-query"))
	salesStatusUC := orders.NewSalesStatusUseCase(txRunner, salesOrderRepo, saleUC, log.Component("sales-orders"))
	productionStatusUC := orders.NewProductionStatusUseCase(txRunner, productionOrderRepo, engine, log.Component("production-orders"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Panadería API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AdjustStock:      adjustUC,
		Sale:             saleUC,
		StockQuery:       queryUC,
		SalesStatus:      salesStatusUC,
		ProductionStatus: productionStatusUC,
		DB:               pool,
		JWTSecret:        cfg.JWT.Secret,
		HistoryLimit:     cfg.Inventory.HistoryLimit,
		RequestTimeout:   time.Duration(cfg.HTTP.RequestTimeout) * time.Second,
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

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/application/orders"
	"github.com/jhoicas/Panaderia-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AdjustStock      *inventory.AdjustStockUseCase
	Sale             *inventory.SaleUseCase
	StockQuery       *inventory.StockQueryUseCase
	SalesStatus      *orders.SalesStatusUseCase
	ProductionStatus *orders.ProductionStatusUseCase
	DB               Pinger
	JWTSecret        string
	HistoryLimit     int
	RequestTimeout   time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.DB))

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequestTimeout(deps.RequestTimeout))
	adminOnly := RequireRole(jwt.RoleAdmin)

	inv := NewInventoryHandler(deps.AdjustStock, deps.Sale, deps.StockQuery, deps.HistoryLimit)

	// Productos terminados. Las rutas estáticas van antes de /:productId.
	products := api.Group("/inventory")
	products.Post("/process-sale", inv.ProcessSale)
	products.Get("/history/:productId", inv.ProductHistory)
	products.Delete("/history/clear/all", adminOnly, inv.ClearProductHistory)
	products.Put("/:productId", inv.AdjustProduct)
	products.Get("/:productId", inv.GetProductStock)

	// Insumos
	supplies := api.Group("/supplies")
	supplies.Get("/history/:id", inv.SupplyHistory)
	supplies.Delete("/history/clear/all", adminOnly, inv.ClearSupplyHistory)
	supplies.Patch("/:id/stock", inv.AdjustSupply)
	supplies.Get("/:id/stock", inv.GetSupplyStock)

	ord := NewOrderHandler(deps.SalesStatus, deps.ProductionStatus)
	api.Patch("/sales-orders/:id/status", ord.UpdateSalesOrderStatus)
	api.Patch("/production-orders/:id/status", ord.UpdateProductionOrderStatus)
	api.Get("/production-orders/:id", ord.GetProductionOrder)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/auth"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/fulfillment"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/inventory"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/procurement"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/application/usecase"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/entity"
	"github.com/kaoutarlabjioui/SmartSuppl-API/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	SupplierUC   *usecase.SupplierUseCase
	Engine       *inventory.Engine
	StockRepo    repository.StockRecordRepository
	MovementRepo repository.MovementRepository
	OrderUC      *fulfillment.SalesOrderUseCase
	POUC         *procurement.PurchaseOrderUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Products (protegido; mutaciones solo staff)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", staff, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", staff, productHandler.Update)

	// Warehouses (protegido; mutaciones solo staff)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", staff, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", staff, warehouseHandler.Update)

	// Suppliers (protegido, solo staff)
	suppliers := protected.Group("/suppliers", staff)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Inventory engine (protegido; mutaciones solo staff)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.StockRepo, deps.MovementRepo)
	invGroup.Post("/stock", staff, inventoryHandler.EnsureStock)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Post("/inbound", staff, inventoryHandler.Inbound)
	invGroup.Post("/outbound", staff, inventoryHandler.Outbound)
	invGroup.Post("/adjust", staff, inventoryHandler.Adjust)
	invGroup.Post("/reserve", staff, inventoryHandler.Reserve)
	invGroup.Post("/release", staff, inventoryHandler.Release)
	invGroup.Post("/transfer", staff, inventoryHandler.Transfer)
	invGroup.Post("/smart-reserve", staff, inventoryHandler.SmartReserve)
	invGroup.Get("/available", inventoryHandler.Available)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Sales orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/lines", orderHandler.AddLine)
	orders.Put("/:id/status", orderHandler.UpdateStatus)
	orders.Post("/:id/ship", staff, orderHandler.Ship)
	orders.Delete("/:id", staff, orderHandler.Delete)

	// Purchase orders (protegido, solo staff)
	pos := protected.Group("/purchase-orders", staff)
	poHandler := NewPurchaseOrderHandler(deps.POUC)
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Post("/:id/lines", poHandler.AddLine)
	pos.Post("/:id/approve", poHandler.Approve)
	pos.Post("/:id/receive", poHandler.Receive)
	pos.Delete("/:id", poHandler.Delete)
}

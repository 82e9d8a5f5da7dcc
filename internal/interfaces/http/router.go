package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ventas-api/internal/application/ledger"
	"github.com/jhoicas/ventas-api/internal/application/reporting"
	"github.com/jhoicas/ventas-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sales     *sales.Coordinator
	Inventory *ledger.Service
	Reports   *reporting.UseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Sales)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id/complete", saleHandler.Complete)
	salesGroup.Put("/:id/cancel", saleHandler.Cancel)
	salesGroup.Put("/:id/refund", saleHandler.Refund)

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Inventory)
	invGroup.Post("/adjustments", inventoryHandler.Adjust)
	invGroup.Get("/products/:id/movements", inventoryHandler.Movements)
	invGroup.Get("/products/:id/reconcile", inventoryHandler.Reconcile)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/low-stock", reportHandler.LowStock)
}

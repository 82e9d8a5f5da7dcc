package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ledger"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// InventoryHandler maneja ajustes, historial y reconciliación de stock (protegido).
type InventoryHandler struct {
	svc *ledger.Service
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *ledger.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Adjust godoc
// @Summary      Ajuste manual de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  ledger.AdjustStockInput  true  "product_id, delta (con signo), notes"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in ledger.AdjustStockInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	mov, err := h.svc.AdjustStock(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockMovementResponse(mov))
}

// Movements historial paginado del producto, más reciente primero.
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var q dto.ListMovementsRequest
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(c)
	}
	from, err := parseDate("from", q.From)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDate("to", q.To)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.svc.Movements(c.Context(), c.Params("id"), repository.MovementFilter{
		From: from, To: to, Limit: q.Limit, Offset: q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StockMovementListResponse{
		Items: make([]dto.StockMovementResponse, 0, len(page.Movements)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: page.Total},
	}
	for _, m := range page.Movements {
		out.Items = append(out.Items, dto.NewStockMovementResponse(m))
	}
	return c.JSON(out)
}

// Reconcile coteja el stock actual contra el historial de movimientos.
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	rep, err := h.svc.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewReconciliationResponse(rep))
}

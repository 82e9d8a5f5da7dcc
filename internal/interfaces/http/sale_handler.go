package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	uc *sales.Coordinator
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.Coordinator) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  sales.CreateSaleInput  true  "items, cliente, descuento, impuesto, pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in sales.CreateSaleInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sale, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from            query  string  false  "desde (RFC3339 o YYYY-MM-DD)"
// @Param        to              query  string  false  "hasta (exclusivo)"
// @Param        status          query  string  false  "pending|completed|cancelled|refunded|all"
// @Param        payment_method  query  string  false  "cash|card|online|credit|all"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.ListSalesRequest
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
	page, err := h.uc.List(c.Context(), sales.ListSalesInput{
		From:          from,
		To:            to,
		Status:        q.Status,
		PaymentMethod: q.PaymentMethod,
		Limit:         q.Limit,
		Offset:        q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(page.Sales)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: page.Total},
	}
	for _, s := range page.Sales {
		out.Items = append(out.Items, dto.NewSaleResponse(s))
	}
	return c.JSON(out)
}

// GetByID devuelve la venta con sus líneas.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSaleResponse(sale))
}

// Complete registra un pago adicional sobre una venta pendiente.
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in sales.CompleteSaleInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sale, err := h.uc.Complete(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSaleResponse(sale))
}

// Cancel anula la venta y devuelve el stock.
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	sale, err := h.uc.Cancel(c.Context(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSaleResponse(sale))
}

// Refund reembolsa la venta. El cuerpo es opcional.
func (h *SaleHandler) Refund(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in sales.RefundSaleInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	sale, err := h.uc.Refund(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSaleResponse(sale))
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/reporting"
)

// ReportHandler reportes de solo lectura (protegido).
type ReportHandler struct {
	uc *reporting.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas
// @Description  Resumen del periodo, ventas diarias de los últimos 7 días y top 5 productos.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "today|week|month|all (default today)"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	rep, err := h.uc.SalesReport(c.Context(), c.Query("period"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSalesReportResponse(rep))
}

// LowStock productos en o bajo su stock mínimo.
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.uc.LowStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	items := dto.NewLowStockList(list)
	return c.JSON(fiber.Map{
		"total":    len(items),
		"products": items,
	})
}

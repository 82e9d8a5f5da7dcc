package dto

import (
	"github.com/jhoicas/ventas-api/internal/application/reporting"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ── Resumen de ventas ─────────────────────────────────────────────────────────

// SalesSummaryDTO agregado de ventas completadas del periodo.
type SalesSummaryDTO struct {
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AverageSale  decimal.Decimal `json:"average_sale"`
	MinSale      decimal.Decimal `json:"min_sale"`
	MaxSale      decimal.Decimal `json:"max_sale"`
	PendingSales int             `json:"pending_sales"`
}

// DailySalesDTO ventas de un día (YYYY-MM-DD, UTC).
type DailySalesDTO struct {
	Date         string          `json:"date"`
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	AverageSale  decimal.Decimal `json:"average_sale"`
}

// TopProductDTO producto por unidades vendidas.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// SalesReportResponse salida de GET /api/reports/sales.
type SalesReportResponse struct {
	Period      string          `json:"period"`
	Summary     SalesSummaryDTO `json:"summary"`
	DailySales  []DailySalesDTO `json:"daily_sales"`
	TopProducts []TopProductDTO `json:"top_products"`
}

// ── Stock bajo ────────────────────────────────────────────────────────────────

// LowStockDTO producto en o bajo su mínimo.
type LowStockDTO struct {
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	CurrentStock  int    `json:"current_stock"`
	MinStockLevel int    `json:"min_stock_level"`
	Status        string `json:"status"`
}

// NewSalesReportResponse convierte el reporte de ventas.
func NewSalesReportResponse(r *reporting.SalesReport) SalesReportResponse {
	out := SalesReportResponse{
		Period: r.Period,
		Summary: SalesSummaryDTO{
			TotalSales:   r.Summary.TotalSales,
			TotalRevenue: r.Summary.TotalRevenue,
			AverageSale:  r.Summary.AverageSale,
			MinSale:      r.Summary.MinSale,
			MaxSale:      r.Summary.MaxSale,
			PendingSales: r.Summary.PendingSales,
		},
		DailySales:  make([]DailySalesDTO, 0, len(r.DailySales)),
		TopProducts: make([]TopProductDTO, 0, len(r.TopProducts)),
	}
	for _, d := range r.DailySales {
		out.DailySales = append(out.DailySales, DailySalesDTO{
			Date:         d.Day.UTC().Format("2006-01-02"),
			TotalSales:   d.TotalSales,
			TotalRevenue: d.TotalRevenue,
			AverageSale:  d.AverageSale,
		})
	}
	for _, p := range r.TopProducts {
		out.TopProducts = append(out.TopProducts, TopProductDTO{
			ProductID:    p.ProductID,
			SKU:          p.SKU,
			Name:         p.Name,
			TotalSold:    p.TotalSold,
			TotalRevenue: p.TotalRevenue,
		})
	}
	return out
}

// NewLowStockList convierte la lista de productos con stock bajo.
func NewLowStockList(products []*entity.Product) []LowStockDTO {
	out := make([]LowStockDTO, 0, len(products))
	for _, p := range products {
		out = append(out, LowStockDTO{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			Status:        string(p.Status),
		})
	}
	return out
}

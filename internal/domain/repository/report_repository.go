package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SalesSummaryResult agregado de ventas completadas en un rango.
type SalesSummaryResult struct {
	TotalSales   int
	TotalRevenue decimal.Decimal
	AverageSale  decimal.Decimal
	MinSale      decimal.Decimal
	MaxSale      decimal.Decimal
	PendingSales int // ventas pendientes creadas en el rango
}

// DailySalesResult ventas completadas agrupadas por día.
type DailySalesResult struct {
	Day          time.Time
	TotalSales   int
	TotalRevenue decimal.Decimal
	AverageSale  decimal.Decimal
}

// TopProductResult producto por unidades vendidas.
type TopProductResult struct {
	ProductID    string
	SKU          string
	Name         string
	TotalSold    int
	TotalRevenue decimal.Decimal
}

// ReportRepository consultas read-only para reportes. No modifica datos.
type ReportRepository interface {
	// SalesSummary agrega ventas completadas con created_at en [from, to).
	// Un from o to cero no acota ese extremo.
	SalesSummary(ctx context.Context, from, to time.Time) (SalesSummaryResult, error)
	// DailySales agrupa por día desde from, en orden cronológico.
	DailySales(ctx context.Context, from time.Time) ([]DailySalesResult, error)
	// TopProducts ordena por unidades vendidas en ventas completadas.
	TopProducts(ctx context.Context, limit int) ([]TopProductResult, error)
	// LowStock devuelve productos no descontinuados con stock en o bajo el mínimo,
	// más críticos primero.
	LowStock(ctx context.Context) ([]*entity.Product, error)
}

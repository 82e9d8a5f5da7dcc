package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes de ventas e inventario.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// SalesSummary agrega las ventas completadas del rango y cuenta las pendientes.
func (r *ReportRepo) SalesSummary(ctx context.Context, from, to time.Time) (repository.SalesSummaryResult, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE status = 'completed')                        AS total_sales,
	    COALESCE(SUM(final_amount) FILTER (WHERE status = 'completed'), 0)  AS total_revenue,
	    COALESCE(ROUND(AVG(final_amount) FILTER (WHERE status = 'completed'), 2), 0) AS average_sale,
	    COALESCE(MIN(final_amount) FILTER (WHERE status = 'completed'), 0)  AS min_sale,
	    COALESCE(MAX(final_amount) FILTER (WHERE status = 'completed'), 0)  AS max_sale,
	    COUNT(*) FILTER (WHERE status = 'pending')                          AS pending_sales
	FROM sales
	WHERE ($1::timestamptz IS NULL OR created_at >= $1)
	  AND ($2::timestamptz IS NULL OR created_at < $2)`

	var res repository.SalesSummaryResult
	err := r.pool.QueryRow(ctx, query, optionalTime(from), optionalTime(to)).Scan(
		&res.TotalSales, &res.TotalRevenue, &res.AverageSale, &res.MinSale, &res.MaxSale, &res.PendingSales,
	)
	if err != nil {
		return res, wrapErr("sales summary", err)
	}
	return res, nil
}

// DailySales agrupa las ventas completadas por día (UTC) desde from.
func (r *ReportRepo) DailySales(ctx context.Context, from time.Time) ([]repository.DailySalesResult, error) {
	const query = `
	SELECT
	    date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
	    COUNT(*)                                         AS total_sales,
	    COALESCE(SUM(final_amount), 0)                   AS total_revenue,
	    COALESCE(ROUND(AVG(final_amount), 2), 0)         AS average_sale
	FROM sales
	WHERE status = 'completed'
	  AND created_at >= $1
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, from)
	if err != nil {
		return nil, wrapErr("daily sales", err)
	}
	defer rows.Close()

	results := make([]repository.DailySalesResult, 0)
	for rows.Next() {
		var d repository.DailySalesResult
		if err := rows.Scan(&d.Day, &d.TotalSales, &d.TotalRevenue, &d.AverageSale); err != nil {
			return nil, wrapErr("scan daily sales", err)
		}
		d.Day = time.Date(d.Day.Year(), d.Day.Month(), d.Day.Day(), 0, 0, 0, 0, time.UTC)
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate daily sales", err)
	}
	return results, nil
}

// TopProducts productos con más unidades vendidas en ventas completadas.
func (r *ReportRepo) TopProducts(ctx context.Context, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id::text,
	    p.sku,
	    p.name,
	    SUM(si.quantity)::int  AS total_sold,
	    SUM(si.total_price)    AS total_revenue
	FROM sale_items si
	JOIN products p ON p.id = si.product_id
	JOIN sales    s ON s.id = si.sale_id
	WHERE s.status = 'completed'
	GROUP BY p.id, p.sku, p.name
	ORDER BY total_sold DESC, p.id
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, wrapErr("top products", err)
	}
	defer rows.Close()

	results := make([]repository.TopProductResult, 0)
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.SKU, &t.Name, &t.TotalSold, &t.TotalRevenue); err != nil {
			return nil, wrapErr("scan top products", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate top products", err)
	}
	return results, nil
}

// LowStock productos no descontinuados en o bajo su mínimo, los más críticos primero.
func (r *ReportRepo) LowStock(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE current_stock <= min_stock_level
		  AND status <> 'discontinued'
		ORDER BY (current_stock::numeric / NULLIF(min_stock_level, 0)) ASC NULLS LAST, id`)
	if err != nil {
		return nil, wrapErr("low stock", err)
	}
	defer rows.Close()

	results := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr("scan low stock", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate low stock", err)
	}
	return results, nil
}

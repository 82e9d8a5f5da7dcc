// Package reporting expone los reportes de solo lectura: resumen de ventas y stock bajo.
package reporting

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/cache"
	"golang.org/x/sync/errgroup"
)

// Periodos aceptados por SalesReport.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

const (
	dailySalesDays  = 7
	topProductLimit = 5
)

// SalesReport resumen del periodo, ventas diarias de la última semana y productos más vendidos.
type SalesReport struct {
	Period      string                        `json:"period"`
	Summary     repository.SalesSummaryResult `json:"summary"`
	DailySales  []repository.DailySalesResult `json:"daily_sales"`
	TopProducts []repository.TopProductResult `json:"top_products"`
}

// UseCase arma reportes con las consultas en paralelo y los guarda en caché.
type UseCase struct {
	repo  repository.ReportRepository
	cache *cache.ReportCache
	now   func() time.Time
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(repo repository.ReportRepository, c *cache.ReportCache) *UseCase {
	return &UseCase{repo: repo, cache: c, now: func() time.Time { return time.Now().UTC() }}
}

// PeriodStart devuelve el inicio del periodo; cero para "all".
func PeriodStart(period string, now time.Time) (time.Time, error) {
	today := now.UTC().Truncate(24 * time.Hour)
	switch period {
	case PeriodToday:
		return today, nil
	case PeriodWeek:
		return today.AddDate(0, 0, -7), nil
	case PeriodMonth:
		return today.AddDate(0, 0, -30), nil
	case PeriodAll:
		return time.Time{}, nil
	}
	return time.Time{}, domain.NewValidationError("period", "debe ser uno de: today week month all")
}

// SalesReport devuelve el reporte de ventas del periodo (today por defecto).
func (uc *UseCase) SalesReport(ctx context.Context, period string) (*SalesReport, error) {
	if period == "" {
		period = PeriodToday
	}
	now := uc.now()
	from, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}
	key, err := uc.cache.BuildKey(ctx, "reports", "sales", period, now.Format("20060102"))
	if err != nil {
		// Redis sin versión: se calcula sin caché.
		return uc.loadSalesReport(ctx, period, from, now)
	}
	var rep SalesReport
	err = uc.cache.FetchJSON(ctx, key, &rep, func(ctx context.Context) (any, error) {
		return uc.loadSalesReport(ctx, period, from, now)
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (uc *UseCase) loadSalesReport(ctx context.Context, period string, from, now time.Time) (*SalesReport, error) {
	rep := &SalesReport{Period: period}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rep.Summary, err = uc.repo.SalesSummary(gctx, from, time.Time{})
		return err
	})
	g.Go(func() error {
		var err error
		rep.DailySales, err = uc.repo.DailySales(gctx, now.Truncate(24*time.Hour).AddDate(0, 0, -dailySalesDays))
		return err
	})
	g.Go(func() error {
		var err error
		rep.TopProducts, err = uc.repo.TopProducts(gctx, topProductLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if rep.DailySales == nil {
		rep.DailySales = []repository.DailySalesResult{}
	}
	if rep.TopProducts == nil {
		rep.TopProducts = []repository.TopProductResult{}
	}
	return rep, nil
}

// LowStock productos en o bajo su mínimo. No se cachea.
func (uc *UseCase) LowStock(ctx context.Context) ([]*entity.Product, error) {
	return uc.repo.LowStock(ctx)
}

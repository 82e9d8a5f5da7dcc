package reporting_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jhoicas/ventas-api/internal/application/reporting"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/cache"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReports struct {
	summaryCalls atomic.Int32
	summaryFrom  atomic.Value
	topErr       error
}

func (m *mockReports) SalesSummary(_ context.Context, from, _ time.Time) (repository.SalesSummaryResult, error) {
	m.summaryCalls.Add(1)
	m.summaryFrom.Store(from)
	return repository.SalesSummaryResult{
		TotalSales:   2,
		TotalRevenue: decimal.RequireFromString("120.00"),
		AverageSale:  decimal.RequireFromString("60.00"),
	}, nil
}

func (m *mockReports) DailySales(context.Context, time.Time) ([]repository.DailySalesResult, error) {
	return []repository.DailySalesResult{{Day: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), TotalSales: 2}}, nil
}

func (m *mockReports) TopProducts(_ context.Context, limit int) ([]repository.TopProductResult, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}
	return []repository.TopProductResult{{ProductID: "p1", TotalSold: limit}}, nil
}

func (m *mockReports) LowStock(context.Context) ([]*entity.Product, error) {
	return []*entity.Product{{ID: "p2", CurrentStock: 1, MinStockLevel: 5}}, nil
}

func newTestUseCase(t *testing.T, repo repository.ReportRepository) (*reporting.UseCase, *cache.ReportCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewReportCache(client, time.Minute)
	return reporting.NewUseCase(repo, c), c
}

func TestSalesReport_CacheaHastaInvalidar(t *testing.T) {
	repo := &mockReports{}
	uc, c := newTestUseCase(t, repo)
	ctx := context.Background()

	rep, err := uc.SalesReport(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, reporting.PeriodToday, rep.Period)
	assert.Equal(t, "120.00", rep.Summary.TotalRevenue.StringFixed(2))
	require.Len(t, rep.TopProducts, 1)
	assert.Equal(t, 5, rep.TopProducts[0].TotalSold)

	_, err = uc.SalesReport(ctx, reporting.PeriodToday)
	require.NoError(t, err)
	assert.Equal(t, int32(1), repo.summaryCalls.Load(), "segunda lectura desde caché")

	require.NoError(t, c.Invalidate(ctx))
	_, err = uc.SalesReport(ctx, reporting.PeriodToday)
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.summaryCalls.Load())
}

func TestSalesReport_PeriodoInvalido(t *testing.T) {
	uc, _ := newTestUseCase(t, &mockReports{})
	_, err := uc.SalesReport(context.Background(), "year")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSalesReport_PropagaErrorDeConsulta(t *testing.T) {
	boom := errors.New("timeout")
	uc, _ := newTestUseCase(t, &mockReports{topErr: boom})
	_, err := uc.SalesReport(context.Background(), reporting.PeriodWeek)
	assert.ErrorIs(t, err, boom)
}

func TestSalesReport_SinCache(t *testing.T) {
	repo := &mockReports{}
	uc := reporting.NewUseCase(repo, nil)
	_, err := uc.SalesReport(context.Background(), reporting.PeriodAll)
	require.NoError(t, err)
	_, err = uc.SalesReport(context.Background(), reporting.PeriodAll)
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.summaryCalls.Load())
	assert.True(t, repo.summaryFrom.Load().(time.Time).IsZero(), "all no acota por fecha")
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)
	from, err := reporting.PeriodStart(reporting.PeriodToday, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), from)

	from, err = reporting.PeriodStart(reporting.PeriodMonth, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC), from)
}

func TestLowStock(t *testing.T) {
	uc, _ := newTestUseCase(t, &mockReports{})
	list, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ID)
}

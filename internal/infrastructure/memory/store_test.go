package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
)

func seeded() *memory.Store {
	st := memory.NewStore()
	st.SeedProduct(entity.Product{ID: "p1", SKU: "CAF-001", Name: "Café", CurrentStock: 5, MinStockLevel: 5})
	st.SeedProduct(entity.Product{ID: "p2", SKU: "TE-001", Name: "Té", CurrentStock: 0, MinStockLevel: 3,
		Status: entity.ProductStatusDiscontinued})
	return st
}

func TestRun_ErrorDescartaCambios(t *testing.T) {
	st := seeded()
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		stock := 1
		require.NoError(t, repos.Stock.ApplyUpdate(ctx, "p1", entity.ProductUpdate{CurrentStock: &stock}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := st.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.CurrentStock, "el rollback deja el stock intacto")
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := seeded().Run(ctx, func(context.Context, repository.TxRepos) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAppendMovement_RechazaMovimientoInconsistente(t *testing.T) {
	err := seeded().Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return repos.Stock.AppendMovement(ctx, &entity.StockMovement{
			ID: "m1", ProductID: "p1", Direction: entity.MovementOut,
			Quantity: 2, PreviousStock: 5, NewStock: 4,
		})
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvoiceCounter_SembradoDesdeFacturasDelDia(t *testing.T) {
	st := seeded()
	st.SeedSale(entity.Sale{ID: "s1", InvoiceNumber: "INV-20260115-0001", Status: entity.SaleStatusCompleted})
	st.SeedSale(entity.Sale{ID: "s2", InvoiceNumber: "INV-20260115-0007", Status: entity.SaleStatusCompleted})
	st.SeedSale(entity.Sale{ID: "s3", InvoiceNumber: "INV-20260115-manual", Status: entity.SaleStatusCompleted})

	var first, second int
	err := st.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		if first, err = repos.Invoices.Next(ctx, "20260115"); err != nil {
			return err
		}
		second, err = repos.Invoices.Next(ctx, "20260116")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 8, first, "arranca desde el mayor sufijo, no desde la cantidad")
	assert.Equal(t, 1, second)
}

func TestInvoiceCounter_ResyncSaltaFacturasAjenas(t *testing.T) {
	st := seeded()
	ctx := context.Background()
	next := func() int {
		var n int
		require.NoError(t, st.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
			var err error
			n, err = repos.Invoices.Next(ctx, "20260115")
			return err
		}))
		return n
	}
	resync := func() {
		require.NoError(t, st.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
			return repos.Invoices.Resync(ctx, "20260115")
		}))
	}

	assert.Equal(t, 1, next())
	st.SeedSale(entity.Sale{ID: "legacy", InvoiceNumber: "INV-20260115-0005"})
	resync()
	assert.Equal(t, 6, next())

	// Resync nunca retrocede el contador.
	resync()
	assert.Equal(t, 7, next())
}

func TestSaleCreate_FacturaDuplicada(t *testing.T) {
	st := seeded()
	st.SeedSale(entity.Sale{ID: "s1", InvoiceNumber: "INV-20260115-0001"})

	err := st.Run(context.Background(), func(ctx context.Context, repos repository.TxRepos) error {
		return repos.Sales.Create(ctx, &entity.Sale{ID: "s2", InvoiceNumber: "INV-20260115-0001"})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestReports_ResumenYStockBajo(t *testing.T) {
	st := seeded()
	now := time.Now().UTC()
	st.SeedSale(entity.Sale{ID: "s1", InvoiceNumber: "A", Status: entity.SaleStatusCompleted,
		FinalAmount: decimal.RequireFromString("40.00"), CreatedAt: now},
		entity.SaleItem{ID: "i1", SaleID: "s1", ProductID: "p1", Quantity: 2, TotalPrice: decimal.RequireFromString("40.00")})
	st.SeedSale(entity.Sale{ID: "s2", InvoiceNumber: "B", Status: entity.SaleStatusCompleted,
		FinalAmount: decimal.RequireFromString("20.00"), CreatedAt: now},
		entity.SaleItem{ID: "i2", SaleID: "s2", ProductID: "p1", Quantity: 1, TotalPrice: decimal.RequireFromString("20.00")})
	st.SeedSale(entity.Sale{ID: "s3", InvoiceNumber: "C", Status: entity.SaleStatusPending,
		FinalAmount: decimal.RequireFromString("99.00"), CreatedAt: now})

	ctx := context.Background()
	sum, err := st.Reports().SalesSummary(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalSales)
	assert.Equal(t, 1, sum.PendingSales)
	assert.True(t, decimal.RequireFromString("60.00").Equal(sum.TotalRevenue))
	assert.True(t, decimal.RequireFromString("30.00").Equal(sum.AverageSale))
	assert.True(t, decimal.RequireFromString("20.00").Equal(sum.MinSale))
	assert.True(t, decimal.RequireFromString("40.00").Equal(sum.MaxSale))

	top, err := st.Reports().TopProducts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 3, top[0].TotalSold)

	low, err := st.Reports().LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1, "los descontinuados no aparecen")
	assert.Equal(t, "p1", low[0].ID)
}

package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/ventas-api/internal/application/ledger"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/validation"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Dobles ────────────────────────────────────────────────────────────────────

// wrappedTx corre la transacción del Store pero reemplaza los repos que ve el caso de uso.
type wrappedTx struct {
	inner *memory.Store
	wrap  func(repository.TxRepos) repository.TxRepos
}

func (w wrappedTx) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	return w.inner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		return fn(ctx, w.wrap(repos))
	})
}

var errLockLost = errors.New("lock perdido")

// failOnSecondLock falla al bloquear el segundo producto de la transacción.
type failOnSecondLock struct {
	repository.StockLedgerRepository
	calls int
}

func (s *failOnSecondLock) GetForUpdate(ctx context.Context, productID string) (*entity.Product, error) {
	s.calls++
	if s.calls == 2 {
		return nil, errLockLost
	}
	return s.StockLedgerRepository.GetForUpdate(ctx, productID)
}

// stuckCounter siempre entrega el mismo número.
type stuckCounter struct{}

func (stuckCounter) Next(context.Context, string) (int, error) { return 2, nil }

func (stuckCounter) Resync(context.Context, string) error { return nil }

var errReplicaDown = errors.New("réplica caída")

type failingItems struct{ repository.SaleReader }

func (failingItems) GetItems(context.Context, string) ([]*entity.SaleItem, error) {
	return nil, errReplicaDown
}

func seededStore() *memory.Store {
	st := memory.NewStore()
	st.SeedProduct(entity.Product{
		ID: "p1", SKU: "CAF-001", Name: "Café molido",
		SellingPrice: dec("20.00"), CurrentStock: 10, MinStockLevel: 2,
	})
	st.SeedProduct(entity.Product{
		ID: "p2", SKU: "AZU-001", Name: "Azúcar",
		SellingPrice: dec("4.50"), CurrentStock: 1, MinStockLevel: 5,
	})
	return st
}

func newCoordinator(t *testing.T, tx ledger.TxRunner, reader repository.SaleReader, payments repository.PaymentTransactionRepository) (*sales.Coordinator, *sales.PaymentRecorder) {
	t.Helper()
	rec := sales.NewPaymentRecorder(payments, logger.Nop(), 4)
	t.Cleanup(rec.Close)
	coord := sales.NewCoordinator(tx, reader, ledger.New(), validation.New(), rec, nil, logger.Nop(), defaultConfig())
	return coord, rec
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestCreate_FalloEnSegundaLineaNoDejaRastro(t *testing.T) {
	st := seededStore()
	tx := wrappedTx{inner: st, wrap: func(r repository.TxRepos) repository.TxRepos {
		r.Stock = &failOnSecondLock{StockLedgerRepository: r.Stock}
		return r
	}}
	coord, _ := newCoordinator(t, tx, st.Sales(), st.Payments())
	ctx := context.Background()

	_, err := coord.Create(ctx, "u1", sales.CreateSaleInput{Items: []sales.CreateSaleItemInput{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 1},
	}})
	require.ErrorIs(t, err, errLockLost)

	page, err := coord.List(ctx, sales.ListSalesInput{})
	require.NoError(t, err)
	assert.Zero(t, page.Total, "no queda venta")

	p1, err := st.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p1.CurrentStock, "la primera línea ya descontada vuelve atrás")
	for _, id := range []string{"p1", "p2"} {
		movs, err := st.ChainByProduct(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, movs, id)
	}
}

func TestCreate_ContadorAtascadoTerminaEnTransitorio(t *testing.T) {
	st := seededStore()
	today := time.Now().UTC().Format("20060102")
	st.SeedSale(entity.Sale{
		ID: "legacy", InvoiceNumber: sales.FormatInvoiceNumber(today, 2),
		Status: entity.SaleStatusCompleted, CreatedAt: time.Now().UTC(),
	})
	tx := wrappedTx{inner: st, wrap: func(r repository.TxRepos) repository.TxRepos {
		r.Invoices = stuckCounter{}
		return r
	}}
	coord, _ := newCoordinator(t, tx, st.Sales(), st.Payments())

	_, err := coord.Create(context.Background(), "u1", threeCoffees())
	require.ErrorIs(t, err, domain.ErrTransient)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p1, err := st.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p1.CurrentStock)
}

// ── Complete ──────────────────────────────────────────────────────────────────

func TestComplete_AuditoriaDePagoFallidaNoRevierteLaVenta(t *testing.T) {
	st := seededStore()
	coord, rec := newCoordinator(t, st, st.Sales(), failingPayments{})
	ctx := context.Background()

	s, err := coord.Create(ctx, "u1", threeCoffees())
	require.NoError(t, err)

	done, err := coord.Complete(ctx, "u2", s.ID, sales.CompleteSaleInput{AmountPaid: dec("60.00")})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, done.Status)
	assert.Equal(t, entity.PaymentStatusPaid, done.PaymentStatus)

	select {
	case err := <-rec.Errors():
		assert.ErrorIs(t, err, errDiskFull)
		assert.Contains(t, err.Error(), s.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("el error de auditoría no llegó a Errors()")
	}

	stored, err := coord.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, stored.Status)
}

func TestComplete_FalloAlLeerLineasDevuelveLaVentaPagada(t *testing.T) {
	st := seededStore()
	coord, _ := newCoordinator(t, st, failingItems{st.Sales()}, st.Payments())
	ctx := context.Background()

	s, err := coord.Create(ctx, "u1", threeCoffees())
	require.NoError(t, err)

	done, err := coord.Complete(ctx, "u2", s.ID, sales.CompleteSaleInput{AmountPaid: dec("60.00")})
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, entity.SaleStatusCompleted, done.Status)
	assert.Equal(t, entity.PaymentStatusPaid, done.PaymentStatus)
	assert.Empty(t, done.Items)
}

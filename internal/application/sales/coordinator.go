// Package sales coordina las transacciones de venta: creación, cobro, cancelación y reembolso.
// Cada operación corre en una sola transacción que incluye la venta, sus líneas y
// los movimientos de stock.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ventas-api/internal/application/ledger"
	"github.com/jhoicas/ventas-api/internal/application/validation"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/domain/sale"
	"github.com/jhoicas/ventas-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 20

// Config políticas de venta.
type Config struct {
	DefaultTaxRate       decimal.Decimal // porcentaje
	AllowCancelCompleted bool
}

// Coordinator ejecuta las operaciones de venta. No guarda estado mutable compartido.
type Coordinator struct {
	tx          ledger.TxRunner
	sales       repository.SaleReader
	ledger      *ledger.Ledger
	machine     sale.StateMachine
	validate    *validation.Validator
	payments    PaymentAuditor
	invalidator ReportInvalidator
	log         *logger.Logger
	taxRate     decimal.Decimal
	now         func() time.Time
}

// NewCoordinator construye el coordinador. payments e invalidator pueden ser nil.
func NewCoordinator(
	tx ledger.TxRunner,
	sales repository.SaleReader,
	l *ledger.Ledger,
	v *validation.Validator,
	payments PaymentAuditor,
	invalidator ReportInvalidator,
	log *logger.Logger,
	cfg Config,
) *Coordinator {
	return &Coordinator{
		tx:          tx,
		sales:       sales,
		ledger:      l,
		machine:     sale.NewStateMachine(cfg.AllowCancelCompleted),
		validate:    v,
		payments:    payments,
		invalidator: invalidator,
		log:         log,
		taxRate:     cfg.DefaultTaxRate,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create registra la venta, descuenta el stock de cada línea y asigna el número de factura.
// Un choque de número de factura reintenta la transacción una vez.
func (c *Coordinator) Create(ctx context.Context, actor string, in CreateSaleInput) (*entity.Sale, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, err
	}
	if err := in.checkAmounts(); err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentMethodCash
	}

	var created *entity.Sale
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		created, err = c.createOnce(ctx, actor, in, attempt > 0)
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
		c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("choque de número de factura")
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, fmt.Errorf("create sale: %w: %w", domain.ErrTransient, err)
	}
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return created, nil
}

// createOnce corre la transacción de alta. Con resync el contador de facturas se realinea
// con las facturas guardadas antes de reservar número.
func (c *Coordinator) createOnce(ctx context.Context, actor string, in CreateSaleInput, resync bool) (*entity.Sale, error) {
	var created *entity.Sale
	err := c.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		lines, items, err := c.priceItems(ctx, repos.Products, in.Items)
		if err != nil {
			return err
		}
		totals, err := sale.ComputeTotals(lines, in.DiscountAmount, c.taxPolicy(in))
		if err != nil {
			return err
		}
		paid := in.AmountPaid.Round(2)
		status, payStatus, change := sale.Settle(totals.Final, paid)

		now := c.now()
		if resync {
			if err := resyncInvoiceCounter(ctx, repos.Invoices, now); err != nil {
				return err
			}
		}
		number, err := NextInvoiceNumber(ctx, repos.Invoices, now)
		if err != nil {
			return err
		}
		s := &entity.Sale{
			ID:             uuid.New().String(),
			InvoiceNumber:  number,
			CustomerName:   in.CustomerName,
			CustomerEmail:  in.CustomerEmail,
			CustomerPhone:  in.CustomerPhone,
			TotalAmount:    totals.Subtotal,
			DiscountAmount: totals.Discount,
			TaxAmount:      totals.Tax,
			FinalAmount:    totals.Final,
			AmountPaid:     paid,
			ChangeAmount:   change.Round(2),
			PaymentMethod:  in.PaymentMethod,
			PaymentStatus:  payStatus,
			Status:         status,
			SoldBy:         actor,
			Notes:          in.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		for _, it := range items {
			it.ID = uuid.New().String()
			it.SaleID = s.ID
			if err := repos.Sales.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		for _, it := range items {
			if _, err := c.ledger.ReserveAndDebit(ctx, repos.Stock, ledger.DebitInput{
				ProductID:     it.ProductID,
				Quantity:      it.Quantity,
				ReferenceKind: entity.ReferenceSale,
				ReferenceID:   s.ID,
				Actor:         actor,
				Notes:         "Venta " + s.InvoiceNumber,
			}); err != nil {
				return err
			}
		}
		s.Items = items
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// priceItems carga cada producto, resuelve el precio unitario y verifica disponibilidad
// sumando las líneas repetidas del mismo producto.
func (c *Coordinator) priceItems(ctx context.Context, products repository.ProductRepository, in []CreateSaleItemInput) ([]sale.Line, []*entity.SaleItem, error) {
	lines := make([]sale.Line, 0, len(in))
	items := make([]*entity.SaleItem, 0, len(in))
	requested := make(map[string]int, len(in))
	for _, req := range in {
		p, err := products.GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, req.ProductID)
		}
		if p.Status == entity.ProductStatusDiscontinued {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrProductDiscontinued, p.Name)
		}
		requested[p.ID] += req.Quantity
		if requested[p.ID] > p.CurrentStock {
			return nil, nil, &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.CurrentStock,
				Requested:   requested[p.ID],
			}
		}
		price := p.SellingPrice
		if req.UnitPrice != nil {
			price = *req.UnitPrice
		}
		line := sale.Line{Quantity: req.Quantity, UnitPrice: price.Round(2)}
		lines = append(lines, line)
		items = append(items, &entity.SaleItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			SKU:         p.SKU,
			Quantity:    req.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.LineTotal(),
		})
	}
	return lines, items, nil
}

func (c *Coordinator) taxPolicy(in CreateSaleInput) sale.TaxPolicy {
	rate := c.taxRate
	if in.TaxRate != nil {
		rate = *in.TaxRate
	}
	return sale.TaxPolicy{Amount: in.TaxAmount, RatePct: rate}
}

// Complete aplica un pago adicional a una venta pendiente. No mueve stock.
// El registro de auditoría del cobro se entrega después del commit.
func (c *Coordinator) Complete(ctx context.Context, actor, saleID string, in CompleteSaleInput) (*entity.Sale, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, err
	}
	if !in.AmountPaid.IsPositive() {
		return nil, domain.NewValidationError("amount_paid", "debe ser mayor que cero")
	}
	var updated *entity.Sale
	err := c.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		s, err := lockSale(ctx, repos.Sales, saleID)
		if err != nil {
			return err
		}
		upd, err := c.machine.ApplyPayment(s, in.AmountPaid, in.PaymentMethod)
		if err != nil {
			return err
		}
		if err := repos.Sales.Update(ctx, s.ID, upd); err != nil {
			return err
		}
		upd.Apply(s)
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	if c.payments != nil {
		c.payments.Record(&entity.PaymentTransaction{
			ID:            uuid.New().String(),
			SaleID:        updated.ID,
			Amount:        in.AmountPaid.Round(2),
			PaymentMethod: updated.PaymentMethod,
			ProcessedBy:   actor,
			Notes:         fmt.Sprintf("Pago de venta %s", updated.InvoiceNumber),
			CreatedAt:     c.now(),
		})
	}
	c.invalidate(ctx)
	// El pago ya está confirmado: si fallan las líneas se devuelve la venta sin ellas.
	withItems, err := c.withItems(ctx, updated)
	if err != nil {
		c.log.Warn().Err(err).Str("sale_id", updated.ID).Msg("venta pagada sin líneas en la respuesta")
		return updated, nil
	}
	return withItems, nil
}

// Cancel devuelve al stock todas las líneas y deja la venta cancelada.
func (c *Coordinator) Cancel(ctx context.Context, actor, saleID string) (*entity.Sale, error) {
	return c.reverse(ctx, actor, saleID, func(s *entity.Sale) (entity.SaleUpdate, error) {
		return c.machine.CancelUpdate(s)
	}, "Cancelación de venta ")
}

// Refund devuelve al stock todas las líneas y agrega la nota fechada del reembolso.
func (c *Coordinator) Refund(ctx context.Context, actor, saleID string, in RefundSaleInput) (*entity.Sale, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, err
	}
	return c.reverse(ctx, actor, saleID, func(s *entity.Sale) (entity.SaleUpdate, error) {
		return c.machine.RefundUpdate(s, in.Notes, c.now())
	}, "Reembolso de venta ")
}

// reverse bloquea la venta, valida la transición y acredita cada línea con referencia a la venta.
func (c *Coordinator) reverse(ctx context.Context, actor, saleID string, transition func(*entity.Sale) (entity.SaleUpdate, error), notePrefix string) (*entity.Sale, error) {
	var updated *entity.Sale
	err := c.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		s, err := lockSale(ctx, repos.Sales, saleID)
		if err != nil {
			return err
		}
		upd, err := transition(s)
		if err != nil {
			return err
		}
		items, err := repos.Sales.GetItems(ctx, s.ID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if _, err := c.ledger.Credit(ctx, repos.Stock, ledger.CreditInput{
				ProductID:     it.ProductID,
				Quantity:      it.Quantity,
				ReferenceKind: entity.ReferenceReturn,
				ReferenceID:   s.ID,
				Actor:         actor,
				Notes:         notePrefix + s.InvoiceNumber,
			}); err != nil {
				return err
			}
		}
		if err := repos.Sales.Update(ctx, s.ID, upd); err != nil {
			return err
		}
		upd.Apply(s)
		s.Items = items
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return updated, nil
}

func lockSale(ctx context.Context, repo repository.SaleRepository, saleID string) (*entity.Sale, error) {
	s, err := repo.GetForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrSaleNotFound
	}
	return s, nil
}

// GetByID devuelve la venta con sus líneas.
func (c *Coordinator) GetByID(ctx context.Context, saleID string) (*entity.Sale, error) {
	s, err := c.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrSaleNotFound
	}
	return c.withItems(ctx, s)
}

// List devuelve una página de ventas, más recientes primero.
func (c *Coordinator) List(ctx context.Context, in ListSalesInput) (*SalesPage, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, err
	}
	f := repository.SaleFilter{From: in.From, To: in.To, Limit: in.Limit, Offset: in.Offset}
	if in.Status != "" && in.Status != "all" {
		f.Status = entity.SaleStatus(in.Status)
	}
	if in.PaymentMethod != "all" {
		f.PaymentMethod = in.PaymentMethod
	}
	if f.Limit == 0 {
		f.Limit = defaultPageSize
	}
	list, total, err := c.sales.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &SalesPage{Sales: list, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (c *Coordinator) withItems(ctx context.Context, s *entity.Sale) (*entity.Sale, error) {
	items, err := c.sales.GetItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

func (c *Coordinator) invalidate(ctx context.Context) {
	if c.invalidator == nil {
		return
	}
	if err := c.invalidator.Invalidate(ctx); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}

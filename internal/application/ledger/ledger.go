// Package ledger es el único punto que modifica el stock de un producto.
// Cada cambio de stock escribe su movimiento en la misma transacción.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// DebitInput salida de stock por venta.
type DebitInput struct {
	ProductID     string
	Quantity      int
	ReferenceKind entity.ReferenceKind
	ReferenceID   string
	Actor         string
	Notes         string
}

// CreditInput entrada de stock (devolución por cancelación o reembolso).
type CreditInput struct {
	ProductID     string
	Quantity      int
	ReferenceKind entity.ReferenceKind
	ReferenceID   string
	Actor         string
	Notes         string
}

// AdjustInput corrección manual con delta con signo.
type AdjustInput struct {
	ProductID   string
	Delta       int
	ReferenceID string
	Actor       string
	Notes       string
}

// Ledger aplica débitos, créditos y ajustes sobre repositorios de una transacción abierta.
// No guarda estado propio.
type Ledger struct {
	now func() time.Time
}

// New construye el ledger con reloj UTC.
func New() *Ledger {
	return &Ledger{now: func() time.Time { return time.Now().UTC() }}
}

// ReserveAndDebit bloquea la fila del producto, verifica disponibilidad y descuenta.
func (l *Ledger) ReserveAndDebit(ctx context.Context, repo repository.StockLedgerRepository, in DebitInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	p, err := lockProduct(ctx, repo, in.ProductID)
	if err != nil {
		return nil, err
	}
	if in.Quantity > p.CurrentStock {
		return nil, &domain.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.CurrentStock,
			Requested:   in.Quantity,
		}
	}
	return l.apply(ctx, repo, p, &entity.StockMovement{
		ProductID:     p.ID,
		Direction:     entity.MovementOut,
		Quantity:      in.Quantity,
		ReferenceKind: in.ReferenceKind,
		ReferenceID:   in.ReferenceID,
		CreatedBy:     in.Actor,
		Notes:         in.Notes,
	})
}

// Credit devuelve unidades al stock. Los productos descontinuados también aceptan devoluciones.
func (l *Ledger) Credit(ctx context.Context, repo repository.StockLedgerRepository, in CreditInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	p, err := lockProduct(ctx, repo, in.ProductID)
	if err != nil {
		return nil, err
	}
	return l.apply(ctx, repo, p, &entity.StockMovement{
		ProductID:     p.ID,
		Direction:     entity.MovementIn,
		Quantity:      in.Quantity,
		ReferenceKind: in.ReferenceKind,
		ReferenceID:   in.ReferenceID,
		CreatedBy:     in.Actor,
		Notes:         in.Notes,
	})
}

// Adjust aplica una corrección con signo. Un delta que deje el stock negativo es stock insuficiente.
func (l *Ledger) Adjust(ctx context.Context, repo repository.StockLedgerRepository, in AdjustInput) (*entity.StockMovement, error) {
	if in.Delta == 0 {
		return nil, domain.NewValidationError("delta", "no puede ser cero")
	}
	p, err := lockProduct(ctx, repo, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p.CurrentStock+in.Delta < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.CurrentStock,
			Requested:   -in.Delta,
		}
	}
	return l.apply(ctx, repo, p, &entity.StockMovement{
		ProductID:     p.ID,
		Direction:     entity.MovementAdjustment,
		Quantity:      in.Delta,
		ReferenceKind: entity.ReferenceAdjustment,
		ReferenceID:   in.ReferenceID,
		CreatedBy:     in.Actor,
		Notes:         in.Notes,
	})
}

func lockProduct(ctx context.Context, repo repository.StockLedgerRepository, productID string) (*entity.Product, error) {
	p, err := repo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("lock product %s: %w", productID, err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// apply completa el movimiento, actualiza el producto y agrega el registro al ledger.
func (l *Ledger) apply(ctx context.Context, repo repository.StockLedgerRepository, p *entity.Product, m *entity.StockMovement) (*entity.StockMovement, error) {
	m.ID = uuid.New().String()
	m.PreviousStock = p.CurrentStock
	m.NewStock = p.CurrentStock + m.Delta()
	m.CreatedAt = l.now()

	upd := entity.ProductUpdate{CurrentStock: &m.NewStock, Status: nextStatus(p.Status, m.NewStock)}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	if err := repo.ApplyUpdate(ctx, p.ID, upd); err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	if err := repo.AppendMovement(ctx, m); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}
	return m, nil
}

// nextStatus pasa a out_of_stock al llegar a cero y vuelve a active al reponer.
// Un producto descontinuado conserva su estado.
func nextStatus(current entity.ProductStatus, newStock int) *entity.ProductStatus {
	var next entity.ProductStatus
	switch {
	case current == entity.ProductStatusDiscontinued:
		return nil
	case newStock == 0 && current != entity.ProductStatusOutOfStock:
		next = entity.ProductStatusOutOfStock
	case newStock > 0 && current == entity.ProductStatusOutOfStock:
		next = entity.ProductStatusActive
	default:
		return nil
	}
	return &next
}

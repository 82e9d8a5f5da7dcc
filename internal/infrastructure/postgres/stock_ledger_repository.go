package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo escritura de stock y movimientos. Pensado para usarse con una tx.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador del ledger.
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *StockLedgerRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Product, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product for update", err)
	}
	return p, nil
}

// ApplyUpdate escribe solo los campos presentes en upd.
func (r *StockLedgerRepo) ApplyUpdate(ctx context.Context, productID string, upd entity.ProductUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET current_stock = COALESCE($2::integer, current_stock),
		    status = COALESCE($3::varchar, status),
		    updated_at = now()
		WHERE id = $1`,
		productID, upd.CurrentStock, status)
	if err != nil {
		return wrapErr("update product stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AppendMovement inserta el movimiento. La tabla es append-only.
func (r *StockLedgerRepo) AppendMovement(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (
			id, product_id, movement_type, quantity, previous_stock, new_stock,
			reference_type, reference_id, notes, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), $11)`,
		m.ID, m.ProductID, string(m.Direction), m.Quantity, m.PreviousStock, m.NewStock,
		string(m.ReferenceKind), m.ReferenceID, m.Notes, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert stock movement", err)
	}
	return nil
}

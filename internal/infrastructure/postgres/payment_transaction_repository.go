package postgres

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.PaymentTransactionRepository = (*PaymentTransactionRepo)(nil)

// PaymentTransactionRepo auditoría de cobros. Se usa con el pool, fuera de la tx de la venta.
type PaymentTransactionRepo struct {
	q Querier
}

// NewPaymentTransactionRepository construye el adaptador.
func NewPaymentTransactionRepository(q Querier) *PaymentTransactionRepo {
	return &PaymentTransactionRepo{q: q}
}

// Create inserta el registro del cobro.
func (r *PaymentTransactionRepo) Create(ctx context.Context, p *entity.PaymentTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payment_transactions (id, sale_id, amount, payment_method, processed_by, notes, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7)`,
		p.ID, p.SaleID, p.Amount, p.PaymentMethod, p.ProcessedBy, p.Notes, p.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert payment transaction", err)
	}
	return nil
}

// ListBySale lista los cobros de una venta en orden cronológico.
func (r *PaymentTransactionRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.PaymentTransaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::text, sale_id::text, amount, payment_method, COALESCE(processed_by, ''), COALESCE(notes, ''), created_at
		FROM payment_transactions WHERE sale_id = $1 ORDER BY created_at`, saleID)
	if err != nil {
		return nil, wrapErr("list payment transactions", err)
	}
	defer rows.Close()
	list := make([]*entity.PaymentTransaction, 0)
	for rows.Next() {
		var p entity.PaymentTransaction
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Amount, &p.PaymentMethod, &p.ProcessedBy, &p.Notes, &p.CreatedAt); err != nil {
			return nil, wrapErr("scan payment transaction", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate payment transactions", err)
	}
	return list, nil
}

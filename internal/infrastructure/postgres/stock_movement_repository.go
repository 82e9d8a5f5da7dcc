package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.StockMovementReader = (*StockMovementRepo)(nil)

const movementColumns = `
	id::text, product_id::text, movement_type, quantity, previous_stock, new_stock,
	reference_type, reference_id::text, COALESCE(notes, ''), COALESCE(created_by, ''), created_at`

// StockMovementRepo lectura del historial de movimientos (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// ListByProduct lista movimientos por producto con filtro opcional de fechas.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	where := []string{"product_id = $1"}
	args := []any{productID}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count stock movements", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM stock_movements WHERE %s ORDER BY seq DESC LIMIT $%d OFFSET $%d`,
		movementColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list stock movements", err)
	}
	list, err := collectMovements(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ChainByProduct devuelve el historial completo en orden de aplicación.
func (r *StockMovementRepo) ChainByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE product_id = $1 ORDER BY seq`, productID)
	if err != nil {
		return nil, wrapErr("chain stock movements", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &m.PreviousStock, &m.NewStock,
			&m.ReferenceKind, &m.ReferenceID, &m.Notes, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan stock movement", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate stock movements", err)
	}
	return list, nil
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// MovementFilter filtros de consulta del historial de un producto.
type MovementFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// StockMovementReader lectura del historial de movimientos (read-only).
type StockMovementReader interface {
	// ListByProduct devuelve una página, más reciente primero, y el total sin paginar.
	ListByProduct(ctx context.Context, productID string, f MovementFilter) ([]*entity.StockMovement, int, error)
	// ChainByProduct devuelve todos los movimientos del producto en el orden en que se aplicaron.
	ChainByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
}

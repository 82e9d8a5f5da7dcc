package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// StockLedgerRepository puerto de escritura del ledger de inventario.
// Solo tiene sentido dentro de una transacción (ver TxRepos).
type StockLedgerRepository interface {
	// GetForUpdate lee el producto y bloquea su fila hasta el fin de la transacción.
	// Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, productID string) (*entity.Product, error)
	ApplyUpdate(ctx context.Context, productID string, upd entity.ProductUpdate) error
	AppendMovement(ctx context.Context, m *entity.StockMovement) error
}

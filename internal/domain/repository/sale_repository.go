package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas. Campos vacíos no filtran.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	Status        entity.SaleStatus
	PaymentMethod string
	Limit         int
	Offset        int
}

// SaleReader consultas de ventas fuera de transacción.
type SaleReader interface {
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)
}

// SaleRepository puerto de persistencia de ventas dentro de la transacción de venta.
type SaleRepository interface {
	SaleReader

	// Create devuelve un error que envuelve domain.ErrDuplicate si el invoice_number ya existe.
	Create(ctx context.Context, s *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// GetForUpdate bloquea la fila de la venta. Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Update(ctx context.Context, id string, upd entity.SaleUpdate) error
}

package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/ventas-api/internal/application/validation"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

const defaultPageSize = 50

// AdjustStockInput ajuste manual de inventario.
type AdjustStockInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Delta     int    `json:"delta" validate:"ne=0"`
	Notes     string `json:"notes" validate:"max=500"`
}

// MovementPage página del historial de un producto.
type MovementPage struct {
	Movements []*entity.StockMovement
	Total     int
	Limit     int
	Offset    int
}

// Service casos de uso de inventario fuera de una venta: ajustes, historial y reconciliación.
type Service struct {
	tx        TxRunner
	movements repository.StockMovementReader
	products  repository.ProductRepository
	ledger    *Ledger
	validate  *validation.Validator
}

// NewService construye el servicio de inventario.
func NewService(tx TxRunner, movements repository.StockMovementReader, products repository.ProductRepository, l *Ledger, v *validation.Validator) *Service {
	return &Service{tx: tx, movements: movements, products: products, ledger: l, validate: v}
}

// AdjustStock aplica un ajuste en su propia transacción. El reference_id es un uuid nuevo.
func (s *Service) AdjustStock(ctx context.Context, actor string, in AdjustStockInput) (*entity.StockMovement, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	var mov *entity.StockMovement
	err := s.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		var err error
		mov, err = s.ledger.Adjust(ctx, repos.Stock, AdjustInput{
			ProductID:   in.ProductID,
			Delta:       in.Delta,
			ReferenceID: uuid.New().String(),
			Actor:       actor,
			Notes:       in.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Movements devuelve el historial paginado de un producto, más reciente primero.
func (s *Service) Movements(ctx context.Context, productID string, f repository.MovementFilter) (*MovementPage, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = defaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	list, total, err := s.movements.ListByProduct(ctx, productID, f)
	if err != nil {
		return nil, err
	}
	return &MovementPage{Movements: list, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Reconcile coteja el stock actual con el historial completo. Bloquea el producto
// durante la lectura para ver un estado sin ventas a medio aplicar.
func (s *Service) Reconcile(ctx context.Context, productID string) (*ReconciliationReport, error) {
	var rep ReconciliationReport
	err := s.tx.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		p, err := lockProduct(ctx, repos.Stock, productID)
		if err != nil {
			return err
		}
		chain, err := repos.Movements.ChainByProduct(ctx, productID)
		if err != nil {
			return err
		}
		rep = VerifyChain(p, chain)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

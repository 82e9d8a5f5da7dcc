package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// PaymentTransactionRepository auditoría de cobros.
type PaymentTransactionRepository interface {
	Create(ctx context.Context, p *entity.PaymentTransaction) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.PaymentTransaction, error)
}

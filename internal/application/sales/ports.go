package sales

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// PaymentAuditor recibe los cobros ya confirmados. Implementado por PaymentRecorder.
type PaymentAuditor interface {
	Record(p *entity.PaymentTransaction)
}

// ReportInvalidator se notifica después de cada commit que cambia ventas o stock.
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

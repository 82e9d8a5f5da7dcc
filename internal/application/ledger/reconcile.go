package ledger

import (
	"fmt"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ChainIssue describe un eslabón roto del historial.
type ChainIssue struct {
	MovementID string
	Reason     string
}

// ReconciliationReport resultado de cotejar el stock actual contra su historial.
type ReconciliationReport struct {
	ProductID     string
	CurrentStock  int
	OpeningStock  int // previous_stock del primer movimiento
	NetDelta      int
	MovementCount int
	Consistent    bool
	Issues        []ChainIssue
}

// VerifyChain verifica que cada movimiento sea consistente, que encadene con el anterior
// y que el último new_stock sea el stock actual. movements debe venir en orden de aplicación.
func VerifyChain(product *entity.Product, movements []*entity.StockMovement) ReconciliationReport {
	rep := ReconciliationReport{
		ProductID:     product.ID,
		CurrentStock:  product.CurrentStock,
		OpeningStock:  product.CurrentStock,
		MovementCount: len(movements),
	}
	if len(movements) > 0 {
		rep.OpeningStock = movements[0].PreviousStock
	}
	for i, m := range movements {
		rep.NetDelta += m.Delta()
		if !m.Consistent() {
			rep.Issues = append(rep.Issues, ChainIssue{
				MovementID: m.ID,
				Reason:     fmt.Sprintf("previous %d %+d != new %d", m.PreviousStock, m.Delta(), m.NewStock),
			})
		}
		if i > 0 && movements[i-1].NewStock != m.PreviousStock {
			rep.Issues = append(rep.Issues, ChainIssue{
				MovementID: m.ID,
				Reason:     fmt.Sprintf("previous %d no encadena con %d", m.PreviousStock, movements[i-1].NewStock),
			})
		}
	}
	if rep.OpeningStock+rep.NetDelta != rep.CurrentStock {
		rep.Issues = append(rep.Issues, ChainIssue{
			Reason: fmt.Sprintf("apertura %d %+d != stock actual %d", rep.OpeningStock, rep.NetDelta, rep.CurrentStock),
		})
	}
	rep.Consistent = len(rep.Issues) == 0
	return rep
}

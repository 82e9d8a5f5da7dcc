package dto

import (
	"time"

	"github.com/jhoicas/ventas-api/internal/application/ledger"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ListMovementsRequest query de GET /api/inventory/products/:id/movements.
type ListMovementsRequest struct {
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// StockMovementResponse movimiento del ledger.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Direction     string    `json:"direction"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	ReferenceKind string    `json:"reference_kind"`
	ReferenceID   string    `json:"reference_id"`
	CreatedBy     string    `json:"created_by"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockMovementListResponse historial paginado (más recientes primero).
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ChainIssueResponse eslabón roto del historial.
type ChainIssueResponse struct {
	MovementID string `json:"movement_id,omitempty"`
	Reason     string `json:"reason"`
}

// ReconciliationResponse resultado de GET /api/inventory/products/:id/reconcile.
type ReconciliationResponse struct {
	ProductID     string               `json:"product_id"`
	CurrentStock  int                  `json:"current_stock"`
	OpeningStock  int                  `json:"opening_stock"`
	NetDelta      int                  `json:"net_delta"`
	MovementCount int                  `json:"movement_count"`
	Consistent    bool                 `json:"consistent"`
	Issues        []ChainIssueResponse `json:"issues"`
}

// NewStockMovementResponse convierte un movimiento.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Direction:     string(m.Direction),
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		ReferenceKind: string(m.ReferenceKind),
		ReferenceID:   m.ReferenceID,
		CreatedBy:     m.CreatedBy,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// NewReconciliationResponse convierte el reporte de reconciliación.
func NewReconciliationResponse(r *ledger.ReconciliationReport) ReconciliationResponse {
	out := ReconciliationResponse{
		ProductID:     r.ProductID,
		CurrentStock:  r.CurrentStock,
		OpeningStock:  r.OpeningStock,
		NetDelta:      r.NetDelta,
		MovementCount: r.MovementCount,
		Consistent:    r.Consistent,
		Issues:        make([]ChainIssueResponse, 0, len(r.Issues)),
	}
	for _, is := range r.Issues {
		out.Issues = append(out.Issues, ChainIssueResponse{MovementID: is.MovementID, Reason: is.Reason})
	}
	return out
}

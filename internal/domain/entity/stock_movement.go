package entity

import "time"

// MovementDirection sentido del movimiento de stock.
type MovementDirection string

const (
	MovementIn         MovementDirection = "in"
	MovementOut        MovementDirection = "out"
	MovementAdjustment MovementDirection = "adjustment" // Quantity lleva signo
)

// ReferenceKind origen del movimiento.
type ReferenceKind string

const (
	ReferenceSale       ReferenceKind = "sale"
	ReferenceReturn     ReferenceKind = "return"
	ReferenceAdjustment ReferenceKind = "adjustment"
)

// StockMovement registro inmutable del ledger de inventario.
// ReferenceID es siempre el ID de la transacción de origen (venta o ajuste).
type StockMovement struct {
	ID            string
	ProductID     string
	Direction     MovementDirection
	Quantity      int
	PreviousStock int
	NewStock      int
	ReferenceKind ReferenceKind
	ReferenceID   string
	CreatedBy     string
	Notes         string
	CreatedAt     time.Time
}

// Delta devuelve la variación con signo que el movimiento aplicó al stock.
func (m *StockMovement) Delta() int {
	switch m.Direction {
	case MovementIn:
		return m.Quantity
	case MovementOut:
		return -m.Quantity
	default:
		return m.Quantity
	}
}

// Consistent verifica previous + delta = new.
func (m *StockMovement) Consistent() bool {
	return m.PreviousStock+m.Delta() == m.NewStock
}

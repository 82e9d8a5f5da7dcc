// Package sale contiene las reglas de ciclo de vida y de totales de una venta.
//
// Estados: Pending (payment_status pending|partial), Completed, Cancelled, Refunded.
// Cancelled y Refunded son terminales.
package sale

import (
	"fmt"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Action acción solicitada sobre una venta existente.
type Action string

const (
	ActionComplete Action = "completar"
	ActionCancel   Action = "cancelar"
	ActionRefund   Action = "reembolsar"
)

// StateMachine valida transiciones. AllowCancelCompleted decide si una venta
// completada puede cancelarse o solo reembolsarse.
type StateMachine struct {
	AllowCancelCompleted bool
}

// NewStateMachine construye la máquina de estados.
func NewStateMachine(allowCancelCompleted bool) StateMachine {
	return StateMachine{AllowCancelCompleted: allowCancelCompleted}
}

// IsTerminal indica si desde el estado no se admite ninguna transición.
func IsTerminal(status entity.SaleStatus) bool {
	return status == entity.SaleStatusCancelled || status == entity.SaleStatusRefunded
}

// CanTransition indica si la acción es legal desde el estado dado.
func (m StateMachine) CanTransition(from entity.SaleStatus, action Action) bool {
	switch action {
	case ActionComplete:
		return from == entity.SaleStatusPending
	case ActionCancel:
		return !IsTerminal(from) && (from != entity.SaleStatusCompleted || m.AllowCancelCompleted)
	case ActionRefund:
		return !IsTerminal(from)
	}
	return false
}

// Check devuelve un *domain.TransitionError si la acción no es legal en el estado actual.
func (m StateMachine) Check(s *entity.Sale, action Action) error {
	if !m.CanTransition(s.Status, action) {
		return &domain.TransitionError{SaleID: s.ID, From: string(s.Status), Action: string(action)}
	}
	return nil
}

// Settle deriva estado, estado de pago y vuelto a partir de lo pagado.
// Pago cero deja la venta pendiente aunque el total también sea cero.
func Settle(finalAmount, amountPaid decimal.Decimal) (entity.SaleStatus, entity.PaymentStatus, decimal.Decimal) {
	switch {
	case amountPaid.IsZero():
		return entity.SaleStatusPending, entity.PaymentStatusPending, decimal.Zero
	case amountPaid.GreaterThanOrEqual(finalAmount):
		return entity.SaleStatusCompleted, entity.PaymentStatusPaid, amountPaid.Sub(finalAmount)
	default:
		return entity.SaleStatusPending, entity.PaymentStatusPartial, decimal.Zero
	}
}

// ApplyPayment acumula un pago adicional sobre una venta pendiente.
// paymentMethod vacío conserva el medio de pago actual.
func (m StateMachine) ApplyPayment(s *entity.Sale, additional decimal.Decimal, paymentMethod string) (entity.SaleUpdate, error) {
	if !additional.IsPositive() {
		return entity.SaleUpdate{}, domain.NewValidationError("amount_paid", "debe ser mayor que cero")
	}
	if err := m.Check(s, ActionComplete); err != nil {
		return entity.SaleUpdate{}, err
	}
	newPaid := s.AmountPaid.Add(additional).Round(2)
	status, payStatus, change := Settle(s.FinalAmount, newPaid)
	change = change.Round(2)
	if paymentMethod == "" {
		paymentMethod = s.PaymentMethod
	}
	return entity.SaleUpdate{
		Status:        &status,
		PaymentStatus: &payStatus,
		AmountPaid:    &newPaid,
		ChangeAmount:  &change,
		PaymentMethod: &paymentMethod,
	}, nil
}

// CancelUpdate valida la cancelación y devuelve los cambios a persistir.
func (m StateMachine) CancelUpdate(s *entity.Sale) (entity.SaleUpdate, error) {
	if err := m.Check(s, ActionCancel); err != nil {
		return entity.SaleUpdate{}, err
	}
	status := entity.SaleStatusCancelled
	payStatus := entity.PaymentStatusRefunded
	return entity.SaleUpdate{Status: &status, PaymentStatus: &payStatus}, nil
}

// RefundUpdate valida el reembolso y agrega una nota fechada a las existentes.
func (m StateMachine) RefundUpdate(s *entity.Sale, notes string, now time.Time) (entity.SaleUpdate, error) {
	if err := m.Check(s, ActionRefund); err != nil {
		return entity.SaleUpdate{}, err
	}
	status := entity.SaleStatusRefunded
	payStatus := entity.PaymentStatusRefunded
	merged := s.Notes + fmt.Sprintf("\nRefunded on %s: %s", now.UTC().Format(time.RFC3339), notes)
	return entity.SaleUpdate{Status: &status, PaymentStatus: &payStatus, Notes: &merged}, nil
}

package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrProductNotFound        = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrSaleNotFound           = fmt.Errorf("venta no encontrada: %w", ErrNotFound)
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrProductDiscontinued    = fmt.Errorf("producto descontinuado: %w", ErrConflict)
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	// ErrTransient agrupa fallos del almacenamiento (lock timeout, deadlock, conexión)
	// tras los cuales la operación completa puede reintentarse.
	ErrTransient = errors.New("error transitorio del almacenamiento, reintente")
)

// ValidationError describe un campo rechazado antes de abrir la transacción.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "entrada inválida: " + e.Reason
	}
	return fmt.Sprintf("entrada inválida: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError nombra el producto que no alcanza para la operación.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// TransitionError se devuelve cuando una venta no admite la acción pedida en su estado actual.
type TransitionError struct {
	SaleID string
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("venta %s: no se puede %s desde el estado %q", e.SaleID, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidStateTransition }

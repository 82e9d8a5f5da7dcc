package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de ciclo de vida de la venta.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
	SaleStatusRefunded  SaleStatus = "refunded"
)

// PaymentStatus estado del cobro.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPartial  PaymentStatus = "partial"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Medios de pago aceptados.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodOnline = "online"
	PaymentMethodCredit = "credit"
)

// Sale cabecera de una venta. Nunca se borra; cambia solo vía SaleUpdate.
type Sale struct {
	ID             string
	InvoiceNumber  string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	TotalAmount    decimal.Decimal // subtotal de las líneas
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	FinalAmount    decimal.Decimal // total - descuento + impuesto
	AmountPaid     decimal.Decimal
	ChangeAmount   decimal.Decimal
	PaymentMethod  string
	PaymentStatus  PaymentStatus
	Status         SaleStatus
	SoldBy         string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []*SaleItem
}

// SaleItem línea de venta, inmutable tras su creación.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string // solo lectura (join con products)
	SKU         string // solo lectura
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// SaleUpdate enumera todos los campos mutables de una venta. nil = sin cambio.
type SaleUpdate struct {
	Status        *SaleStatus
	PaymentStatus *PaymentStatus
	AmountPaid    *decimal.Decimal
	ChangeAmount  *decimal.Decimal
	PaymentMethod *string
	Notes         *string
}

// Validate rechaza actualizaciones vacías o montos negativos.
func (u SaleUpdate) Validate() error {
	if u.Status == nil && u.PaymentStatus == nil && u.AmountPaid == nil &&
		u.ChangeAmount == nil && u.PaymentMethod == nil && u.Notes == nil {
		return errEmptyUpdate
	}
	if u.AmountPaid != nil && u.AmountPaid.IsNegative() {
		return errNegativeAmount
	}
	if u.ChangeAmount != nil && u.ChangeAmount.IsNegative() {
		return errNegativeAmount
	}
	return nil
}

// Apply copia sobre s los campos presentes en u.
func (u SaleUpdate) Apply(s *Sale) {
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.PaymentStatus != nil {
		s.PaymentStatus = *u.PaymentStatus
	}
	if u.AmountPaid != nil {
		s.AmountPaid = *u.AmountPaid
	}
	if u.ChangeAmount != nil {
		s.ChangeAmount = *u.ChangeAmount
	}
	if u.PaymentMethod != nil {
		s.PaymentMethod = *u.PaymentMethod
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
}

// PaymentTransaction registro de auditoría de un cobro posterior a la creación.
type PaymentTransaction struct {
	ID            string
	SaleID        string
	Amount        decimal.Decimal
	PaymentMethod string
	ProcessedBy   string
	Notes         string
	CreatedAt     time.Time
}

package sales

import (
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreateSaleItemInput línea pedida. UnitPrice nil usa el precio de venta del producto.
type CreateSaleItemInput struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleInput datos para registrar una venta.
// TaxAmount tiene prioridad sobre TaxRate; sin ninguno se aplica la tasa configurada.
type CreateSaleInput struct {
	Items          []CreateSaleItemInput `json:"items" validate:"required,min=1,dive"`
	CustomerName   string                `json:"customer_name" validate:"max=255"`
	CustomerEmail  string                `json:"customer_email" validate:"omitempty,email,max=255"`
	CustomerPhone  string                `json:"customer_phone" validate:"max=50"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TaxAmount      *decimal.Decimal      `json:"tax_amount,omitempty"`
	TaxRate        *decimal.Decimal      `json:"tax_rate,omitempty"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	PaymentMethod  string                `json:"payment_method" validate:"omitempty,oneof=cash card online credit"`
	Notes          string                `json:"notes" validate:"max=1000"`
}

// checkAmounts rechaza montos negativos que las tags no pueden expresar sobre decimal.
func (in CreateSaleInput) checkAmounts() error {
	if in.DiscountAmount.IsNegative() {
		return domain.NewValidationError("discount_amount", "no puede ser negativo")
	}
	if in.TaxAmount != nil && in.TaxAmount.IsNegative() {
		return domain.NewValidationError("tax_amount", "no puede ser negativo")
	}
	if in.TaxRate != nil && in.TaxRate.IsNegative() {
		return domain.NewValidationError("tax_rate", "no puede ser negativa")
	}
	if in.AmountPaid.IsNegative() {
		return domain.NewValidationError("amount_paid", "no puede ser negativo")
	}
	for _, it := range in.Items {
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return domain.NewValidationError("unit_price", "no puede ser negativo")
		}
	}
	return nil
}

// CompleteSaleInput pago adicional sobre una venta pendiente.
type CompleteSaleInput struct {
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=cash card online credit"`
}

// RefundSaleInput motivo del reembolso.
type RefundSaleInput struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// ListSalesInput filtros del listado. Status y PaymentMethod vacíos o "all" no filtran.
type ListSalesInput struct {
	From          *time.Time
	To            *time.Time
	Status        string `validate:"omitempty,oneof=all pending completed cancelled refunded"`
	PaymentMethod string `validate:"omitempty,oneof=all cash card online credit"`
	Limit         int    `validate:"gte=0,lte=200"`
	Offset        int    `validate:"gte=0"`
}

// SalesPage página de ventas.
type SalesPage struct {
	Sales  []*entity.Sale
	Total  int
	Limit  int
	Offset int
}

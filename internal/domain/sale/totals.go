package sale

import (
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line cantidad y precio unitario ya resuelto de una línea.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal precio unitario por cantidad, redondeado a centavos.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// TaxPolicy impuesto explícito (Amount) o tasa porcentual sobre el subtotal.
type TaxPolicy struct {
	Amount  *decimal.Decimal
	RatePct decimal.Decimal
}

// Totals montos calculados de la venta.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Final    decimal.Decimal
}

// ComputeTotals calcula final = subtotal - descuento + impuesto.
// Rechaza descuentos o impuestos negativos y un total final negativo.
func ComputeTotals(lines []Line, discount decimal.Decimal, tax TaxPolicy) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, domain.NewValidationError("discount_amount", "no puede ser negativo")
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	var taxAmount decimal.Decimal
	if tax.Amount != nil {
		if tax.Amount.IsNegative() {
			return Totals{}, domain.NewValidationError("tax_amount", "no puede ser negativo")
		}
		taxAmount = *tax.Amount
	} else {
		if tax.RatePct.IsNegative() {
			return Totals{}, domain.NewValidationError("tax_rate", "no puede ser negativa")
		}
		taxAmount = subtotal.Mul(tax.RatePct).Div(hundred)
	}
	taxAmount = taxAmount.Round(2)
	discount = discount.Round(2)
	final := subtotal.Sub(discount).Add(taxAmount)
	if final.IsNegative() {
		return Totals{}, domain.NewValidationError("discount_amount", "supera el total de la venta")
	}
	return Totals{Subtotal: subtotal, Discount: discount, Tax: taxAmount, Final: final}, nil
}

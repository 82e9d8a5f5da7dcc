package sale_test

import (
	"testing"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/sale"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals_TasaSobreSubtotal(t *testing.T) {
	lines := []sale.Line{{Quantity: 3, UnitPrice: d("20.00")}, {Quantity: 1, UnitPrice: d("9.99")}}
	tot, err := sale.ComputeTotals(lines, d("5"), sale.TaxPolicy{RatePct: d("8")})
	require.NoError(t, err)

	assert.Equal(t, "69.99", tot.Subtotal.StringFixed(2))
	assert.Equal(t, "5.60", tot.Tax.StringFixed(2))
	assert.Equal(t, "70.59", tot.Final.StringFixed(2))
}

func TestComputeTotals_ImpuestoExplicitoCero(t *testing.T) {
	zero := decimal.Zero
	tot, err := sale.ComputeTotals([]sale.Line{{Quantity: 3, UnitPrice: d("20.00")}}, decimal.Zero,
		sale.TaxPolicy{Amount: &zero, RatePct: d("8")})
	require.NoError(t, err)
	assert.Equal(t, "60.00", tot.Final.StringFixed(2), "un impuesto explícito en cero ignora la tasa")
}

func TestComputeTotals_Rechazos(t *testing.T) {
	lines := []sale.Line{{Quantity: 1, UnitPrice: d("10")}}
	neg := d("-1")

	_, err := sale.ComputeTotals(lines, d("-1"), sale.TaxPolicy{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = sale.ComputeTotals(lines, decimal.Zero, sale.TaxPolicy{Amount: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = sale.ComputeTotals(lines, d("10.01"), sale.TaxPolicy{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el descuento no puede dejar el total en negativo")
}

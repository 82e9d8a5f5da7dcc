package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

func TestProductUpdate_Validate(t *testing.T) {
	stock := 3
	negative := -1
	unknown := entity.ProductStatus("archivado")
	active := entity.ProductStatusActive

	assert.NoError(t, entity.ProductUpdate{CurrentStock: &stock}.Validate())
	assert.NoError(t, entity.ProductUpdate{Status: &active}.Validate())
	assert.ErrorIs(t, entity.ProductUpdate{}.Validate(), domain.ErrInvalidInput, "actualización vacía")
	assert.ErrorIs(t, entity.ProductUpdate{CurrentStock: &negative}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, entity.ProductUpdate{Status: &unknown}.Validate(), domain.ErrInvalidInput)
}

func TestSaleUpdate_ValidateYApply(t *testing.T) {
	assert.ErrorIs(t, entity.SaleUpdate{}.Validate(), domain.ErrInvalidInput)
	neg := decimal.NewFromInt(-1)
	assert.ErrorIs(t, entity.SaleUpdate{AmountPaid: &neg}.Validate(), domain.ErrInvalidInput)

	status := entity.SaleStatusCompleted
	paid := decimal.RequireFromString("60.00")
	upd := entity.SaleUpdate{Status: &status, AmountPaid: &paid}
	assert.NoError(t, upd.Validate())

	s := &entity.Sale{Status: entity.SaleStatusPending, Notes: "sin cambio"}
	upd.Apply(s)
	assert.Equal(t, entity.SaleStatusCompleted, s.Status)
	assert.True(t, paid.Equal(s.AmountPaid))
	assert.Equal(t, "sin cambio", s.Notes)
}

func TestStockMovement_DeltaYConsistencia(t *testing.T) {
	cases := []struct {
		name  string
		m     entity.StockMovement
		delta int
	}{
		{"entrada", entity.StockMovement{Direction: entity.MovementIn, Quantity: 3, PreviousStock: 7, NewStock: 10}, 3},
		{"salida", entity.StockMovement{Direction: entity.MovementOut, Quantity: 3, PreviousStock: 10, NewStock: 7}, -3},
		{"ajuste negativo", entity.StockMovement{Direction: entity.MovementAdjustment, Quantity: -2, PreviousStock: 5, NewStock: 3}, -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.delta, tc.m.Delta())
			assert.True(t, tc.m.Consistent())
		})
	}

	broken := entity.StockMovement{Direction: entity.MovementOut, Quantity: 3, PreviousStock: 10, NewStock: 8}
	assert.False(t, broken.Consistent())
}

func TestProduct_IsLowStock(t *testing.T) {
	assert.True(t, (&entity.Product{CurrentStock: 2, MinStockLevel: 2}).IsLowStock())
	assert.False(t, (&entity.Product{CurrentStock: 3, MinStockLevel: 2}).IsLowStock())
}

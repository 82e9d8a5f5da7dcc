package ledger_test

import (
	"testing"

	"github.com/jhoicas/ventas-api/internal/application/ledger"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyChain_SinMovimientos(t *testing.T) {
	rep := ledger.VerifyChain(&entity.Product{ID: "p1", CurrentStock: 8}, nil)
	assert.True(t, rep.Consistent)
	assert.Equal(t, 8, rep.OpeningStock)
}

func TestVerifyChain_DetectaEslabonRoto(t *testing.T) {
	movs := []*entity.StockMovement{
		{ID: "m1", Direction: entity.MovementOut, Quantity: 3, PreviousStock: 10, NewStock: 7},
		{ID: "m2", Direction: entity.MovementIn, Quantity: 3, PreviousStock: 6, NewStock: 9},
	}
	rep := ledger.VerifyChain(&entity.Product{ID: "p1", CurrentStock: 9}, movs)
	assert.False(t, rep.Consistent)
	require.NotEmpty(t, rep.Issues)
	assert.Equal(t, "m2", rep.Issues[0].MovementID)
}

func TestVerifyChain_StockActualNoCuadra(t *testing.T) {
	movs := []*entity.StockMovement{
		{ID: "m1", Direction: entity.MovementAdjustment, Quantity: -2, PreviousStock: 5, NewStock: 3},
	}
	rep := ledger.VerifyChain(&entity.Product{ID: "p1", CurrentStock: 4}, movs)
	assert.False(t, rep.Consistent)
	require.Len(t, rep.Issues, 1)
	assert.Empty(t, rep.Issues[0].MovementID)
}

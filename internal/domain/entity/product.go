package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus estado comercial del producto.
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product representa un producto del catálogo.
// CurrentStock solo lo modifica el ledger de inventario (ver ProductUpdate).
type Product struct {
	ID            string
	SKU           string // único
	Name          string
	Description   string
	CategoryID    string
	SupplierID    string
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	CurrentStock  int
	MinStockLevel int
	MaxStockLevel int
	Unit          string
	Status        ProductStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}

// ProductUpdate enumera los campos que el ledger puede modificar. nil = sin cambio.
type ProductUpdate struct {
	CurrentStock *int
	Status       *ProductStatus
}

// Validate rechaza actualizaciones vacías, stock negativo o estados desconocidos.
func (u ProductUpdate) Validate() error {
	if u.CurrentStock == nil && u.Status == nil {
		return errEmptyUpdate
	}
	if u.CurrentStock != nil && *u.CurrentStock < 0 {
		return errNegativeStock
	}
	if u.Status != nil {
		switch *u.Status {
		case ProductStatusActive, ProductStatusOutOfStock, ProductStatusDiscontinued:
		default:
			return errUnknownStatus
		}
	}
	return nil
}

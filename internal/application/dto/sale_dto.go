package dto

import (
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ListSalesRequest query de GET /api/sales. Fechas en RFC3339 o YYYY-MM-DD.
type ListSalesRequest struct {
	From          string `query:"from"`
	To            string `query:"to"`
	Status        string `query:"status"`
	PaymentMethod string `query:"payment_method"`
	Limit         int    `query:"limit"`
	Offset        int    `query:"offset"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID             string             `json:"id"`
	InvoiceNumber  string             `json:"invoice_number"`
	CustomerName   string             `json:"customer_name,omitempty"`
	CustomerEmail  string             `json:"customer_email,omitempty"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	FinalAmount    decimal.Decimal    `json:"final_amount"`
	AmountPaid     decimal.Decimal    `json:"amount_paid"`
	ChangeAmount   decimal.Decimal    `json:"change_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	Status         string             `json:"status"`
	SoldBy         string             `json:"sold_by"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Items          []SaleItemResponse `json:"items,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// NewSaleResponse convierte la entidad a su representación HTTP.
func NewSaleResponse(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:             s.ID,
		InvoiceNumber:  s.InvoiceNumber,
		CustomerName:   s.CustomerName,
		CustomerEmail:  s.CustomerEmail,
		CustomerPhone:  s.CustomerPhone,
		TotalAmount:    s.TotalAmount,
		DiscountAmount: s.DiscountAmount,
		TaxAmount:      s.TaxAmount,
		FinalAmount:    s.FinalAmount,
		AmountPaid:     s.AmountPaid,
		ChangeAmount:   s.ChangeAmount,
		PaymentMethod:  s.PaymentMethod,
		PaymentStatus:  string(s.PaymentStatus),
		Status:         string(s.Status),
		SoldBy:         s.SoldBy,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return out
}

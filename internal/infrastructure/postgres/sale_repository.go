package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `
	id::text, invoice_number, COALESCE(customer_name, ''), COALESCE(customer_email, ''), COALESCE(customer_phone, ''),
	total_amount, discount_amount, tax_amount, final_amount, amount_paid, change_amount,
	payment_method, payment_status, status, sold_by, COALESCE(notes, ''), created_at, updated_at`

// SaleRepo persistencia de ventas y sus líneas (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera. Un invoice_number repetido devuelve domain.ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (
			id, invoice_number, customer_name, customer_email, customer_phone,
			total_amount, discount_amount, tax_amount, final_amount, amount_paid, change_amount,
			payment_method, payment_status, status, sold_by, notes, created_at, updated_at
		) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			$6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULLIF($16, ''), $17, $18)`,
		s.ID, s.InvoiceNumber, s.CustomerName, s.CustomerEmail, s.CustomerPhone,
		s.TotalAmount, s.DiscountAmount, s.TaxAmount, s.FinalAmount, s.AmountPaid, s.ChangeAmount,
		s.PaymentMethod, string(s.PaymentStatus), string(s.Status), s.SoldBy, s.Notes, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert sale %s: %w", s.InvoiceNumber, domain.ErrDuplicate)
		}
		return wrapErr("insert sale", err)
	}
	return nil
}

// CreateItem inserta una línea de venta.
func (r *SaleRepo) CreateItem(ctx context.Context, it *entity.SaleItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		it.ID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice,
	)
	if err != nil {
		return wrapErr("insert sale item", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate obtiene la venta y bloquea su fila.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	if !isUUID(id) {
		return nil, nil
	}
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}
	return s, nil
}

// GetItems devuelve las líneas con nombre y SKU del producto.
func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT si.id::text, si.sale_id::text, si.product_id::text, p.name, p.sku,
		       si.quantity, si.unit_price, si.total_price
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = $1
		ORDER BY si.seq`, saleID)
	if err != nil {
		return nil, wrapErr("list sale items", err)
	}
	defer rows.Close()
	items := make([]*entity.SaleItem, 0)
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.SKU,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, wrapErr("scan sale item", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate sale items", err)
	}
	return items, nil
}

// List devuelve ventas filtradas, más recientes primero, y el total sin paginar.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	where := []string{"TRUE"}
	var args []any
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.PaymentMethod != "" {
		args = append(args, f.PaymentMethod)
		where = append(where, fmt.Sprintf("payment_method = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("count sales", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM sales WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		saleColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("list sales", err)
	}
	defer rows.Close()
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, wrapErr("scan sale", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("iterate sales", err)
	}
	return list, total, nil
}

// Update escribe solo los campos presentes en upd.
func (r *SaleRepo) Update(ctx context.Context, id string, upd entity.SaleUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	var status, payStatus *string
	if upd.Status != nil {
		v := string(*upd.Status)
		status = &v
	}
	if upd.PaymentStatus != nil {
		v := string(*upd.PaymentStatus)
		payStatus = &v
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE sales
		SET status = COALESCE($2::varchar, status),
		    payment_status = COALESCE($3::varchar, payment_status),
		    amount_paid = COALESCE($4::numeric, amount_paid),
		    change_amount = COALESCE($5::numeric, change_amount),
		    payment_method = COALESCE($6::varchar, payment_method),
		    notes = COALESCE($7::text, notes),
		    updated_at = now()
		WHERE id = $1`,
		id, status, payStatus, upd.AmountPaid, upd.ChangeAmount, upd.PaymentMethod, upd.Notes)
	if err != nil {
		return wrapErr("update sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &s.CustomerName, &s.CustomerEmail, &s.CustomerPhone,
		&s.TotalAmount, &s.DiscountAmount, &s.TaxAmount, &s.FinalAmount, &s.AmountPaid, &s.ChangeAmount,
		&s.PaymentMethod, &s.PaymentStatus, &s.Status, &s.SoldBy, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

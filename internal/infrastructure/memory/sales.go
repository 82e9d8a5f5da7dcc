package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

type saleView struct{ *view }

var _ repository.SaleRepository = saleView{}

func (v saleView) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	s, ok := v.st.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (v saleView) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return v.GetByID(ctx, id)
}

func (v saleView) GetItems(_ context.Context, saleID string) ([]*entity.SaleItem, error) {
	stored := v.st.items[saleID]
	out := make([]*entity.SaleItem, 0, len(stored))
	for _, it := range stored {
		if p, ok := v.st.products[it.ProductID]; ok {
			it.ProductName = p.Name
			it.SKU = p.SKU
		}
		out = append(out, &it)
	}
	return out, nil
}

func (v saleView) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var matched []*entity.Sale
	for _, id := range v.st.saleOrder {
		s := v.st.sales[id]
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.CreatedAt.Before(*f.To) {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
			continue
		}
		matched = append(matched, &s)
	}
	sortByCreatedDesc(matched)
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func (v saleView) Create(_ context.Context, s *entity.Sale) error {
	if _, exists := v.st.invoices[s.InvoiceNumber]; exists {
		return fmt.Errorf("invoice %s: %w", s.InvoiceNumber, domain.ErrDuplicate)
	}
	if _, exists := v.st.sales[s.ID]; exists {
		return fmt.Errorf("sale %s: %w", s.ID, domain.ErrDuplicate)
	}
	stored := *s
	stored.Items = nil
	v.st.sales[s.ID] = stored
	v.st.saleOrder = append(v.st.saleOrder, s.ID)
	v.st.invoices[s.InvoiceNumber] = s.ID
	return nil
}

func (v saleView) CreateItem(_ context.Context, item *entity.SaleItem) error {
	if _, ok := v.st.sales[item.SaleID]; !ok {
		return domain.ErrSaleNotFound
	}
	if _, ok := v.st.products[item.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	v.st.items[item.SaleID] = append(v.st.items[item.SaleID], *item)
	return nil
}

func (v saleView) Update(_ context.Context, id string, upd entity.SaleUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	s, ok := v.st.sales[id]
	if !ok {
		return domain.ErrSaleNotFound
	}
	upd.Apply(&s)
	s.UpdatedAt = v.now()
	v.st.sales[id] = s
	return nil
}

// saleReader lee ventas fuera de transacción tomando el lock del Store.
type saleReader struct{ s *Store }

func (r saleReader) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return saleView{r.s.read()}.GetByID(ctx, id)
}

func (r saleReader) GetItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return saleView{r.s.read()}.GetItems(ctx, saleID)
}

func (r saleReader) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return saleView{r.s.read()}.List(ctx, f)
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(ctx context.Context, p *entity.PaymentTransaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.sales[p.SaleID]; !ok {
		return domain.ErrSaleNotFound
	}
	r.s.st.payments = append(r.s.st.payments, *p)
	return nil
}

func (r paymentRepo) ListBySale(_ context.Context, saleID string) ([]*entity.PaymentTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PaymentTransaction
	for _, p := range r.s.st.payments {
		if p.SaleID == saleID {
			out = append(out, &p)
		}
	}
	return out, nil
}

// Package memory implementa los repositorios en proceso. Sirve para desarrollo
// (DB_DRIVER=memory) y para los tests de casos de uso.
//
// Cada transacción toma el lock del Store, trabaja sobre una copia del estado
// y la publica solo si fn no devuelve error.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

type state struct {
	products  map[string]entity.Product
	movements []entity.StockMovement
	sales     map[string]entity.Sale
	saleOrder []string
	items     map[string][]entity.SaleItem
	invoices  map[string]string // invoice_number -> sale id
	counters  map[string]int
	payments  []entity.PaymentTransaction
}

func newState() *state {
	return &state{
		products: make(map[string]entity.Product),
		sales:    make(map[string]entity.Sale),
		items:    make(map[string][]entity.SaleItem),
		invoices: make(map[string]string),
		counters: make(map[string]int),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:  make(map[string]entity.Product, len(s.products)),
		movements: append([]entity.StockMovement(nil), s.movements...),
		sales:     make(map[string]entity.Sale, len(s.sales)),
		saleOrder: append([]string(nil), s.saleOrder...),
		items:     make(map[string][]entity.SaleItem, len(s.items)),
		invoices:  make(map[string]string, len(s.invoices)),
		counters:  make(map[string]int, len(s.counters)),
		payments:  append([]entity.PaymentTransaction(nil), s.payments...),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.SaleItem(nil), v...)
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

// Store base de datos en memoria.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// Run ejecuta fn con repositorios sobre una copia del estado y la publica si fn no falla.
// Las transacciones se serializan.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	v := &view{st: work, now: s.now}
	if err := fn(ctx, v.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.st = work
	return nil
}

func (s *Store) read() *view {
	return &view{st: s.st, now: s.now}
}

// SeedProduct inserta o reemplaza un producto. Solo para arranque y tests.
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Status == "" {
		p.Status = entity.ProductStatusActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
		p.UpdatedAt = p.CreatedAt
	}
	s.st.products[p.ID] = p
}

// SeedSale inserta una venta ya existente con sus líneas, sin tocar stock.
func (s *Store) SeedSale(sale entity.Sale, items ...entity.SaleItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale.Items = nil
	s.st.sales[sale.ID] = sale
	s.st.saleOrder = append(s.st.saleOrder, sale.ID)
	s.st.invoices[sale.InvoiceNumber] = sale.ID
	s.st.items[sale.ID] = append(s.st.items[sale.ID], items...)
}

func (s *Store) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().GetByID(ctx, id)
}

func (s *Store) ListByProduct(ctx context.Context, productID string, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().ListByProduct(ctx, productID, f)
}

func (s *Store) ChainByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().ChainByProduct(ctx, productID)
}

// Sales devuelve el lector de ventas fuera de transacción.
func (s *Store) Sales() repository.SaleReader { return saleReader{s} }

// Payments devuelve el repositorio de auditoría de cobros.
func (s *Store) Payments() repository.PaymentTransactionRepository { return paymentRepo{s} }

// Reports devuelve el repositorio de reportes.
func (s *Store) Reports() repository.ReportRepository { return reportRepo{s} }

var (
	_ repository.ProductRepository   = (*Store)(nil)
	_ repository.StockMovementReader = (*Store)(nil)
)

// view implementa los repositorios sobre un estado sin tomar locks.
type view struct {
	st  *state
	now func() time.Time
}

func (v *view) repos() repository.TxRepos {
	return repository.TxRepos{
		Products:  v,
		Stock:     stockView{v},
		Movements: v,
		Sales:     saleView{v},
		Invoices:  invoiceView{v},
	}
}

func (v *view) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := v.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (v *view) ListByProduct(_ context.Context, productID string, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	var matched []*entity.StockMovement
	for i := len(v.st.movements) - 1; i >= 0; i-- {
		m := v.st.movements[i]
		if m.ProductID != productID {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !m.CreatedAt.Before(*f.To) {
			continue
		}
		matched = append(matched, &m)
	}
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func (v *view) ChainByProduct(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range v.st.movements {
		if m.ProductID == productID {
			out = append(out, &m)
		}
	}
	return out, nil
}

type stockView struct{ *view }

func (v stockView) GetForUpdate(ctx context.Context, productID string) (*entity.Product, error) {
	return v.view.GetByID(ctx, productID)
}

func (v stockView) ApplyUpdate(_ context.Context, productID string, upd entity.ProductUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	p, ok := v.st.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if upd.CurrentStock != nil {
		p.CurrentStock = *upd.CurrentStock
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	p.UpdatedAt = v.now()
	v.st.products[productID] = p
	return nil
}

func (v stockView) AppendMovement(_ context.Context, m *entity.StockMovement) error {
	if _, ok := v.st.products[m.ProductID]; !ok {
		return domain.ErrProductNotFound
	}
	if !m.Consistent() {
		return domain.NewValidationError("stock_movement", "previous_stock y new_stock no cuadran")
	}
	v.st.movements = append(v.st.movements, *m)
	return nil
}

type invoiceView struct{ *view }

func (v invoiceView) Next(_ context.Context, day string) (int, error) {
	n, ok := v.st.counters[day]
	if !ok {
		n = v.maxSuffix(day)
	}
	n++
	v.st.counters[day] = n
	return n, nil
}

func (v invoiceView) Resync(_ context.Context, day string) error {
	if m := v.maxSuffix(day); m > v.st.counters[day] {
		v.st.counters[day] = m
	}
	return nil
}

// maxSuffix mayor sufijo numérico de las facturas INV-<day>-NNNN ya guardadas.
func (v invoiceView) maxSuffix(day string) int {
	prefix := "INV-" + day + "-"
	top := 0
	for number := range v.st.invoices {
		suffix, ok := strings.CutPrefix(number, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > top {
			top = n
		}
	}
	return top
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortByCreatedDesc(list []*entity.Sale) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type reportRepo struct{ s *Store }

var _ repository.ReportRepository = reportRepo{}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	return to.IsZero() || t.Before(to)
}

func (r reportRepo) SalesSummary(_ context.Context, from, to time.Time) (repository.SalesSummaryResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res := repository.SalesSummaryResult{
		TotalRevenue: decimal.Zero,
		AverageSale:  decimal.Zero,
		MinSale:      decimal.Zero,
		MaxSale:      decimal.Zero,
	}
	for _, sale := range r.s.st.sales {
		if !inRange(sale.CreatedAt, from, to) {
			continue
		}
		switch sale.Status {
		case entity.SaleStatusPending:
			res.PendingSales++
		case entity.SaleStatusCompleted:
			if res.TotalSales == 0 || sale.FinalAmount.LessThan(res.MinSale) {
				res.MinSale = sale.FinalAmount
			}
			if sale.FinalAmount.GreaterThan(res.MaxSale) {
				res.MaxSale = sale.FinalAmount
			}
			res.TotalSales++
			res.TotalRevenue = res.TotalRevenue.Add(sale.FinalAmount)
		}
	}
	if res.TotalSales > 0 {
		res.AverageSale = res.TotalRevenue.Div(decimal.NewFromInt(int64(res.TotalSales))).Round(2)
	}
	return res, nil
}

func (r reportRepo) DailySales(_ context.Context, from time.Time) ([]repository.DailySalesResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byDay := make(map[time.Time]*repository.DailySalesResult)
	for _, sale := range r.s.st.sales {
		if sale.Status != entity.SaleStatusCompleted || !inRange(sale.CreatedAt, from, time.Time{}) {
			continue
		}
		day := sale.CreatedAt.UTC().Truncate(24 * time.Hour)
		d, ok := byDay[day]
		if !ok {
			d = &repository.DailySalesResult{Day: day, TotalRevenue: decimal.Zero}
			byDay[day] = d
		}
		d.TotalSales++
		d.TotalRevenue = d.TotalRevenue.Add(sale.FinalAmount)
	}
	out := make([]repository.DailySalesResult, 0, len(byDay))
	for _, d := range byDay {
		d.AverageSale = d.TotalRevenue.Div(decimal.NewFromInt(int64(d.TotalSales))).Round(2)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r reportRepo) TopProducts(_ context.Context, limit int) ([]repository.TopProductResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byProduct := make(map[string]*repository.TopProductResult)
	for saleID, items := range r.s.st.items {
		if r.s.st.sales[saleID].Status != entity.SaleStatusCompleted {
			continue
		}
		for _, it := range items {
			t, ok := byProduct[it.ProductID]
			if !ok {
				p := r.s.st.products[it.ProductID]
				t = &repository.TopProductResult{ProductID: it.ProductID, SKU: p.SKU, Name: p.Name, TotalRevenue: decimal.Zero}
				byProduct[it.ProductID] = t
			}
			t.TotalSold += it.Quantity
			t.TotalRevenue = t.TotalRevenue.Add(it.TotalPrice)
		}
	}
	out := make([]repository.TopProductResult, 0, len(byProduct))
	for _, t := range byProduct {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSold != out[j].TotalSold {
			return out[i].TotalSold > out[j].TotalSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	return paginate(out, limit, 0), nil
}

func (r reportRepo) LowStock(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.st.products {
		if p.Status != entity.ProductStatusDiscontinued && p.IsLowStock() {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := stockRatio(out[i]), stockRatio(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// stockRatio stock sobre mínimo; sin mínimo definido queda al final.
func stockRatio(p *entity.Product) float64 {
	if p.MinStockLevel == 0 {
		return float64(p.CurrentStock) + 1
	}
	return float64(p.CurrentStock) / float64(p.MinStockLevel)
}

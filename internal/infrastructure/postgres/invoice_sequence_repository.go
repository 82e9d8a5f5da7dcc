package postgres

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.InvoiceSequenceRepository = (*InvoiceSequenceRepo)(nil)

// maxSuffixSQL mayor sufijo numérico de las facturas del día ($2 = 'INV-YYYYMMDD-%').
// El sufijo empieza en el carácter 14 de INV-YYYYMMDD-NNNN.
const maxSuffixSQL = `
	SELECT MAX(substring(invoice_number FROM 14)::int)
	FROM sales
	WHERE invoice_number LIKE $2 AND substring(invoice_number FROM 14) ~ '^[0-9]{1,9}$'`

// InvoiceSequenceRepo contador diario de facturas en invoice_counters.
type InvoiceSequenceRepo struct {
	q Querier
}

// NewInvoiceSequenceRepository construye el adaptador. Debe usarse con la tx de la venta.
func NewInvoiceSequenceRepository(q Querier) *InvoiceSequenceRepo {
	return &InvoiceSequenceRepo{q: q}
}

// Next incrementa el contador del día y devuelve el valor nuevo. La fila queda bloqueada
// hasta el fin de la transacción, así dos ventas simultáneas nunca obtienen el mismo número.
func (r *InvoiceSequenceRepo) Next(ctx context.Context, day string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoice_counters (day, last_value)
		VALUES ($1, COALESCE((`+maxSuffixSQL+`), 0) + 1)
		ON CONFLICT (day) DO UPDATE SET last_value = invoice_counters.last_value + 1
		RETURNING last_value`,
		day, invoicePattern(day)).Scan(&n)
	if err != nil {
		return 0, wrapErr("next invoice counter", err)
	}
	return n, nil
}

// Resync lleva last_value a GREATEST(last_value, mayor sufijo del día). Sin facturas no hace nada.
func (r *InvoiceSequenceRepo) Resync(ctx context.Context, day string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoice_counters (day, last_value)
		SELECT $1::char(8), m FROM (`+maxSuffixSQL+`) AS s(m)
		WHERE m IS NOT NULL AND m > 0
		ON CONFLICT (day) DO UPDATE SET last_value = GREATEST(invoice_counters.last_value, EXCLUDED.last_value)`,
		day, invoicePattern(day))
	if err != nil {
		return wrapErr("resync invoice counter", err)
	}
	return nil
}

func invoicePattern(day string) string {
	return "INV-" + day + "-%"
}

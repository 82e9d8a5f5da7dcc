package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

const invoiceDayLayout = "20060102"

// FormatInvoiceNumber arma INV-YYYYMMDD-NNNN.
func FormatInvoiceNumber(day string, n int) string {
	return fmt.Sprintf("INV-%s-%04d", day, n)
}

// NextInvoiceNumber reserva el siguiente número del día dentro de la transacción de la venta.
// El contador queda bloqueado hasta el commit; la UNIQUE de sales.invoice_number es la última barrera.
func NextInvoiceNumber(ctx context.Context, repo repository.InvoiceSequenceRepository, now time.Time) (string, error) {
	day := now.UTC().Format(invoiceDayLayout)
	n, err := repo.Next(ctx, day)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return FormatInvoiceNumber(day, n), nil
}

// resyncInvoiceCounter adelanta el contador del día por encima de las facturas ya emitidas.
// Se usa en el reintento tras un choque con la UNIQUE de invoice_number.
func resyncInvoiceCounter(ctx context.Context, repo repository.InvoiceSequenceRepository, now time.Time) error {
	if err := repo.Resync(ctx, now.UTC().Format(invoiceDayLayout)); err != nil {
		return fmt.Errorf("resync invoice counter: %w", err)
	}
	return nil
}

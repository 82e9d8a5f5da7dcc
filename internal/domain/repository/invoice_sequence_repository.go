package repository

import "context"

// InvoiceSequenceRepository contador atómico de facturas por día.
type InvoiceSequenceRepository interface {
	// Next incrementa y devuelve el contador del día (formato YYYYMMDD).
	// El primer uso del día arranca desde el mayor sufijo ya emitido con ese prefijo.
	Next(ctx context.Context, day string) (int, error)
	// Resync adelanta el contador del día hasta el mayor sufijo emitido.
	// Nunca lo retrocede.
	Resync(ctx context.Context, day string) error
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ventas-api/internal/application/ledger"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool             *pgxpool.Pool
	lockTimeout      time.Duration
	statementTimeout time.Duration
}

// NewTxRunner construye el runner. Un timeout en cero deja el valor del servidor.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout, statementTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout, statementTimeout: statementTimeout}
}

// Run inicia una transacción READ COMMITTED, fija los timeouts locales, ejecuta fn con
// repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 || r.statementTimeout > 0 {
		_, err = tx.Exec(ctx,
			`SELECT set_config('lock_timeout', $1, true), set_config('statement_timeout', $2, true)`,
			durationSetting(r.lockTimeout), durationSetting(r.statementTimeout))
		if err != nil {
			return wrapErr("set transaction timeouts", err)
		}
	}

	if err := fn(ctx, txRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

func txRepos(tx pgx.Tx) repository.TxRepos {
	return repository.TxRepos{
		Products:  NewProductRepository(tx),
		Stock:     NewStockLedgerRepository(tx),
		Movements: NewStockMovementRepository(tx),
		Sales:     NewSaleRepository(tx),
		Invoices:  NewInvoiceSequenceRepository(tx),
	}
}

// durationSetting formatea d para set_config; "0" desactiva el timeout.
func durationSetting(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

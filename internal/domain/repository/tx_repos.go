package repository

// TxRepos agrupa los repositorios atados a una misma transacción.
// Se pasa explícitamente a cada paso de la operación.
type TxRepos struct {
	Products  ProductRepository
	Stock     StockLedgerRepository
	Movements StockMovementReader
	Sales     SaleRepository
	Invoices  InvoiceSequenceRepository
}

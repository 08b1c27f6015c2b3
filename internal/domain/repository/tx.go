package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Customers CustomerRepository
	Items     ItemRepository
	Invoices  InvoiceRepository
	Recycle   RecycleBinRepository
}

// TxRunner ejecuta fn dentro de una transacción; si fn devuelve error se descartan todos los cambios.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}

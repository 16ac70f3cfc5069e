package documents

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Documents repository.DocumentRepository
	Sequences repository.DocSequenceRepository
	Ledger    repository.StockLedgerRepository
	Stock     repository.StockRepository
	Products  repository.ProductRepository
}

// Posting subconjunto que necesita el LedgerPoster.
func (r TxRepos) Posting() inventory.PostingRepos {
	return inventory.PostingRepos{Ledger: r.Ledger, Stock: r.Stock, Products: r.Products}
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

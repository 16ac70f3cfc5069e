package inventory

import (
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// PostingRepos repositorios atados a la transacción de aprobación. El caller es dueño de la
// transacción: si Post devuelve error, debe hacer rollback.
type PostingRepos struct {
	Ledger   repository.StockLedgerRepository
	Stock    repository.StockRepository
	Products repository.ProductRepository
}

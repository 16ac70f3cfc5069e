package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-ledger/internal/application/documents"
	"github.com/jhoicas/erp-ledger/internal/domain"
)

var _ documents.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (ReadCommitted).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los advisory locks tomados dentro de fn se liberan al terminar la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(repos documents.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(reposFor(tx)); err != nil {
		return txErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return txErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// txErr deja pasar los errores de dominio y convierte la contención de locks en ErrConflict.
func txErr(err error) error {
	if isContention(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func reposFor(q Querier) documents.TxRepos {
	return documents.TxRepos{
		Documents: NewDocumentRepository(q),
		Sequences: NewDocSequenceRepository(q),
		Ledger:    NewStockLedgerRepository(q),
		Stock:     NewStockRepository(q),
		Products:  NewProductRepository(q),
	}
}

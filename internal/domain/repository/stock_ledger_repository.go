package repository

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// StockLedgerRepository puerto del kardex. Solo inserción y lectura: no existen Update ni Delete.
type StockLedgerRepository interface {
	Create(ctx context.Context, entry *entity.StockLedgerEntry) error
	ListByDocument(ctx context.Context, docID string) ([]*entity.StockLedgerEntry, error)
}

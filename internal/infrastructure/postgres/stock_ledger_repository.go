package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo kardex sobre PostgreSQL (usable con pool o tx). La tabla rechaza UPDATE y DELETE.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// Create persiste un asiento del kardex.
func (r *StockLedgerRepo) Create(ctx context.Context, e *entity.StockLedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (id, warehouse_id, product_id, transaction_at, doc_type, doc_id, doc_no, line_id,
			direction, quantity, unit_cost, batch_no, expiry_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.WarehouseID, e.ProductID, e.TransactionAt, string(e.DocType), e.DocID, e.DocNo, e.LineID,
		string(e.Direction), e.Quantity, e.UnitCost, e.BatchNo, e.ExpiryDate, e.CreatedBy, e.CreatedAt,
	)
	return mapWriteErr("insert stock ledger entry", err)
}

// ListByDocument asientos de un documento en orden de contabilización.
func (r *StockLedgerRepo) ListByDocument(ctx context.Context, docID string) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT id, warehouse_id, product_id, transaction_at, doc_type, doc_id, doc_no, line_id,
			direction, quantity, unit_cost, batch_no, expiry_date, created_by, created_at
		FROM stock_ledger WHERE doc_id = $1
		ORDER BY entry_no`
	rows, err := r.q.Query(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by document: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLedgerEntry
	for rows.Next() {
		var (
			e         entity.StockLedgerEntry
			docType   string
			direction string
		)
		if err := rows.Scan(&e.ID, &e.WarehouseID, &e.ProductID, &e.TransactionAt, &docType, &e.DocID, &e.DocNo,
			&e.LineID, &direction, &e.Quantity, &e.UnitCost, &e.BatchNo, &e.ExpiryDate, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.DocType = document.DocType(docType)
		e.Direction = document.Direction(direction)
		list = append(list, &e)
	}
	return list, rows.Err()
}

package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo saldo derivado del kardex (usable con pool o tx). No existe tabla de saldos mutable.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Lock advisory lock de transacción sobre (bodega, producto). Se libera en commit o rollback.
// Fuera de una transacción el lock dura solo la sentencia, así que siempre debe usarse con tx.
func (r *StockRepo) Lock(ctx context.Context, warehouseID, productID string) error {
	key := "stock:" + warehouseID + ":" + productID
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("advisory lock %s: %w", key, err)
	}
	return nil
}

// OnHand suma con signo de los asientos de (bodega, producto).
func (r *StockRepo) OnHand(ctx context.Context, warehouseID, productID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(` + signedQtyExpr("l") + `), 0)
		FROM stock_ledger l WHERE l.warehouse_id = $1 AND l.product_id = $2`
	var qty decimal.Decimal
	if err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(&qty); err != nil {
		return decimal.Zero, fmt.Errorf("on hand: %w", err)
	}
	return qty, nil
}

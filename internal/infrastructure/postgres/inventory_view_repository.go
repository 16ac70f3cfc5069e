package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.InventoryViewRepository = (*InventoryViewRepo)(nil)

// InventoryViewRepo vistas de inventario calculadas siempre desde stock_ledger.
type InventoryViewRepo struct {
	q Querier
}

// NewInventoryViewRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryViewRepository(q Querier) *InventoryViewRepo {
	return &InventoryViewRepo{q: q}
}

// OnHand saldo por (bodega, producto). Solo aparecen pares con al menos un asiento; con
// IncludeZero también los que quedaron en cero.
func (r *InventoryViewRepo) OnHand(ctx context.Context, f repository.OnHandFilter) ([]*entity.InventoryOnHand, int, error) {
	signed := signedQtyExpr("l")
	b := newSelect(`
		SELECT l.warehouse_id, w.name, l.product_id, p.sku, p.name, p.unit_measure,
			SUM(` + signed + `) AS quantity, p.safety_stock, p.reorder_point,
			AVG(l.unit_cost) FILTER (WHERE l.direction IN (` + inboundList() + `)),
			MAX(l.transaction_at)
		FROM stock_ledger l
		JOIN warehouses w ON w.id = l.warehouse_id
		JOIN products p ON p.id = l.product_id`).
		WhereIf(f.WarehouseID != "", "l.warehouse_id = ?", f.WarehouseID).
		WhereIf(f.ProductID != "", "l.product_id = ?", f.ProductID).
		WhereIf(f.Search != "", `(p.sku ILIKE ? ESCAPE '\' OR p.name ILIKE ? ESCAPE '\')`,
			containsPattern(f.Search), containsPattern(f.Search)).
		GroupBy("l.warehouse_id, w.name, l.product_id, p.sku, p.name, p.unit_measure, p.safety_stock, p.reorder_point")
	if !f.IncludeZero {
		b.Having("SUM(" + signed + ") <> 0")
	}

	total, err := r.count(ctx, b)
	if err != nil {
		return nil, 0, fmt.Errorf("count on hand: %w", err)
	}
	query, args := b.OrderBy("w.name, p.sku").Page(f.Limit, f.Offset).SQL()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list on hand: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryOnHand
	for rows.Next() {
		var oh entity.InventoryOnHand
		if err := rows.Scan(&oh.WarehouseID, &oh.WarehouseName, &oh.ProductID, &oh.SKU, &oh.ProductName,
			&oh.UnitMeasure, &oh.Quantity, &oh.SafetyStock, &oh.ReorderPoint, &oh.AvgUnitCost, &oh.LastMovementAt); err != nil {
			return nil, 0, fmt.Errorf("scan on hand: %w", err)
		}
		list = append(list, &oh)
	}
	return list, total, rows.Err()
}

// Ledger asientos con saldo acumulado, más recientes primero. La ventana se calcula sobre todo
// el historial del par antes de filtrar, así el saldo de cada fila no depende de los filtros.
func (r *InventoryViewRepo) Ledger(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerRow, int, error) {
	b := newSelect(`
		SELECT l.id, l.warehouse_id, l.product_id, l.transaction_at, l.doc_type, l.doc_id, l.doc_no, l.line_id,
			l.direction, l.quantity, l.unit_cost, l.batch_no, l.expiry_date, l.created_by, l.created_at,
			w.name, p.sku, p.name, l.running_balance
		FROM (
			SELECT sl.*, SUM(` + signedQtyExpr("sl") + `) OVER (
				PARTITION BY sl.warehouse_id, sl.product_id
				ORDER BY sl.transaction_at, sl.entry_no
			) AS running_balance
			FROM stock_ledger sl
		) l
		JOIN warehouses w ON w.id = l.warehouse_id
		JOIN products p ON p.id = l.product_id`).
		WhereIf(f.WarehouseID != "", "l.warehouse_id = ?", f.WarehouseID).
		WhereIf(f.ProductID != "", "l.product_id = ?", f.ProductID).
		WhereIf(f.DocType != "", "l.doc_type = ?", f.DocType).
		WhereIf(f.DocID != "", "l.doc_id = ?", f.DocID).
		WhereIf(f.From != nil, "l.transaction_at >= ?", f.From).
		WhereIf(f.To != nil, "l.transaction_at <= ?", f.To)

	total, err := r.count(ctx, b)
	if err != nil {
		return nil, 0, fmt.Errorf("count ledger: %w", err)
	}
	query, args := b.OrderBy("l.transaction_at DESC, l.entry_no DESC").Page(f.Limit, f.Offset).SQL()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerRow
	for rows.Next() {
		var (
			row       entity.LedgerRow
			docType   string
			direction string
		)
		if err := rows.Scan(&row.ID, &row.WarehouseID, &row.ProductID, &row.TransactionAt, &docType, &row.DocID,
			&row.DocNo, &row.LineID, &direction, &row.Quantity, &row.UnitCost, &row.BatchNo, &row.ExpiryDate,
			&row.CreatedBy, &row.CreatedAt, &row.WarehouseName, &row.SKU, &row.ProductName, &row.RunningBalance); err != nil {
			return nil, 0, fmt.Errorf("scan ledger row: %w", err)
		}
		row.DocType = document.DocType(docType)
		row.Direction = document.Direction(direction)
		list = append(list, &row)
	}
	return list, total, rows.Err()
}

func (r *InventoryViewRepo) count(ctx context.Context, b *selectBuilder) (int, error) {
	query, args := b.CountSQL()
	var total int
	err := r.q.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

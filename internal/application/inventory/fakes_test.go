package inventory_test

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// memLedger kardex en memoria que implementa StockLedgerRepository y StockRepository.
type memLedger struct {
	entries []*entity.StockLedgerEntry
	locks   []string
	failOn  int // si > 0, Create falla en la n-ésima inserción
}

var (
	_ repository.StockLedgerRepository = (*memLedger)(nil)
	_ repository.StockRepository       = (*memLedger)(nil)
)

func (m *memLedger) Create(_ context.Context, e *entity.StockLedgerEntry) error {
	if m.failOn > 0 && len(m.entries)+1 == m.failOn {
		return errors.New("falla simulada de inserción")
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memLedger) ListByDocument(_ context.Context, docID string) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range m.entries {
		if e.DocID == docID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedger) Lock(_ context.Context, warehouseID, productID string) error {
	m.locks = append(m.locks, warehouseID+"/"+productID)
	return nil
}

func (m *memLedger) OnHand(_ context.Context, warehouseID, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range m.entries {
		if e.WarehouseID == warehouseID && e.ProductID == productID {
			total = total.Add(e.SignedQuantity())
		}
	}
	return total, nil
}

func (m *memLedger) seed(warehouseID, productID string, qty decimal.Decimal) {
	m.entries = append(m.entries, &entity.StockLedgerEntry{
		ID:          "seed-" + warehouseID + "-" + productID,
		WarehouseID: warehouseID,
		ProductID:   productID,
		Direction:   "In",
		Quantity:    qty,
	})
}

type memProducts map[string]*entity.Product

func (m memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return m[id], nil
}

// memViews vista de inventario fija.
type memViews struct {
	onHand    []*entity.InventoryOnHand
	ledger    []*entity.LedgerRow
	lastOH    repository.OnHandFilter
	ohCalls   int
	lastLedge repository.LedgerFilter
}

func (m *memViews) OnHand(_ context.Context, f repository.OnHandFilter) ([]*entity.InventoryOnHand, int, error) {
	m.lastOH = f
	m.ohCalls++
	var out []*entity.InventoryOnHand
	for _, r := range m.onHand {
		if f.WarehouseID != "" && r.WarehouseID != f.WarehouseID {
			continue
		}
		if !f.IncludeZero && r.Quantity.IsZero() {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	total := len(out)
	if f.Offset >= total {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *memViews) Ledger(_ context.Context, f repository.LedgerFilter) ([]*entity.LedgerRow, int, error) {
	m.lastLedge = f
	return m.ledger, len(m.ledger), nil
}

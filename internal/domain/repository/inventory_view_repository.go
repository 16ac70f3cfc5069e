package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// OnHandFilter filtros de la vista de existencias.
type OnHandFilter struct {
	WarehouseID string
	ProductID   string
	Search      string // SKU o nombre
	IncludeZero bool
	Limit       int
	Offset      int
}

// LedgerFilter filtros del detalle de kardex.
type LedgerFilter struct {
	WarehouseID string
	ProductID   string
	DocType     string
	DocID       string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// InventoryViewRepository lecturas agregadas sobre el kardex. No muta nada.
type InventoryViewRepository interface {
	OnHand(ctx context.Context, f OnHandFilter) ([]*entity.InventoryOnHand, int, error)
	Ledger(ctx context.Context, f LedgerFilter) ([]*entity.LedgerRow, int, error)
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OnHandQuery query de GET /api/inventory/on-hand.
type OnHandQuery struct {
	PageRequest
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	ProductID   string `query:"product_id" validate:"omitempty,uuid"`
	Search      string `query:"search" validate:"max=100"`
	IncludeZero bool   `query:"include_zero"`
}

// OnHandDTO saldo de un producto en una bodega.
type OnHandDTO struct {
	WarehouseID    string           `json:"warehouse_id"`
	WarehouseName  string           `json:"warehouse_name"`
	ProductID      string           `json:"product_id"`
	SKU            string           `json:"sku"`
	ProductName    string           `json:"product_name"`
	UnitMeasure    string           `json:"unit_measure"`
	Quantity       decimal.Decimal  `json:"quantity"`
	SafetyStock    decimal.Decimal  `json:"safety_stock"`
	ReorderPoint   decimal.Decimal  `json:"reorder_point"`
	AvgUnitCost    *decimal.Decimal `json:"avg_unit_cost,omitempty"`
	LastMovementAt time.Time        `json:"last_movement_at"`
}

// OnHandListResponse lista paginada de saldos.
type OnHandListResponse struct {
	Items []OnHandDTO  `json:"items"`
	Page  PageResponse `json:"page"`
}

// LedgerQuery query de GET /api/inventory/ledger.
type LedgerQuery struct {
	PageRequest
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	ProductID   string `query:"product_id" validate:"omitempty,uuid"`
	DocType     string `query:"doc_type" validate:"omitempty,oneof=PO GRN PR SO DO TR STK ADJ RM"`
	DocID       string `query:"doc_id" validate:"omitempty,uuid"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// LedgerRowDTO asiento del kardex con saldo acumulado.
type LedgerRowDTO struct {
	ID             string           `json:"id"`
	TransactionAt  time.Time        `json:"transaction_at"`
	WarehouseID    string           `json:"warehouse_id"`
	WarehouseName  string           `json:"warehouse_name"`
	ProductID      string           `json:"product_id"`
	SKU            string           `json:"sku"`
	ProductName    string           `json:"product_name"`
	DocType        string           `json:"doc_type"`
	DocID          string           `json:"doc_id"`
	DocNo          string           `json:"doc_no"`
	LineID         *string          `json:"line_id,omitempty"`
	Direction      string           `json:"direction"`
	Quantity       decimal.Decimal  `json:"quantity"`
	SignedQuantity decimal.Decimal  `json:"signed_quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	BatchNo        *string          `json:"batch_no,omitempty"`
	ExpiryDate     *time.Time       `json:"expiry_date,omitempty"`
	RunningBalance decimal.Decimal  `json:"running_balance"`
}

// LedgerListResponse lista paginada del kardex.
type LedgerListResponse struct {
	Items []LedgerRowDTO `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LowStockQuery query de GET /api/inventory/low-stock.
type LowStockQuery struct {
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	IncludeOK   bool   `query:"include_ok"`
}

// LowStockAlertDTO alerta de stock bajo con la cantidad sugerida de pedido.
type LowStockAlertDTO struct {
	OnHandDTO
	Level             string          `json:"level"` // ok | low | out_of_stock
	Shortage          decimal.Decimal `json:"shortage"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // reorder_point * factor - saldo
}

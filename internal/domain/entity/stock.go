package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryOnHand saldo derivado de un producto en una bodega: suma con signo de los asientos
// del kardex. Nunca se persiste como estado mutable.
type InventoryOnHand struct {
	WarehouseID    string
	WarehouseName  string
	ProductID      string
	SKU            string
	ProductName    string
	UnitMeasure    string
	Quantity       decimal.Decimal
	SafetyStock    decimal.Decimal
	ReorderPoint   decimal.Decimal
	AvgUnitCost    *decimal.Decimal // promedio simple de costos registrados en entradas
	LastMovementAt time.Time
}

// LedgerRow asiento del kardex con nombres para presentación y saldo acumulado.
type LedgerRow struct {
	StockLedgerEntry
	WarehouseName  string
	SKU            string
	ProductName    string
	RunningBalance decimal.Decimal
}

// Signed devuelve la cantidad con signo de la fila.
func (r *LedgerRow) Signed() decimal.Decimal {
	return r.Direction.Signed(r.Quantity)
}

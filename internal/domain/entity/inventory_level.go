package entity

import "github.com/shopspring/decimal"

// Niveles de stock para alertas.
const (
	StockLevelOK         = "ok"
	StockLevelLow        = "low"
	StockLevelOutOfStock = "out_of_stock"
)

// ClassifyStockLevel out_of_stock si el saldo es <= 0, low si está por debajo del stock de
// seguridad, ok en otro caso.
func ClassifyStockLevel(onHand, safetyStock decimal.Decimal) string {
	switch {
	case onHand.LessThanOrEqual(decimal.Zero):
		return StockLevelOutOfStock
	case onHand.LessThan(safetyStock):
		return StockLevelLow
	default:
		return StockLevelOK
	}
}

// LowStockAlert fila de la alerta de stock bajo.
type LowStockAlert struct {
	InventoryOnHand
	Level             string
	Shortage          decimal.Decimal // safety_stock - saldo, mínimo 0
	SuggestedOrderQty decimal.Decimal // reorder_point * factor - saldo, mínimo 0
}

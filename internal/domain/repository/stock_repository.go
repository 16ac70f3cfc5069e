package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockRepository puerto del guardia de disponibilidad: saldo derivado del kardex por
// bodega+producto. Usado dentro de la transacción de aprobación.
type StockRepository interface {
	// Lock toma un bloqueo exclusivo ligado a la transacción sobre la clave (bodega, producto).
	// Debe llamarse antes de OnHand para cerrar la ventana entre verificar y contabilizar.
	Lock(ctx context.Context, warehouseID, productID string) error
	// OnHand suma con signo de los asientos del kardex.
	OnHand(ctx context.Context, warehouseID, productID string) (decimal.Decimal, error)
}

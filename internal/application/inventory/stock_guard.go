package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// StockGuard verifica que una salida no deje negativo el saldo (bodega, producto).
type StockGuard struct{}

// NewStockGuard construye el guardia.
func NewStockGuard() *StockGuard { return &StockGuard{} }

// Ensure bloquea la clave (bodega, producto) dentro de la transacción, lee el saldo derivado del
// kardex y falla con *domain.InsufficientStockError si saldo < requerido.
func (g *StockGuard) Ensure(
	ctx context.Context,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	warehouseID, productID string,
	required decimal.Decimal,
) error {
	if err := stockRepo.Lock(ctx, warehouseID, productID); err != nil {
		return fmt.Errorf("bloquear stock: %w", err)
	}
	onHand, err := stockRepo.OnHand(ctx, warehouseID, productID)
	if err != nil {
		return fmt.Errorf("leer saldo: %w", err)
	}
	if onHand.GreaterThanOrEqual(required) {
		return nil
	}
	insufficient := &domain.InsufficientStockError{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Available:   onHand,
		Required:    required,
	}
	if productRepo != nil {
		if p, _ := productRepo.GetByID(ctx, productID); p != nil {
			insufficient.ProductName = p.DisplayName()
		}
	}
	return insufficient
}

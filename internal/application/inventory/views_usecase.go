package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// DefaultReorderFactor multiplicador del punto de reorden para la cantidad sugerida de pedido.
var DefaultReorderFactor = decimal.NewFromFloat(1.5)

// lowStockPageSize filas de saldo por consulta al recorrer todas las existencias.
const lowStockPageSize = 500

// ViewsUseCase lecturas derivadas del kardex: existencias, detalle con saldo acumulado y
// alertas de stock bajo. Solo lectura.
type ViewsUseCase struct {
	viewRepo      repository.InventoryViewRepository
	reorderFactor decimal.Decimal
}

// NewViewsUseCase construye el caso de uso. reorderFactor <= 0 usa DefaultReorderFactor.
func NewViewsUseCase(viewRepo repository.InventoryViewRepository, reorderFactor decimal.Decimal) *ViewsUseCase {
	if !reorderFactor.IsPositive() {
		reorderFactor = DefaultReorderFactor
	}
	return &ViewsUseCase{viewRepo: viewRepo, reorderFactor: reorderFactor}
}

// GetOnHand saldo por (bodega, producto). Omite saldos en cero salvo IncludeZero.
func (uc *ViewsUseCase) GetOnHand(ctx context.Context, in dto.OnHandQuery) (*dto.OnHandListResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	rows, total, err := uc.viewRepo.OnHand(ctx, repository.OnHandFilter{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Search:      in.Search,
		IncludeZero: in.IncludeZero,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OnHandDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, toOnHandDTO(r))
	}
	return &dto.OnHandListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// GetLedger asientos del kardex, más recientes primero, con saldo acumulado por (bodega, producto).
func (uc *ViewsUseCase) GetLedger(ctx context.Context, in dto.LedgerQuery) (*dto.LedgerListResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	f := repository.LedgerFilter{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		DocType:     in.DocType,
		DocID:       in.DocID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.From != "" {
		from, err := time.Parse(time.DateOnly, in.From)
		if err != nil {
			return nil, domain.NewValidation("from", "fecha inválida")
		}
		f.From = &from
	}
	if in.To != "" {
		to, err := time.Parse(time.DateOnly, in.To)
		if err != nil {
			return nil, domain.NewValidation("to", "fecha inválida")
		}
		// Día completo.
		end := to.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.NewValidation("from", "debe ser anterior a 'to'")
	}

	rows, total, err := uc.viewRepo.Ledger(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerRowDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.LedgerRowDTO{
			ID:             r.ID,
			TransactionAt:  r.TransactionAt,
			WarehouseID:    r.WarehouseID,
			WarehouseName:  r.WarehouseName,
			ProductID:      r.ProductID,
			SKU:            r.SKU,
			ProductName:    r.ProductName,
			DocType:        string(r.DocType),
			DocID:          r.DocID,
			DocNo:          r.DocNo,
			LineID:         r.LineID,
			Direction:      string(r.Direction),
			Quantity:       r.Quantity,
			SignedQuantity: r.Signed(),
			UnitCost:       r.UnitCost,
			BatchNo:        r.BatchNo,
			ExpiryDate:     r.ExpiryDate,
			RunningBalance: r.RunningBalance,
		})
	}
	return &dto.LedgerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// GetLowStockAlerts clasifica los saldos en ok / low / out_of_stock. Por defecto devuelve solo
// las filas que no están ok, ordenadas: primero sin stock, luego mayor faltante.
func (uc *ViewsUseCase) GetLowStockAlerts(ctx context.Context, in dto.LowStockQuery) ([]dto.LowStockAlertDTO, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rows, err := uc.allOnHand(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	alerts := make([]entity.LowStockAlert, 0, len(rows))
	for _, r := range rows {
		level := entity.ClassifyStockLevel(r.Quantity, r.SafetyStock)
		if level == entity.StockLevelOK && !in.IncludeOK {
			continue
		}
		shortage := r.SafetyStock.Sub(r.Quantity)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		suggested := r.ReorderPoint.Mul(uc.reorderFactor).Sub(r.Quantity)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		alerts = append(alerts, entity.LowStockAlert{
			InventoryOnHand:   *r,
			Level:             level,
			Shortage:          shortage,
			SuggestedOrderQty: suggested.Round(4),
		})
	}

	rank := map[string]int{entity.StockLevelOutOfStock: 0, entity.StockLevelLow: 1, entity.StockLevelOK: 2}
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if rank[a.Level] != rank[b.Level] {
			return rank[a.Level] < rank[b.Level]
		}
		return a.Shortage.GreaterThan(b.Shortage)
	})

	out := make([]dto.LowStockAlertDTO, 0, len(alerts))
	for i := range alerts {
		a := &alerts[i]
		out = append(out, dto.LowStockAlertDTO{
			OnHandDTO:         toOnHandDTO(&a.InventoryOnHand),
			Level:             a.Level,
			Shortage:          a.Shortage,
			SuggestedOrderQty: a.SuggestedOrderQty,
		})
	}
	return out, nil
}

// allOnHand recorre la vista de existencias por páginas hasta agotarla, incluidos los saldos en cero.
func (uc *ViewsUseCase) allOnHand(ctx context.Context, warehouseID string) ([]*entity.InventoryOnHand, error) {
	var all []*entity.InventoryOnHand
	for offset := 0; ; offset += lowStockPageSize {
		rows, total, err := uc.viewRepo.OnHand(ctx, repository.OnHandFilter{
			WarehouseID: warehouseID,
			IncludeZero: true,
			Limit:       lowStockPageSize,
			Offset:      offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) < lowStockPageSize || len(all) >= total {
			return all, nil
		}
	}
}

func toOnHandDTO(r *entity.InventoryOnHand) dto.OnHandDTO {
	return dto.OnHandDTO{
		WarehouseID:    r.WarehouseID,
		WarehouseName:  r.WarehouseName,
		ProductID:      r.ProductID,
		SKU:            r.SKU,
		ProductName:    r.ProductName,
		UnitMeasure:    r.UnitMeasure,
		Quantity:       r.Quantity,
		SafetyStock:    r.SafetyStock,
		ReorderPoint:   r.ReorderPoint,
		AvgUnitCost:    r.AvgUnitCost,
		LastMovementAt: r.LastMovementAt,
	}
}

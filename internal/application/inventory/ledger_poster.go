package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// LedgerPoster traduce las líneas de un documento aprobado en asientos del kardex según la
// regla de su tipo (GRN entrada, PR/DO salida, TR traslado, ADJ ajuste por signo).
// No abre transacciones: trabaja con los repos de la transacción del caller.
type LedgerPoster struct {
	guard *StockGuard
}

// NewLedgerPoster construye el motor de contabilización.
func NewLedgerPoster(guard *StockGuard) *LedgerPoster {
	if guard == nil {
		guard = NewStockGuard()
	}
	return &LedgerPoster{guard: guard}
}

type stockKey struct {
	warehouseID string
	productID   string
}

// Post valida bodegas, verifica disponibilidad de todas las salidas y escribe los asientos en
// orden de línea. Si algo falla no se escribe nada que sobreviva: el caller hace rollback.
// Devuelve los asientos creados (vacío para tipos que no afectan stock).
func (p *LedgerPoster) Post(
	ctx context.Context,
	repos PostingRepos,
	doc *entity.Document,
	approvedBy string,
	at time.Time,
) ([]*entity.StockLedgerEntry, error) {
	rule := doc.DocType.Rule()
	if !rule.AffectsStock() {
		return nil, nil
	}
	if err := ValidateWarehouses(doc); err != nil {
		return nil, err
	}

	lines := make([]*entity.DocumentLine, len(doc.Lines))
	copy(lines, doc.Lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].LineNo < lines[j].LineNo })

	// demand es, por clave, el mayor faltante que alcanza el saldo acumulado del documento al
	// aplicar sus movimientos en orden de línea. Una entrada previa cubre una salida posterior.
	var entries []*entity.StockLedgerEntry
	net := make(map[stockKey]decimal.Decimal)
	demand := make(map[stockKey]decimal.Decimal)
	for _, line := range lines {
		for _, mv := range rule.Movements(line.Quantity) {
			whID := resolveWarehouse(doc, mv.Side)
			k := stockKey{warehouseID: whID, productID: line.ProductID}
			if !mv.Direction.Decreases() {
				net[k] = net[k].Add(mv.Quantity)
			} else {
				net[k] = net[k].Sub(mv.Quantity)
				shortfall := decimal.Max(decimal.Zero, net[k].Neg())
				if cur, ok := demand[k]; !ok || shortfall.GreaterThan(cur) {
					demand[k] = shortfall
				}
			}
			lineID := line.ID
			entries = append(entries, &entity.StockLedgerEntry{
				ID:            uuid.New().String(),
				WarehouseID:   whID,
				ProductID:     line.ProductID,
				TransactionAt: at,
				DocType:       doc.DocType,
				DocID:         doc.ID,
				DocNo:         doc.DocNo,
				LineID:        &lineID,
				Direction:     mv.Direction,
				Quantity:      mv.Quantity,
				UnitCost:      line.UnitPrice,
				BatchNo:       line.BatchNo,
				ExpiryDate:    line.ExpiryDate,
				CreatedBy:     approvedBy,
				CreatedAt:     at,
			})
		}
	}

	// Las claves se bloquean en orden fijo para que dos aprobaciones concurrentes no se
	// bloqueen mutuamente.
	keys := make([]stockKey, 0, len(demand))
	for k := range demand {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].warehouseID != keys[j].warehouseID {
			return keys[i].warehouseID < keys[j].warehouseID
		}
		return keys[i].productID < keys[j].productID
	})
	for _, k := range keys {
		if err := p.guard.Ensure(ctx, repos.Stock, repos.Products, k.warehouseID, k.productID, demand[k]); err != nil {
			return nil, err
		}
	}

	for _, e := range entries {
		if err := repos.Ledger.Create(ctx, e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// ValidateWarehouses comprueba que el documento trae las bodegas que exige su tipo.
func ValidateWarehouses(doc *entity.Document) error {
	switch doc.DocType.Rule().Warehouses {
	case document.WarehouseSingle:
		if isBlank(doc.WarehouseID) {
			return domain.NewBusinessRule(domain.CodeMissingWarehouse,
				"el documento %s (%s) requiere bodega", doc.DocNo, doc.DocType)
		}
	case document.WarehousePair:
		if isBlank(doc.FromWarehouseID) || isBlank(doc.ToWarehouseID) {
			return domain.NewBusinessRule(domain.CodeMissingWarehouse,
				"el traslado %s requiere bodega origen y destino", doc.DocNo)
		}
		if *doc.FromWarehouseID == *doc.ToWarehouseID {
			return domain.NewBusinessRule(domain.CodeMissingWarehouse,
				"el traslado %s tiene la misma bodega de origen y destino", doc.DocNo)
		}
	}
	return nil
}

func resolveWarehouse(doc *entity.Document, side document.WarehouseSide) string {
	switch side {
	case document.SideFrom:
		return *doc.FromWarehouseID
	case document.SideTo:
		return *doc.ToWarehouseID
	default:
		return *doc.WarehouseID
	}
}

func isBlank(s *string) bool { return s == nil || *s == "" }

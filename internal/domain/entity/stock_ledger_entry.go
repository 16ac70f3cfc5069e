package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
)

// StockLedgerEntry asiento inmutable del kardex. Se crea una única vez, al aprobar el documento,
// y nunca se actualiza ni se borra. Quantity es magnitud; el signo lo da Direction.
type StockLedgerEntry struct {
	ID            string
	WarehouseID   string
	ProductID     string
	TransactionAt time.Time
	DocType       document.DocType
	DocID         string
	DocNo         string // desnormalizado para auditoría
	LineID        *string
	Direction     document.Direction
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal
	BatchNo       *string
	ExpiryDate    *time.Time
	CreatedBy     string
	CreatedAt     time.Time
}

// SignedQuantity cantidad con el signo de la dirección.
func (e *StockLedgerEntry) SignedQuantity() decimal.Decimal {
	return e.Direction.Signed(e.Quantity)
}

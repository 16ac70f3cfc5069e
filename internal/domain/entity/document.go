package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
)

// Document cabecera de un documento de negocio (orden de compra, recepción, despacho, traslado...).
// Los traslados usan FromWarehouseID/ToWarehouseID; el resto WarehouseID.
type Document struct {
	ID              string
	DocType         document.DocType
	DocNo           string
	Status          document.Status
	WarehouseID     *string
	FromWarehouseID *string
	ToWarehouseID   *string
	PartnerID       *string
	DocDate         time.Time
	SourceDocID     *string                 // recepción -> orden de compra de origen
	ReceiptStatus   *document.ReceiptStatus // solo órdenes de compra
	Remark          string
	CreatedBy       string
	ApprovedBy      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ApprovedAt      *time.Time
	Lines           []*DocumentLine
}

// DocumentLine línea de documento. LineNo es 1..n contiguo dentro del documento.
type DocumentLine struct {
	ID          string
	DocumentID  string
	LineNo      int
	ProductID   string
	Quantity    decimal.Decimal
	UOM         string
	UnitPrice   *decimal.Decimal
	BatchNo     *string
	ExpiryDate  *time.Time
	Remark      string
	ProductSKU  string // solo lectura (join)
	ProductName string // solo lectura (join)
}

// DocumentView documento con nombres de datos maestros para presentación.
type DocumentView struct {
	Document
	WarehouseName     string
	FromWarehouseName string
	ToWarehouseName   string
	PartnerName       string
	SourceDocNo       string
}

// Clone copia profunda de cabecera y líneas.
func (d *Document) Clone() *Document {
	c := *d
	c.Lines = make([]*DocumentLine, len(d.Lines))
	for i, l := range d.Lines {
		lc := *l
		c.Lines[i] = &lc
	}
	return &c
}

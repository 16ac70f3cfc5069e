package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea de un documento en create/update. El line_no lo asigna el servidor
// según el orden de llegada.
type DocumentLineRequest struct {
	ProductID  string           `json:"product_id" validate:"required,uuid"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UOM        string           `json:"uom" validate:"max=20"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
	BatchNo    *string          `json:"batch_no,omitempty" validate:"omitempty,max=64"`
	ExpiryDate *time.Time       `json:"expiry_date,omitempty"`
	Remark     string           `json:"remark,omitempty" validate:"max=500"`
}

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	DocType         string                `json:"doc_type" validate:"required,oneof=PO GRN PR SO DO TR STK ADJ RM"`
	WarehouseID     *string               `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	FromWarehouseID *string               `json:"from_warehouse_id,omitempty" validate:"omitempty,uuid"`
	ToWarehouseID   *string               `json:"to_warehouse_id,omitempty" validate:"omitempty,uuid"`
	PartnerID       *string               `json:"partner_id,omitempty" validate:"omitempty,uuid"`
	DocDate         *time.Time            `json:"doc_date,omitempty"`
	Remark          string                `json:"remark,omitempty" validate:"max=500"`
	Lines           []DocumentLineRequest `json:"lines"`
}

// UpdateDocumentRequest body para PUT /api/documents/:id. Los campos de cabecera se reemplazan
// tal como llegan (nil limpia la referencia), salvo DocDate que se conserva si es nil.
// Lines nil conserva las líneas; una lista (aunque vacía) las reemplaza por completo.
type UpdateDocumentRequest struct {
	WarehouseID     *string                `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	FromWarehouseID *string                `json:"from_warehouse_id,omitempty" validate:"omitempty,uuid"`
	ToWarehouseID   *string                `json:"to_warehouse_id,omitempty" validate:"omitempty,uuid"`
	PartnerID       *string                `json:"partner_id,omitempty" validate:"omitempty,uuid"`
	DocDate         *time.Time             `json:"doc_date,omitempty"`
	Remark          string                 `json:"remark,omitempty" validate:"max=500"`
	Lines           *[]DocumentLineRequest `json:"lines,omitempty"`
}

// ListDocumentsQuery query string de GET /api/documents.
type ListDocumentsQuery struct {
	PageRequest
	DocType     string `query:"doc_type" validate:"omitempty,oneof=PO GRN PR SO DO TR STK ADJ RM"`
	Status      string `query:"status" validate:"omitempty,oneof=Draft Submitted Approved Cancelled"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	PartnerID   string `query:"partner_id" validate:"omitempty,uuid"`
	SourceDocID string `query:"source_doc_id" validate:"omitempty,uuid"`
	DateFrom    string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo      string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Search      string `query:"search" validate:"max=50"`
	SortBy      string `query:"sort_by" validate:"omitempty,oneof=doc_no doc_date created_at status"`
	SortDir     string `query:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

// DocumentLineResponse línea en la salida.
type DocumentLineResponse struct {
	ID          string           `json:"id"`
	LineNo      int              `json:"line_no"`
	ProductID   string           `json:"product_id"`
	ProductSKU  string           `json:"product_sku,omitempty"`
	ProductName string           `json:"product_name,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UOM         string           `json:"uom"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	BatchNo     *string          `json:"batch_no,omitempty"`
	ExpiryDate  *time.Time       `json:"expiry_date,omitempty"`
	Remark      string           `json:"remark,omitempty"`
}

// DocumentResponse salida de un documento.
type DocumentResponse struct {
	ID                string                 `json:"id"`
	DocType           string                 `json:"doc_type"`
	DocNo             string                 `json:"doc_no"`
	Status            string                 `json:"status"`
	WarehouseID       *string                `json:"warehouse_id,omitempty"`
	WarehouseName     string                 `json:"warehouse_name,omitempty"`
	FromWarehouseID   *string                `json:"from_warehouse_id,omitempty"`
	FromWarehouseName string                 `json:"from_warehouse_name,omitempty"`
	ToWarehouseID     *string                `json:"to_warehouse_id,omitempty"`
	ToWarehouseName   string                 `json:"to_warehouse_name,omitempty"`
	PartnerID         *string                `json:"partner_id,omitempty"`
	PartnerName       string                 `json:"partner_name,omitempty"`
	DocDate           time.Time              `json:"doc_date"`
	SourceDocID       *string                `json:"source_doc_id,omitempty"`
	SourceDocNo       string                 `json:"source_doc_no,omitempty"`
	ReceiptStatus     *string                `json:"receipt_status,omitempty"`
	Remark            string                 `json:"remark,omitempty"`
	CreatedBy         string                 `json:"created_by"`
	ApprovedBy        *string                `json:"approved_by,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	ApprovedAt        *time.Time             `json:"approved_at,omitempty"`
	Lines             []DocumentLineResponse `json:"lines"`
}

// DocumentListResponse lista paginada de documentos (sin líneas).
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ApproveResponse resultado de aprobar: documento, asientos contabilizados y, para órdenes de
// compra, la recepción generada.
type ApproveResponse struct {
	Document      DocumentResponse  `json:"document"`
	LedgerEntries int               `json:"ledger_entries"`
	GeneratedGRN  *DocumentResponse `json:"generated_grn,omitempty"`
}

// ReceiptLineResponse avance de recepción de un producto.
type ReceiptLineResponse struct {
	ProductID string          `json:"product_id"`
	Ordered   decimal.Decimal `json:"ordered"`
	Received  decimal.Decimal `json:"received"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
}

// LinkedReceiptResponse recepción vinculada a la orden de compra.
type LinkedReceiptResponse struct {
	ID     string `json:"id"`
	DocNo  string `json:"doc_no"`
	Status string `json:"status"`
}

// ReceiptStatusResponse salida de GET /api/documents/:id/receipt-status.
type ReceiptStatusResponse struct {
	PurchaseOrderID string                  `json:"purchase_order_id"`
	DocNo           string                  `json:"doc_no"`
	Status          string                  `json:"status"`
	TotalOrdered    decimal.Decimal         `json:"total_ordered"`
	TotalReceived   decimal.Decimal         `json:"total_received"`
	TotalRemaining  decimal.Decimal         `json:"total_remaining"`
	Lines           []ReceiptLineResponse   `json:"lines"`
	Receipts        []LinkedReceiptResponse `json:"receipts"`
}

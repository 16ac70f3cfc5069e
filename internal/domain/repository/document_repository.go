package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// DocumentFilter filtros del listado de documentos. Todos opcionales.
type DocumentFilter struct {
	DocType     string
	Status      string
	WarehouseID string // coincide con warehouse, from o to
	PartnerID   string
	SourceDocID string
	DateFrom    *time.Time
	DateTo      *time.Time
	Search      string // doc_no
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

// DocumentRepository puerto de persistencia de cabeceras y líneas de documento.
// GetByID/GetForUpdate devuelven (nil, nil) si no existe.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate lee la cabecera bloqueando la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	GetView(ctx context.Context, id string) (*entity.DocumentView, error)
	List(ctx context.Context, f DocumentFilter) ([]*entity.DocumentView, int, error)

	UpdateHeader(ctx context.Context, doc *entity.Document) error
	InsertLines(ctx context.Context, docID string, lines []*entity.DocumentLine) error
	DeleteLines(ctx context.Context, docID string) error
	GetLines(ctx context.Context, docID string) ([]*entity.DocumentLine, error)

	// TransitionStatus UPDATE condicional: solo cambia si el estado actual está en from.
	// Devuelve false si ninguna fila cambió (no existe o estado distinto).
	TransitionStatus(ctx context.Context, id string, from []document.Status, to document.Status, at time.Time) (bool, error)
	// MarkApproved Submitted -> Approved estampando aprobador y fecha.
	MarkApproved(ctx context.Context, id, approvedBy string, at time.Time) (bool, error)
	SetReceiptStatus(ctx context.Context, id string, status document.ReceiptStatus, at time.Time) error

	// ReceivedBySource suma por producto las cantidades de las recepciones aprobadas cuyo
	// source_doc_id es sourceID.
	ReceivedBySource(ctx context.Context, sourceID string) (map[string]decimal.Decimal, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `d.id, d.doc_type, d.doc_no, d.status, d.warehouse_id, d.from_warehouse_id,
	d.to_warehouse_id, d.partner_id, d.doc_date, d.source_doc_id, d.receipt_status, d.remark,
	d.created_by, d.approved_by, d.created_at, d.updated_at, d.approved_at`

const documentViewSelect = `SELECT ` + documentColumns + `,
	COALESCE(w.name, ''), COALESCE(fw.name, ''), COALESCE(tw.name, ''), COALESCE(pa.name, ''), COALESCE(src.doc_no, '')
	FROM documents d
	LEFT JOIN warehouses w ON w.id = d.warehouse_id
	LEFT JOIN warehouses fw ON fw.id = d.from_warehouse_id
	LEFT JOIN warehouses tw ON tw.id = d.to_warehouse_id
	LEFT JOIN partners pa ON pa.id = d.partner_id
	LEFT JOIN documents src ON src.id = d.source_doc_id`

// documentSortColumns columnas permitidas para sort_by.
var documentSortColumns = map[string]string{
	"doc_no":     "d.doc_no",
	"doc_date":   "d.doc_date",
	"created_at": "d.created_at",
	"status":     "d.status",
}

// documentScan destinos de escaneo de documentColumns.
type documentScan struct {
	doc           entity.Document
	docType       string
	status        string
	receiptStatus *string
}

func (s *documentScan) targets() []any {
	d := &s.doc
	return []any{
		&d.ID, &s.docType, &d.DocNo, &s.status, &d.WarehouseID, &d.FromWarehouseID,
		&d.ToWarehouseID, &d.PartnerID, &d.DocDate, &d.SourceDocID, &s.receiptStatus, &d.Remark,
		&d.CreatedBy, &d.ApprovedBy, &d.CreatedAt, &d.UpdatedAt, &d.ApprovedAt,
	}
}

func (s *documentScan) result() *entity.Document {
	s.doc.DocType = document.DocType(s.docType)
	s.doc.Status = document.Status(s.status)
	if s.receiptStatus != nil {
		rs := document.ReceiptStatus(*s.receiptStatus)
		s.doc.ReceiptStatus = &rs
	}
	d := s.doc
	return &d
}

// Create inserta la cabecera. Las líneas van con InsertLines.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (id, doc_type, doc_no, status, warehouse_id, from_warehouse_id, to_warehouse_id,
			partner_id, doc_date, source_doc_id, receipt_status, remark, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	var receiptStatus *string
	if doc.ReceiptStatus != nil {
		s := string(*doc.ReceiptStatus)
		receiptStatus = &s
	}
	_, err := r.q.Exec(ctx, query,
		doc.ID, string(doc.DocType), doc.DocNo, string(doc.Status), doc.WarehouseID, doc.FromWarehouseID,
		doc.ToWarehouseID, doc.PartnerID, doc.DocDate, doc.SourceDocID, receiptStatus, doc.Remark,
		doc.CreatedBy, doc.CreatedAt, doc.UpdatedAt,
	)
	return mapWriteErr("insert document", err)
}

// GetByID obtiene la cabecera por ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.getHeader(ctx, `SELECT `+documentColumns+` FROM documents d WHERE d.id = $1`, id)
}

// GetForUpdate obtiene la cabecera y bloquea la fila hasta el fin de la transacción.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.getHeader(ctx, `SELECT `+documentColumns+` FROM documents d WHERE d.id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) getHeader(ctx context.Context, query, id string) (*entity.Document, error) {
	var s documentScan
	err := r.q.QueryRow(ctx, query, id).Scan(s.targets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return s.result(), nil
}

// GetView documento con nombres y líneas.
func (r *DocumentRepo) GetView(ctx context.Context, id string) (*entity.DocumentView, error) {
	var (
		s documentScan
		v entity.DocumentView
	)
	targets := append(s.targets(), &v.WarehouseName, &v.FromWarehouseName, &v.ToWarehouseName, &v.PartnerName, &v.SourceDocNo)
	err := r.q.QueryRow(ctx, documentViewSelect+` WHERE d.id = $1`, id).Scan(targets...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document view: %w", err)
	}
	v.Document = *s.result()
	lines, err := r.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Lines = lines
	return &v, nil
}

// List listado filtrado y paginado, sin líneas.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.DocumentView, int, error) {
	b := newSelect(documentViewSelect).
		WhereIf(f.DocType != "", "d.doc_type = ?", f.DocType).
		WhereIf(f.Status != "", "d.status = ?", f.Status).
		WhereIf(f.WarehouseID != "", "(d.warehouse_id = ? OR d.from_warehouse_id = ? OR d.to_warehouse_id = ?)",
			f.WarehouseID, f.WarehouseID, f.WarehouseID).
		WhereIf(f.PartnerID != "", "d.partner_id = ?", f.PartnerID).
		WhereIf(f.SourceDocID != "", "d.source_doc_id = ?", f.SourceDocID).
		WhereIf(f.DateFrom != nil, "d.doc_date >= ?", derefTime(f.DateFrom)).
		WhereIf(f.DateTo != nil, "d.doc_date < ?", derefTime(f.DateTo).AddDate(0, 0, 1)).
		WhereIf(f.Search != "", `d.doc_no ILIKE ? ESCAPE '\'`, containsPattern(f.Search))

	countSQL, countArgs := b.CountSQL()
	var total int
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	b.OrderBy(orderClause(documentSortColumns, f.SortBy, "d.created_at", f.SortDesc) + ", d.doc_no").
		Page(f.Limit, f.Offset)
	query, args := b.SQL()
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentView
	for rows.Next() {
		var (
			s documentScan
			v entity.DocumentView
		)
		targets := append(s.targets(), &v.WarehouseName, &v.FromWarehouseName, &v.ToWarehouseName, &v.PartnerName, &v.SourceDocNo)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, fmt.Errorf("scan document: %w", err)
		}
		v.Document = *s.result()
		list = append(list, &v)
	}
	return list, total, rows.Err()
}

// UpdateHeader reemplaza los campos editables de la cabecera. No toca estado ni numeración.
func (r *DocumentRepo) UpdateHeader(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE documents SET warehouse_id = $2, from_warehouse_id = $3, to_warehouse_id = $4, partner_id = $5,
			doc_date = $6, remark = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.WarehouseID, doc.FromWarehouseID, doc.ToWarehouseID, doc.PartnerID,
		doc.DocDate, doc.Remark, doc.UpdatedAt,
	)
	return mapWriteErr("update document", err)
}

// InsertLines inserta las líneas en un solo batch.
func (r *DocumentRepo) InsertLines(ctx context.Context, docID string, lines []*entity.DocumentLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO document_lines (id, document_id, line_no, product_id, quantity, uom, unit_price, batch_no, expiry_date, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(query, l.ID, docID, l.LineNo, l.ProductID, l.Quantity, l.UOM, l.UnitPrice, l.BatchNo, l.ExpiryDate, l.Remark)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return mapWriteErr("insert document line", err)
		}
	}
	return nil
}

// DeleteLines borra todas las líneas del documento.
func (r *DocumentRepo) DeleteLines(ctx context.Context, docID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, docID); err != nil {
		return fmt.Errorf("delete document lines: %w", err)
	}
	return nil
}

// GetLines líneas ordenadas por line_no con SKU y nombre de producto.
func (r *DocumentRepo) GetLines(ctx context.Context, docID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT l.id, l.document_id, l.line_no, l.product_id, l.quantity, l.uom, l.unit_price, l.batch_no,
			l.expiry_date, l.remark, COALESCE(p.sku, ''), COALESCE(p.name, '')
		FROM document_lines l
		LEFT JOIN products p ON p.id = l.product_id
		WHERE l.document_id = $1
		ORDER BY l.line_no`
	rows, err := r.q.Query(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.LineNo, &l.ProductID, &l.Quantity, &l.UOM, &l.UnitPrice,
			&l.BatchNo, &l.ExpiryDate, &l.Remark, &l.ProductSKU, &l.ProductName); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// TransitionStatus UPDATE condicional sobre el estado actual.
func (r *DocumentRepo) TransitionStatus(ctx context.Context, id string, from []document.Status, to document.Status, at time.Time) (bool, error) {
	fromStr := make([]string, 0, len(from))
	for _, s := range from {
		fromStr = append(fromStr, string(s))
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE documents SET status = $2, updated_at = $3 WHERE id = $1 AND status = ANY($4)`,
		id, string(to), at, fromStr)
	if err != nil {
		return false, fmt.Errorf("transition document: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkApproved Submitted -> Approved con aprobador y fecha.
func (r *DocumentRepo) MarkApproved(ctx context.Context, id, approvedBy string, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE documents SET status = $2, approved_by = $3, approved_at = $4, updated_at = $4
		WHERE id = $1 AND status = $5`,
		id, string(document.StatusApproved), approvedBy, at, string(document.StatusSubmitted))
	if err != nil {
		return false, fmt.Errorf("approve document: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetReceiptStatus actualiza el estado de recepción de una orden de compra.
func (r *DocumentRepo) SetReceiptStatus(ctx context.Context, id string, status document.ReceiptStatus, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE documents SET receipt_status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), at)
	if err != nil {
		return fmt.Errorf("set receipt status: %w", err)
	}
	return nil
}

// ReceivedBySource cantidades recibidas por producto en recepciones aprobadas de la orden.
func (r *DocumentRepo) ReceivedBySource(ctx context.Context, sourceID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT l.product_id, SUM(l.quantity)
		FROM document_lines l
		JOIN documents d ON d.id = l.document_id
		WHERE d.source_doc_id = $1 AND d.doc_type = $2 AND d.status = $3
		GROUP BY l.product_id`
	rows, err := r.q.Query(ctx, query, sourceID, string(document.TypeGRN), string(document.StatusApproved))
	if err != nil {
		return nil, fmt.Errorf("received by source: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			productID string
			qty       decimal.Decimal
		)
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan received: %w", err)
		}
		out[productID] = qty
	}
	return out, rows.Err()
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

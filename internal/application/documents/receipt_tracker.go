package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// ReceiptTracker recepciones vinculadas a órdenes de compra: genera la recepción al aprobar la
// orden, recepciones adicionales por lo pendiente y el avance pedido vs recibido.
// Solo cuentan como recibidas las recepciones aprobadas.
type ReceiptTracker struct {
	docRepo repository.DocumentRepository
	tx      TxRunner
	docNo   *DocNumberGenerator
	log     zerolog.Logger
	now     func() time.Time
}

// NewReceiptTracker construye el rastreador.
func NewReceiptTracker(
	docRepo repository.DocumentRepository,
	tx TxRunner,
	docNo *DocNumberGenerator,
	log zerolog.Logger,
) *ReceiptTracker {
	if docNo == nil {
		docNo = NewDocNumberGenerator()
	}
	return &ReceiptTracker{docRepo: docRepo, tx: tx, docNo: docNo, log: logger.Component(log, "receipts"), now: time.Now}
}

// CreateGRNFromPO crea en la transacción del caller una recepción en Draft que copia todas las
// líneas de la orden y deja la orden en pending.
func (t *ReceiptTracker) CreateGRNFromPO(
	ctx context.Context,
	repos TxRepos,
	po *entity.Document,
	creatorID string,
	at time.Time,
) (*entity.Document, error) {
	lines := make([]*entity.DocumentLine, 0, len(po.Lines))
	for _, l := range po.Lines {
		lines = append(lines, copyLine(l, l.Quantity))
	}
	grn := newGRN(po, creatorID, at, lines)
	if err := persistNew(ctx, repos, t.docNo, grn); err != nil {
		return nil, err
	}
	if err := repos.Documents.SetReceiptStatus(ctx, po.ID, document.ReceiptPending, at); err != nil {
		return nil, fmt.Errorf("estado de recepción: %w", err)
	}
	t.log.Info().Str("po_id", po.ID).Str("grn_id", grn.ID).Str("grn_no", grn.DocNo).Msg("recepción generada desde orden de compra")
	return grn, nil
}

// RefreshPOStatus recalcula el estado de recepción de la orden con las recepciones aprobadas
// visibles en la transacción del caller.
func (t *ReceiptTracker) RefreshPOStatus(ctx context.Context, repos TxRepos, poID string, at time.Time) (document.ReceiptStatus, error) {
	po, err := repos.Documents.GetForUpdate(ctx, poID)
	if err != nil {
		return "", err
	}
	if po == nil || po.DocType != document.TypePO {
		// Recepción huérfana o ligada a otro tipo: no hay orden que actualizar.
		return "", nil
	}
	lines, err := repos.Documents.GetLines(ctx, poID)
	if err != nil {
		return "", err
	}
	received, err := repos.Documents.ReceivedBySource(ctx, poID)
	if err != nil {
		return "", err
	}
	ordered, _ := orderedByProduct(lines)
	_, status := document.ComputeReceipt(ordered, received)
	if err := repos.Documents.SetReceiptStatus(ctx, poID, status, at); err != nil {
		return "", fmt.Errorf("estado de recepción: %w", err)
	}
	return status, nil
}

// CreateAdditionalGRN crea una recepción en Draft solo con lo que falta por recibir de la orden.
func (t *ReceiptTracker) CreateAdditionalGRN(ctx context.Context, poID, creatorID string) (*dto.DocumentResponse, error) {
	var grnID string
	err := t.tx.Run(ctx, func(repos TxRepos) error {
		po, err := repos.Documents.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.DocType != document.TypePO {
			return domain.NewBusinessRule(domain.CodeNotPurchaseOrder, "el documento %s no es una orden de compra", po.DocNo)
		}
		if po.Status != document.StatusApproved {
			return domain.NewBusinessRule(domain.CodeInvalidTransition,
				"la orden %s debe estar aprobada para recibir (estado %s)", po.DocNo, po.Status)
		}
		poLines, err := repos.Documents.GetLines(ctx, poID)
		if err != nil {
			return err
		}
		received, err := repos.Documents.ReceivedBySource(ctx, poID)
		if err != nil {
			return err
		}

		ordered, first := orderedByProduct(poLines)
		var lines []*entity.DocumentLine
		for _, l := range poLines {
			if first[l.ProductID] != l {
				continue
			}
			remaining := ordered[l.ProductID].Sub(received[l.ProductID])
			if remaining.GreaterThan(decimal.Zero) {
				lines = append(lines, copyLine(l, remaining))
			}
		}
		if len(lines) == 0 {
			return domain.NewBusinessRule(domain.CodeNothingToReceive,
				"la orden %s no tiene cantidades pendientes por recibir", po.DocNo)
		}

		grn := newGRN(po, creatorID, t.now(), lines)
		if err := persistNew(ctx, repos, t.docNo, grn); err != nil {
			return err
		}
		grnID = grn.ID
		t.log.Info().Str("po_id", po.ID).Str("grn_id", grn.ID).Str("grn_no", grn.DocNo).
			Int("lines", len(lines)).Msg("recepción adicional generada")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loadView(ctx, t.docRepo, grnID)
}

// GetPOReceiptStatus pedido vs recibido por producto y estado global de la orden.
func (t *ReceiptTracker) GetPOReceiptStatus(ctx context.Context, poID string) (*dto.ReceiptStatusResponse, error) {
	po, err := t.docRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.DocType != document.TypePO {
		return nil, domain.NewBusinessRule(domain.CodeNotPurchaseOrder, "el documento %s no es una orden de compra", po.DocNo)
	}
	lines, err := t.docRepo.GetLines(ctx, poID)
	if err != nil {
		return nil, err
	}
	received, err := t.docRepo.ReceivedBySource(ctx, poID)
	if err != nil {
		return nil, err
	}
	ordered, _ := orderedByProduct(lines)
	receiptLines, status := document.ComputeReceipt(ordered, received)

	out := &dto.ReceiptStatusResponse{
		PurchaseOrderID: po.ID,
		DocNo:           po.DocNo,
		Status:          string(status),
		TotalOrdered:    decimal.Zero,
		TotalReceived:   decimal.Zero,
		TotalRemaining:  decimal.Zero,
		Lines:           make([]dto.ReceiptLineResponse, 0, len(receiptLines)),
		Receipts:        []dto.LinkedReceiptResponse{},
	}
	for _, rl := range receiptLines {
		out.TotalOrdered = out.TotalOrdered.Add(rl.Ordered)
		out.TotalReceived = out.TotalReceived.Add(rl.Received)
		out.TotalRemaining = out.TotalRemaining.Add(rl.Remaining)
		out.Lines = append(out.Lines, dto.ReceiptLineResponse{
			ProductID: rl.ProductID,
			Ordered:   rl.Ordered,
			Received:  rl.Received,
			Remaining: rl.Remaining,
			Status:    string(rl.Status),
		})
	}

	linked, _, err := t.docRepo.List(ctx, repository.DocumentFilter{
		DocType:     string(document.TypeGRN),
		SourceDocID: poID,
		SortBy:      "created_at",
		Limit:       dto.MaxPageLimit,
	})
	if err != nil {
		return nil, err
	}
	for _, g := range linked {
		out.Receipts = append(out.Receipts, dto.LinkedReceiptResponse{ID: g.ID, DocNo: g.DocNo, Status: string(g.Status)})
	}
	return out, nil
}

// orderedByProduct suma lo pedido por producto y recuerda la primera línea de cada uno.
func orderedByProduct(lines []*entity.DocumentLine) (map[string]decimal.Decimal, map[string]*entity.DocumentLine) {
	ordered := make(map[string]decimal.Decimal, len(lines))
	first := make(map[string]*entity.DocumentLine, len(lines))
	for _, l := range lines {
		ordered[l.ProductID] = ordered[l.ProductID].Add(l.Quantity)
		if _, ok := first[l.ProductID]; !ok {
			first[l.ProductID] = l
		}
	}
	return ordered, first
}

func newGRN(po *entity.Document, creatorID string, at time.Time, lines []*entity.DocumentLine) *entity.Document {
	poID := po.ID
	return &entity.Document{
		ID:          uuid.New().String(),
		DocType:     document.TypeGRN,
		Status:      document.StatusDraft,
		WarehouseID: po.WarehouseID,
		PartnerID:   po.PartnerID,
		DocDate:     at,
		SourceDocID: &poID,
		CreatedBy:   creatorID,
		CreatedAt:   at,
		UpdatedAt:   at,
		Lines:       lines,
	}
}

func copyLine(l *entity.DocumentLine, qty decimal.Decimal) *entity.DocumentLine {
	return &entity.DocumentLine{
		ID:         uuid.New().String(),
		ProductID:  l.ProductID,
		Quantity:   qty,
		UOM:        l.UOM,
		UnitPrice:  l.UnitPrice,
		BatchNo:    l.BatchNo,
		ExpiryDate: l.ExpiryDate,
		Remark:     l.Remark,
	}
}

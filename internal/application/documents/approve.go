package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/document"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// ApproveUseCase transición Submitted -> Approved. En una sola transacción bloquea la cabecera,
// contabiliza el kardex, estampa aprobador y fecha y, para órdenes de compra, genera la recepción.
type ApproveUseCase struct {
	docRepo  repository.DocumentRepository
	tx       TxRunner
	poster   *inventory.LedgerPoster
	receipts *ReceiptTracker
	log      zerolog.Logger
	now      func() time.Time
}

// NewApproveUseCase construye el caso de uso.
func NewApproveUseCase(
	docRepo repository.DocumentRepository,
	tx TxRunner,
	poster *inventory.LedgerPoster,
	receipts *ReceiptTracker,
	log zerolog.Logger,
) *ApproveUseCase {
	if poster == nil {
		poster = inventory.NewLedgerPoster(nil)
	}
	return &ApproveUseCase{
		docRepo:  docRepo,
		tx:       tx,
		poster:   poster,
		receipts: receipts,
		log:      logger.Component(log, "approval"),
		now:      time.Now,
	}
}

// Approve aprueba el documento. Si cualquier paso falla no queda nada escrito: ni asientos, ni
// cambio de estado, ni recepción generada.
func (uc *ApproveUseCase) Approve(ctx context.Context, id, approverID string) (*dto.ApproveResponse, error) {
	var (
		entries int
		grnID   string
		docNo   string
	)
	err := uc.tx.Run(ctx, func(repos TxRepos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != document.StatusSubmitted {
			return invalidTransition(doc, document.StatusApproved)
		}
		docNo = doc.DocNo
		lines, err := repos.Documents.GetLines(ctx, id)
		if err != nil {
			return err
		}
		doc.Lines = lines

		at := uc.now()
		posted, err := uc.poster.Post(ctx, repos.Posting(), doc, approverID, at)
		if err != nil {
			return err
		}
		entries = len(posted)

		ok, err := repos.Documents.MarkApproved(ctx, id, approverID, at)
		if err != nil {
			return fmt.Errorf("marcar aprobado: %w", err)
		}
		if !ok {
			return invalidTransition(doc, document.StatusApproved)
		}
		doc.Status = document.StatusApproved

		switch {
		case doc.DocType == document.TypePO:
			grn, err := uc.receipts.CreateGRNFromPO(ctx, repos, doc, approverID, at)
			if err != nil {
				return err
			}
			grnID = grn.ID
		case doc.DocType == document.TypeGRN && !isBlank(doc.SourceDocID):
			if _, err := uc.receipts.RefreshPOStatus(ctx, repos, *doc.SourceDocID, at); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("doc_id", id).Msg("aprobación rechazada")
		return nil, err
	}

	ev := uc.log.Info().
		Str("doc_id", id).
		Str("doc_no", docNo).
		Str("approved_by", approverID).
		Int("entries", entries)
	if grnID != "" {
		ev = ev.Str("generated_grn", grnID)
	}
	ev.Msg("documento aprobado")

	view, err := loadView(ctx, uc.docRepo, id)
	if err != nil {
		return nil, err
	}
	out := &dto.ApproveResponse{Document: *view, LedgerEntries: entries}
	if grnID != "" {
		grn, err := loadView(ctx, uc.docRepo, grnID)
		if err != nil {
			return nil, err
		}
		out.GeneratedGRN = grn
	}
	return out, nil
}

func isBlank(s *string) bool { return s == nil || *s == "" }

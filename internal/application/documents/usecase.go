package documents

import (
	"context"
	"errors"
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

// DocumentUseCase ciclo de vida de documentos: crear, editar en borrador, enviar, anular y consultar.
// La aprobación vive en ApproveUseCase.
type DocumentUseCase struct {
	docRepo repository.DocumentRepository
	tx      TxRunner
	docNo   *DocNumberGenerator
	log     zerolog.Logger
	now     func() time.Time
}

// NewDocumentUseCase construye el caso de uso. docRepo se usa solo para lecturas fuera de transacción.
func NewDocumentUseCase(
	docRepo repository.DocumentRepository,
	tx TxRunner,
	docNo *DocNumberGenerator,
	log zerolog.Logger,
) *DocumentUseCase {
	if docNo == nil {
		docNo = NewDocNumberGenerator()
	}
	return &DocumentUseCase{docRepo: docRepo, tx: tx, docNo: docNo, log: logger.Component(log, "documents"), now: time.Now}
}

// Create registra el documento en Draft con número nuevo y sus líneas numeradas 1..n, todo en una
// sola transacción.
func (uc *DocumentUseCase) Create(ctx context.Context, creatorID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	docType, err := document.ParseDocType(in.DocType)
	if err != nil {
		return nil, domain.NewValidation("doc_type", err.Error())
	}
	if err := validateTransferPair(docType, in.FromWarehouseID, in.ToWarehouseID); err != nil {
		return nil, err
	}
	lines, err := buildLines(docType, in.Lines)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	doc := &entity.Document{
		ID:              uuid.New().String(),
		DocType:         docType,
		Status:          document.StatusDraft,
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		PartnerID:       in.PartnerID,
		DocDate:         now,
		Remark:          in.Remark,
		CreatedBy:       creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
		Lines:           lines,
	}
	if in.DocDate != nil {
		doc.DocDate = *in.DocDate
	}

	err = uc.tx.Run(ctx, func(repos TxRepos) error {
		return persistNew(ctx, repos, uc.docNo, doc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("doc_id", doc.ID).
		Str("doc_no", doc.DocNo).
		Str("doc_type", string(doc.DocType)).
		Int("lines", len(doc.Lines)).
		Msg("documento creado")
	return loadView(ctx, uc.docRepo, doc.ID)
}

// Update reemplaza la cabecera y, si llegan líneas, el conjunto completo de líneas. Solo en Draft.
func (uc *DocumentUseCase) Update(ctx context.Context, id string, in dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	err := uc.tx.Run(ctx, func(repos TxRepos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if !doc.Status.Editable() {
			return domain.NewBusinessRule(domain.CodeNotEditable,
				"el documento %s está en estado %s y no se puede modificar", doc.DocNo, doc.Status)
		}
		if err := validateTransferPair(doc.DocType, in.FromWarehouseID, in.ToWarehouseID); err != nil {
			return err
		}

		doc.WarehouseID = in.WarehouseID
		doc.FromWarehouseID = in.FromWarehouseID
		doc.ToWarehouseID = in.ToWarehouseID
		doc.PartnerID = in.PartnerID
		doc.Remark = in.Remark
		if in.DocDate != nil {
			doc.DocDate = *in.DocDate
		}
		doc.UpdatedAt = uc.now()
		if err := repos.Documents.UpdateHeader(ctx, doc); err != nil {
			return fmt.Errorf("actualizar cabecera: %w", err)
		}

		if in.Lines == nil {
			return nil
		}
		lines, err := buildLines(doc.DocType, *in.Lines)
		if err != nil {
			return err
		}
		if err := repos.Documents.DeleteLines(ctx, doc.ID); err != nil {
			return fmt.Errorf("borrar líneas: %w", err)
		}
		if err := insertLines(ctx, repos, doc.ID, lines); err != nil {
			return err
		}
		uc.log.Info().Str("doc_id", doc.ID).Str("doc_no", doc.DocNo).Int("lines", len(lines)).Msg("líneas reemplazadas")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loadView(ctx, uc.docRepo, id)
}

// Submit Draft -> Submitted. Un documento sin líneas no se puede enviar.
func (uc *DocumentUseCase) Submit(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	err := uc.tx.Run(ctx, func(repos TxRepos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if !doc.Status.CanTransitionTo(document.StatusSubmitted) {
			return invalidTransition(doc, document.StatusSubmitted)
		}
		lines, err := repos.Documents.GetLines(ctx, id)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.NewBusinessRule(domain.CodeEmptyDocument, "el documento %s no tiene líneas", doc.DocNo)
		}
		return transition(ctx, repos, doc, document.StatusSubmitted, uc.now())
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("doc_id", id).Str("status", string(document.StatusSubmitted)).Msg("documento enviado")
	return loadView(ctx, uc.docRepo, id)
}

// Cancel Draft|Submitted -> Cancelled. Los aprobados no se anulan: la reversión es otro documento.
func (uc *DocumentUseCase) Cancel(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	err := uc.tx.Run(ctx, func(repos TxRepos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if !doc.Status.CanTransitionTo(document.StatusCancelled) {
			return invalidTransition(doc, document.StatusCancelled)
		}
		return transition(ctx, repos, doc, document.StatusCancelled, uc.now())
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("doc_id", id).Str("status", string(document.StatusCancelled)).Msg("documento anulado")
	return loadView(ctx, uc.docRepo, id)
}

// Get documento con líneas y nombres de datos maestros.
func (uc *DocumentUseCase) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	return loadView(ctx, uc.docRepo, id)
}

// List listado paginado sin líneas.
func (uc *DocumentUseCase) List(ctx context.Context, q dto.ListDocumentsQuery) (*dto.DocumentListResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	q.DefaultPage()
	f := repository.DocumentFilter{
		DocType:     q.DocType,
		Status:      q.Status,
		WarehouseID: q.WarehouseID,
		PartnerID:   q.PartnerID,
		SourceDocID: q.SourceDocID,
		Search:      q.Search,
		SortBy:      q.SortBy,
		SortDesc:    q.SortDir != "asc",
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.DateFrom != "" {
		from, err := time.Parse(time.DateOnly, q.DateFrom)
		if err != nil {
			return nil, domain.NewValidation("date_from", "fecha inválida")
		}
		f.DateFrom = &from
	}
	if q.DateTo != "" {
		to, err := time.Parse(time.DateOnly, q.DateTo)
		if err != nil {
			return nil, domain.NewValidation("date_to", "fecha inválida")
		}
		f.DateTo = &to
	}

	views, total, err := uc.docRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toDocumentResponse(v))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// persistNew asigna número, inserta cabecera y líneas con los repos de la transacción del caller.
func persistNew(ctx context.Context, repos TxRepos, gen *DocNumberGenerator, doc *entity.Document) error {
	docNo, err := gen.Next(ctx, repos.Sequences, doc.DocType, doc.CreatedAt)
	if err != nil {
		return err
	}
	doc.DocNo = docNo
	if err := repos.Documents.Create(ctx, doc); err != nil {
		return fmt.Errorf("crear documento %s: %w", docNo, err)
	}
	return insertLines(ctx, repos, doc.ID, doc.Lines)
}

func insertLines(ctx context.Context, repos TxRepos, docID string, lines []*entity.DocumentLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i, l := range lines {
		l.DocumentID = docID
		l.LineNo = i + 1
	}
	if err := repos.Documents.InsertLines(ctx, docID, lines); err != nil {
		return fmt.Errorf("insertar líneas: %w", err)
	}
	return nil
}

func transition(ctx context.Context, repos TxRepos, doc *entity.Document, to document.Status, at time.Time) error {
	ok, err := repos.Documents.TransitionStatus(ctx, doc.ID, document.SourcesFor(to), to, at)
	if err != nil {
		return fmt.Errorf("cambiar estado: %w", err)
	}
	if !ok {
		return invalidTransition(doc, to)
	}
	doc.Status = to
	return nil
}

func invalidTransition(doc *entity.Document, to document.Status) error {
	return domain.NewBusinessRule(domain.CodeInvalidTransition,
		"el documento %s no puede pasar de %s a %s", doc.DocNo, doc.Status, to)
}

func loadView(ctx context.Context, repo repository.DocumentRepository, id string) (*dto.DocumentResponse, error) {
	v, err := repo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	out := toDocumentResponse(v)
	return &out, nil
}

func validateTransferPair(docType document.DocType, from, to *string) error {
	if docType.Rule().Warehouses != document.WarehousePair {
		return nil
	}
	if from != nil && to != nil && *from != "" && *from == *to {
		return domain.NewValidation("to_warehouse_id", "debe ser distinta de la bodega origen")
	}
	return nil
}

// buildLines valida y convierte las líneas del request. LineNo sigue el orden de llegada.
func buildLines(docType document.DocType, in []dto.DocumentLineRequest) ([]*entity.DocumentLine, error) {
	lines := make([]*entity.DocumentLine, 0, len(in))
	for i, l := range in {
		if err := dto.Validate(l); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				return nil, domain.NewValidation(fmt.Sprintf("lines[%d].%s", i, ve.Field), ve.Message)
			}
			return nil, err
		}
		field := fmt.Sprintf("lines[%d].quantity", i)
		if l.Quantity.IsZero() {
			return nil, domain.NewValidation(field, "no puede ser cero")
		}
		if l.Quantity.IsNegative() && !docType.AllowsNegativeLineQuantity() {
			return nil, domain.NewValidation(field, "debe ser positiva")
		}
		if l.UnitPrice != nil && l.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.NewValidation(fmt.Sprintf("lines[%d].unit_price", i), "no puede ser negativo")
		}
		lines = append(lines, &entity.DocumentLine{
			ID:         uuid.New().String(),
			LineNo:     i + 1,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UOM:        l.UOM,
			UnitPrice:  l.UnitPrice,
			BatchNo:    l.BatchNo,
			ExpiryDate: l.ExpiryDate,
			Remark:     l.Remark,
		})
	}
	return lines, nil
}

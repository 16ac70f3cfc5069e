package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain"
)

// documentService operaciones de ciclo de vida que expone el handler.
type documentService interface {
	Create(ctx context.Context, creatorID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	Update(ctx context.Context, id string, in dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	Submit(ctx context.Context, id string) (*dto.DocumentResponse, error)
	Cancel(ctx context.Context, id string) (*dto.DocumentResponse, error)
	Get(ctx context.Context, id string) (*dto.DocumentResponse, error)
	List(ctx context.Context, q dto.ListDocumentsQuery) (*dto.DocumentListResponse, error)
}

type approvalService interface {
	Approve(ctx context.Context, id, approverID string) (*dto.ApproveResponse, error)
}

type receiptService interface {
	CreateAdditionalGRN(ctx context.Context, poID, creatorID string) (*dto.DocumentResponse, error)
	GetPOReceiptStatus(ctx context.Context, poID string) (*dto.ReceiptStatusResponse, error)
}

// DocumentHandler maneja las peticiones HTTP de documentos (protegido).
type DocumentHandler struct {
	docs     documentService
	approval approvalService
	receipts receiptService
	errs     errorWriter
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(docs documentService, approval approvalService, receipts receiptService, errs errorWriter) *DocumentHandler {
	return &DocumentHandler{docs: docs, approval: approval, receipts: receipts, errs: errs}
}

// Create godoc
// @Summary      Crear documento en borrador
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "doc_type, bodegas según el tipo, líneas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.docs.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar documento (solo Draft)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del documento"
// @Param        body  body  dto.UpdateDocumentRequest  true  "cabecera y, opcionalmente, líneas completas"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.docs.Update(c.Context(), id, in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar documento a aprobación
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/submit [post]
func (h *DocumentHandler) Submit(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.docs.Submit(c.Context(), id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar documento y contabilizar el kardex
// @Description  Todo o nada: si una línea no tiene stock no se escribe ningún asiento.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.ApproveResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/approve [post]
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.approval.Approve(c.Context(), id, GetUserID(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular documento (Draft o Submitted)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.docs.Cancel(c.Context(), id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener documento con líneas
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.docs.Get(c.Context(), id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar documentos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        doc_type   query  string  false  "PO|GRN|PR|SO|DO|TR|STK|ADJ|RM"
// @Param        status     query  string  false  "Draft|Submitted|Approved|Cancelled"
// @Param        sort_by    query  string  false  "doc_no|doc_date|created_at|status"
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var q dto.ListDocumentsQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.docs.List(c.Context(), q)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// CreateAdditionalGRN godoc
// @Summary      Crear recepción adicional con lo pendiente de la orden de compra
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden de compra"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/receipts [post]
func (h *DocumentHandler) CreateAdditionalGRN(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.receipts.CreateAdditionalGRN(c.Context(), id, GetUserID(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetReceiptStatus godoc
// @Summary      Estado de recepción de una orden de compra
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden de compra"
// @Success      200  {object}  dto.ReceiptStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/receipt-status [get]
func (h *DocumentHandler) GetReceiptStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.receipts.GetPOReceiptStatus(c.Context(), id)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// pathID id de documento de la ruta. Un id que no es UUID no existe.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("documento %q: %w", id, domain.ErrNotFound)
	}
	return id, nil
}

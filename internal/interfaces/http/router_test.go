package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain"
	apphttp "github.com/jhoicas/erp-ledger/internal/interfaces/http"
)

// stubDocs implementa los servicios del router devolviendo err si está definido.
type stubDocs struct {
	err        error
	creatorID  string
	grnCreator string
	approver   string
	listQuery  dto.ListDocumentsQuery
	onHandQ    dto.OnHandQuery
}

func (s *stubDocs) doc(id string) (*dto.DocumentResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DocumentResponse{ID: id, DocType: "DO", Status: "Draft"}, nil
}

func (s *stubDocs) Create(_ context.Context, creatorID string, _ dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	s.creatorID = creatorID
	return s.doc("nuevo")
}
func (s *stubDocs) Update(_ context.Context, id string, _ dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	return s.doc(id)
}
func (s *stubDocs) Submit(_ context.Context, id string) (*dto.DocumentResponse, error) { return s.doc(id) }
func (s *stubDocs) Cancel(_ context.Context, id string) (*dto.DocumentResponse, error) { return s.doc(id) }
func (s *stubDocs) Get(_ context.Context, id string) (*dto.DocumentResponse, error)    { return s.doc(id) }
func (s *stubDocs) List(_ context.Context, q dto.ListDocumentsQuery) (*dto.DocumentListResponse, error) {
	s.listQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DocumentListResponse{Items: []dto.DocumentResponse{}}, nil
}
func (s *stubDocs) Approve(_ context.Context, id, approverID string) (*dto.ApproveResponse, error) {
	s.approver = approverID
	d, err := s.doc(id)
	if err != nil {
		return nil, err
	}
	return &dto.ApproveResponse{Document: *d, LedgerEntries: 2}, nil
}
func (s *stubDocs) CreateAdditionalGRN(_ context.Context, poID, creatorID string) (*dto.DocumentResponse, error) {
	s.grnCreator = creatorID
	return s.doc(poID + "-grn")
}
func (s *stubDocs) GetPOReceiptStatus(_ context.Context, poID string) (*dto.ReceiptStatusResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ReceiptStatusResponse{PurchaseOrderID: poID, Status: "partial"}, nil
}
func (s *stubDocs) GetOnHand(_ context.Context, q dto.OnHandQuery) (*dto.OnHandListResponse, error) {
	s.onHandQ = q
	return &dto.OnHandListResponse{Items: []dto.OnHandDTO{}}, s.err
}
func (s *stubDocs) GetLedger(_ context.Context, _ dto.LedgerQuery) (*dto.LedgerListResponse, error) {
	return &dto.LedgerListResponse{}, s.err
}
func (s *stubDocs) GetLowStockAlerts(_ context.Context, _ dto.LowStockQuery) ([]dto.LowStockAlertDTO, error) {
	return []dto.LowStockAlertDTO{{Level: "low"}}, s.err
}

const docID = "5d9c3e4a-8b1f-4c7a-9e2d-1a6b0f3c7d21"

func newRouterApp(stub *stubDocs) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Documents: stub,
		Approval:  stub,
		Receipts:  stub,
		Views:     stub,
		JWTSecret: testJWTSecret,
		Log:       zerolog.Nop(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	return send(t, app, method, path, tokenForRole(t, role), body)
}

func TestRouter_CreaConUsuarioDelToken(t *testing.T) {
	stub := &stubDocs{}
	resp, _ := call(t, newRouterApp(stub), http.MethodPost, "/api/documents", "bodeguero", `{"doc_type":"DO"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, testUserID, stub.creatorID)
}

func TestRouter_CuerpoInvalido(t *testing.T) {
	resp, e := call(t, newRouterApp(&stubDocs{}), http.MethodPost, "/api/documents", "admin", `{"doc_type":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", e.Code)
}

func TestRouter_IDNoUUIDEsNoEncontrado(t *testing.T) {
	app := newRouterApp(&stubDocs{})
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/documents/abc"},
		{http.MethodPut, "/api/documents/abc"},
		{http.MethodPost, "/api/documents/abc/submit"},
		{http.MethodPost, "/api/documents/abc/approve"},
		{http.MethodPost, "/api/documents/abc/cancel"},
		{http.MethodPost, "/api/documents/abc/receipts"},
		{http.MethodGet, "/api/documents/abc/receipt-status"},
	}
	for _, r := range routes {
		resp, e := call(t, app, r.method, r.path, "admin", `{}`)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", r.method, r.path)
		assert.Equal(t, "NOT_FOUND", e.Code, "%s %s", r.method, r.path)
	}
}

func TestRouter_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{"no encontrado", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND", ""},
		{"validación", domain.NewValidation("lines[0].quantity", "debe ser distinta de cero"), http.StatusBadRequest, "VALIDATION", "lines[0].quantity"},
		{"regla de negocio", domain.NewBusinessRule(domain.CodeNotEditable, "solo borradores"), http.StatusUnprocessableEntity, domain.CodeNotEditable, ""},
		{"stock insuficiente", &domain.InsufficientStockError{ProductName: "A-001", Available: decimal.NewFromInt(10), Required: decimal.NewFromInt(50)},
			http.StatusConflict, "INSUFFICIENT_STOCK", ""},
		{"conflicto", domain.ErrConflict, http.StatusConflict, "CONFLICT", ""},
		{"interno", assert.AnError, http.StatusInternalServerError, "INTERNAL", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, e := call(t, newRouterApp(&stubDocs{err: tc.err}), http.MethodPost, "/api/documents/"+docID+"/submit", "admin", "")
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, e.Code)
			assert.Equal(t, tc.field, e.Field)
		})
	}
}

func TestRouter_ErrorInternoNoExponeCausa(t *testing.T) {
	resp, e := call(t, newRouterApp(&stubDocs{err: assert.AnError}), http.MethodGet, "/api/documents/"+docID, "admin", "")
	defer resp.Body.Close()
	assert.NotContains(t, e.Message, assert.AnError.Error())
}

func TestRouter_QueryDeListadoEInventario(t *testing.T) {
	stub := &stubDocs{}
	app := newRouterApp(stub)

	resp, _ := call(t, app, http.MethodGet, "/api/documents?doc_type=PO&status=Approved&limit=5&sort_by=doc_no&sort_dir=asc", "admin", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PO", stub.listQuery.DocType)
	assert.Equal(t, "Approved", stub.listQuery.Status)
	assert.Equal(t, 5, stub.listQuery.Limit)
	assert.Equal(t, "asc", stub.listQuery.SortDir)

	resp, _ = call(t, app, http.MethodGet, "/api/inventory/on-hand?include_zero=true", "bodeguero", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, stub.onHandQ.IncludeZero)

	resp, _ = call(t, app, http.MethodGet, "/api/inventory/low-stock", "bodeguero", "")
	defer resp.Body.Close()
	var body struct {
		Total  int                    `json:"total"`
		Alerts []dto.LowStockAlertDTO `json:"alerts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "low", body.Alerts[0].Level)
}


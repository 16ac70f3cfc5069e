package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	pkgjwt "github.com/jhoicas/erp-ledger/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "erp-ledger-test"
	testExpMin    = 60
)

// tokenForRole genera el header Authorization para el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// send ejecuta la petición con el header Authorization dado (vacío = sin header) y decodifica
// el cuerpo de error si lo hay.
func send(t *testing.T, app *fiber.App, method, path, authHeader, body string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var e dto.ErrorResponse
	if resp.StatusCode >= 400 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	}
	return resp, e
}

func TestAprobar_RolesAprobadores(t *testing.T) {
	cases := []struct {
		role   string
		status int
		code   string
	}{
		{"admin", http.StatusOK, ""},
		{"supervisor", http.StatusOK, ""},
		{"bodeguero", http.StatusForbidden, "FORBIDDEN"},
		{"vendedor", http.StatusForbidden, "FORBIDDEN"},
		{"", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run("rol="+tc.role, func(t *testing.T) {
			stub := &stubDocs{}
			resp, e := call(t, newRouterApp(stub), http.MethodPost, "/api/documents/"+docID+"/approve", tc.role, "")
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, e.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, testUserID, stub.approver, "el aprobador es el usuario del token")
			} else {
				assert.Empty(t, stub.approver, "la aprobación no llega al caso de uso")
			}
		})
	}
}

func TestAprobar_RolNoAprobadorPuedeOperarElResto(t *testing.T) {
	app := newRouterApp(&stubDocs{})
	for _, path := range []string{"/submit", "/cancel"} {
		resp, _ := call(t, app, http.MethodPost, "/api/documents/"+docID+path, "bodeguero", "")
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestAuth_TokenAusenteOInvalido(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin", testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	headers := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Token abc", "INVALID_TOKEN"},
		{"bearer vacío", "Bearer ", "MISSING_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"otra firma", "Bearer " + foreign, "INVALID_TOKEN"},
	}
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/documents/" + docID + "/approve"},
		{http.MethodGet, "/api/documents"},
		{http.MethodGet, "/api/inventory/ledger"},
	}
	for _, h := range headers {
		t.Run(h.name, func(t *testing.T) {
			stub := &stubDocs{}
			app := newRouterApp(stub)
			for _, r := range routes {
				resp, e := send(t, app, r.method, r.path, h.header, "")
				resp.Body.Close()
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, r.path)
				assert.Equal(t, h.code, e.Code, r.path)
			}
			assert.Empty(t, stub.approver)
		})
	}
}

func TestAuth_UsuarioDelTokenCreaRecepcion(t *testing.T) {
	stub := &stubDocs{}
	resp, _ := call(t, newRouterApp(stub), http.MethodPost, "/api/documents/"+docID+"/receipts", "bodeguero", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, testUserID, stub.grnCreator)
}

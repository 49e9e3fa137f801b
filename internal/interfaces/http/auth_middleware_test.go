package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/telas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/telas-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "telas-api-test"
	testExpMin    = 60
)

// tokenForRole encabezado Authorization con un JWT del rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out.Code
}

// Matriz de permisos del libro: bodeguero escribe recepciones y despachos,
// solo admin toca umbrales, vendedor solo lee.
func TestRBAC_RutasDelLibro(t *testing.T) {
	threshold := map[string]any{"quantity": "40"}
	cases := []struct {
		method  string
		path    string
		body    any
		allowed []string
		denied  []string
	}{
		{http.MethodPost, "/api/receipts", receiptBody(true, "10"), []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero}, []string{pkgjwt.RoleVendedor}},
		{http.MethodPost, "/api/shipments", map[string]any{"order_id": "pedido-1"}, []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero}, []string{pkgjwt.RoleVendedor}},
		{http.MethodPut, "/api/stock/thresholds/lino", threshold, []string{pkgjwt.RoleAdmin}, []string{pkgjwt.RoleBodeguero, pkgjwt.RoleVendedor}},
		{http.MethodDelete, "/api/stock/thresholds/lino", nil, []string{pkgjwt.RoleAdmin}, []string{pkgjwt.RoleBodeguero, pkgjwt.RoleVendedor}},
		{http.MethodGet, "/api/stock/summary", nil, []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero, pkgjwt.RoleVendedor}, nil},
		{http.MethodGet, "/api/stock/thresholds", nil, []string{pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero, pkgjwt.RoleVendedor}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			f := newAPI(t)
			f.seedPurchaseLine("lc-1", 100)
			for _, role := range tc.denied {
				resp, body := f.do(t, tc.method, tc.path, role, tc.body)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode, role)
				assert.Equal(t, "FORBIDDEN", errorCode(t, body), role)
			}
			for _, role := range tc.allowed {
				resp, _ := f.do(t, tc.method, tc.path, role, tc.body)
				assert.NotEqual(t, http.StatusForbidden, resp.StatusCode, role)
				assert.NotEqual(t, http.StatusUnauthorized, resp.StatusCode, role)
			}
		})
	}
}

func TestRBAC_VendedorNoModificaElLibro(t *testing.T) {
	f := newAPI(t)
	f.seedPurchaseLine("lc-1", 100)

	resp, _ := f.do(t, http.MethodPost, "/api/receipts", pkgjwt.RoleVendedor, receiptBody(true, "10"))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/stock/summary", pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(body, &rows))
	for _, r := range rows {
		assert.Equal(t, "0", r["total_stock"], "la recepción rechazada no crea rollos")
	}
}

func TestAuthMiddleware_TokensRechazados(t *testing.T) {
	noRole, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", testIssuer, testExpMin)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, pkgjwt.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("otro-secret", testUserID, testCompanyID, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin encabezado", "", "MISSING_TOKEN"},
		{"sin Bearer", "Basic abc", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"firmado con otro secret", "Bearer " + foreign, "INVALID_TOKEN"},
		{"sin rol en ruta de escritura", "Bearer " + noRole, "MISSING_ROLE"},
	}
	f := newAPI(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/shipments", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := f.app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var out struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tc.code, out.Code)
		})
	}
}

func TestAuthMiddleware_ClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleBodeguero))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, pkgjwt.RoleBodeguero, body["role"])
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-form/internal/application/auth"
	"github.com/jhoicas/invoice-form/internal/application/billing"
	"github.com/jhoicas/invoice-form/internal/application/dto"
	"github.com/jhoicas/invoice-form/internal/application/form"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/internal/infrastructure/excel"
	"github.com/jhoicas/invoice-form/internal/infrastructure/memory"
	"github.com/jhoicas/invoice-form/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/invoice-form/internal/interfaces/http"
	"github.com/jhoicas/invoice-form/pkg/logger"
)

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	log := logger.Nop()
	invoiceRepo := memory.NewInvoiceRepository()
	invoiceUC := billing.NewInvoiceUseCase(memory.NewTxRunner(invoiceRepo), invoiceRepo, log)
	exportUC := billing.NewExportUseCase(invoiceRepo, pdf.NewMarotoPDFGenerator(), excel.NewExcelizeGenerator(),
		entity.Company{Name: "Acme"}, log)
	authUC := auth.NewAuthUseCase(memory.NewUserRepository(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, log)
	require.NoError(t, authUC.EnsureDefaultUser(context.Background(), "admin", "clave123"))

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		InvoiceUC: invoiceUC,
		ExportUC:  exportUC,
		FormUC:    form.NewSessionUseCase(invoiceUC, time.Hour, log),
		JWTSecret: testJWTSecret,
	})

	c := &apiClient{t: t, app: app}
	var login dto.LoginResponse
	resp := c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "clave123"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c.token = login.Token
	return c
}

// do envía body como JSON y decodifica la respuesta en out (si no es nil).
func (c *apiClient) do(method, path string, body, out any) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (c *apiClient) input(formID, rowID, field, value string) dto.FormResponse {
	c.t.Helper()
	var out dto.FormResponse
	resp := c.do(http.MethodPatch, fmt.Sprintf("/api/forms/%s/rows/%s", formID, rowID),
		dto.FieldInputRequest{Field: field, Value: value}, &out)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	return out
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	c := newAPI(t)
	c.token = ""
	var e dto.ErrorResponse
	resp := c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "mala"}, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", e.Code)

	resp = c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin"}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	c := newAPI(t)
	c.token = ""
	resp := c.do(http.MethodPost, "/api/forms", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Flujo completo: abrir, teclear, agregar/quitar filas, enviar y exportar.
func TestFormFlow_EnviarYExportar(t *testing.T) {
	c := newAPI(t)

	var f dto.FormResponse
	resp := c.do(http.MethodPost, "/api/forms", nil, &f)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, f.Rows, 1)
	assert.Equal(t, "1", f.Rows[0].Quantity)
	assert.Equal(t, "0.00", f.Totals.Total)
	first := f.Rows[0].ID

	c.input(f.ID, first, "name", "Teclado")
	c.input(f.ID, first, "quantity", "2")
	state := c.input(f.ID, first, "price", "10")
	assert.Equal(t, "20.00", state.Rows[0].Subtotal)

	resp = c.do(http.MethodPost, "/api/forms/"+f.ID+"/rows", nil, &state)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, state.Rows, 2)
	second := state.Rows[1].ID
	state = c.input(f.ID, second, "price", "abc")
	assert.Equal(t, "0.00", state.Rows[1].Subtotal, "texto no numérico cuenta como cero")

	resp = c.do(http.MethodDelete, "/api/forms/"+f.ID+"/rows/"+second, nil, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, state.Rows, 1)

	resp = c.do(http.MethodPatch, "/api/forms/"+f.ID+"/rates", dto.RateInputRequest{Field: "tax_rate", Value: "10"}, &state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "22.00", state.Totals.Total)

	var inv dto.InvoiceResponse
	resp = c.do(http.MethodPost, "/api/forms/"+f.ID+"/submit", dto.SubmitFormRequest{ClientName: "Cliente"}, &inv)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), inv.Number)
	assert.Equal(t, "22.00", inv.Totals.Total)

	resp = c.do(http.MethodGet, "/api/forms/"+f.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "la sesión se cierra al enviar")

	resp = c.do(http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_1.pdf")

	resp = c.do(http.MethodGet, "/api/invoices/"+inv.ID+"/excel", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/vnd.openxmlformats"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_1.xlsx")
}

func TestForm_Errores(t *testing.T) {
	c := newAPI(t)
	var f dto.FormResponse
	c.do(http.MethodPost, "/api/forms", nil, &f)

	var e dto.ErrorResponse
	resp := c.do(http.MethodPatch, "/api/forms/"+f.ID+"/rows/"+f.Rows[0].ID, dto.FieldInputRequest{Field: "color"}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)

	var same dto.FormResponse
	resp = c.do(http.MethodDelete, "/api/forms/"+f.ID+"/rows/no-existe", nil, &same)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, same.Rows, 1)

	resp = c.do(http.MethodPost, "/api/forms/"+f.ID+"/submit", dto.SubmitFormRequest{}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "client_name es requerido")

	resp = c.do(http.MethodDelete, "/api/forms/"+f.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = c.do(http.MethodGet, "/api/forms/"+f.ID, nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvoices_CRUDYEdicion(t *testing.T) {
	c := newAPI(t)

	raw := `{"client_name":"Cliente","tax_rate":"10","discount_rate":0,
		"items":[{"name":"A","quantity":2,"price":"5"},{"name":"B","quantity":"1","price":2.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv dto.InvoiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inv))
	assert.Equal(t, "13.75", inv.Totals.Total)

	var list dto.InvoiceListResponse
	resp = c.do(http.MethodGet, "/api/invoices?limit=10", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, 10, list.Page.Limit)

	var e dto.ErrorResponse
	resp = c.do(http.MethodGet, "/api/invoices?limit=500", nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Edición a través del formulario.
	var f dto.FormResponse
	resp = c.do(http.MethodPost, "/api/invoices/"+inv.ID+"/form", nil, &f)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, inv.ID, f.InvoiceID)
	require.Len(t, f.Rows, 2)
	c.input(f.ID, f.Rows[1].ID, "quantity", "3")

	var updated dto.InvoiceResponse
	resp = c.do(http.MethodPost, "/api/forms/"+f.ID+"/submit", dto.SubmitFormRequest{ClientName: "Cliente"}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, inv.ID, updated.ID)
	assert.Equal(t, "19.25", updated.Totals.Total)

	resp = c.do(http.MethodPut, "/api/invoices/"+inv.ID, dto.SaveInvoiceRequest{ClientName: ""}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodDelete, "/api/invoices/"+inv.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = c.do(http.MethodGet, "/api/invoices/"+inv.ID, nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = c.do(http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogin_LimiteDeIntentos(t *testing.T) {
	c := newAPI(t) // ya consumió un intento
	c.token = ""
	var last *http.Response
	for i := 0; i < 10; i++ {
		last = c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "mala"}, nil)
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)
}

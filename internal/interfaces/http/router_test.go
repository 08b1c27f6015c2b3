package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcontainer "github.com/jhoicas/swarna-khata-api/internal/app"
	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	apphttp "github.com/jhoicas/swarna-khata-api/internal/interfaces/http"
	"github.com/jhoicas/swarna-khata-api/pkg/config"
)

// otpInbox guarda el último código enviado a cada teléfono.
type otpInbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (b *otpInbox) SendOTP(_ context.Context, phone, code string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codes[phone] = code
	return nil
}

func (b *otpInbox) last(phone string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[phone]
}

type apiHarness struct {
	t     *testing.T
	app   *fiber.App
	inbox *otpInbox
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()
	inbox := &otpInbox{codes: map[string]string{}}
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testJWTSecret, Expiration: testExpMin, Issuer: testIssuer}}
	c := appcontainer.NewInMemory(cfg, zerolog.Nop(), inbox)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, c.RouterDeps(testJWTSecret))
	return &apiHarness{t: t, app: app, inbox: inbox}
}

// call lanza la petición y devuelve status y cuerpo crudo.
func (h *apiHarness) call(method, path, token string, body any) (int, []byte) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, out
}

func (h *apiHarness) decode(raw []byte, v any) {
	h.t.Helper()
	require.NoError(h.t, json.Unmarshal(raw, v), string(raw))
}

// login recorre OTP → verify y devuelve el token sin tienda.
func (h *apiHarness) login(phone string) string {
	h.t.Helper()
	status, raw := h.call(http.MethodPost, "/api/auth/otp", "", dto.RequestOTPRequest{Phone: phone})
	require.Equal(h.t, http.StatusOK, status, string(raw))
	var otp dto.RequestOTPResponse
	h.decode(raw, &otp)

	status, raw = h.call(http.MethodPost, "/api/auth/verify", "", dto.VerifyOTPRequest{Phone: phone, Code: h.inbox.last(otp.Phone), Name: "Ravi"})
	require.Equal(h.t, http.StatusOK, status, string(raw))
	var login dto.LoginResponse
	h.decode(raw, &login)
	require.NotEmpty(h.t, login.Token)
	return login.Token
}

// shopToken crea la tienda y devuelve el token reemitido con shop_id.
func (h *apiHarness) shopToken() string {
	h.t.Helper()
	token := h.login("9876543210")
	status, raw := h.call(http.MethodPost, "/api/shop", token, dto.ShopRequest{Name: "Lakshmi Jewellers", Phone: "+919876543210"})
	require.Equal(h.t, http.StatusCreated, status, string(raw))
	var created dto.CreateShopResponse
	h.decode(raw, &created)
	require.NotEmpty(h.t, created.Token)
	return created.Token
}

func TestAPI_OTPInvalido_Retorna401(t *testing.T) {
	h := newHarness(t)
	status, _ := h.call(http.MethodPost, "/api/auth/otp", "", dto.RequestOTPRequest{Phone: "9876543210"})
	require.Equal(t, http.StatusOK, status)

	status, raw := h.call(http.MethodPost, "/api/auth/verify", "", dto.VerifyOTPRequest{Phone: "9876543210", Code: "000000x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(raw), "OTP_INVALID")
}

func TestAPI_SinTiendaNoAccedeAlCatalogo(t *testing.T) {
	h := newHarness(t)
	token := h.login("9876543210")

	status, raw := h.call(http.MethodGet, "/api/items", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(raw), "SHOP_REQUIRED")

	status, _ = h.call(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_BodyInvalido_Retorna400(t *testing.T) {
	h := newHarness(t)
	token := h.shopToken()

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader([]byte("{no-json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_BODY")
}

func TestAPI_FacturaDeExtremoAExtremo(t *testing.T) {
	h := newHarness(t)
	token := h.shopToken()

	// Cliente y artículo
	status, raw := h.call(http.MethodPost, "/api/customers", token, map[string]any{
		"name": "Priya Sharma", "phone": "+919812345678", "credit_limit": "100000",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var customer dto.CustomerResponse
	h.decode(raw, &customer)

	status, raw = h.call(http.MethodPost, "/api/items", token, map[string]any{
		"displayName": "Anillo oro 22K", "jewelryCode": "R-001", "itemType": "Gold",
		"grossWeight": "10.5", "netWeight": "10", "purity": "22K",
		"metalRateOn": "Net Weight", "makingChargesType": "PER_GRAM",
		"metalRate": "6000", "makingCharges": "300", "taxRate": "3", "stock": "2",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var item dto.ItemResponse
	h.decode(raw, &item)
	assert.True(t, item.SuggestedPrice.IsPositive())

	// Factura a crédito
	status, raw = h.call(http.MethodPost, "/api/invoices", token, map[string]any{
		"customer_id": customer.ID,
		"items":       []map[string]any{{"item_id": item.ID, "quantity": "1", "price": "63000"}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var inv dto.InvoiceResponse
	h.decode(raw, &inv)
	assert.Equal(t, "UNPAID", inv.PaymentStatus)
	require.Len(t, inv.Items, 1)

	status, raw = h.call(http.MethodGet, "/api/items/"+item.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	h.decode(raw, &item)
	assert.Equal(t, "1", item.Stock.String(), "la venta descuenta una unidad")

	status, raw = h.call(http.MethodGet, "/api/customers/"+customer.ID+"/credit", token, nil)
	require.Equal(t, http.StatusOK, status)
	var credit dto.CreditSummaryResponse
	h.decode(raw, &credit)
	assert.True(t, credit.CurrentBalance.Equal(inv.TotalAmount))
	assert.Equal(t, 1, credit.OpenInvoiceCount)

	// Pago parcial
	status, raw = h.call(http.MethodPost, "/api/invoices/"+inv.ID+"/payments", token, map[string]any{
		"amount": "10000", "method": "Cash",
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	h.decode(raw, &inv)
	assert.Equal(t, "PARTIAL", inv.PaymentStatus)

	status, raw = h.call(http.MethodGet, "/api/invoices?status=PARTIAL", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.InvoiceListResponse
	h.decode(raw, &list)
	assert.Equal(t, 1, list.Page.Total)

	status, raw = h.call(http.MethodGet, "/api/invoices/"+inv.ID+"/audit", token, nil)
	require.Equal(t, http.StatusOK, status)
	var audit dto.AuditResponse
	h.decode(raw, &audit)
	assert.True(t, audit.Consistent, audit.Issues)

	// Sin stock suficiente
	status, raw = h.call(http.MethodPost, "/api/invoices/"+inv.ID+"/items", token, map[string]any{
		"item_id": item.ID, "quantity": "5",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK")

	// Papelera
	status, _ = h.call(http.MethodDelete, "/api/invoices/"+inv.ID, token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, raw = h.call(http.MethodGet, "/api/recycle-bin?type=invoice", token, nil)
	require.Equal(t, http.StatusOK, status)
	var bin []dto.RecycledEntryResponse
	h.decode(raw, &bin)
	require.Len(t, bin, 1)
	assert.Equal(t, 30, bin[0].DaysRemaining)

	status, raw = h.call(http.MethodPost, "/api/recycle-bin/"+bin[0].ID+"/restore", token, nil)
	require.Equal(t, http.StatusNoContent, status, string(raw))

	status, _ = h.call(http.MethodGet, "/api/invoices/"+inv.ID, token, nil)
	assert.Equal(t, http.StatusOK, status)

	// Notificaciones generadas por la factura y el pago
	status, raw = h.call(http.MethodGet, "/api/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, status)
	var count dto.CountResponse
	h.decode(raw, &count)
	assert.Positive(t, count.Count)
}

func TestAPI_FuncionesSegunPlan(t *testing.T) {
	h := newHarness(t)
	token := h.shopToken()

	status, raw := h.call(http.MethodGet, "/api/reports/sales", token, nil)
	assert.Equal(t, http.StatusPaymentRequired, status)
	assert.Contains(t, string(raw), "FEATURE_LOCKED")

	status, raw = h.call(http.MethodPost, "/api/subscription/purchases", token, dto.RecordPurchaseRequest{
		ProductID: "basic_monthly", PurchaseToken: "tok-1",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var sub dto.SubscriptionResponse
	h.decode(raw, &sub)
	assert.Equal(t, "basic", sub.Tier)

	status, _ = h.call(http.MethodGet, "/api/reports/sales", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.call(http.MethodGet, "/api/invoices/export/tally", token, nil)
	assert.Equal(t, http.StatusPaymentRequired, status, "tally es premium")

	status, raw = h.call(http.MethodPost, "/api/invoices/preview", token, map[string]any{
		"items":          []map[string]any{{"item_id": "x", "quantity": "1"}},
		"metal_exchange": map[string]any{"fine_gold": "1", "gold_rate": "6000"},
	})
	assert.Equal(t, http.StatusPaymentRequired, status, "simular cambio de metal es premium")
	assert.Contains(t, string(raw), "FEATURE_LOCKED")

	status, raw = h.call(http.MethodPost, "/api/subscription/purchases", token, dto.RecordPurchaseRequest{
		ProductID: "basic_monthly", PurchaseToken: "tok-1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(raw), "DUPLICATE")
}

func TestAPI_DocumentosConPlanPremium(t *testing.T) {
	h := newHarness(t)
	token := h.shopToken()

	status, raw := h.call(http.MethodPost, "/api/subscription/purchases", token, dto.RecordPurchaseRequest{
		ProductID: "premium_yearly", PurchaseToken: "tok-premium",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = h.call(http.MethodPost, "/api/items", token, map[string]any{
		"displayName": "Cadena plata", "jewelryCode": "C-001", "itemType": "Silver",
		"grossWeight": "20", "netWeight": "20", "purity": "925",
		"metalRateOn": "Gross Weight", "makingChargesType": "FIXED",
		"metalRate": "90", "makingCharges": "200", "taxRate": "3", "stock": "3",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var item dto.ItemResponse
	h.decode(raw, &item)

	status, raw = h.call(http.MethodPost, "/api/invoices", token, map[string]any{
		"customer_name": "Mostrador",
		"items":         []map[string]any{{"item_id": item.ID, "quantity": "1"}},
		"payments":      []map[string]any{{"amount": "5000", "method": "UPI"}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var inv dto.InvoiceResponse
	h.decode(raw, &inv)
	assert.Equal(t, "PAID", inv.PaymentStatus)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	status, raw = h.call(http.MethodGet, "/api/invoices/export/tally", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "<TALLYREQUEST>Import Data</TALLYREQUEST>")
}

func TestAPI_SoloLecturaNoCreaClientes(t *testing.T) {
	h := newHarness(t)
	h.shopToken()

	status, raw := h.call(http.MethodPost, "/api/customers", strings.TrimPrefix(tokenFor(t, testShopID, "readonly"), "Bearer "), dto.CustomerRequest{Name: "X"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(raw), "FORBIDDEN")
}

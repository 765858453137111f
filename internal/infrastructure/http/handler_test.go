package httptransport

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appcontact "github.com/smyva-leather/storefront-backend/internal/application/contact"
	apporder "github.com/smyva-leather/storefront-backend/internal/application/order"
	apppayment "github.com/smyva-leather/storefront-backend/internal/application/payment"
	"github.com/smyva-leather/storefront-backend/internal/domain/catalog"
	domain "github.com/smyva-leather/storefront-backend/internal/domain/order"
	"github.com/smyva-leather/storefront-backend/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serverKey = "SB-Mid-server-test-key"

type fakeGateway struct {
	token string
	err   error
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, payload map[string]any) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.token, nil
}

type fakeMailer struct {
	sent []appcontact.Email
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, email appcontact.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func setup(t *testing.T, gateway *fakeGateway, mailer *fakeMailer) (http.Handler, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.SeedOrder(&domain.Order{
		ID:     "ORDER-101",
		Status: domain.StatusPending,
		Items: []domain.Item{
			{ID: "A", Quantity: 2},
			{ID: domain.ShippingLineID, Quantity: 1},
		},
		TotalAmount: 150,
	})
	store.SeedProduct(catalog.Product{ID: "A", Stock: 10})

	handler := NewHandler(
		apppayment.NewService(gateway),
		apporder.NewService(store, serverKey, nil),
		appcontact.NewService(mailer, "shop@example.com"),
	)
	return handler.Router(), store
}

func notificationBody(t *testing.T, orderID, txStatus, fraudStatus string) []byte {
	t.Helper()

	sum := sha512.Sum512([]byte(orderID + "200" + "150.00" + serverKey))
	body, err := json.Marshal(map[string]any{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       "150.00",
		"signature_key":      hex.EncodeToString(sum[:]),
		"transaction_status": txStatus,
		"fraud_status":       fraudStatus,
	})
	require.NoError(t, err)
	return body
}

func post(router http.Handler, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateTransaction(t *testing.T) {
	router, _ := setup(t, &fakeGateway{token: "snap-token-123"}, &fakeMailer{})

	body := []byte(`{"transaction_details":{"order_id":"ORDER-101","gross_amount":150}}`)
	rr := post(router, "/create-transaction", body)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Token   string `json:"token"`
		OrderID string `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "snap-token-123", resp.Token)
	assert.Equal(t, "ORDER-101", resp.OrderID)
}

func TestCreateTransactionGatewayError(t *testing.T) {
	router, _ := setup(t, &fakeGateway{err: errors.New("validation error")}, &fakeMailer{})

	rr := post(router, "/create-transaction", []byte(`{"transaction_details":{"order_id":"ORDER-101"}}`))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "validation error")
}

func TestCreateTransactionMissingOrderID(t *testing.T) {
	router, _ := setup(t, &fakeGateway{token: "unused"}, &fakeMailer{})

	rr := post(router, "/create-transaction", []byte(`{"transaction_details":{}}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotificationSettlement(t *testing.T) {
	router, store := setup(t, &fakeGateway{}, &fakeMailer{})

	rr := post(router, "/midtrans-notification", notificationBody(t, "ORDER-101", "settlement", "accept"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	order, err := store.Get(context.Background(), "ORDER-101")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, order.Status)

	product, _ := store.Product("A")
	assert.Equal(t, int64(8), product.Stock)
}

func TestNotificationRedelivery(t *testing.T) {
	router, store := setup(t, &fakeGateway{}, &fakeMailer{})

	body := notificationBody(t, "ORDER-101", "settlement", "accept")
	first := post(router, "/midtrans-notification", body)
	require.Equal(t, http.StatusOK, first.Code)

	second := post(router, "/midtrans-notification", body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "Order not found or already processed.", second.Body.String())

	product, _ := store.Product("A")
	assert.Equal(t, int64(8), product.Stock)
}

func TestNotificationInvalidSignature(t *testing.T) {
	router, store := setup(t, &fakeGateway{}, &fakeMailer{})

	body, err := json.Marshal(map[string]any{
		"order_id":           "ORDER-101",
		"status_code":        "200",
		"gross_amount":       "150.00",
		"signature_key":      "forged",
		"transaction_status": "settlement",
		"fraud_status":       "accept",
	})
	require.NoError(t, err)

	rr := post(router, "/midtrans-notification", body)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Invalid signature", rr.Body.String())

	order, getErr := store.Get(context.Background(), "ORDER-101")
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestNotificationUnknownOrder(t *testing.T) {
	router, _ := setup(t, &fakeGateway{}, &fakeMailer{})

	rr := post(router, "/midtrans-notification", notificationBody(t, "ORDER-404", "settlement", "accept"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Order not found or already processed.", rr.Body.String())
}

func TestNotificationCancel(t *testing.T) {
	router, store := setup(t, &fakeGateway{}, &fakeMailer{})

	rr := post(router, "/midtrans-notification", notificationBody(t, "ORDER-101", "cancel", ""))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	order, err := store.Get(context.Background(), "ORDER-101")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, order.Status)
}

func TestNotificationMalformedBody(t *testing.T) {
	router, _ := setup(t, &fakeGateway{}, &fakeMailer{})

	rr := post(router, "/midtrans-notification", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSendContactEmail(t *testing.T) {
	mailer := &fakeMailer{}
	router, _ := setup(t, &fakeGateway{}, mailer)

	body := []byte(`{"firstName":"Ayu","lastName":"Lestari","email":"ayu@example.com","subject":"Hi","message":"Hello"}`)
	rr := post(router, "/send-contact-email", body)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Email sent successfully!", resp["message"])
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Contact Form: Hi", mailer.sent[0].Subject)
}

func TestSendContactEmailFailure(t *testing.T) {
	router, _ := setup(t, &fakeGateway{}, &fakeMailer{err: errors.New("smtp down")})

	body := []byte(`{"firstName":"Ayu","lastName":"Lestari","email":"ayu@example.com","subject":"Hi","message":"Hello"}`)
	rr := post(router, "/send-contact-email", body)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to send email.", resp["error"])
}

func TestSendContactEmailMissingFields(t *testing.T) {
	router, _ := setup(t, &fakeGateway{}, &fakeMailer{})

	rr := post(router, "/send-contact-email", []byte(`{"firstName":"Ayu"}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := setup(t, &fakeGateway{}, &fakeMailer{})

	for _, path := range []string{"/create-transaction", "/midtrans-notification", "/send-contact-email"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, path)
	}
}

func TestHealth(t *testing.T) {
	router, _ := setup(t, &fakeGateway{}, &fakeMailer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

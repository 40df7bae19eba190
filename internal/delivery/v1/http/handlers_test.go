package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type fakeOrderUC struct {
	createRes *usecase.CreateOrderRes
	createErr error
	orders    []usecase.OrderInfo
	listErr   error
}

func (f *fakeOrderUC) CreateOrder(ctx context.Context, req *usecase.CreateOrderReq) (*usecase.CreateOrderRes, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createRes, nil
}

func (f *fakeOrderUC) GetOrders(ctx context.Context) ([]usecase.OrderInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.orders, nil
}

type fakePaymentUC struct {
	gotBody      []byte
	gotSignature string
	err          error
}

func (f *fakePaymentUC) HandleGatewayEvent(ctx context.Context, rawBody []byte, signature string) error {
	f.gotBody = rawBody
	f.gotSignature = signature
	return f.err
}

func TestCreateOrderHandler_Success(t *testing.T) {
	uc := &fakeOrderUC{createRes: usecase.NewCreateOrderRes("ok", "https://checkout.chapa.co/pay/abc")}
	h := NewOrderHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"productId":1}`))
	rec := httptest.NewRecorder()
	h.createOrder(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var res createOrderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if res.PaymentURL != "https://checkout.chapa.co/pay/abc" {
		t.Fatalf("unexpected paymentUrl: %s", res.PaymentURL)
	}
}

func TestCreateOrderHandler_InvalidBody(t *testing.T) {
	h := NewOrderHandler(&fakeOrderUC{}, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.createOrder(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateOrderHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		wantMsg string
	}{
		{"missing product id", e.ErrProductIDRequired, http.StatusBadRequest, e.ErrProductIDRequired.Error()},
		{"unknown product", e.ErrProductNotFound, http.StatusNotFound, e.ErrProductNotFound.Error()},
		{"gateway failure", e.ErrGatewayFailure, http.StatusInternalServerError, e.ErrGatewayFailure.Error()},
		{
			// Полезная нагрузка ответа шлюза доходит до клиента сквозь обёртки
			"gateway failure with payload",
			fmt.Errorf("OrderUseCase.CreateOrder: %w", fmt.Errorf("%w: Invalid API key", e.ErrGatewayFailure)),
			http.StatusInternalServerError,
			"Invalid API key",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewOrderHandler(&fakeOrderUC{createErr: tc.err}, nopLogger{})

			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"productId":1}`))
			rec := httptest.NewRecorder()
			h.createOrder(rec, req)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}

			var res ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if res.Code != tc.code {
				t.Fatalf("expected code %d in body, got %d", tc.code, res.Code)
			}
			if !strings.Contains(res.Message, tc.wantMsg) {
				t.Fatalf("expected message containing %q, got %q", tc.wantMsg, res.Message)
			}
			if strings.Contains(res.Message, "OrderUseCase") {
				t.Fatalf("call-site prefixes must not leak to the client: %q", res.Message)
			}
		})
	}
}

func TestGetOrdersHandler(t *testing.T) {
	uc := &fakeOrderUC{orders: []usecase.OrderInfo{
		{ID: 1, ProductID: 1, ProductName: "Coffee beans", ProductPrice: 100, TxRef: "T1", PaymentStatus: "pending"},
	}}
	h := NewOrderHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	h.getOrders(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res struct {
		Orders []orderResponse `json:"orders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(res.Orders) != 1 || res.Orders[0].TxRef != "T1" {
		t.Fatalf("unexpected orders payload: %+v", res.Orders)
	}
}

func TestVerifyPaymentHandler_PassesRawBodyAndSignature(t *testing.T) {
	uc := &fakePaymentUC{}
	h := NewPaymentHandler(uc, nopLogger{})

	body := `{"tx_ref":"T1","status":"success"}`
	req := httptest.NewRequest(http.MethodPost, "/api/verifyPayment", strings.NewReader(body))
	req.Header.Set("x-chapa-signature", "abc123")
	rec := httptest.NewRecorder()
	h.verifyPayment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if string(uc.gotBody) != body {
		t.Fatalf("handler must pass the raw body through, got %q", uc.gotBody)
	}
	if uc.gotSignature != "abc123" {
		t.Fatalf("unexpected signature: %s", uc.gotSignature)
	}
}

func TestVerifyPaymentHandler_BadSignature(t *testing.T) {
	uc := &fakePaymentUC{err: e.ErrInvalidSignature}
	h := NewPaymentHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/verifyPayment", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.verifyPayment(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestVerifyPaymentHandler_InternalError(t *testing.T) {
	uc := &fakePaymentUC{err: errors.New("pg down")}
	h := NewPaymentHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/verifyPayment", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.verifyPayment(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so the gateway retries, got %d", rec.Code)
	}
}

func TestMyWebhookAlwaysOK(t *testing.T) {
	h := NewPaymentHandler(&fakePaymentUC{}, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/my-webhook?trx=123", nil)
	rec := httptest.NewRecorder()
	h.myWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("diagnostic sink must always return 200, got %d", rec.Code)
	}
}

func TestParsePriceToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"599.99", 59999, false},
		{"600", 60000, false},
		{"0.01", 1, false},
		{"1000000000", 100_000_000_000, false},
		{"1000000000.01", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
		{"1.999", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := parsePriceToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parsePriceToCents(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePriceToCents(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parsePriceToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

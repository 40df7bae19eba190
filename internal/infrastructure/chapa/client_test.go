package chapa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sheger-tech/chapa-backend/internal/cfg"
	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

func testClient(baseURL string) *Client {
	return NewClient(&cfg.ChapaCfg{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, nopLogger{})
}

func TestInitializeTransaction_Success(t *testing.T) {
	var gotAuth, gotAmount, gotCurrency, gotTxRef string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/transaction/initialize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotAmount = body["amount"]
		gotCurrency = body["currency"]
		gotTxRef = body["tx_ref"]

		json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "Hosted Link",
			"data":    map[string]string{"checkout_url": "https://checkout.chapa.co/pay/abc"},
		})
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).InitializeTransaction(context.Background(),
		usecase.NewInitializePaymentReq(10050, "T1", "ETB"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CheckoutURL != "https://checkout.chapa.co/pay/abc" {
		t.Fatalf("unexpected checkout url: %s", res.CheckoutURL)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if gotAmount != "100.50" || gotCurrency != "ETB" || gotTxRef != "T1" {
		t.Fatalf("unexpected request body: amount=%s currency=%s tx_ref=%s", gotAmount, gotCurrency, gotTxRef)
	}
}

func TestInitializeTransaction_GatewayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "failed",
			"message": "Invalid API key",
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).InitializeTransaction(context.Background(),
		usecase.NewInitializePaymentReq(100, "T1", "ETB"))
	if !errors.Is(err, e.ErrGatewayFailure) {
		t.Fatalf("expected ErrGatewayFailure, got %v", err)
	}
}

func TestInitializeTransaction_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).InitializeTransaction(context.Background(),
		usecase.NewInitializePaymentReq(100, "T1", "ETB"))
	if !errors.Is(err, e.ErrGatewayFailure) {
		t.Fatalf("expected ErrGatewayFailure, got %v", err)
	}
}

func TestInitializeTransaction_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // закрыт заранее

	_, err := testClient(srv.URL).InitializeTransaction(context.Background(),
		usecase.NewInitializePaymentReq(100, "T1", "ETB"))
	if !errors.Is(err, e.ErrGatewayFailure) {
		t.Fatalf("expected ErrGatewayFailure, got %v", err)
	}
}

func TestVerifyTransaction_Confirmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transaction/verify/T1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "Payment details",
			"data":    map[string]string{"tx_ref": "T1", "status": "success"},
		})
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).VerifyTransaction(context.Background(), "T1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Confirmed || res.TxRef != "T1" {
		t.Fatalf("expected confirmed T1, got %+v", res)
	}
}

func TestVerifyTransaction_NotConfirmed(t *testing.T) {
	cases := []struct {
		name    string
		code    int
		payload map[string]any
	}{
		{
			name: "inner status failed",
			code: http.StatusOK,
			payload: map[string]any{
				"status": "success",
				"data":   map[string]string{"tx_ref": "T1", "status": "failed"},
			},
		},
		{
			name: "outer status failed",
			code: http.StatusOK,
			payload: map[string]any{
				"status": "failed",
				"data":   map[string]string{"tx_ref": "T1", "status": "success"},
			},
		},
		{
			name:    "not found",
			code:    http.StatusNotFound,
			payload: map[string]any{"status": "failed", "message": "Transaction not found"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				json.NewEncoder(w).Encode(tc.payload)
			}))
			defer srv.Close()

			res, err := testClient(srv.URL).VerifyTransaction(context.Background(), "T1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Confirmed {
				t.Fatalf("transaction must not be confirmed")
			}
		})
	}
}

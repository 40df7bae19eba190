package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/sheger-tech/chapa-backend/internal/domain"
	"github.com/sheger-tech/chapa-backend/pkg/e"
)

const testSecret = "test-webhook-secret"

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeProducer struct {
	paymentEvents []*PaymentEventReq
	writeErr      error
}

func (f *fakeProducer) WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error {
	return nil
}

func (f *fakeProducer) WritePaymentEvent(ctx context.Context, req *PaymentEventReq) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.paymentEvents = append(f.paymentEvents, req)
	return nil
}

func pendingOrder(txRef string) *domain.Order {
	return &domain.Order{
		ID:            1,
		ProductID:     1,
		ProductName:   "Coffee beans",
		ProductPrice:  100,
		TxRef:         txRef,
		PaymentStatus: domain.PaymentPending,
	}
}

func TestHandleGatewayEvent_InvalidSignature(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["T1"] = pendingOrder("T1")
	gateway := &fakeGateway{verifyRes: &VerifyPaymentRes{TxRef: "T1", Confirmed: true}}
	uc := NewPaymentUC(orderRepo, gateway, &fakeProducer{}, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T1","status":"success"}`)
	err := uc.HandleGatewayEvent(context.Background(), body, "deadbeef")
	if !errors.Is(err, e.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	if orderRepo.completed != 0 {
		t.Fatalf("bad signature must never mutate payment status")
	}
	if len(gateway.verifyRefs) != 0 {
		t.Fatalf("gateway must not be called on bad signature")
	}
}

func TestHandleGatewayEvent_NonHexSignature(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["T1"] = pendingOrder("T1")
	uc := NewPaymentUC(orderRepo, &fakeGateway{}, &fakeProducer{}, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T1","status":"success"}`)
	err := uc.HandleGatewayEvent(context.Background(), body, "not-hex!!")
	if !errors.Is(err, e.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if orderRepo.completed != 0 {
		t.Fatalf("bad signature must never mutate payment status")
	}
}

func TestHandleGatewayEvent_MalformedBody(t *testing.T) {
	uc := NewPaymentUC(newFakeOrderRepo(), &fakeGateway{}, &fakeProducer{}, testSecret, nopLogger{})

	body := []byte(`{not json`)
	if err := uc.HandleGatewayEvent(context.Background(), body, sign(body)); err == nil {
		t.Fatalf("expected error on malformed body")
	}
}

func TestHandleGatewayEvent_Success(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["T1"] = pendingOrder("T1")
	gateway := &fakeGateway{verifyRes: &VerifyPaymentRes{TxRef: "T1", Confirmed: true}}
	producer := &fakeProducer{}
	uc := NewPaymentUC(orderRepo, gateway, producer, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T1","status":"success"}`)
	if err := uc.HandleGatewayEvent(context.Background(), body, sign(body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if orderRepo.orders["T1"].PaymentStatus != domain.PaymentCompleted {
		t.Fatalf("expected order completed, got %s", orderRepo.orders["T1"].PaymentStatus)
	}
	if len(gateway.verifyRefs) != 1 || gateway.verifyRefs[0] != "T1" {
		t.Fatalf("expected one verify call for T1, got %v", gateway.verifyRefs)
	}
	if len(producer.paymentEvents) != 1 || producer.paymentEvents[0].TxRef != "T1" {
		t.Fatalf("expected one payment.completed event for T1")
	}
}

func TestHandleGatewayEvent_DuplicateDeliveryIsNoOp(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["T1"] = pendingOrder("T1")
	gateway := &fakeGateway{verifyRes: &VerifyPaymentRes{TxRef: "T1", Confirmed: true}}
	producer := &fakeProducer{}
	uc := NewPaymentUC(orderRepo, gateway, producer, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T1","status":"success"}`)
	for i := 0; i < 2; i++ {
		if err := uc.HandleGatewayEvent(context.Background(), body, sign(body)); err != nil {
			t.Fatalf("delivery %d: unexpected error: %v", i+1, err)
		}
	}

	if orderRepo.completed != 1 {
		t.Fatalf("expected exactly one completion, got %d", orderRepo.completed)
	}
	if len(producer.paymentEvents) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(producer.paymentEvents))
	}
}

func TestHandleGatewayEvent_UnknownTxRef(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	gateway := &fakeGateway{verifyRes: &VerifyPaymentRes{TxRef: "T404", Confirmed: true}}
	uc := NewPaymentUC(orderRepo, gateway, &fakeProducer{}, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T404","status":"success"}`)
	if err := uc.HandleGatewayEvent(context.Background(), body, sign(body)); err != nil {
		t.Fatalf("unknown tx_ref must be acknowledged as no-op, got %v", err)
	}
	if orderRepo.completed != 0 {
		t.Fatalf("expected no mutation for unknown tx_ref")
	}
}

func TestHandleGatewayEvent_NonSuccessStatusIgnored(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["T1"] = pendingOrder("T1")
	gateway := &fakeGateway{}
	uc := NewPaymentUC(orderRepo, gateway, &fakeProducer{}, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T1","status":"failed"}`)
	if err := uc.HandleGatewayEvent(context.Background(), body, sign(body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gateway.verifyRefs) != 0 {
		t.Fatalf("verify must not be called for non-success status")
	}
	if orderRepo.completed != 0 {
		t.Fatalf("expected no mutation")
	}
}

func TestHandleGatewayEvent_VerifyNotConfirmed(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["T1"] = pendingOrder("T1")
	gateway := &fakeGateway{verifyRes: &VerifyPaymentRes{TxRef: "T1", Confirmed: false}}
	uc := NewPaymentUC(orderRepo, gateway, &fakeProducer{}, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T1","status":"success"}`)
	if err := uc.HandleGatewayEvent(context.Background(), body, sign(body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orderRepo.completed != 0 {
		t.Fatalf("unconfirmed transaction must not complete the order")
	}
}

func TestHandleGatewayEvent_VerifyError(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["T1"] = pendingOrder("T1")
	gateway := &fakeGateway{verifyErr: e.ErrGatewayFailure}
	uc := NewPaymentUC(orderRepo, gateway, &fakeProducer{}, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T1","status":"success"}`)
	err := uc.HandleGatewayEvent(context.Background(), body, sign(body))
	if !errors.Is(err, e.ErrGatewayFailure) {
		t.Fatalf("expected ErrGatewayFailure, got %v", err)
	}
	if orderRepo.completed != 0 {
		t.Fatalf("expected no mutation on verify failure")
	}
}

func TestHandleGatewayEvent_ProducerFailureStillAcks(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders["T1"] = pendingOrder("T1")
	gateway := &fakeGateway{verifyRes: &VerifyPaymentRes{TxRef: "T1", Confirmed: true}}
	producer := &fakeProducer{writeErr: errors.New("broker down")}
	uc := NewPaymentUC(orderRepo, gateway, producer, testSecret, nopLogger{})

	body := []byte(`{"tx_ref":"T1","status":"success"}`)
	if err := uc.HandleGatewayEvent(context.Background(), body, sign(body)); err != nil {
		t.Fatalf("event publish is best-effort, expected ack, got %v", err)
	}
	if orderRepo.orders["T1"].PaymentStatus != domain.PaymentCompleted {
		t.Fatalf("order must be completed regardless of producer failure")
	}
}

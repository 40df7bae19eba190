package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/sheger-tech/chapa-backend/internal/domain"
	"github.com/sheger-tech/chapa-backend/pkg/e"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type fakeProductRepo struct {
	products map[int64]*domain.Product
	listErr  error
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	return product, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return product, nil
}

func (f *fakeProductRepo) List(ctx context.Context) ([]ProductInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]ProductInfo, 0, len(f.products))
	for _, p := range f.products {
		result = append(result, NewProductInfo(p.ID, p.Name, p.Price, p.ImageURL))
	}
	return result, nil
}

type fakeOrderRepo struct {
	nextID    int64
	orders    map[string]*domain.Order // по tx_ref
	createErr error
	markErr   error
	completed int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	order.ID = f.nextID
	f.orders[order.TxRef] = order
	return order, nil
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]OrderInfo, error) {
	result := make([]OrderInfo, 0, len(f.orders))
	for _, o := range f.orders {
		result = append(result, OrderInfo{
			ID:            o.ID,
			ProductID:     o.ProductID,
			ProductName:   o.ProductName,
			ProductPrice:  o.ProductPrice,
			TxRef:         o.TxRef,
			PaymentStatus: string(o.PaymentStatus),
			CreatedAt:     o.CreatedAt,
		})
	}
	return result, nil
}

func (f *fakeOrderRepo) MarkCompleted(ctx context.Context, txRef string) (*domain.Order, bool, error) {
	if f.markErr != nil {
		return nil, false, f.markErr
	}
	order, ok := f.orders[txRef]
	if !ok || order.PaymentStatus != domain.PaymentPending {
		return nil, false, nil
	}
	order.PaymentStatus = domain.PaymentCompleted
	f.completed++
	return order, true, nil
}

type fakeGateway struct {
	initReqs   []*InitializePaymentReq
	initRes    *InitializePaymentRes
	initErr    error
	verifyRefs []string
	verifyRes  *VerifyPaymentRes
	verifyErr  error
}

func (f *fakeGateway) InitializeTransaction(ctx context.Context, req *InitializePaymentReq) (*InitializePaymentRes, error) {
	f.initReqs = append(f.initReqs, req)
	if f.initErr != nil {
		return nil, f.initErr
	}
	return f.initRes, nil
}

func (f *fakeGateway) VerifyTransaction(ctx context.Context, txRef string) (*VerifyPaymentRes, error) {
	f.verifyRefs = append(f.verifyRefs, txRef)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyRes, nil
}

func TestCreateOrder_MissingProductID(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	gateway := &fakeGateway{}
	uc := NewOrderUC(orderRepo, &fakeProductRepo{}, gateway, nopLogger{})

	_, err := uc.CreateOrder(context.Background(), NewCreateOrderReq(0))
	if !errors.Is(err, e.ErrProductIDRequired) {
		t.Fatalf("expected ErrProductIDRequired, got %v", err)
	}
	if len(orderRepo.orders) != 0 {
		t.Fatalf("expected no orders persisted, got %d", len(orderRepo.orders))
	}
	if len(gateway.initReqs) != 0 {
		t.Fatalf("gateway must not be called on validation failure")
	}
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{products: map[int64]*domain.Product{}}
	uc := NewOrderUC(orderRepo, productRepo, &fakeGateway{}, nopLogger{})

	_, err := uc.CreateOrder(context.Background(), NewCreateOrderReq(42))
	if !errors.Is(err, e.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if len(orderRepo.orders) != 0 {
		t.Fatalf("expected no orders persisted, got %d", len(orderRepo.orders))
	}
}

func TestCreateOrder_Success(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Coffee beans", Price: 100},
	}}
	gateway := &fakeGateway{initRes: &InitializePaymentRes{CheckoutURL: "https://checkout.chapa.co/pay/abc"}}
	uc := NewOrderUC(orderRepo, productRepo, gateway, nopLogger{})

	res, err := uc.CreateOrder(context.Background(), NewCreateOrderReq(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PaymentURL != "https://checkout.chapa.co/pay/abc" {
		t.Fatalf("unexpected payment url: %s", res.PaymentURL)
	}
	if res.Msg == "" {
		t.Fatalf("expected non-empty message")
	}

	if len(orderRepo.orders) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(orderRepo.orders))
	}
	var order *domain.Order
	for _, o := range orderRepo.orders {
		order = o
	}
	if order.PaymentStatus != domain.PaymentPending {
		t.Fatalf("expected pending order, got %s", order.PaymentStatus)
	}
	if order.ProductID != 1 || order.ProductName != "Coffee beans" || order.ProductPrice != 100 {
		t.Fatalf("expected product snapshot on order, got %+v", order)
	}
	if order.TxRef == "" {
		t.Fatalf("expected generated tx_ref")
	}

	if len(gateway.initReqs) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(gateway.initReqs))
	}
	initReq := gateway.initReqs[0]
	if initReq.Amount != 100 || initReq.Currency != "ETB" || initReq.TxRef != order.TxRef {
		t.Fatalf("unexpected initialize request: %+v", initReq)
	}
}

func TestCreateOrder_GatewayFailureLeavesPendingOrder(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Coffee beans", Price: 100},
	}}
	gateway := &fakeGateway{initErr: e.ErrGatewayFailure}
	uc := NewOrderUC(orderRepo, productRepo, gateway, nopLogger{})

	_, err := uc.CreateOrder(context.Background(), NewCreateOrderReq(1))
	if !errors.Is(err, e.ErrGatewayFailure) {
		t.Fatalf("expected ErrGatewayFailure, got %v", err)
	}

	// Заказ записан до обращения к шлюзу и остаётся в pending
	if len(orderRepo.orders) != 1 {
		t.Fatalf("expected orphaned pending order, got %d orders", len(orderRepo.orders))
	}
	for _, o := range orderRepo.orders {
		if o.PaymentStatus != domain.PaymentPending {
			t.Fatalf("expected pending status, got %s", o.PaymentStatus)
		}
	}
}

func TestCreateOrder_UniqueTxRefPerOrder(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Coffee beans", Price: 100},
	}}
	gateway := &fakeGateway{initRes: &InitializePaymentRes{CheckoutURL: "https://checkout.chapa.co/pay/abc"}}
	uc := NewOrderUC(orderRepo, productRepo, gateway, nopLogger{})

	for i := 0; i < 2; i++ {
		if _, err := uc.CreateOrder(context.Background(), NewCreateOrderReq(1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(orderRepo.orders) != 2 {
		t.Fatalf("expected two orders with distinct tx_refs, got %d", len(orderRepo.orders))
	}
}

func TestGetOrders(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Coffee beans", Price: 100},
	}}
	gateway := &fakeGateway{initRes: &InitializePaymentRes{CheckoutURL: "https://checkout.chapa.co/pay/abc"}}
	uc := NewOrderUC(orderRepo, productRepo, gateway, nopLogger{})

	if _, err := uc.CreateOrder(context.Background(), NewCreateOrderReq(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orders, err := uc.GetOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}
	if orders[0].PaymentStatus != string(domain.PaymentPending) {
		t.Fatalf("expected pending status, got %s", orders[0].PaymentStatus)
	}
}

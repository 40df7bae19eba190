package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/sheger-tech/chapa-backend/internal/domain"
	"github.com/sheger-tech/chapa-backend/pkg/e"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
)

// defaultCurrency — единственная поддерживаемая валюта расчётов.
const defaultCurrency = "ETB"

const orderCreatedMsg = "Order created successfully. Perform payment."

// OrderUseCase реализует бизнес-логику создания и выдачи заказов.
type OrderUseCase struct {
	orderRepo   OrderRepository
	productRepo ProductRepository
	gateway     PaymentGateway
	logger      logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	gateway PaymentGateway,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

// CreateOrder создаёт заказ со снимком товара и инициализирует транзакцию в шлюзе.
// Заказ сохраняется до обращения к шлюзу: при ошибке шлюза строка остаётся в pending.
func (o *OrderUseCase) CreateOrder(ctx context.Context, req *CreateOrderReq) (*CreateOrderRes, error) {
	const op = "OrderUseCase.CreateOrder"

	if req.ProductID <= 0 {
		return nil, e.Wrap(op, e.ErrProductIDRequired)
	}

	product, err := o.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// txRef генерируется локально и используется как единственный ключ
	// сопоставления заказа с транзакцией шлюза
	txRef := uuid.NewString()

	order, err := o.orderRepo.Create(ctx, domain.NewOrder(product, txRef))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := o.gateway.InitializeTransaction(ctx, NewInitializePaymentReq(product.Price, txRef, defaultCurrency))
	if err != nil {
		o.logger.Warnf("gateway initialize failed, order %d left pending: %v", order.ID, err)
		return nil, e.Wrap(op, err)
	}

	return NewCreateOrderRes(orderCreatedMsg, res.CheckoutURL), nil
}

// GetOrders возвращает все заказы без фильтрации и пагинации.
func (o *OrderUseCase) GetOrders(ctx context.Context) ([]OrderInfo, error) {
	const op = "OrderUseCase.GetOrders"

	orders, err := o.orderRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

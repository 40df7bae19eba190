package usecase

import "context"

type OrderUC interface {
	CreateOrder(ctx context.Context, req *CreateOrderReq) (*CreateOrderRes, error)
	GetOrders(ctx context.Context) ([]OrderInfo, error)
}

type PaymentUC interface {
	HandleGatewayEvent(ctx context.Context, rawBody []byte, signature string) error
}

type ProductUC interface {
	RegisterProduct(ctx context.Context, req *RegisterProductReq) (*ProductInfo, error)
	GetProducts(ctx context.Context) ([]ProductInfo, error)
}

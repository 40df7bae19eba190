package usecase

import (
	"context"

	"github.com/sheger-tech/chapa-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]ProductInfo, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	List(ctx context.Context) ([]OrderInfo, error)
	// MarkCompleted атомарно переводит заказ pending -> completed по tx_ref.
	// Возвращает false без ошибки, если заказ не найден или уже completed.
	MarkCompleted(ctx context.Context, txRef string) (*domain.Order, bool, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context) ([]ProductInfo, bool, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	InvalidateProducts(ctx context.Context) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

package domain

import "time"

// PaymentStatus — статус оплаты заказа.
// Переход только в одну сторону: pending -> completed.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Order описывает заказ. Название и цена товара денормализованы на момент
// создания заказа и после этого не перечитываются из каталога.
type Order struct {
	ID            int64
	ProductID     int64
	ProductName   string
	ProductPrice  int64
	TxRef         string // Уникальный ключ корреляции с платёжным шлюзом
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func NewOrder(product *Product, txRef string) *Order {
	return &Order{
		ProductID:     product.ID,
		ProductName:   product.Name,
		ProductPrice:  product.Price,
		TxRef:         txRef,
		PaymentStatus: PaymentPending,
	}
}

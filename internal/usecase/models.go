package usecase

import "time"

// ORDER USECASE

// CreateOrderReq — запрос на создание заказа.
type CreateOrderReq struct {
	ProductID int64
}

// CreateOrderRes — результат создания заказа со ссылкой на оплату.
type CreateOrderRes struct {
	Msg        string
	PaymentURL string
}

// OrderInfo — DTO заказа для внешнего использования.
type OrderInfo struct {
	ID            int64
	ProductID     int64
	ProductName   string
	ProductPrice  int64
	TxRef         string
	PaymentStatus string
	CreatedAt     time.Time
}

// PAYMENT USECASE

// GatewayEvent — тело вебхук-уведомления шлюза.
type GatewayEvent struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

// PaymentEventReq — событие payment.completed для Kafka.
type PaymentEventReq struct {
	EventID    string
	TxRef      string
	OrderID    int64
	Amount     int64
	OccurredAt time.Time
}

// PRODUCT USECASE

// RegisterProductReq — запрос на добавление нового товара.
type RegisterProductReq struct {
	Name  string
	Price int64
	Image *ProductImage
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID       int64
	Name     string
	Price    int64
	ImageURL *string
}

// INFRASTRUCTURE

// InitializePaymentReq — запрос на инициализацию транзакции в шлюзе.
type InitializePaymentReq struct {
	Amount   int64 // в минимальных единицах валюты
	TxRef    string
	Currency string
}

// InitializePaymentRes — ссылка на страницу оплаты шлюза.
type InitializePaymentRes struct {
	CheckoutURL string
}

// VerifyPaymentRes — авторитетный статус транзакции по данным шлюза.
type VerifyPaymentRes struct {
	TxRef     string
	Confirmed bool
}

// UploadImageReq — запрос на загрузку изображения товара.
type UploadImageReq struct {
	ProductName string
	Image       ProductImage
}

// UploadImageRes — результат загрузки изображения (ключ объекта и внешний URL).
type UploadImageRes struct {
	ObjectKey string
	URL       string
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductRegistered OutboxEventType = "product.registered"
)

// OutboxEvent — запись транзакционного outbox.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// MAPPERS

func NewCreateOrderReq(productID int64) *CreateOrderReq {
	return &CreateOrderReq{ProductID: productID}
}

func NewCreateOrderRes(msg string, paymentURL string) *CreateOrderRes {
	return &CreateOrderRes{
		Msg:        msg,
		PaymentURL: paymentURL,
	}
}

func NewPaymentEventReq(eventID string, txRef string, orderID int64, amount int64, occurredAt time.Time) *PaymentEventReq {
	return &PaymentEventReq{
		EventID:    eventID,
		TxRef:      txRef,
		OrderID:    orderID,
		Amount:     amount,
		OccurredAt: occurredAt,
	}
}

func NewRegisterProductReq(name string, price int64, image *ProductImage) *RegisterProductReq {
	return &RegisterProductReq{
		Name:  name,
		Price: price,
		Image: image,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewProductInfo(id int64, name string, price int64, imageURL *string) ProductInfo {
	return ProductInfo{
		ID:       id,
		Name:     name,
		Price:    price,
		ImageURL: imageURL,
	}
}

func NewInitializePaymentReq(amount int64, txRef string, currency string) *InitializePaymentReq {
	return &InitializePaymentReq{
		Amount:   amount,
		TxRef:    txRef,
		Currency: currency,
	}
}

func NewUploadImageReq(productName string, image ProductImage) *UploadImageReq {
	return &UploadImageReq{
		ProductName: productName,
		Image:       image,
	}
}

func NewUploadImageRes(objectKey string, url string) *UploadImageRes {
	return &UploadImageRes{
		ObjectKey: objectKey,
		URL:       url,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now(),
	}
}

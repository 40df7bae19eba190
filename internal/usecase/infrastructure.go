package usecase

import "context"

// PaymentGateway — клиент внешнего платёжного шлюза.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req *InitializePaymentReq) (*InitializePaymentRes, error)
	VerifyTransaction(ctx context.Context, txRef string) (*VerifyPaymentRes, error)
}

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
	WritePaymentEvent(ctx context.Context, req *PaymentEventReq) error
}

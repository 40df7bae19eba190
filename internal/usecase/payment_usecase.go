package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sheger-tech/chapa-backend/pkg/e"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
)

const gatewaySuccessStatus = "success"

// PaymentUseCase обрабатывает вебхук-уведомления шлюза и завершает оплату заказов.
// Обработчик не хранит состояния между вызовами.
type PaymentUseCase struct {
	orderRepo     OrderRepository
	gateway       PaymentGateway
	producer      MessageProducer
	webhookSecret []byte
	logger        logger.Logger
}

func NewPaymentUC(
	orderRepo OrderRepository,
	gateway PaymentGateway,
	producer MessageProducer,
	webhookSecret string,
	logger logger.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orderRepo:     orderRepo,
		gateway:       gateway,
		producer:      producer,
		webhookSecret: []byte(webhookSecret),
		logger:        logger,
	}
}

// HandleGatewayEvent проверяет подпись уведомления, перепроверяет транзакцию
// в шлюзе и идемпотентно переводит заказ в completed.
// nil означает подтверждение доставки (200), в том числе для повторных
// и неизвестных уведомлений.
func (p *PaymentUseCase) HandleGatewayEvent(ctx context.Context, rawBody []byte, signature string) error {
	const op = "PaymentUseCase.HandleGatewayEvent"

	if !p.validSignature(rawBody, signature) {
		return e.Wrap(op, e.ErrInvalidSignature)
	}

	var event GatewayEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return e.Wrap(op, err)
	}

	if event.Status != gatewaySuccessStatus || event.TxRef == "" {
		p.logger.Infof("ignoring webhook event: tx_ref=%q status=%q", event.TxRef, event.Status)
		return nil
	}

	// Телу вебхука не доверяем: финальное решение принимается только по
	// ответу verify-эндпоинта шлюза
	verify, err := p.gateway.VerifyTransaction(ctx, event.TxRef)
	if err != nil {
		return e.Wrap(op, err)
	}

	if !verify.Confirmed {
		p.logger.Warnf("gateway did not confirm transaction %s, leaving order untouched", event.TxRef)
		return nil
	}

	order, updated, err := p.orderRepo.MarkCompleted(ctx, verify.TxRef)
	if err != nil {
		return e.Wrap(op, err)
	}

	if !updated {
		// Заказ не найден или уже completed: повторная доставка безопасна
		p.logger.Debugf("no pending order for tx_ref %s, acknowledging as no-op", verify.TxRef)
		return nil
	}

	p.logger.Infof("order %d completed, tx_ref: %s", order.ID, order.TxRef)

	// Событие публикуется по возможности: источником истины остаётся заказ в БД
	event2 := NewPaymentEventReq(uuid.NewString(), order.TxRef, order.ID, order.ProductPrice, time.Now())
	if err := p.producer.WritePaymentEvent(ctx, event2); err != nil {
		p.logger.Warnf("failed to publish payment.completed for tx_ref %s: %v", order.TxRef, err)
	}

	return nil
}

// validSignature сравнивает HMAC-SHA256 от сырого тела запроса с подписью
// из заголовка. Сравнение выполняется за постоянное время.
func (p *PaymentUseCase) validSignature(rawBody []byte, signature string) bool {
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, p.webhookSecret)
	mac.Write(rawBody)

	return hmac.Equal(mac.Sum(nil), provided)
}

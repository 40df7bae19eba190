package http

import (
	"io"
	"net/http"

	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/e"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
)

const signatureHeader = "x-chapa-signature"

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUC
	logger         logger.Logger
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUC, logger logger.Logger) *PaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase, logger: logger}
}

// verifyPayment
//
//	@Summary		Вебхук платёжного шлюза
//	@Description	Проверяет подпись уведомления, сверяет статус транзакции со шлюзом и закрывает заказ
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			x-chapa-signature	header		string					true	"HMAC-SHA256 подпись тела запроса"
//	@Success		200					{object}	map[string]interface{}	"Уведомление принято"
//	@Failure		401					{object}	ErrorResponse			"Неверная подпись"
//	@Failure		500					{object}	ErrorResponse			"Внутренняя ошибка, шлюз повторит доставку"
//	@Router			/verifyPayment [post]
func (p *PaymentHandler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	const maxBodySize = 1 << 20

	// Подпись считается по сырому телу, поэтому читаем его целиком до разбора
	rawBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := p.paymentUsecase.HandleGatewayEvent(r.Context(), rawBody, r.Header.Get(signatureHeader)); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"status": "success",
	})
}

// myWebhook
//
//	@Summary		Диагностический приёмник вебхуков
//	@Description	Логирует входящий запрос и всегда отвечает 200
//	@Tags			payments
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}	"Запрос получен"
//	@Router			/my-webhook [get]
func (p *PaymentHandler) myWebhook(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	p.logger.Infof("diagnostic webhook hit: query=%q body=%q", r.URL.RawQuery, string(body))

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "Webhook received successfully",
	})
}

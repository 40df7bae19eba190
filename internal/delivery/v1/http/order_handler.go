package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/e"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

type createOrderRequest struct {
	ProductID int64 `json:"productId"`
}

type createOrderResponse struct {
	Msg        string `json:"msg"`
	PaymentURL string `json:"paymentUrl"`
}

type orderResponse struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"productId"`
	ProductName   string    `json:"productName"`
	ProductPrice  int64     `json:"productPrice"`
	TxRef         string    `json:"txRef"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

// createOrder
//
//	@Summary		Создание заказа
//	@Description	Создает заказ и инициализирует оплату в платёжном шлюзе
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		createOrderRequest	true	"Идентификатор товара"
//	@Success		201		{object}	createOrderResponse	"Заказ создан, ссылка на оплату"
//	@Failure		400		{object}	ErrorResponse		"Не указан товар"
//	@Failure		404		{object}	ErrorResponse		"Товар не найден"
//	@Failure		500		{object}	ErrorResponse		"Сбой платёжного шлюза"
//	@Router			/orders [post]
func (o *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		o.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	res, err := o.orderUsecase.CreateOrder(r.Context(), usecase.NewCreateOrderReq(req.ProductID))
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, createOrderResponse{
		Msg:        res.Msg,
		PaymentURL: res.PaymentURL,
	})
}

// getOrders
//
//	@Summary		Список заказов
//	@Description	Возвращает все заказы без фильтрации и пагинации
//	@Tags			orders
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}	"Список заказов"
//	@Failure		500	{object}	ErrorResponse			"Ошибка хранилища"
//	@Router			/orders [get]
func (o *OrderHandler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := o.orderUsecase.GetOrders(r.Context())
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	res := make([]orderResponse, 0, len(orders))
	for _, ord := range orders {
		res = append(res, orderResponse{
			ID:            ord.ID,
			ProductID:     ord.ProductID,
			ProductName:   ord.ProductName,
			ProductPrice:  ord.ProductPrice,
			TxRef:         ord.TxRef,
			PaymentStatus: ord.PaymentStatus,
			CreatedAt:     ord.CreatedAt,
		})
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"orders": res,
	})
}

package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"github.com/sheger-tech/chapa-backend/internal/cfg"
	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/e"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
)

const (
	initializePath = "/v1/transaction/initialize"
	verifyPath     = "/v1/transaction/verify/"

	statusSuccess = "success"
)

// Client — клиент платёжного шлюза Chapa.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  logger.Logger
}

func NewClient(cfg *cfg.ChapaCfg, logger logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// initializeRequest — тело запроса инициализации транзакции.
// Сумма передаётся десятичной строкой в основных единицах валюты.
type initializeRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	TxRef    string `json:"tx_ref"`
}

// initializeResponse — конверт ответа шлюза на инициализацию.
type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// verifyResponse — конверт ответа verify-эндпоинта шлюза.
type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		TxRef  string `json:"tx_ref"`
		Status string `json:"status"`
	} `json:"data"`
}

// InitializeTransaction создаёт транзакцию в шлюзе и возвращает ссылку на оплату.
// Любой не-success ответ и любая транспортная ошибка приводят к e.ErrGatewayFailure.
func (c *Client) InitializeTransaction(ctx context.Context, req *usecase.InitializePaymentReq) (*usecase.InitializePaymentRes, error) {
	body, err := json.Marshal(initializeRequest{
		Amount:   minorUnitsToAmount(req.Amount),
		Currency: req.Currency,
		TxRef:    req.TxRef,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+initializePath, bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := c.http.Do(httpReq)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), gatewayErr(err.Error()))
	}
	defer httpRes.Body.Close()

	var res initializeResponse
	if err := decodeBody(httpRes.Body, &res); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if res.Status != statusSuccess || res.Data == nil || res.Data.CheckoutURL == "" {
		c.logger.Warnf("chapa initialize rejected tx_ref %s: http=%d status=%q message=%q",
			req.TxRef, httpRes.StatusCode, res.Status, res.Message)
		return nil, e.Wrap(whereami.WhereAmI(), gatewayErr(res.Message))
	}

	return &usecase.InitializePaymentRes{CheckoutURL: res.Data.CheckoutURL}, nil
}

// VerifyTransaction запрашивает у шлюза авторитетный статус транзакции.
func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (*usecase.VerifyPaymentRes, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+verifyPath+txRef, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpRes, err := c.http.Do(httpReq)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), gatewayErr(err.Error()))
	}
	defer httpRes.Body.Close()

	var res verifyResponse
	if err := decodeBody(httpRes.Body, &res); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Транзакция считается подтверждённой только при success во внешнем
	// конверте и во вложенных данных
	confirmed := httpRes.StatusCode == http.StatusOK &&
		res.Status == statusSuccess &&
		res.Data != nil &&
		res.Data.Status == statusSuccess

	verified := &usecase.VerifyPaymentRes{TxRef: txRef, Confirmed: confirmed}
	if res.Data != nil && res.Data.TxRef != "" {
		verified.TxRef = res.Data.TxRef
	}

	return verified, nil
}

// decodeBody разбирает конверт ответа шлюза.
// Нечитаемое тело считается ошибкой шлюза, а не тихим undefined.
func decodeBody(body io.Reader, dst any) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return gatewayErr(err.Error())
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return gatewayErr(fmt.Sprintf("malformed response: %s", err))
	}

	return nil
}

// minorUnitsToAmount переводит цену из минимальных единиц в десятичную строку
// с двумя знаками после запятой ("10050" -> "100.50").
func minorUnitsToAmount(minorUnits int64) string {
	return decimal.NewFromInt(minorUnits).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// gatewayErr помечает ошибку как сбой шлюза, сохраняя полезную нагрузку ответа.
func gatewayErr(detail string) error {
	if detail == "" {
		return e.ErrGatewayFailure
	}

	return fmt.Errorf("%w: %s", e.ErrGatewayFailure, detail)
}

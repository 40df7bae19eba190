package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/sheger-tech/chapa-backend/docs" // Импорт сгенерированных файлов
	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(orderUC usecase.OrderUC, paymentUC usecase.PaymentUC, productUC usecase.ProductUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api", func(api chi.Router) {
		orderHandler := NewOrderHandler(orderUC, r.logger)
		registerOrderRoutes(api, orderHandler)

		paymentHandler := NewPaymentHandler(paymentUC, r.logger)
		registerPaymentRoutes(api, paymentHandler)

		productHandler := NewProductHandler(productUC, r.logger)
		registerProductRoutes(api, productHandler)
	})
}

func registerOrderRoutes(router chi.Router, orderHandler *OrderHandler) {
	router.Route("/orders", func(or chi.Router) {
		or.Post("/", orderHandler.createOrder)
		or.Get("/", orderHandler.getOrders)
	})
}

func registerPaymentRoutes(router chi.Router, paymentHandler *PaymentHandler) {
	router.Post("/verifyPayment", paymentHandler.verifyPayment)
	router.Get("/my-webhook", paymentHandler.myWebhook)
}

func registerProductRoutes(router chi.Router, productHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", productHandler.registerNewProduct)
		pr.Get("/", productHandler.getProducts)
	})
}

package http

import (
	"net/http"

	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/e"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

type productResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    int64   `json:"price"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// registerNewProduct
//
//	@Summary		Регистрация нового товара
//	@Description	Создает новый товар в каталоге, опционально с изображением
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name	formData	string			true	"Название товара"
//	@Param			price	formData	number			true	"Цена"
//	@Param			image	formData	file			false	"Изображение товара"
//	@Success		201		{object}	productResponse	"Успешное создание"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) registerNewProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 8 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	prMeta, err := parseProductForm(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"])
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.RegisterProduct(r.Context(), usecase.NewRegisterProductReq(prMeta.Name, prMeta.Price, image))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, productResponse{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		ImageURL: product.ImageURL,
	})
}

// getProducts
//
//	@Summary		Каталог товаров
//	@Description	Возвращает список всех товаров (с кешированием)
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}	"Список товаров"
//	@Failure		500	{object}	ErrorResponse			"Ошибка хранилища"
//	@Router			/products [get]
func (p *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.GetProducts(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	res := make([]productResponse, 0, len(products))
	for _, pr := range products {
		res = append(res, productResponse{
			ID:       pr.ID,
			Name:     pr.Name,
			Price:    pr.Price,
			ImageURL: pr.ImageURL,
		})
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products": res,
	})
}

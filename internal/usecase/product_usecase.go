package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sheger-tech/chapa-backend/internal/domain"
	"github.com/sheger-tech/chapa-backend/pkg/e"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
)

// ProductUseCase реализует бизнес-логику каталога товаров.
type ProductUseCase struct {
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	dbPool      transaction.Transactional
	imagesInfra ImagesInfra
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		dbPool:      dbPool,
		imagesInfra: imagesInfra,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// productRegisteredPayload — тело outbox-события о регистрации товара.
type productRegisteredPayload struct {
	EventID  string  `json:"event_id"`
	Product  int64   `json:"product_id"`
	Name     string  `json:"name"`
	Price    int64   `json:"price"`
	ImageURL *string `json:"image_url,omitempty"`
}

// RegisterProduct добавляет товар: загружает изображение в MinIO, сохраняет
// запись и outbox-событие в одной транзакции. При ошибке транзакции
// загруженное изображение удаляется фоново.
func (p *ProductUseCase) RegisterProduct(ctx context.Context, req *RegisterProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.RegisterProduct"

	var err error
	if err = p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imageURL  *string
		uploadRes *UploadImageRes
		uploaded  bool
	)

	if req.Image != nil {
		uploadRes, err = p.imagesInfra.UploadImage(ctx, NewUploadImageReq(req.Name, *req.Image))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = true
		imageURL = &uploadRes.URL
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженного изображения
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && uploadRes != nil {
				p.logger.Warnf(
					"Cleaning up orphaned image after transaction failure. product_name: %s, error: %v",
					req.Name,
					e.Wrap(op, err),
				)

				p.imagesInfra.CleanupImages([]string{uploadRes.ObjectKey})
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := p.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Price, imageURL))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = p.createOutboxEvent(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Сброс устаревшего списка товаров в кэше
	if err := p.cacheRepo.InvalidateProducts(ctx); err != nil {
		p.logger.Warnf("Failed to invalidate products cache: %v", e.Wrap(op, err))
	}

	info := NewProductInfo(product.ID, product.Name, product.Price, product.ImageURL)
	return &info, nil
}

// GetProducts возвращает список товаров, отдавая предпочтение кэшу.
func (p *ProductUseCase) GetProducts(ctx context.Context) ([]ProductInfo, error) {
	const op = "ProductUseCase.GetProducts"

	cached, ok, err := p.cacheRepo.GetProducts(ctx)
	if err != nil {
		p.logger.Warnf("Products cache read failed: %v", e.Wrap(op, err))
	} else if ok {
		return cached, nil
	}

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое наполнение кэша
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProducts(bgCtx, products); err != nil {
			p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
		}
	}()

	return products, nil
}

// createOutboxEvent сохраняет событие product.registered в outbox в текущей транзакции.
func (p *ProductUseCase) createOutboxEvent(ctx context.Context, product *domain.Product) error {
	eventID := uuid.NewString()

	payload, err := json.Marshal(productRegisteredPayload{
		EventID:  eventID,
		Product:  product.ID,
		Name:     product.Name,
		Price:    product.Price,
		ImageURL: product.ImageURL,
	})
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, NewOutboxEvent(eventID, ProductRegistered, product.ID, payload))
	return err
}

// validateProduct проверяет корректность входных данных запроса на добавление товара.
func (p *ProductUseCase) validateProduct(req *RegisterProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Price <= 0 {
		return e.ErrPriceMustBePositive
	}

	return nil
}

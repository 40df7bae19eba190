package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/sheger-tech/chapa-backend/internal/domain"
	"github.com/sheger-tech/chapa-backend/internal/repository/pgdb/converter"
	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/e"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет новый заказ со статусом pending.
// Заказ пишется отдельным запросом, без транзакции, охватывающей обращение к шлюзу.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
		INSERT INTO orders (product_id, product_name, product_price, tx_ref, payment_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, product_id, product_name, product_price, tx_ref, payment_status, created_at, updated_at;
	`

	var model converter.OrderModel
	err := o.pool.QueryRow(ctx, query,
		order.ProductID,
		order.ProductName,
		order.ProductPrice,
		order.TxRef,
		string(order.PaymentStatus),
	).Scan(
		&model.ID, &model.ProductID, &model.ProductName, &model.ProductPrice,
		&model.TxRef, &model.PaymentStatus, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(&model), nil
}

// List возвращает все заказы без фильтрации.
func (o *OrderRepo) List(ctx context.Context) ([]usecase.OrderInfo, error) {
	query := `
		SELECT id, product_id, product_name, product_price, tx_ref, payment_status, created_at
		FROM orders
		ORDER BY id
	`

	rows, err := o.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.OrderInfo, 0)
	for rows.Next() {
		var order usecase.OrderInfo
		if err := rows.Scan(
			&order.ID, &order.ProductID, &order.ProductName, &order.ProductPrice,
			&order.TxRef, &order.PaymentStatus, &order.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, order)
	}

	return result, rows.Err()
}

// MarkCompleted переводит заказ pending -> completed одним условным UPDATE.
// Конкурентные доставки одного tx_ref безопасны: выигрывает ровно одна,
// остальные получают updated=false без ошибки.
func (o *OrderRepo) MarkCompleted(ctx context.Context, txRef string) (*domain.Order, bool, error) {
	query := `
		UPDATE orders
		SET payment_status = $1, updated_at = NOW()
		WHERE tx_ref = $2 AND payment_status = $3
		RETURNING id, product_id, product_name, product_price, tx_ref, payment_status, created_at, updated_at;
	`

	var model converter.OrderModel
	err := o.pool.QueryRow(ctx, query,
		string(domain.PaymentCompleted),
		txRef,
		string(domain.PaymentPending),
	).Scan(
		&model.ID, &model.ProductID, &model.ProductName, &model.ProductPrice,
		&model.TxRef, &model.PaymentStatus, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Заказа нет или он уже completed
			return nil, false, nil
		}

		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(&model), true, nil
}

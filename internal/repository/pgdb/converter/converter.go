//go:generate goverter gen github.com/sheger-tech/chapa-backend/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/sheger-tech/chapa-backend/internal/domain"
	"github.com/sheger-tech/chapa-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertPointerString
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// OrderConverter преобразует сущности Order между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertPaymentStatus
// goverter:extend ConvertToPaymentStatus
type OrderConverter interface {
	ToModel(entity *domain.Order) *OrderModel
	ToEntity(model *OrderModel) *domain.Order
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertOutBoxStatus
// goverter:extend ConvertToOutBoxStatus
// goverter:extend ConvertOutboxEventType
// goverter:extend ConvertToOutboxEventType
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertPointerString(s *string) *string {
	return s
}

func ConvertPaymentStatus(s domain.PaymentStatus) string {
	return string(s)
}

func ConvertToPaymentStatus(s string) domain.PaymentStatus {
	return domain.PaymentStatus(s)
}

func ConvertOutBoxStatus(s usecase.OutboxStatus) string {
	return string(s)
}

func ConvertToOutBoxStatus(s string) usecase.OutboxStatus {
	return usecase.OutboxStatus(s)
}

func ConvertOutboxEventType(t usecase.OutboxEventType) string {
	return string(t)
}

func ConvertToOutboxEventType(t string) usecase.OutboxEventType {
	return usecase.OutboxEventType(t)
}

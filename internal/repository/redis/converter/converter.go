//go:generate goverter gen github.com/sheger-tech/chapa-backend/internal/repository/redis/converter
package converter

import (
	"github.com/sheger-tech/chapa-backend/internal/usecase"
)

// ProductInfoConverter преобразует DTO товара между usecase и моделью кэша.
// goverter:converter
// goverter:extend ConvertPointerString
type ProductInfoConverter interface {
	ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo
	ToRedisModel(info usecase.ProductInfo) ProductInfoRedisModel
	ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo
	ToArrRedisModel(infos []usecase.ProductInfo) []ProductInfoRedisModel
}

func ConvertPointerString(s *string) *string {
	return s
}

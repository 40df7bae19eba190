package converter

// ProductInfoRedisModel — сериализуемое представление товара в кэше.
type ProductInfoRedisModel struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    int64   `json:"price"`
	ImageURL *string `json:"image_url,omitempty"`
}

package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID        int64
	Name      string
	Price     int64 // Цена хранится в минимальных единицах валюты (центах)
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProduct(name string, price int64, imageURL *string) *Product {
	return &Product{
		Name:     name,
		Price:    price,
		ImageURL: imageURL,
	}
}

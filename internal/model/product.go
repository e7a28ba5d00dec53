// internal/model/product.go
package model

import "github.com/shopspring/decimal"

type Product struct {
	ID    int64           `gorm:"primaryKey" db:"id" json:"id"`
	Name  string          `gorm:"size:255;not null" db:"name" json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null" db:"price" json:"price"`
	Stock int             `gorm:"not null;default:0" db:"stock" json:"stock"`
}

func (Product) TableName() string {
	return "products"
}

type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

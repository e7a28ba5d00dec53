// internal/model/order.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order keeps TotalAmount as computed at creation time; it is never recomputed
// from the current product prices.
type Order struct {
	ID          int64           `gorm:"primaryKey" db:"id" json:"id"`
	CustomerID  int64           `gorm:"not null;index" db:"customer_id" json:"-"`
	Customer    *Customer       `json:"customer,omitempty"`
	Products    []Product       `gorm:"many2many:order_products" json:"products"`
	OrderDate   time.Time       `gorm:"not null" db:"order_date" json:"orderDate"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" db:"total_amount" json:"totalAmount"`
}

func (Order) TableName() string {
	return "orders"
}

// ReminderMessage is what the order-reminder job publishes for each recent order.
type ReminderMessage struct {
	OrderID   int64     `json:"order_id"`
	Email     string    `json:"email"`
	OrderDate string    `json:"order_date"`
	QueuedAt  time.Time `json:"queued_at"`
}

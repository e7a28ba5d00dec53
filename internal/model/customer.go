// internal/model/customer.go
package model

import "time"

type Customer struct {
	ID        int64     `gorm:"primaryKey" db:"id" json:"id"`
	Name      string    `gorm:"size:255;not null" db:"name" json:"name"`
	Email     string    `gorm:"size:254;not null;uniqueIndex" db:"email" json:"email"`
	Phone     *string   `gorm:"size:32" db:"phone" json:"phone"`
	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerInput is the payload accepted by createCustomer and bulkCreateCustomers.
type CustomerInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType identifies what a payment pays for.
type PaymentType string

const (
	PaymentTypeService PaymentType = "service"
	PaymentTypeBook    PaymentType = "book"
	PaymentTypeCourse  PaymentType = "course"
)

// Valid reports whether t is one of the known payment types.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeService, PaymentTypeBook, PaymentTypeCourse:
		return true
	}
	return false
}

// UsesCatalog reports whether the item name and price come from the catalog.
func (t PaymentType) UsesCatalog() bool {
	return t == PaymentTypeBook || t == PaymentTypeCourse
}

// PaymentStatus is the reconciliation state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether a payment in status s may move to next.
// Only pending payments move, and only into a terminal status.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s != PaymentStatusPending {
		return false
	}
	switch next {
	case PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusExpired:
		return true
	}
	return false
}

// Payment is one purchase attempt. ItemName, Amount and the customer fields
// are captured when the payment is created and never change afterwards.
type Payment struct {
	BaseModel
	PaymentType PaymentType     `gorm:"type:varchar(20);index;not null" json:"payment_type"`
	ItemID      *uint           `json:"item_id"`
	ItemName    string          `gorm:"size:200;not null" json:"item_name"`
	Quantity    int             `gorm:"column:qty;not null" json:"qty"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency    string          `gorm:"size:10;not null" json:"currency"`
	FullName    string          `gorm:"size:150;not null" json:"full_name"`
	Email       string          `gorm:"size:254;not null" json:"email"`
	Phone       *string         `gorm:"size:20" json:"phone"`
	SessionID   *string         `gorm:"uniqueIndex" json:"session_id"`
	Status      PaymentStatus   `gorm:"type:varchar(20);index;not null" json:"status"`
	Fulfilled   bool            `gorm:"not null" json:"fulfilled"`
}

// PaymentEvent is published whenever a payment changes status.
type PaymentEvent struct {
	Type        string          `json:"type"`
	PaymentID   uuid.UUID       `json:"payment_id"`
	PaymentType PaymentType     `json:"payment_type"`
	ItemID      *uint           `json:"item_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Email       string          `json:"email"`
	Status      PaymentStatus   `json:"status"`
	Timestamp   int64           `json:"timestamp"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID     uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Status OrderStatus `gorm:"type:varchar(20);index"`
	Items  []OrderItem

	Name  string `gorm:"size:140"`
	Email string `gorm:"size:140"`
	Phone string `gorm:"size:50"`
	TaxID string `gorm:"size:30"`

	Total         float64 `gorm:"type:decimal(12,2)"`
	PaymentMethod string  `gorm:"size:30;index"`

	// Notes collects annotations recorded while talking to the ledger, in
	// arrival order.
	Notes []string `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`
	Title   string    `gorm:"size:200"`
	SKU     string    `gorm:"size:120"`
	Qty     int       `gorm:"not null"`

	UnitPrice float64 `gorm:"type:decimal(12,2)"`
	Subtotal  float64 `gorm:"type:decimal(12,2)"`

	IsGiftCard   bool   `gorm:"default:false"`
	GiftCardCode string `gorm:"size:60"`
}

// SaleItem and SalePayload mirror the Colibri /createSale contract; json tags
// are the wire names the ledger expects.
type SaleItem struct {
	SKU   string  `json:"sku"`
	Price float64 `json:"precio"`
	Qty   int     `json:"cantidad"`
}

type SalePayload struct {
	Name        string     `json:"nombre"`
	Phone       string     `json:"celular"`
	Email       string     `json:"email1"`
	TaxID       string     `json:"carnet"`
	Items       []SaleItem `json:"productos"`
	PaymentType string     `json:"tipoPago"`
	TotalPaid   float64    `json:"montoPagado"`
}

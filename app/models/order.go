package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusShipping  = "shipping"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment methods and statuses.
const (
	PaymentCOD          = "cod"
	PaymentBankTransfer = "bank_transfer"
	PaymentMomo         = "momo"
	PaymentVNPay        = "vnpay"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// OrderItem is a line snapshot taken from the product at order time.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product"         json:"product"`
	Name     string             `bson:"name"            json:"name"`
	Price    float64            `bson:"price"           json:"price"`
	Quantity int                `bson:"quantity"        json:"quantity"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
}

// Subtotal is Price × Quantity.
func (i OrderItem) Subtotal() float64 { return i.Price * float64(i.Quantity) }

// ShippingAddress is the delivery contact for an order.
type ShippingAddress struct {
	Name     string `bson:"name"               json:"name"               validate:"required"`
	Phone    string `bson:"phone"              json:"phone"              validate:"required"`
	Street   string `bson:"street"             json:"street"             validate:"required"`
	Ward     string `bson:"ward,omitempty"     json:"ward,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
	City     string `bson:"city"               json:"city"               validate:"required"`
	Note     string `bson:"note,omitempty"     json:"note,omitempty"`
}

// StatusChange is one append-only audit entry.
type StatusChange struct {
	Status    string              `bson:"status"              json:"status"`
	Note      string              `bson:"note,omitempty"      json:"note,omitempty"`
	UpdatedBy *primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt time.Time           `bson:"updatedAt"           json:"updatedAt"`
}

// Order is a customer purchase.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"          json:"_id"`
	OrderNumber     string             `bson:"orderNumber"            json:"orderNumber"`
	User            primitive.ObjectID `bson:"user"                   json:"user"`
	OrderItems      []OrderItem        `bson:"orderItems"             json:"orderItems"`
	TotalPrice      float64            `bson:"totalPrice"             json:"totalPrice"`
	ShippingFee     float64            `bson:"shippingFee"            json:"shippingFee"`
	Discount        float64            `bson:"discount"               json:"discount"`
	Status          string             `bson:"status"                 json:"status"`
	PaymentMethod   string             `bson:"paymentMethod"          json:"paymentMethod"`
	PaymentStatus   string             `bson:"paymentStatus"          json:"paymentStatus"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress"        json:"shippingAddress"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty"  json:"deliveredAt,omitempty"`
	CancelReason    string             `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	Note            string             `bson:"note,omitempty"         json:"note,omitempty"`
	StaffNotes      string             `bson:"staffNotes,omitempty"   json:"staffNotes,omitempty"`
	StatusHistory   []StatusChange     `bson:"statusHistory"          json:"statusHistory"`
	CreatedAt       time.Time          `bson:"createdAt"              json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"              json:"updatedAt"`
}

// ItemsTotal sums the line subtotals.
func (o Order) ItemsTotal() float64 {
	var total float64
	for _, it := range o.OrderItems {
		total += it.Subtotal()
	}
	return total
}

// ContainsProduct reports whether any line references productID.
func (o Order) ContainsProduct(productID primitive.ObjectID) bool {
	for _, it := range o.OrderItems {
		if it.Product == productID {
			return true
		}
	}
	return false
}

// OrderView is an order with its customer populated, used by listings.
type OrderView struct {
	Order    `bson:",inline"`
	Customer *UserSummary `bson:"customer,omitempty" json:"customer,omitempty"`
}

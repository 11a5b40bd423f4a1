package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomfood/storefront/app/models"
)

// Domain events fired after a successful write.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventProductChanged     = "product.changed"
	EventReviewChanged      = "review.changed"
)

// OrderStatusChanged is the payload of EventOrderStatusChanged.
type OrderStatusChanged struct {
	Order *models.Order
	From  string
	To    string
	By    primitive.ObjectID
}

// ProductChanged is the payload of EventProductChanged.
type ProductChanged struct {
	ID     primitive.ObjectID
	Action string // created | updated | deleted
}

// ReviewChanged is the payload of EventReviewChanged.
type ReviewChanged struct {
	Review *models.Review
	Action string // created | approved | rejected | replied | deleted
}

package services

import "github.com/nomfood/storefront/app/models"

// transitions is the order state machine. Terminal states map to nothing.
var transitions = map[string][]string{
	models.StatusPending:   {models.StatusConfirmed, models.StatusPreparing, models.StatusShipping, models.StatusDelivered, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusPreparing, models.StatusShipping, models.StatusDelivered, models.StatusCancelled},
	models.StatusPreparing: {models.StatusShipping, models.StatusDelivered, models.StatusCancelled},
	models.StatusShipping:  {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered: nil,
	models.StatusCancelled: nil,
}

// IsKnownStatus reports whether s is an order status.
func IsKnownStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s string) bool {
	return IsKnownStatus(s) && len(transitions[s]) == 0
}

// statusLabels are the customer-facing status names.
var statusLabels = map[string]string{
	models.StatusPending:   "Chờ xác nhận",
	models.StatusConfirmed: "Đã xác nhận",
	models.StatusPreparing: "Đang chuẩn bị",
	models.StatusShipping:  "Đang giao",
	models.StatusDelivered: "Đã giao",
	models.StatusCancelled: "Đã hủy",
}

// StatusLabel returns the display name of s, or s itself.
func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

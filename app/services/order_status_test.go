package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nomfood/storefront/app/models"
)

func TestCanTransition(t *testing.T) {
	all := []string{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusShipping, models.StatusDelivered, models.StatusCancelled,
	}
	allowed := map[[2]string]bool{
		{"pending", "confirmed"}: true, {"pending", "preparing"}: true, {"pending", "shipping"}: true,
		{"pending", "delivered"}: true, {"pending", "cancelled"}: true,
		{"confirmed", "preparing"}: true, {"confirmed", "shipping"}: true,
		{"confirmed", "delivered"}: true, {"confirmed", "cancelled"}: true,
		{"preparing", "shipping"}: true, {"preparing", "delivered"}: true, {"preparing", "cancelled"}: true,
		{"shipping", "delivered"}: true, {"shipping", "cancelled"}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]string{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalAndKnown(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusDelivered))
	assert.True(t, IsTerminal(models.StatusCancelled))
	assert.False(t, IsTerminal(models.StatusShipping))
	assert.False(t, IsTerminal("refunded"))

	assert.True(t, IsKnownStatus(models.StatusPreparing))
	assert.False(t, IsKnownStatus("refunded"))
	assert.False(t, CanTransition("refunded", models.StatusCancelled))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Đang giao", StatusLabel(models.StatusShipping))
	assert.Equal(t, "unknown", StatusLabel("unknown"))
}

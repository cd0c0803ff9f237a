package models_test

import (
	"testing"
	"time"

	"github.com/sipwell/storefront-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusConfirmed, models.OrderStatusShipped, true},
		{models.OrderStatusConfirmed, models.OrderStatusCancelled, true},
		{models.OrderStatusConfirmed, models.OrderStatusPending, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, true},
		{models.OrderStatusShipped, models.OrderStatusConfirmed, false},
		{models.OrderStatusDelivered, models.OrderStatusPending, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, models.OrderStatusDelivered.IsTerminal())
	assert.True(t, models.OrderStatusCancelled.IsTerminal())
	assert.False(t, models.OrderStatusPending.IsTerminal())
	assert.False(t, models.OrderStatusConfirmed.IsTerminal())
	assert.False(t, models.OrderStatusShipped.IsTerminal())
}

func TestPaymentStatus_Transitions(t *testing.T) {
	assert.True(t, models.PaymentStatusPending.CanTransitionTo(models.PaymentStatusPaid))
	assert.True(t, models.PaymentStatusPending.CanTransitionTo(models.PaymentStatusFailed))
	assert.True(t, models.PaymentStatusPaid.CanTransitionTo(models.PaymentStatusRefunded))

	assert.False(t, models.PaymentStatusPaid.CanTransitionTo(models.PaymentStatusPending))
	assert.False(t, models.PaymentStatusFailed.CanTransitionTo(models.PaymentStatusPaid))
	assert.False(t, models.PaymentStatusRefunded.CanTransitionTo(models.PaymentStatusPaid))
}

func TestApplyStatus_SkippingConfirmedIsRejected(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusPending}

	err := order.ApplyStatus(models.OrderStatusShipped, time.Now())

	require.Error(t, err)
	var terr *models.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "pending", terr.From)
	assert.Equal(t, "shipped", terr.To)
	assert.Equal(t, models.OrderStatusPending, order.Status, "failed transition leaves the order unchanged")
	assert.Nil(t, order.ShippedAt)
}

func TestApplyStatus_FullLifecycleStampsTimestamps(t *testing.T) {
	order := &models.Order{Status: models.OrderStatusPending}

	confirmedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, order.ApplyStatus(models.OrderStatusConfirmed, confirmedAt))
	assert.Equal(t, confirmedAt, order.UpdatedAt)
	assert.Nil(t, order.ShippedAt)

	shippedAt := confirmedAt.Add(2 * time.Hour)
	require.NoError(t, order.ApplyStatus(models.OrderStatusShipped, shippedAt))
	require.NotNil(t, order.ShippedAt)
	assert.Equal(t, shippedAt, *order.ShippedAt)

	deliveredAt := shippedAt.Add(3 * time.Hour)
	require.NoError(t, order.ApplyStatus(models.OrderStatusDelivered, deliveredAt))
	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, deliveredAt, *order.DeliveredAt)
	assert.Equal(t, deliveredAt, order.UpdatedAt)
}

func TestApplyStatus_CancelFromAnyNonTerminal(t *testing.T) {
	for _, from := range []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
	} {
		order := &models.Order{Status: from}
		require.NoError(t, order.ApplyStatus(models.OrderStatusCancelled, time.Now()), "cancel from %s", from)
		assert.Equal(t, models.OrderStatusCancelled, order.Status)
	}
}

func TestApplyPaymentStatus_IndependentOfOrderStatus(t *testing.T) {
	// COD: delivered while payment still pending, then marked paid by the agent.
	order := &models.Order{
		Status:        models.OrderStatusDelivered,
		PaymentStatus: models.PaymentStatusPending,
	}

	require.NoError(t, order.ApplyPaymentStatus(models.PaymentStatusPaid, time.Now()))
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
}

func TestParseOrderStatus(t *testing.T) {
	s, err := models.ParseOrderStatus("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, s)

	_, err = models.ParseOrderStatus("ready_to_teleport")
	require.Error(t, err)
}

func TestParsePaymentStatus(t *testing.T) {
	s, err := models.ParsePaymentStatus("PAID")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, s)

	_, err = models.ParsePaymentStatus("iou")
	require.Error(t, err)
}

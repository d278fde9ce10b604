package service

import (
	"testing"
	"time"

	"shop_trade/internal/domain/order/model"

	"github.com/stretchr/testify/assert"
)

func TestWindowRefundPolicy(t *testing.T) {
	policy := WindowRefundPolicy(72 * time.Hour)
	now := time.Now()

	t.Run("Within window allowed", func(t *testing.T) {
		payTime := now.Add(-71 * time.Hour)
		order := &model.Order{Status: model.StatusPaid, PayTime: &payTime}
		assert.NoError(t, policy(order, now))
	})

	t.Run("Past window denied", func(t *testing.T) {
		payTime := now.Add(-73 * time.Hour)
		order := &model.Order{Status: model.StatusPaid, PayTime: &payTime}
		assert.ErrorIs(t, policy(order, now), ErrRefundWindowClosed)
	})

	t.Run("Shipped denied regardless of window", func(t *testing.T) {
		payTime := now.Add(-time.Hour)
		order := &model.Order{Status: model.StatusShipped, PayTime: &payTime}
		assert.ErrorIs(t, policy(order, now), ErrRefundAfterShip)
	})

	t.Run("Missing pay time denied", func(t *testing.T) {
		order := &model.Order{Status: model.StatusPaid}
		assert.Error(t, policy(order, now))
	})
}

func TestAlwaysAllowPolicy(t *testing.T) {
	policy := AlwaysAllowPolicy()
	order := &model.Order{Status: model.StatusShipped}
	assert.NoError(t, policy(order, time.Now()))
}

package service

import (
	"errors"
	"time"

	"shop_trade/internal/domain/order/model"
)

// RefundPolicy 退款资格校验，规则可插拔
// 返回 nil 表示允许退款
type RefundPolicy func(order *model.Order, now time.Time) error

var (
	ErrRefundWindowClosed = errors.New("refund window closed")
	ErrRefundAfterShip    = errors.New("refund not allowed after shipment")
)

// WindowRefundPolicy 默认策略：支付后 window 内可退，已发货不可退
func WindowRefundPolicy(window time.Duration) RefundPolicy {
	return func(order *model.Order, now time.Time) error {
		if order.Status == model.StatusShipped {
			return ErrRefundAfterShip
		}
		if order.PayTime == nil {
			return errors.New("order has no pay time")
		}
		if now.Sub(*order.PayTime) > window {
			return ErrRefundWindowClosed
		}
		return nil
	}
}

// AlwaysAllowPolicy 无条件允许，管理端强制退款使用
func AlwaysAllowPolicy() RefundPolicy {
	return func(order *model.Order, now time.Time) error {
		return nil
	}
}

package model

import (
	baseModel "shop_trade/pkg/model"
)

// PaymentAttempt 一次支付渠道调用
// 一个订单可以有多次失败的尝试，最多一次 success
type PaymentAttempt struct {
	baseModel.BaseModel
	OrderNo      string `gorm:"index;not null" json:"orderNo"`
	Channel      string `gorm:"not null" json:"channel"` // alipay, wechat, coin
	Amount       int64  `gorm:"not null" json:"amount"`
	Status       string `gorm:"default:'pending'" json:"status"` // pending, success, failed, cancelled
	ThirdPartyNo string `json:"thirdPartyNo"`                    // 渠道交易号，成功后写入
}

const (
	AttemptPending   = "pending"
	AttemptSuccess   = "success"
	AttemptFailed    = "failed"
	AttemptCancelled = "cancelled"
)

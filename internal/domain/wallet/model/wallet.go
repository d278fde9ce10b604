package model

import (
	baseModel "shop_trade/pkg/model"
)

// Wallet 用户钱包，现金与金币两个独立余额
// 余额只能通过条件更新的 debit/credit 修改，应用层禁止读后写
type Wallet struct {
	baseModel.BaseModel
	UserID      uint64 `gorm:"uniqueIndex;not null" json:"userId"`
	CashBalance int64  `gorm:"not null;default:0" json:"cashBalance"` // 分
	CoinBalance int64  `gorm:"not null;default:0" json:"coinBalance"`
}

// WalletTransaction 钱包流水，同时充当幂等去重表
// (user_id, business_id, op_kind) 唯一，重放同一笔操作在插入流水时冲突
type WalletTransaction struct {
	baseModel.BaseModel
	UserID     uint64 `gorm:"uniqueIndex:idx_wallet_txn_dedupe;not null" json:"userId"`
	BusinessID string `gorm:"uniqueIndex:idx_wallet_txn_dedupe;not null" json:"businessId"` // 订单号
	OpKind     string `gorm:"uniqueIndex:idx_wallet_txn_dedupe;not null" json:"opKind"`
	Currency   string `gorm:"not null" json:"currency"`
	Amount     int64  `gorm:"not null" json:"amount"` // 正数扣减，负数入账
}

const (
	CurrencyCash = "cash"
	CurrencyCoin = "coin"

	OpKindOrderPay    = "order_pay"
	OpKindOrderRefund = "order_refund"
	OpKindRecharge    = "recharge"
)

// Key 幂等键值对象
type Key struct {
	UserID     uint64
	BusinessID string
	OpKind     string
}

package model

import (
	baseModel "shop_trade/pkg/model"
)

// Goods 商品模型
// 金额统一使用 int64 分存储，避免浮点运算误差
type Goods struct {
	baseModel.BaseModel
	Name      string `gorm:"not null" json:"name"`
	GoodsType string `gorm:"not null;index" json:"goodsType"` // coin, goods, subscription, content
	SellerID  uint64 `gorm:"index" json:"sellerId"`
	Price     int64  `gorm:"not null" json:"price"`     // 现金价格（分）
	CoinPrice int64  `json:"coinPrice"`                 // 金币价格
	Stock     int64  `gorm:"not null" json:"stock"`     // 库存
	Status    int    `gorm:"default:1" json:"status"`   // 1:上架 0:下架
}

const (
	// 商品类型：仅实物商品需要发货
	TypeCoin         = "coin"         // 金币充值包
	TypeGoods        = "goods"        // 实物商品
	TypeSubscription = "subscription" // 订阅
	TypeContent      = "content"      // 付费内容

	StatusActive   = 1
	StatusInactive = 0
)

// IsVirtual 虚拟商品无需发货，支付后可直接完成
func (g *Goods) IsVirtual() bool {
	return g.GoodsType != TypeGoods
}

// ValidType 校验商品类型取值
func ValidType(t string) bool {
	switch t {
	case TypeCoin, TypeGoods, TypeSubscription, TypeContent:
		return true
	}
	return false
}

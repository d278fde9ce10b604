package model

import (
	"fmt"
	"time"

	baseModel "shop_trade/pkg/model"

	"github.com/google/uuid"
)

// Order 订单模型
// 订单状态与支付状态是两条正交的轴：退款不会自动取消订单，
// 因此 (paid, refunded) 是合法组合
type Order struct {
	baseModel.BaseModel
	OrderNo  string `gorm:"uniqueIndex;not null" json:"orderNo"`
	UserID   uint64 `gorm:"index;not null" json:"userId"`
	SellerID uint64 `gorm:"index" json:"sellerId"`

	GoodsID   uint64 `gorm:"index;not null" json:"goodsId"`
	GoodsName string `json:"goodsName"` // 下单时的商品名快照
	GoodsType string `gorm:"index;not null" json:"goodsType"`
	Quantity  int64  `gorm:"not null" json:"quantity"`

	// 金额字段，单位为分（coin 模式下为金币数）
	UnitPrice      int64 `gorm:"not null" json:"unitPrice"`
	TotalAmount    int64 `gorm:"not null" json:"totalAmount"`
	DiscountAmount int64 `gorm:"not null;default:0" json:"discountAmount"`
	FinalAmount    int64 `gorm:"not null" json:"finalAmount"`

	// 支付字段：CashAmount 与 CoinCost 恰好一个有值，与 PayMode 对应
	PayMode    string     `gorm:"not null" json:"payMode"` // cash, coin
	CashAmount *int64     `json:"cashAmount,omitempty"`
	CoinCost   *int64     `json:"coinCost,omitempty"`
	PayMethod  string     `json:"payMethod"` // alipay, wechat, balance, coin；发起支付后才有值
	PayTime    *time.Time `json:"payTime,omitempty"`

	Status    string `gorm:"index;default:'pending'" json:"status"`
	PayStatus string `gorm:"index;default:'unpaid'" json:"payStatus"`

	ShipTime     *time.Time `json:"shipTime,omitempty"`
	TrackingNo   string     `json:"trackingNo,omitempty"`
	CancelReason string     `json:"cancelReason,omitempty"`
	RefundReason string     `json:"refundReason,omitempty"`
}

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	PayStatusUnpaid   = "unpaid"
	PayStatusPaid     = "paid"
	PayStatusRefunded = "refunded"

	PayModeCash = "cash"
	PayModeCoin = "coin"

	PayMethodAlipay  = "alipay"
	PayMethodWechat  = "wechat"
	PayMethodBalance = "balance"
	PayMethodCoin    = "coin"
)

// statusTransitions 订单状态转移表
// cancelled 只能从 pending/paid 到达；completed/cancelled 为终态
var statusTransitions = map[string][]string{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCompleted, StatusCancelled},
	StatusShipped:   {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// payStatusTransitions 支付状态转移表
var payStatusTransitions = map[string][]string{
	PayStatusUnpaid:   {PayStatusPaid},
	PayStatusPaid:     {PayStatusRefunded},
	PayStatusRefunded: {},
}

// CanTransition 校验订单状态转移是否合法
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionPay 校验支付状态转移是否合法
func CanTransitionPay(from, to string) bool {
	for _, next := range payStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal 是否终态
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Validate 校验金额与支付模式不变式
func (o *Order) Validate() error {
	if o.DiscountAmount < 0 {
		return fmt.Errorf("discount amount must not be negative")
	}
	if o.FinalAmount < 0 {
		return fmt.Errorf("final amount must not be negative")
	}
	if o.FinalAmount != o.TotalAmount-o.DiscountAmount {
		return fmt.Errorf("final amount must equal total minus discount")
	}

	switch o.PayMode {
	case PayModeCash:
		if o.CashAmount == nil || o.CoinCost != nil {
			return fmt.Errorf("cash order must set cash amount only")
		}
	case PayModeCoin:
		if o.CoinCost == nil || o.CashAmount != nil {
			return fmt.Errorf("coin order must set coin cost only")
		}
	default:
		return fmt.Errorf("unknown pay mode: %s", o.PayMode)
	}
	return nil
}

// Amount 当前支付模式下应结算的金额
func (o *Order) Amount() int64 {
	if o.PayMode == PayModeCoin && o.CoinCost != nil {
		return *o.CoinCost
	}
	if o.CashAmount != nil {
		return *o.CashAmount
	}
	return o.FinalAmount
}

// NewOrderNo 生成订单号：时间戳 + 随机后缀
func NewOrderNo() string {
	return fmt.Sprintf("%s%s", time.Now().Format("20060102150405"), uuid.New().String()[:8])
}

package repository

import (
	"errors"
	"time"

	"shop_trade/internal/domain/order/model"

	"gorm.io/gorm"
)

// ErrOrderStatusChanged CAS 更新零行生效，订单已被并发方转移
var ErrOrderStatusChanged = errors.New("order status changed")

// Filter 订单查询条件
type Filter struct {
	UserID    uint64
	SellerID  uint64
	GoodsID   uint64
	GoodsType string
	Status    string
	PayStatus string
	Keyword   string // 订单号/商品名模糊匹配
	TimeFrom  *time.Time
	TimeTo    *time.Time
}

// UserStats 单用户订单统计
type UserStats struct {
	UserID     uint64 `json:"userId"`
	OrderCount int64  `json:"orderCount"`
	TotalSpend int64  `json:"totalSpend"`
}

// GoodsSales 单商品销售统计
type GoodsSales struct {
	GoodsID    uint64 `json:"goodsId"`
	GoodsName  string `json:"goodsName"`
	OrderCount int64  `json:"orderCount"`
	Revenue    int64  `json:"revenue"`
}

// DailyRevenue 按天营收
type DailyRevenue struct {
	Day     string `json:"day"`
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
}

type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id uint64) (*model.Order, error)
	GetByOrderNo(orderNo string) (*model.Order, error)
	Query(filter Filter, offset, limit int) ([]model.Order, int64, error)

	// MarkPaid CAS：pending/unpaid -> paid/paid，并发重复标记返回 ErrOrderStatusChanged
	MarkPaid(orderNo, payMethod string, payTime time.Time) error
	// MarkRefunded CAS：pay_status paid -> refunded，订单状态不变
	MarkRefunded(orderNo, reason string) error
	// TransitionStatus CAS 状态转移，可附带额外字段更新
	TransitionStatus(orderNo, from, to string, extra map[string]interface{}) error
	// SetPayMethod 发起支付时记录渠道，不改变状态
	SetPayMethod(orderNo, payMethod string) error

	FindTimeoutUnpaid(before time.Time, limit int) ([]model.Order, error)
	FindShippedBefore(before time.Time, limit int) ([]model.Order, error)

	CreateAttempt(attempt *model.PaymentAttempt) error
	UpdateAttemptStatus(orderNo, channel, fromStatus, toStatus, thirdPartyNo string) error
	GetAttempts(orderNo string) ([]model.PaymentAttempt, error)

	GetUserStats(userID uint64) (*UserStats, error)
	GetGoodsSales(goodsID uint64) (*GoodsSales, error)
	GetDailyRevenue(from, to time.Time) ([]DailyRevenue, error)
	GetHotGoods(limit int) ([]GoodsSales, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint64) (*model.Order, error) {
	var order model.Order
	if err := r.db.First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNo(orderNo string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Query(filter Filter, offset, limit int) ([]model.Order, int64, error) {
	q := r.db.Model(&model.Order{})

	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.SellerID != 0 {
		q = q.Where("seller_id = ?", filter.SellerID)
	}
	if filter.GoodsID != 0 {
		q = q.Where("goods_id = ?", filter.GoodsID)
	}
	if filter.GoodsType != "" {
		q = q.Where("goods_type = ?", filter.GoodsType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PayStatus != "" {
		q = q.Where("pay_status = ?", filter.PayStatus)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		q = q.Where("order_no ILIKE ? OR goods_name ILIKE ?", kw, kw)
	}
	if filter.TimeFrom != nil {
		q = q.Where("created_at >= ?", *filter.TimeFrom)
	}
	if filter.TimeTo != nil {
		q = q.Where("created_at < ?", *filter.TimeTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) MarkPaid(orderNo, payMethod string, payTime time.Time) error {
	result := r.db.Model(&model.Order{}).
		Where("order_no = ? AND status = ? AND pay_status = ?",
			orderNo, model.StatusPending, model.PayStatusUnpaid).
		Updates(map[string]interface{}{
			"status":     model.StatusPaid,
			"pay_status": model.PayStatusPaid,
			"pay_method": payMethod,
			"pay_time":   payTime,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusChanged
	}
	return nil
}

func (r *orderRepository) MarkRefunded(orderNo, reason string) error {
	result := r.db.Model(&model.Order{}).
		Where("order_no = ? AND pay_status = ?", orderNo, model.PayStatusPaid).
		Updates(map[string]interface{}{
			"pay_status":    model.PayStatusRefunded,
			"refund_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusChanged
	}
	return nil
}

func (r *orderRepository) TransitionStatus(orderNo, from, to string, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	result := r.db.Model(&model.Order{}).
		Where("order_no = ? AND status = ?", orderNo, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusChanged
	}
	return nil
}

func (r *orderRepository) SetPayMethod(orderNo, payMethod string) error {
	return r.db.Model(&model.Order{}).
		Where("order_no = ?", orderNo).
		Update("pay_method", payMethod).Error
}

func (r *orderRepository) FindTimeoutUnpaid(before time.Time, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("status = ? AND pay_status = ? AND created_at < ?",
		model.StatusPending, model.PayStatusUnpaid, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) FindShippedBefore(before time.Time, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("status = ? AND ship_time < ?", model.StatusShipped, before).
		Order("ship_time ASC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CreateAttempt(attempt *model.PaymentAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *orderRepository) UpdateAttemptStatus(orderNo, channel, fromStatus, toStatus, thirdPartyNo string) error {
	updates := map[string]interface{}{"status": toStatus}
	if thirdPartyNo != "" {
		updates["third_party_no"] = thirdPartyNo
	}
	return r.db.Model(&model.PaymentAttempt{}).
		Where("order_no = ? AND channel = ? AND status = ?", orderNo, channel, fromStatus).
		Updates(updates).Error
}

func (r *orderRepository) GetAttempts(orderNo string) ([]model.PaymentAttempt, error) {
	var attempts []model.PaymentAttempt
	err := r.db.Where("order_no = ?", orderNo).Order("id ASC").Find(&attempts).Error
	return attempts, err
}

func (r *orderRepository) GetUserStats(userID uint64) (*UserStats, error) {
	stats := &UserStats{UserID: userID}
	err := r.db.Model(&model.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(final_amount), 0) AS total_spend").
		Where("user_id = ? AND pay_status = ?", userID, model.PayStatusPaid).
		Scan(stats).Error
	return stats, err
}

func (r *orderRepository) GetGoodsSales(goodsID uint64) (*GoodsSales, error) {
	stats := &GoodsSales{GoodsID: goodsID}
	err := r.db.Model(&model.Order{}).
		Select("MAX(goods_name) AS goods_name, COUNT(*) AS order_count, COALESCE(SUM(final_amount), 0) AS revenue").
		Where("goods_id = ? AND pay_status = ?", goodsID, model.PayStatusPaid).
		Scan(stats).Error
	return stats, err
}

func (r *orderRepository) GetDailyRevenue(from, to time.Time) ([]DailyRevenue, error) {
	var rows []DailyRevenue
	err := r.db.Model(&model.Order{}).
		Select("TO_CHAR(pay_time, 'YYYY-MM-DD') AS day, COALESCE(SUM(final_amount), 0) AS revenue, COUNT(*) AS orders").
		Where("pay_status = ? AND pay_time >= ? AND pay_time < ?", model.PayStatusPaid, from, to).
		Group("TO_CHAR(pay_time, 'YYYY-MM-DD')").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepository) GetHotGoods(limit int) ([]GoodsSales, error) {
	var rows []GoodsSales
	err := r.db.Model(&model.Order{}).
		Select("goods_id, MAX(goods_name) AS goods_name, COUNT(*) AS order_count, COALESCE(SUM(final_amount), 0) AS revenue").
		Where("pay_status = ?", model.PayStatusPaid).
		Group("goods_id").
		Order("order_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goodsModel "shop_trade/internal/domain/goods/model"
	goodsService "shop_trade/internal/domain/goods/service"
	"shop_trade/internal/domain/order/model"
	"shop_trade/internal/domain/order/repository"
	"shop_trade/internal/domain/payment/strategy"
	userService "shop_trade/internal/domain/user/service"
	walletModel "shop_trade/internal/domain/wallet/model"
	walletService "shop_trade/internal/domain/wallet/service"
	"shop_trade/internal/pkg/event"
	"shop_trade/pkg/logger"
	"shop_trade/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUnsupportedChannel     = errors.New("unsupported payment channel")
	ErrNotOrderOwner          = errors.New("not the order owner")
	ErrInsufficientStock      = goodsService.ErrInsufficientStock
	ErrInsufficientBalance    = walletService.ErrInsufficientBalance
)

// hotGoodsKey 热销商品排行的 Redis ZSET key
const hotGoodsKey = "order:hot:goods"

// CreateOrderInput 下单请求
type CreateOrderInput struct {
	UserID         uint64
	GoodsID        uint64
	Quantity       int64
	PayMode        string // cash, coin
	DiscountAmount int64
}

// BatchResult 批量操作结果
type BatchResult struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// OrderService 订单状态机与结算编排
type OrderService interface {
	CreateOrder(input CreateOrderInput) (*model.Order, error)
	GetOrderByID(id uint64) (*model.Order, error)
	GetOrderByNo(orderNo string) (*model.Order, error)
	QueryOrders(filter repository.Filter, page, limit int) ([]model.Order, int64, error)

	// ProcessPayment 发起支付。coin 模式同步扣款并标记已支付；
	// cash 模式委托支付渠道，返回支付参数，订单保持 pending 等待回调
	ProcessPayment(orderNo string, userID uint64, channel string) (string, *model.Order, error)
	// ConfirmPayment 同步确认支付（管理端/对账），等价于一次成功回调
	ConfirmPayment(orderNo, payMethod, thirdPartyNo string) error
	// HandlePaymentCallback 处理渠道异步回调，对已支付订单幂等
	HandlePaymentCallback(channel string, params interface{}) error

	RequestRefund(orderNo string, userID uint64, reason string) error
	CancelOrder(orderNo string, reason string) error
	BatchCancelOrders(orderNos []string, reason string) BatchResult
	ShipOrder(orderNo string, sellerID uint64, trackingNo string) error
	ConfirmReceipt(orderNo string, userID uint64) error
	CompleteOrder(orderNo string) error

	GetTimeoutOrders(limit int) ([]model.Order, error)
	AutoCancelTimeoutOrders() (processed, failed int)
	AutoCompleteShippedOrders() (processed, failed int)

	GetUserStats(userID uint64) (*repository.UserStats, error)
	GetGoodsSales(goodsID uint64) (*repository.GoodsSales, error)
	GetDailyRevenue(from, to time.Time) ([]repository.DailyRevenue, error)
	GetHotGoods(limit int) ([]repository.GoodsSales, error)
	GetHotGoodsRealtime(limit int) ([]HotGoods, error)

	RegisterStrategy(channel string, st strategy.PaymentStrategy)
}

type orderService struct {
	repo       repository.OrderRepository
	goods      goodsService.GoodsService
	wallet     walletService.WalletService
	users      userService.UserService
	strategies map[string]strategy.PaymentStrategy
	events     *event.Dispatcher
	rdb        *redis.Client
	policy     RefundPolicy

	timeout      time.Duration // 未支付超时
	autoComplete time.Duration // 发货后自动完成
}

// Options 订单服务配置
type Options struct {
	Timeout      time.Duration
	AutoComplete time.Duration
	Policy       RefundPolicy
	Events       *event.Dispatcher
	Redis        *redis.Client
}

func NewOrderService(
	repo repository.OrderRepository,
	goods goodsService.GoodsService,
	wallet walletService.WalletService,
	users userService.UserService,
	opts Options,
) OrderService {
	if opts.Policy == nil {
		opts.Policy = AlwaysAllowPolicy()
	}
	return &orderService{
		repo:         repo,
		goods:        goods,
		wallet:       wallet,
		users:        users,
		strategies:   make(map[string]strategy.PaymentStrategy),
		events:       opts.Events,
		rdb:          opts.Redis,
		policy:       opts.Policy,
		timeout:      opts.Timeout,
		autoComplete: opts.AutoComplete,
	}
}

// RegisterStrategy 注册支付渠道
func (s *orderService) RegisterStrategy(channel string, st strategy.PaymentStrategy) {
	s.strategies[channel] = st
}

// CreateOrder 创建订单
// 校验 -> 商品快照 -> 计算金额 -> 原子扣库存 -> 落库
// 落库失败时回补库存，保证不超卖也不少卖
func (s *orderService) CreateOrder(input CreateOrderInput) (*model.Order, error) {
	if input.UserID == 0 {
		return nil, errors.New("user id is required")
	}
	if input.Quantity < 1 || input.Quantity > 999 {
		return nil, errors.New("quantity must be between 1 and 999")
	}
	if input.DiscountAmount < 0 {
		return nil, errors.New("discount amount must not be negative")
	}
	if input.PayMode != model.PayModeCash && input.PayMode != model.PayModeCoin {
		return nil, errors.New("pay mode must be cash or coin")
	}

	exists, err := s.users.Exists(input.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.New("user not found")
	}

	// 商品快照：价格、库存、类型
	snapshot, err := s.goods.GetSnapshot(input.GoodsID)
	if err != nil {
		return nil, err
	}

	var unitPrice int64
	if input.PayMode == model.PayModeCoin {
		unitPrice = snapshot.CoinPrice
	} else {
		unitPrice = snapshot.Price
	}
	if unitPrice <= 0 {
		return nil, fmt.Errorf("goods has no price for pay mode %s", input.PayMode)
	}

	totalAmount := unitPrice * input.Quantity
	if input.DiscountAmount > totalAmount {
		return nil, errors.New("discount exceeds total amount")
	}
	finalAmount := totalAmount - input.DiscountAmount

	// 原子扣库存，库存不足直接失败，不产生订单
	if err := s.goods.DecrementStock(input.GoodsID, input.Quantity); err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNo:        model.NewOrderNo(),
		UserID:         input.UserID,
		SellerID:       snapshot.SellerID,
		GoodsID:        snapshot.GoodsID,
		GoodsName:      snapshot.Name,
		GoodsType:      snapshot.GoodsType,
		Quantity:       input.Quantity,
		UnitPrice:      unitPrice,
		TotalAmount:    totalAmount,
		DiscountAmount: input.DiscountAmount,
		FinalAmount:    finalAmount,
		PayMode:        input.PayMode,
		Status:         model.StatusPending,
		PayStatus:      model.PayStatusUnpaid,
	}
	if input.PayMode == model.PayModeCoin {
		order.CoinCost = &finalAmount
	} else {
		order.CashAmount = &finalAmount
	}

	if err := order.Validate(); err != nil {
		// 金额不变式被破坏，回补库存后失败
		s.restoreStock(order.GoodsID, order.Quantity)
		return nil, err
	}

	if err := s.repo.Create(order); err != nil {
		// 落库失败必须回补已扣库存
		s.restoreStock(order.GoodsID, order.Quantity)
		return nil, err
	}

	metrics.Default.OrdersCreatedTotal.Inc()
	return order, nil
}

func (s *orderService) restoreStock(goodsID uint64, qty int64) {
	if err := s.goods.RestoreStock(goodsID, qty); err != nil {
		// 回补失败需要人工对账
		logger.Log.Error("Failed to restore stock",
			zap.Uint64("goods_id", goodsID),
			zap.Int64("quantity", qty),
			zap.Error(err))
	}
}

func (s *orderService) GetOrderByID(id uint64) (*model.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOrderByNo(orderNo string) (*model.Order, error) {
	order, err := s.repo.GetByOrderNo(orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) QueryOrders(filter repository.Filter, page, limit int) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.Query(filter, (page-1)*limit, limit)
}

// ProcessPayment 发起支付
func (s *orderService) ProcessPayment(orderNo string, userID uint64, channel string) (string, *model.Order, error) {
	order, err := s.GetOrderByNo(orderNo)
	if err != nil {
		return "", nil, err
	}
	if order.UserID != userID {
		return "", nil, ErrNotOrderOwner
	}
	if order.Status != model.StatusPending || order.PayStatus != model.PayStatusUnpaid {
		return "", nil, ErrInvalidStateTransition
	}

	start := time.Now()

	if order.PayMode == model.PayModeCoin {
		if err := s.payWithCoin(order); err != nil {
			return "", nil, err
		}
		metrics.Default.PaymentsTotal.WithLabelValues(model.PayModeCoin, "success").Inc()
		metrics.Default.PaymentDuration.WithLabelValues(model.PayModeCoin).Observe(time.Since(start).Seconds())

		paid, err := s.GetOrderByNo(orderNo)
		if err != nil {
			return "", nil, err
		}
		return "", paid, nil
	}

	// cash 模式：委托支付渠道，订单保持 pending 等待回调
	st, ok := s.strategies[channel]
	if !ok {
		return "", nil, ErrUnsupportedChannel
	}

	if err := s.repo.SetPayMethod(orderNo, channel); err != nil {
		return "", nil, err
	}
	if err := s.repo.CreateAttempt(&model.PaymentAttempt{
		OrderNo: orderNo,
		Channel: channel,
		Amount:  order.Amount(),
		Status:  model.AttemptPending,
	}); err != nil {
		return "", nil, err
	}

	payParam, err := st.Pay(orderNo, order.Amount(), order.GoodsName)
	if err != nil {
		metrics.Default.PaymentsTotal.WithLabelValues(model.PayModeCash, "failed").Inc()
		// 渠道调用失败，订单保持 pending 可重试
		_ = s.repo.UpdateAttemptStatus(orderNo, channel, model.AttemptPending, model.AttemptFailed, "")
		return "", nil, err
	}

	metrics.Default.PaymentsTotal.WithLabelValues(model.PayModeCash, "initiated").Inc()
	metrics.Default.PaymentDuration.WithLabelValues(model.PayModeCash).Observe(time.Since(start).Seconds())
	return payParam, order, nil
}

// payWithCoin 金币支付：幂等扣款成功后立即标记已支付
func (s *orderService) payWithCoin(order *model.Order) error {
	key := walletModel.Key{
		UserID:     order.UserID,
		BusinessID: order.OrderNo,
		OpKind:     walletModel.OpKindOrderPay,
	}
	if err := s.wallet.Debit(key, order.Amount(), walletModel.CurrencyCoin); err != nil {
		metrics.Default.PaymentsTotal.WithLabelValues(model.PayModeCoin, "failed").Inc()
		return err
	}

	now := time.Now()
	if err := s.repo.MarkPaid(order.OrderNo, model.PayMethodCoin, now); err != nil {
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			// 并发重复支付，扣款幂等，第一次已生效
			return nil
		}
		return err
	}

	if err := s.repo.CreateAttempt(&model.PaymentAttempt{
		OrderNo: order.OrderNo,
		Channel: model.PayMethodCoin,
		Amount:  order.Amount(),
		Status:  model.AttemptSuccess,
	}); err != nil {
		logger.Log.Warn("Failed to record payment attempt",
			zap.String("order_no", order.OrderNo), zap.Error(err))
	}

	s.afterPaid(order)
	return nil
}

// afterPaid 支付成功后的旁路动作：热销榜、事件推送
// 全部尽力而为，失败不影响订单状态
func (s *orderService) afterPaid(order *model.Order) {
	if s.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
		defer cancel()
		if err := s.rdb.ZIncrBy(ctx, hotGoodsKey, float64(order.Quantity),
			fmt.Sprintf("%d", order.GoodsID)).Err(); err != nil {
			logger.Log.Warn("Failed to update hot goods ranking", zap.Error(err))
		}
	}

	if s.events != nil {
		s.events.Publish(event.OrderEvent{
			Kind:    event.KindOrderPaid,
			OrderNo: order.OrderNo,
			UserID:  order.UserID,
			Title:   "支付成功",
			Body:    fmt.Sprintf("您的订单 %s 已支付成功。", order.OrderNo),
		})
	}
}

// ConfirmPayment 同步确认支付
func (s *orderService) ConfirmPayment(orderNo, payMethod, thirdPartyNo string) error {
	order, err := s.GetOrderByNo(orderNo)
	if err != nil {
		return err
	}
	if order.PayStatus == model.PayStatusPaid {
		// 已支付，幂等返回
		return nil
	}

	if err := s.repo.MarkPaid(orderNo, payMethod, time.Now()); err != nil {
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			return nil
		}
		return err
	}

	_ = s.repo.UpdateAttemptStatus(orderNo, payMethod, model.AttemptPending, model.AttemptSuccess, thirdPartyNo)
	s.afterPaid(order)
	return nil
}

// HandlePaymentCallback 处理渠道异步回调
// 回调验签由 strategy 完成；对已支付订单的重复通知幂等返回成功
func (s *orderService) HandlePaymentCallback(channel string, params interface{}) error {
	st, ok := s.strategies[channel]
	if !ok {
		return ErrUnsupportedChannel
	}

	result, err := st.Notify(params)
	if err != nil {
		return err
	}

	order, err := s.GetOrderByNo(result.OrderNo)
	if err != nil {
		return err
	}

	if order.PayStatus == model.PayStatusPaid || order.PayStatus == model.PayStatusRefunded {
		// 重复通知，副作用已施加过，直接确认
		logger.Log.Info("Duplicate payment callback ignored",
			zap.String("order_no", result.OrderNo),
			zap.String("channel", channel))
		return nil
	}

	if !result.Success {
		// 支付失败：订单保持 pending，买家可重试
		metrics.Default.PaymentsTotal.WithLabelValues(model.PayModeCash, "failed").Inc()
		_ = s.repo.UpdateAttemptStatus(result.OrderNo, channel, model.AttemptPending, model.AttemptFailed, result.ThirdPartyNo)
		logger.Log.Warn("Payment callback reported failure",
			zap.String("order_no", result.OrderNo),
			zap.String("channel", channel))
		return nil
	}

	if err := s.repo.MarkPaid(result.OrderNo, channel, time.Now()); err != nil {
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			// 与并发回调竞争失败，对方已标记
			return nil
		}
		return err
	}

	metrics.Default.PaymentsTotal.WithLabelValues(model.PayModeCash, "success").Inc()
	_ = s.repo.UpdateAttemptStatus(result.OrderNo, channel, model.AttemptPending, model.AttemptSuccess, result.ThirdPartyNo)
	s.afterPaid(order)
	return nil
}

// RequestRefund 申请退款
// 只改 pay_status，订单状态保持不变；取消是独立的后续动作
func (s *orderService) RequestRefund(orderNo string, userID uint64, reason string) error {
	order, err := s.GetOrderByNo(orderNo)
	if err != nil {
		return err
	}
	if userID != 0 && order.UserID != userID {
		return ErrNotOrderOwner
	}
	if order.PayStatus != model.PayStatusPaid {
		return ErrInvalidStateTransition
	}

	// 退款资格校验（可插拔策略）
	if err := s.policy(order, time.Now()); err != nil {
		return err
	}

	if err := s.creditBack(order); err != nil {
		metrics.Default.RefundsTotal.WithLabelValues(order.PayMode, "failed").Inc()
		return err
	}

	if err := s.repo.MarkRefunded(orderNo, reason); err != nil {
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			// 并发重复退款，资金侧幂等，第一次已生效
			return nil
		}
		return err
	}

	metrics.Default.RefundsTotal.WithLabelValues(order.PayMode, "success").Inc()

	if s.events != nil {
		s.events.Publish(event.OrderEvent{
			Kind:    event.KindOrderRefunded,
			OrderNo: order.OrderNo,
			UserID:  order.UserID,
			Title:   "退款成功",
			Body:    fmt.Sprintf("您的订单 %s 已退款。", order.OrderNo),
		})
	}
	return nil
}

// creditBack 资金退回：coin 退钱包，cash 走渠道退款
func (s *orderService) creditBack(order *model.Order) error {
	if order.PayMode == model.PayModeCoin {
		key := walletModel.Key{
			UserID:     order.UserID,
			BusinessID: order.OrderNo,
			OpKind:     walletModel.OpKindOrderRefund,
		}
		return s.wallet.Credit(key, order.Amount(), walletModel.CurrencyCoin)
	}

	st, ok := s.strategies[order.PayMethod]
	if !ok {
		return ErrUnsupportedChannel
	}
	return st.Refund(order.OrderNo, order.Amount(), order.RefundReason)
}

// CancelOrder 取消订单
// pending：直接取消并回补库存；paid：先退款，再取消，再回补库存
func (s *orderService) CancelOrder(orderNo string, reason string) error {
	order, err := s.GetOrderByNo(orderNo)
	if err != nil {
		return err
	}

	switch order.Status {
	case model.StatusPending:
		// CAS 落败说明并发方已转移（支付或另一次取消），不回补库存
		if err := s.repo.TransitionStatus(orderNo, model.StatusPending, model.StatusCancelled,
			map[string]interface{}{"cancel_reason": reason}); err != nil {
			return err
		}

	case model.StatusPaid:
		// 已支付必须先退款
		if order.PayStatus == model.PayStatusPaid {
			if err := s.RequestRefund(orderNo, 0, reason); err != nil {
				return err
			}
		}
		if err := s.repo.TransitionStatus(orderNo, model.StatusPaid, model.StatusCancelled,
			map[string]interface{}{"cancel_reason": reason}); err != nil {
			return err
		}

	default:
		return ErrInvalidStateTransition
	}

	s.restoreStock(order.GoodsID, order.Quantity)
	metrics.Default.OrderTransitionsTotal.WithLabelValues(order.Status, model.StatusCancelled).Inc()

	if s.events != nil {
		s.events.Publish(event.OrderEvent{
			Kind:    event.KindOrderCancelled,
			OrderNo: order.OrderNo,
			UserID:  order.UserID,
			Title:   "订单已取消",
			Body:    fmt.Sprintf("您的订单 %s 已取消：%s", order.OrderNo, reason),
		})
	}
	return nil
}

// BatchCancelOrders 批量取消，单个失败不影响其余
func (s *orderService) BatchCancelOrders(orderNos []string, reason string) BatchResult {
	result := BatchResult{}
	for _, orderNo := range orderNos {
		if err := s.CancelOrder(orderNo, reason); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", orderNo, err))
			continue
		}
		result.Processed++
	}
	return result
}

// ShipOrder 发货，仅实物商品
func (s *orderService) ShipOrder(orderNo string, sellerID uint64, trackingNo string) error {
	order, err := s.GetOrderByNo(orderNo)
	if err != nil {
		return err
	}
	if sellerID != 0 && order.SellerID != sellerID {
		return errors.New("not the order seller")
	}
	if order.GoodsType != goodsModel.TypeGoods {
		return errors.New("only physical goods can be shipped")
	}
	if order.PayStatus != model.PayStatusPaid {
		// 已退款的订单不能发货
		return ErrInvalidStateTransition
	}

	now := time.Now()
	if err := s.repo.TransitionStatus(orderNo, model.StatusPaid, model.StatusShipped,
		map[string]interface{}{"ship_time": now, "tracking_no": trackingNo}); err != nil {
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			return ErrInvalidStateTransition
		}
		return err
	}

	metrics.Default.OrderTransitionsTotal.WithLabelValues(model.StatusPaid, model.StatusShipped).Inc()

	if s.events != nil {
		s.events.Publish(event.OrderEvent{
			Kind:    event.KindOrderShipped,
			OrderNo: order.OrderNo,
			UserID:  order.UserID,
			Title:   "订单已发货",
			Body:    fmt.Sprintf("您的订单 %s 已发货。", order.OrderNo),
		})
	}
	return nil
}

// ConfirmReceipt 买家确认收货
func (s *orderService) ConfirmReceipt(orderNo string, userID uint64) error {
	order, err := s.GetOrderByNo(orderNo)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return ErrNotOrderOwner
	}

	if err := s.repo.TransitionStatus(orderNo, model.StatusShipped, model.StatusCompleted, nil); err != nil {
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			return ErrInvalidStateTransition
		}
		return err
	}

	metrics.Default.OrderTransitionsTotal.WithLabelValues(model.StatusShipped, model.StatusCompleted).Inc()
	s.publishCompleted(order)
	return nil
}

// CompleteOrder 完成订单
// 虚拟商品支付后直接完成（无发货环节）；实物商品走 shipped -> completed
func (s *orderService) CompleteOrder(orderNo string) error {
	order, err := s.GetOrderByNo(orderNo)
	if err != nil {
		return err
	}

	var from string
	switch order.Status {
	case model.StatusPaid:
		if order.GoodsType == goodsModel.TypeGoods {
			// 实物商品必须经过发货
			return ErrInvalidStateTransition
		}
		from = model.StatusPaid
	case model.StatusShipped:
		from = model.StatusShipped
	default:
		return ErrInvalidStateTransition
	}

	if err := s.repo.TransitionStatus(orderNo, from, model.StatusCompleted, nil); err != nil {
		if errors.Is(err, repository.ErrOrderStatusChanged) {
			return ErrInvalidStateTransition
		}
		return err
	}

	metrics.Default.OrderTransitionsTotal.WithLabelValues(from, model.StatusCompleted).Inc()
	s.publishCompleted(order)
	return nil
}

func (s *orderService) publishCompleted(order *model.Order) {
	if s.events != nil {
		s.events.Publish(event.OrderEvent{
			Kind:    event.KindOrderCompleted,
			OrderNo: order.OrderNo,
			UserID:  order.UserID,
			Title:   "订单已完成",
			Body:    fmt.Sprintf("您的订单 %s 已完成。", order.OrderNo),
		})
	}
}

// GetTimeoutOrders 查询已超时的未支付订单
func (s *orderService) GetTimeoutOrders(limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.FindTimeoutUnpaid(time.Now().Add(-s.timeout), limit)
}

// AutoCancelTimeoutOrders 取消超时未支付订单
// 逐单处理，单个失败不中断批次；并发支付抢先时 CAS 落败直接跳过
func (s *orderService) AutoCancelTimeoutOrders() (processed, failed int) {
	orders, err := s.GetTimeoutOrders(500)
	if err != nil {
		logger.Log.Error("Failed to scan timeout orders", zap.Error(err))
		return 0, 0
	}

	for _, order := range orders {
		err := s.repo.TransitionStatus(order.OrderNo, model.StatusPending, model.StatusCancelled,
			map[string]interface{}{"cancel_reason": "timeout"})
		if err != nil {
			if errors.Is(err, repository.ErrOrderStatusChanged) {
				// 并发支付或并发扫描已处理，跳过
				continue
			}
			failed++
			logger.Log.Error("Failed to auto-cancel order",
				zap.String("order_no", order.OrderNo), zap.Error(err))
			continue
		}

		// CAS 赢家负责回补库存，保证只回补一次
		s.restoreStock(order.GoodsID, order.Quantity)
		processed++

		if s.events != nil {
			s.events.Publish(event.OrderEvent{
				Kind:    event.KindOrderCancelled,
				OrderNo: order.OrderNo,
				UserID:  order.UserID,
				Title:   "订单超时取消",
				Body:    fmt.Sprintf("您的订单 %s 因超时未支付已取消。", order.OrderNo),
			})
		}
	}
	return processed, failed
}

// AutoCompleteShippedOrders 已发货订单超过宽限期自动完成
func (s *orderService) AutoCompleteShippedOrders() (processed, failed int) {
	orders, err := s.repo.FindShippedBefore(time.Now().Add(-s.autoComplete), 500)
	if err != nil {
		logger.Log.Error("Failed to scan shipped orders", zap.Error(err))
		return 0, 0
	}

	for _, order := range orders {
		err := s.repo.TransitionStatus(order.OrderNo, model.StatusShipped, model.StatusCompleted, nil)
		if err != nil {
			if errors.Is(err, repository.ErrOrderStatusChanged) {
				continue
			}
			failed++
			logger.Log.Error("Failed to auto-complete order",
				zap.String("order_no", order.OrderNo), zap.Error(err))
			continue
		}
		processed++
		s.publishCompleted(&order)
	}
	return processed, failed
}

func (s *orderService) GetUserStats(userID uint64) (*repository.UserStats, error) {
	return s.repo.GetUserStats(userID)
}

func (s *orderService) GetGoodsSales(goodsID uint64) (*repository.GoodsSales, error) {
	return s.repo.GetGoodsSales(goodsID)
}

func (s *orderService) GetDailyRevenue(from, to time.Time) ([]repository.DailyRevenue, error) {
	return s.repo.GetDailyRevenue(from, to)
}

// GetHotGoods 热销排行，按已支付订单数的 DB 聚合
func (s *orderService) GetHotGoods(limit int) ([]repository.GoodsSales, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetHotGoods(limit)
}

// HotGoods 实时热销条目（Redis 计数）
type HotGoods struct {
	GoodsID uint64 `json:"goodsId"`
	Sold    int64  `json:"sold"`
}

// GetHotGoodsRealtime 实时热销排行，读支付成功时维护的 Redis ZSET
// Redis 不可用时降级为空结果，不报错
func (s *orderService) GetHotGoodsRealtime(limit int) ([]HotGoods, error) {
	if limit <= 0 {
		limit = 10
	}
	if s.rdb == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()

	members, err := s.rdb.ZRevRangeWithScores(ctx, hotGoodsKey, 0, int64(limit-1)).Result()
	if err != nil {
		logger.Log.Warn("Failed to read hot goods ranking", zap.Error(err))
		return nil, nil
	}

	result := make([]HotGoods, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(fmt.Sprintf("%v", m.Member), 10, 64)
		if err != nil {
			continue
		}
		result = append(result, HotGoods{GoodsID: id, Sold: int64(m.Score)})
	}
	return result, nil
}

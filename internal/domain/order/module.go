package order

import (
	"time"

	goodsRepo "shop_trade/internal/domain/goods/repository"
	goodsService "shop_trade/internal/domain/goods/service"
	"shop_trade/internal/domain/order/handler"
	"shop_trade/internal/domain/order/repository"
	"shop_trade/internal/domain/order/service"
	"shop_trade/internal/domain/payment/strategy"
	userRepo "shop_trade/internal/domain/user/repository"
	userService "shop_trade/internal/domain/user/service"
	walletRepo "shop_trade/internal/domain/wallet/repository"
	walletService "shop_trade/internal/domain/wallet/service"
	"shop_trade/internal/pkg/config"
	"shop_trade/internal/pkg/event"
	"shop_trade/internal/pkg/middleware"
	"shop_trade/internal/pkg/registry"
	"shop_trade/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderModule 订单模块，依赖 goods/wallet/user，最后初始化
type OrderModule struct {
	sweeper *service.Sweeper
}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig.Order

	orderRepository := repository.NewOrderRepository(ctx.DB)
	goods := goodsService.NewGoodsService(goodsRepo.NewGoodsRepository(ctx.DB))
	wallet := walletService.NewWalletService(walletRepo.NewWalletRepository(ctx.DB))
	users := userService.NewUserService(userRepo.NewUserRepository(ctx.DB))

	dispatcher := newDispatcher()
	dispatcher.Start()

	orderService := service.NewOrderService(orderRepository, goods, wallet, users, service.Options{
		Timeout:      time.Duration(cfg.TimeoutMinutes) * time.Minute,
		AutoComplete: time.Duration(cfg.AutoCompleteDays) * 24 * time.Hour,
		Policy:       service.WindowRefundPolicy(time.Duration(cfg.RefundWindowHours) * time.Hour),
		Events:       dispatcher,
		Redis:        ctx.Redis,
	})

	registerStrategies(orderService)

	orderHandler := handler.NewOrderHandler(orderService)
	setupRoutes(ctx.Router, orderHandler)

	// 后台扫描：超时取消 + 自动完成
	m.sweeper = service.NewSweeper(orderService, time.Duration(cfg.SweepIntervalSeconds)*time.Second)
	m.sweeper.Start()

	return nil
}

// newDispatcher 推送渠道未配置时降级为 NopSink，不阻塞启动
func newDispatcher() *event.Dispatcher {
	sink, err := event.NewAliyunPushSink()
	if err != nil {
		logger.Log.Warn("Push sink unavailable, order events will be discarded", zap.Error(err))
		return event.NewDispatcher(event.NopSink{}, 2, 256)
	}
	return event.NewDispatcher(sink, 4, 1024)
}

// registerStrategies 按配置注册支付渠道，缺配置的渠道不可用
func registerStrategies(s service.OrderService) {
	if alipayStrategy, err := strategy.NewAlipayStrategy(); err != nil {
		logger.Log.Warn("Alipay strategy disabled", zap.Error(err))
	} else {
		s.RegisterStrategy("alipay", alipayStrategy)
	}

	if wechatStrategy, err := strategy.NewWechatStrategy(); err != nil {
		logger.Log.Warn("Wechat strategy disabled", zap.Error(err))
	} else {
		s.RegisterStrategy("wechat", wechatStrategy)
	}
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	// 渠道回调，无鉴权（验签在 strategy 内完成）
	callback := r.Group("/payment/callback")
	{
		callback.POST("/alipay", h.AlipayCallback)
		callback.POST("/wechat", h.WechatCallback)
	}

	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.QueryOrders)
		// 同一路径段的参数名必须一致，按 ID 查询走 /id 前缀
		orders.GET("/id/:id", h.GetOrder)
		orders.GET("/:orderNo", h.GetOrderByNo)

		orders.POST("/:orderNo/pay", h.PayOrder)
		orders.POST("/:orderNo/refund", h.RequestRefund)
		orders.POST("/:orderNo/cancel", h.CancelOrder)
		orders.POST("/:orderNo/ship", h.ShipOrder)
		orders.POST("/:orderNo/receipt", h.ConfirmReceipt)

		orders.GET("/stats/me", h.GetUserStats)
	}

	admin := r.Group("/admin/orders")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/batch-cancel", h.BatchCancelOrders)
		admin.POST("/:orderNo/confirm", h.ConfirmPayment)
		admin.POST("/:orderNo/complete", h.CompleteOrder)

		admin.GET("/stats/goods/:goodsId", h.GetGoodsSales)
		admin.GET("/stats/daily", h.GetDailyRevenue)
		admin.GET("/stats/hot", h.GetHotGoods)
	}
}

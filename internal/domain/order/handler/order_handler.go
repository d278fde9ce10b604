package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	goodsService "shop_trade/internal/domain/goods/service"
	"shop_trade/internal/domain/order/repository"
	"shop_trade/internal/domain/order/service"
	walletService "shop_trade/internal/domain/wallet/service"
	"shop_trade/internal/pkg/middleware"
	"shop_trade/pkg/logger"
	"shop_trade/pkg/response"
	"shop_trade/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// failWith 将服务层错误映射为业务码
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.Fail(c, response.ErrOrderNotFound, "order not found")
	case errors.Is(err, service.ErrInvalidStateTransition):
		response.Fail(c, response.ErrInvalidStateTransition, "invalid order state for this operation")
	case errors.Is(err, service.ErrUnsupportedChannel):
		response.Fail(c, response.ErrUnsupportedChannel, "unsupported payment channel")
	case errors.Is(err, service.ErrNotOrderOwner):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "not the order owner")
	case errors.Is(err, service.ErrInsufficientStock):
		response.Fail(c, response.ErrInsufficientStock, "insufficient stock")
	case errors.Is(err, service.ErrInsufficientBalance):
		response.Fail(c, response.ErrInsufficientBalance, "insufficient balance")
	case errors.Is(err, goodsService.ErrGoodsNotFound):
		response.Fail(c, response.ErrGoodsNotFound, "goods not found")
	case errors.Is(err, goodsService.ErrGoodsInactive):
		response.Fail(c, response.ErrGoodsInactive, "goods is not on sale")
	case errors.Is(err, walletService.ErrWalletNotFound):
		response.Fail(c, response.ErrWalletNotFound, "wallet not found")
	case errors.Is(err, service.ErrRefundWindowClosed), errors.Is(err, service.ErrRefundAfterShip):
		response.Fail(c, response.ErrRefundNotAllowed, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

type CreateOrderInput struct {
	GoodsID        uint64 `json:"goodsId" binding:"required"`
	Quantity       int64  `json:"quantity" binding:"required,min=1,max=999"`
	PayMode        string `json:"payMode" binding:"required,oneof=cash coin"`
	DiscountAmount int64  `json:"discountAmount" binding:"gte=0"`
}

// CreateOrder 下单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.CreateOrder(service.CreateOrderInput{
		UserID:         middleware.GetUserID(c),
		GoodsID:        input.GoodsID,
		Quantity:       input.Quantity,
		PayMode:        input.PayMode,
		DiscountAmount: input.DiscountAmount,
	})
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, order)
}

// GetOrder 按 ID 查询
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid order id")
		return
	}

	order, err := h.service.GetOrderByID(id)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, order)
}

// GetOrderByNo 按订单号查询
func (h *OrderHandler) GetOrderByNo(c *gin.Context) {
	order, err := h.service.GetOrderByNo(c.Param("orderNo"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, order)
}

type QueryOrdersInput struct {
	utils.Pagination
	SellerID  uint64 `form:"sellerId"`
	GoodsID   uint64 `form:"goodsId"`
	GoodsType string `form:"goodsType"`
	Status    string `form:"status"`
	PayStatus string `form:"payStatus"`
	Keyword   string `form:"keyword"`
	TimeFrom  string `form:"timeFrom"` // RFC3339
	TimeTo    string `form:"timeTo"`
}

// QueryOrders 当前用户订单列表，支持状态/类型/关键词/时间过滤
func (h *OrderHandler) QueryOrders(c *gin.Context) {
	var input QueryOrdersInput
	if err := c.ShouldBindQuery(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	filter := repository.Filter{
		UserID:    middleware.GetUserID(c),
		SellerID:  input.SellerID,
		GoodsID:   input.GoodsID,
		GoodsType: input.GoodsType,
		Status:    input.Status,
		PayStatus: input.PayStatus,
		Keyword:   input.Keyword,
	}
	if input.TimeFrom != "" {
		if t, err := time.Parse(time.RFC3339, input.TimeFrom); err == nil {
			filter.TimeFrom = &t
		}
	}
	if input.TimeTo != "" {
		if t, err := time.Parse(time.RFC3339, input.TimeTo); err == nil {
			filter.TimeTo = &t
		}
	}

	// GetPageOffset 顺带归一化 Page/Limit
	_, limit := input.GetPageOffset()
	orders, total, err := h.service.QueryOrders(filter, input.Page, limit)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, utils.PageResult{
		List:  orders,
		Total: total,
		Page:  input.Page,
		Limit: limit,
	})
}

type PayOrderInput struct {
	Channel string `json:"channel" binding:"omitempty,oneof=alipay wechat"`
}

// PayOrder 发起支付
// coin 订单同步扣款完成；cash 订单返回渠道支付参数等待回调
func (h *OrderHandler) PayOrder(c *gin.Context) {
	var input PayOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	payParam, order, err := h.service.ProcessPayment(c.Param("orderNo"), middleware.GetUserID(c), input.Channel)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, gin.H{
		"order":    order,
		"payParam": payParam,
	})
}

type RefundInput struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// RequestRefund 申请退款
func (h *OrderHandler) RequestRefund(c *gin.Context) {
	var input RefundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.RequestRefund(c.Param("orderNo"), middleware.GetUserID(c), input.Reason); err != nil {
		failWith(c, err)
		return
	}
	response.SuccessWithMessage(c, "refund processed", nil)
}

type CancelInput struct {
	Reason string `json:"reason" binding:"max=255"`
}

// CancelOrder 取消订单
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var input CancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	if input.Reason == "" {
		input.Reason = "user cancelled"
	}

	orderNo := c.Param("orderNo")
	order, err := h.service.GetOrderByNo(orderNo)
	if err != nil {
		failWith(c, err)
		return
	}
	if order.UserID != middleware.GetUserID(c) {
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "not the order owner")
		return
	}

	if err := h.service.CancelOrder(orderNo, input.Reason); err != nil {
		failWith(c, err)
		return
	}
	response.SuccessWithMessage(c, "order cancelled", nil)
}

type BatchCancelInput struct {
	OrderNos []string `json:"orderNos" binding:"required,min=1,max=100"`
	Reason   string   `json:"reason" binding:"max=255"`
}

// BatchCancelOrders 管理端批量取消
func (h *OrderHandler) BatchCancelOrders(c *gin.Context) {
	var input BatchCancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	if input.Reason == "" {
		input.Reason = "admin cancelled"
	}

	result := h.service.BatchCancelOrders(input.OrderNos, input.Reason)
	response.Success(c, result)
}

type ShipInput struct {
	TrackingNo string `json:"trackingNo" binding:"required,max=64"`
}

// ShipOrder 卖家发货
func (h *OrderHandler) ShipOrder(c *gin.Context) {
	var input ShipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.ShipOrder(c.Param("orderNo"), middleware.GetUserID(c), input.TrackingNo); err != nil {
		failWith(c, err)
		return
	}
	response.SuccessWithMessage(c, "order shipped", nil)
}

// ConfirmReceipt 买家确认收货
func (h *OrderHandler) ConfirmReceipt(c *gin.Context) {
	if err := h.service.ConfirmReceipt(c.Param("orderNo"), middleware.GetUserID(c)); err != nil {
		failWith(c, err)
		return
	}
	response.SuccessWithMessage(c, "order completed", nil)
}

type ConfirmPaymentInput struct {
	PayMethod    string `json:"payMethod" binding:"required,oneof=alipay wechat balance coin"`
	ThirdPartyNo string `json:"thirdPartyNo" binding:"max=64"`
}

// ConfirmPayment 管理端对账确认支付，等价于一次成功回调
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	var input ConfirmPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.ConfirmPayment(c.Param("orderNo"), input.PayMethod, input.ThirdPartyNo); err != nil {
		failWith(c, err)
		return
	}
	response.SuccessWithMessage(c, "payment confirmed", nil)
}

// CompleteOrder 管理端完成订单（虚拟商品交付后调用）
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	if err := h.service.CompleteOrder(c.Param("orderNo")); err != nil {
		failWith(c, err)
		return
	}
	response.SuccessWithMessage(c, "order completed", nil)
}

// AlipayCallback 支付宝异步通知
// 必须按支付宝协议返回纯文本 success/failure，不走统一响应结构
func (h *OrderHandler) AlipayCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "failure")
		return
	}

	if err := h.service.HandlePaymentCallback("alipay", c.Request.Form); err != nil {
		logger.Log.Error("Alipay callback failed", zap.Error(err))
		c.String(http.StatusOK, "failure")
		return
	}
	c.String(http.StatusOK, "success")
}

// WechatCallback 微信支付异步通知
func (h *OrderHandler) WechatCallback(c *gin.Context) {
	if err := h.service.HandlePaymentCallback("wechat", c.Request); err != nil {
		logger.Log.Error("Wechat callback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "OK"})
}

// GetUserStats 当前用户消费统计
func (h *OrderHandler) GetUserStats(c *gin.Context) {
	stats, err := h.service.GetUserStats(middleware.GetUserID(c))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, stats)
}

// GetGoodsSales 单商品销售统计
func (h *OrderHandler) GetGoodsSales(c *gin.Context) {
	goodsID, err := strconv.ParseUint(c.Param("goodsId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid goods id")
		return
	}

	stats, err := h.service.GetGoodsSales(goodsID)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, stats)
}

// GetDailyRevenue 按天营收报表，默认最近 30 天
func (h *OrderHandler) GetDailyRevenue(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t.AddDate(0, 0, 1) // 含当天
		}
	}

	rows, err := h.service.GetDailyRevenue(from, to)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, rows)
}

// GetHotGoods 热销排行
// realtime=1 时读 Redis 实时榜，否则按 DB 聚合
func (h *OrderHandler) GetHotGoods(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if c.Query("realtime") == "1" {
		rows, err := h.service.GetHotGoodsRealtime(limit)
		if err != nil {
			failWith(c, err)
			return
		}
		response.Success(c, rows)
		return
	}

	rows, err := h.service.GetHotGoods(limit)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, rows)
}

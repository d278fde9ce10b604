package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"shop_trade/internal/pkg/config"

	"github.com/smartwalle/alipay/v3"
)

type AlipayStrategy struct {
	client *alipay.Client
	config config.AlipayConfig
}

func NewAlipayStrategy() (*AlipayStrategy, error) {
	cfg := config.GlobalConfig.Alipay
	if cfg.AppID == "" {
		return nil, errors.New("alipay config missing")
	}

	client, err := alipay.New(cfg.AppID, cfg.PrivateKey, cfg.IsProduction)
	if err != nil {
		return nil, err
	}

	// 加载支付宝公钥 (用于验证签名)
	if err = client.LoadAliPayPublicKey(cfg.PublicKey); err != nil {
		return nil, err
	}

	return &AlipayStrategy{
		client: client,
		config: cfg,
	}, nil
}

// 分转为支付宝的元字符串
func fenToYuan(fen int64) string {
	return fmt.Sprintf("%.2f", float64(fen)/100.0)
}

// Pay 发起支付 (App支付)
func (s *AlipayStrategy) Pay(orderNo string, amount int64, subject string) (string, error) {
	p := alipay.TradeAppPay{}
	p.NotifyURL = s.config.NotifyURL
	p.Subject = subject
	p.OutTradeNo = orderNo
	p.TotalAmount = fenToYuan(amount)
	p.ProductCode = "QUICK_MSECURITY_PAY" // App支付产品码

	// 生成签名后的参数字符串
	result, err := s.client.TradeAppPay(p)
	if err != nil {
		return "", err
	}
	return result, nil
}

// Notify 处理回调
func (s *AlipayStrategy) Notify(params interface{}) (*NotifyResult, error) {
	// params 预期是 url.Values (gin context.Request.Form)
	values, ok := params.(url.Values)
	if !ok {
		return nil, errors.New("invalid params type, expected url.Values")
	}

	// 1. 验证签名
	noti, err := s.client.DecodeNotification(values)
	if err != nil {
		return nil, err
	}

	// 2. 检查交易状态
	// TRADE_SUCCESS 或 TRADE_FINISHED 表示成功
	success := noti.TradeStatus == alipay.TradeStatusSuccess || noti.TradeStatus == alipay.TradeStatusFinished

	// 3. 解析金额（元 -> 分）
	yuan, _ := strconv.ParseFloat(noti.TotalAmount, 64)
	amount := int64(yuan*100 + 0.5)

	return &NotifyResult{
		OrderNo:      noti.OutTradeNo,
		ThirdPartyNo: noti.TradeNo,
		Amount:       amount,
		Success:      success,
	}, nil
}

// Refund 请求支付宝退款
func (s *AlipayStrategy) Refund(orderNo string, amount int64, reason string) error {
	p := alipay.TradeRefund{}
	p.OutTradeNo = orderNo
	p.RefundAmount = fenToYuan(amount)
	p.RefundReason = reason

	rsp, err := s.client.TradeRefund(context.Background(), p)
	if err != nil {
		return err
	}
	if rsp.IsFailure() {
		return fmt.Errorf("alipay refund failed: %s - %s", rsp.Code, rsp.Msg)
	}
	return nil
}

// 确保实现了接口
var _ PaymentStrategy = (*AlipayStrategy)(nil)

package strategy

// NotifyResult 回调解析结果
type NotifyResult struct {
	OrderNo      string // 商户订单号
	ThirdPartyNo string // 渠道交易号
	Amount       int64  // 金额（分）
	Success      bool
}

type PaymentStrategy interface {
	// Pay 发起支付，返回支付参数（如 URL、JSON 串）
	// amount 单位为分
	Pay(orderNo string, amount int64, subject string) (string, error)

	// Notify 验签并解析回调通知
	Notify(params interface{}) (*NotifyResult, error)

	// Refund 请求渠道退款，amount 单位为分
	Refund(orderNo string, amount int64, reason string) error
}

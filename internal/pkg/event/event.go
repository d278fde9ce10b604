package event

// 订单生命周期事件，支付/取消/退款成功后异步推送给下游
// 推送失败不影响订单状态

// Kind 事件类型
type Kind string

const (
	KindOrderPaid      Kind = "order.paid"
	KindOrderCancelled Kind = "order.cancelled"
	KindOrderRefunded  Kind = "order.refunded"
	KindOrderCompleted Kind = "order.completed"
	KindOrderShipped   Kind = "order.shipped"
)

// OrderEvent 订单事件载荷
type OrderEvent struct {
	Kind    Kind
	OrderNo string
	UserID  uint64
	Title   string
	Body    string
	Extra   map[string]string
	Retry   int // 重试次数
}

// Sink 事件下游接口
type Sink interface {
	Deliver(evt OrderEvent) error
}

// NopSink 空实现，未配置推送渠道时使用
type NopSink struct{}

func (NopSink) Deliver(evt OrderEvent) error { return nil }

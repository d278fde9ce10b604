package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 业务指标收集器
type Collector struct {
	// 订单指标
	OrdersCreatedTotal    prometheus.Counter
	OrderTransitionsTotal *prometheus.CounterVec

	// 支付指标
	PaymentsTotal   *prometheus.CounterVec
	RefundsTotal    *prometheus.CounterVec
	PaymentDuration *prometheus.HistogramVec

	// 定时扫描指标
	SweepProcessedTotal *prometheus.CounterVec
	SweepFailedTotal    *prometheus.CounterVec
	SweepDuration       *prometheus.HistogramVec
}

// NewCollector 创建指标收集器
func NewCollector() *Collector {
	return &Collector{
		OrdersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "trade_orders_created_total",
				Help: "Total number of orders created",
			},
		),

		OrderTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trade_order_transitions_total",
				Help: "Total number of order status transitions",
			},
			[]string{"from", "to"},
		),

		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trade_payments_total",
				Help: "Total number of payment attempts",
			},
			[]string{"mode", "status"},
		),

		RefundsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trade_refunds_total",
				Help: "Total number of refunds",
			},
			[]string{"mode", "status"},
		),

		PaymentDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trade_payment_duration_seconds",
				Help:    "Payment processing duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),

		SweepProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trade_sweep_processed_total",
				Help: "Orders processed by the timeout sweeper",
			},
			[]string{"scan"},
		),

		SweepFailedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trade_sweep_failed_total",
				Help: "Orders the timeout sweeper failed to process",
			},
			[]string{"scan"},
		),

		SweepDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trade_sweep_duration_seconds",
				Help:    "Sweeper scan duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"scan"},
		),
	}
}

// Default 全局收集器实例
var Default = NewCollector()

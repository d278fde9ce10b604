package service

import (
	"sync"
	"time"

	"shop_trade/pkg/logger"
	"shop_trade/pkg/metrics"

	"go.uber.org/zap"
)

// Sweeper 定时扫描器：超时未支付订单自动取消，发货超期订单自动完成
// 多实例并发安全：订单粒度的 CAS 保证同一订单只被一方处理
type Sweeper struct {
	service  OrderService
	interval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSweeper(service OrderService, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		service:  service,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start 启动后台扫描循环
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		logger.Log.Info("Order sweeper started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				s.SweepOnce()
			case <-s.stopCh:
				logger.Log.Info("Order sweeper stopped")
				return
			}
		}
	}()
}

// Stop 停止扫描并等待当前一轮结束
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

// SweepOnce 执行一轮扫描，两类扫描互相独立，一类失败不影响另一类
func (s *Sweeper) SweepOnce() {
	s.runScan("cancel_timeout", s.service.AutoCancelTimeoutOrders)
	s.runScan("auto_complete", s.service.AutoCompleteShippedOrders)
}

func (s *Sweeper) runScan(name string, scan func() (int, int)) {
	start := time.Now()
	processed, failed := scan()
	elapsed := time.Since(start)

	metrics.Default.SweepProcessedTotal.WithLabelValues(name).Add(float64(processed))
	metrics.Default.SweepFailedTotal.WithLabelValues(name).Add(float64(failed))
	metrics.Default.SweepDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if processed > 0 || failed > 0 {
		logger.Log.Info("Sweep scan finished",
			zap.String("scan", name),
			zap.Int("processed", processed),
			zap.Int("failed", failed),
			zap.Duration("elapsed", elapsed))
	}
}

package event

import (
	"time"

	"shop_trade/pkg/logger"

	"go.uber.org/zap"
)

// Dispatcher 异步事件分发器
// 事件先进入缓冲队列，由固定数量的 worker 投递到 Sink，失败进入重试队列
type Dispatcher struct {
	TaskQueue  chan OrderEvent
	RetryQueue chan OrderEvent // 重试队列
	Sink       Sink
	WorkerNum  int
	MaxRetry   int // 最大重试次数
}

func NewDispatcher(sink Sink, workerNum int, bufferSize int) *Dispatcher {
	return &Dispatcher{
		TaskQueue:  make(chan OrderEvent, bufferSize),
		RetryQueue: make(chan OrderEvent, bufferSize/2),
		Sink:       sink,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.WorkerNum; i++ {
		go d.worker(i)
	}
	// 启动重试处理协程
	go d.retryWorker()
	logger.Log.Info("Event dispatcher started", zap.Int("workers", d.WorkerNum))
}

func (d *Dispatcher) worker(id int) {
	for evt := range d.TaskQueue {
		if err := d.Sink.Deliver(evt); err != nil {
			logger.Log.Warn("Failed to deliver order event",
				zap.Int("worker", id),
				zap.String("kind", string(evt.Kind)),
				zap.String("order_no", evt.OrderNo),
				zap.Error(err))

			// 如果未达到最大重试次数，加入重试队列
			if evt.Retry < d.MaxRetry {
				evt.Retry++
				select {
				case d.RetryQueue <- evt:
				default:
					d.logDropped(evt, err)
				}
			} else {
				d.logDropped(evt, err)
			}
		}
	}
}

func (d *Dispatcher) retryWorker() {
	for evt := range d.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(evt.Retry) * time.Second)

		// 重新加入主队列
		select {
		case d.TaskQueue <- evt:
		default:
			d.logDropped(evt, nil)
		}
	}
}

// Publish 事件入队，队列满时丢弃（尽力而为投递）
func (d *Dispatcher) Publish(evt OrderEvent) {
	select {
	case d.TaskQueue <- evt:
	default:
		d.logDropped(evt, nil)
	}
}

func (d *Dispatcher) logDropped(evt OrderEvent, err error) {
	logger.Log.Error("Order event dropped",
		zap.String("kind", string(evt.Kind)),
		zap.String("order_no", evt.OrderNo),
		zap.Uint64("user_id", evt.UserID),
		zap.Error(err))
}

package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubSweepService 只实现扫描入口，其余方法不会被 Sweeper 触达
type stubSweepService struct {
	OrderService
	cancelCalls   int32
	completeCalls int32
}

func (s *stubSweepService) AutoCancelTimeoutOrders() (int, int) {
	atomic.AddInt32(&s.cancelCalls, 1)
	return 2, 1
}

func (s *stubSweepService) AutoCompleteShippedOrders() (int, int) {
	atomic.AddInt32(&s.completeCalls, 1)
	return 1, 0
}

func TestSweeperSweepOnce(t *testing.T) {
	stub := &stubSweepService{}
	sweeper := NewSweeper(stub, time.Minute)

	sweeper.SweepOnce()

	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.cancelCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.completeCalls))
}

func TestSweeperStartStop(t *testing.T) {
	stub := &stubSweepService{}
	sweeper := NewSweeper(stub, 10*time.Millisecond)

	sweeper.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&stub.cancelCalls) >= 2
	}, time.Second, 5*time.Millisecond)

	sweeper.Stop()
	after := atomic.LoadInt32(&stub.cancelCalls)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&stub.cancelCalls), "no scans after Stop")
}

func TestSweeperStopIsIdempotent(t *testing.T) {
	sweeper := NewSweeper(&stubSweepService{}, 10*time.Millisecond)
	sweeper.Start()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sweeper.Stop()
		}()
	}
	wg.Wait()
}

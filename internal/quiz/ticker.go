package quiz

import (
	"sync"
	"time"
)

// TickerFunc schedules tick to run every interval until the returned stop
// function is called. Stop must not block: it may be called while the
// session lock is held and a tick is waiting on it.
type TickerFunc func(interval time.Duration, tick func()) (stop func())

// WallTicker is the production TickerFunc backed by time.Ticker.
func WallTicker(interval time.Duration, tick func()) func() {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				tick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

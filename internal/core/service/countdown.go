package service

import (
	"sync"
	"time"
)

// Countdown ticks toward a deadline and calls onExpire once when the whole
// seconds remaining reach zero. Stop ends it early and is safe to call
// twice, but not from inside onExpire.
type Countdown struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func StartCountdown(deadline time.Time, now func() time.Time, interval time.Duration, onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	c := &Countdown{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if deadline.Sub(now()) < time.Second {
					onExpire()
					return
				}
			}
		}
	}()
	return c
}

// Stop halts the countdown and waits for its goroutine to exit.
func (c *Countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
	<-c.done
}

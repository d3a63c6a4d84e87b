package reconcile

import "sync"

// Controller holds the drain and stop state the poll loop acts on. Signal
// handlers only flip values here; all logging and I/O happens in the loop
// when it observes the change.
type Controller struct {
	mu       sync.Mutex
	draining bool
	stopping bool

	stopCh chan struct{}
	wakeCh chan struct{}
}

func NewController() *Controller {
	return &Controller{
		stopCh: make(chan struct{}),
		wakeCh: make(chan struct{}, 1),
	}
}

// Drain stops new submissions. In-flight tasks keep being polled.
func (c *Controller) Drain() {
	c.mu.Lock()
	c.draining = true
	c.mu.Unlock()
	c.wake()
}

// Resume lifts a drain.
func (c *Controller) Resume() {
	c.mu.Lock()
	c.draining = false
	c.mu.Unlock()
	c.wake()
}

// RequestStop asks the loop to finish the current cycle and exit. It reports
// whether this was the first request, so the caller can force-exit on the
// second.
func (c *Controller) RequestStop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopping {
		return false
	}
	c.stopping = true
	close(c.stopCh)
	return true
}

func (c *Controller) Draining() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draining
}

func (c *Controller) Stopping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopping
}

// StopRequested is closed once RequestStop has been called.
func (c *Controller) StopRequested() <-chan struct{} {
	return c.stopCh
}

// Wake delivers a nudge after a drain or resume, so a parked loop re-checks
// state without waiting out its sleep interval.
func (c *Controller) Wake() <-chan struct{} {
	return c.wakeCh
}

func (c *Controller) wake() {
	select {
	case c.wakeCh <- struct{}{}:
	default:
	}
}

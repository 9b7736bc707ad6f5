package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nulltale/nulltale-go/gateway"
	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/types"
)

const (
	// progressStep and progressCap drive the simulated indicator: the ticker
	// raises progress in steps of 10 and never past 90 on its own; only a
	// successful backend reply moves it to 100.
	progressStep = 10
	progressCap  = 90

	DefaultTickInterval   = 200 * time.Millisecond
	DefaultCompleteLinger = 1 * time.Second
	// DefaultTriggerInterval is the minimum spacing between refresh
	// triggers; a refresh recomputes the whole persona memory.
	DefaultTriggerInterval = 5 * time.Second
)

var (
	ErrRefreshInFlight  = errors.New("refresh already in progress")
	ErrRefreshThrottled = errors.New("refresh triggered too soon")
)

// Coordinator triggers backend reindexing and drives a simulated progress
// indicator while the request is in flight. The backend call returns only
// success or failure, so progress is a client-side illusion: a ticker that
// climbs to 90 and a completion signal that forces 100.
type Coordinator struct {
	gateway *gateway.Client
	notify  func(*types.Notification)
	tick    time.Duration
	linger  time.Duration
	limiter *rate.Limiter

	mu         sync.Mutex
	refreshing bool
	progress   int
	settled    bool
	opID       string
}

// NewCoordinator creates a refresh coordinator with default timing.
func NewCoordinator(gw *gateway.Client) *Coordinator {
	return &Coordinator{
		gateway: gw,
		tick:    DefaultTickInterval,
		linger:  DefaultCompleteLinger,
		limiter: rate.NewLimiter(rate.Every(DefaultTriggerInterval), 1),
	}
}

// SetTiming overrides the tick and completion linger intervals.
func (c *Coordinator) SetTiming(tick, linger time.Duration) {
	if tick > 0 {
		c.tick = tick
	}
	if linger >= 0 {
		c.linger = linger
	}
}

// SetLimiter overrides the trigger rate limiter.
func (c *Coordinator) SetLimiter(l *rate.Limiter) {
	if l != nil {
		c.limiter = l
	}
}

// SetNotifier installs a callback invoked for refresh lifecycle events.
func (c *Coordinator) SetNotifier(notify func(*types.Notification)) {
	c.notify = notify
}

func (c *Coordinator) sendNotification(n *types.Notification) {
	if c.notify != nil {
		c.notify(n)
	}
}

// Trigger starts a refresh in the background. It returns immediately;
// state is observed via Snapshot or the notify hub. A refresh in progress
// cannot be cancelled and a second trigger while one is running is
// rejected.
func (c *Coordinator) Trigger(ctx context.Context) error {
	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return ErrRefreshInFlight
	}
	if !c.limiter.Allow() {
		c.mu.Unlock()
		return ErrRefreshThrottled
	}
	opID := tool.GenerateShortOperationID()
	c.refreshing = true
	c.progress = 0
	c.settled = false
	c.opID = opID
	c.mu.Unlock()

	tool.DefaultLogger.Infof("Refresh %s started", opID)
	c.sendNotification(&types.Notification{
		Type: types.NotifyTypeRefreshStart,
		Data: map[string]any{"operationId": opID, "progress": 0},
	})

	go c.run(ctx, opID)
	return nil
}

func (c *Coordinator) run(ctx context.Context, opID string) {
	tickCtx, stopTicker := context.WithCancel(ctx)
	defer stopTicker()
	go c.runTicker(tickCtx, opID)

	err := c.gateway.RefreshMemory(ctx)

	// Settle before stopping the ticker so a tick racing the cancellation
	// cannot move the indicator after the call resolved.
	c.mu.Lock()
	c.settled = true
	c.mu.Unlock()
	stopTicker()

	if err != nil {
		// Progress stays frozen at whatever the ticker last reached; the
		// indicator simply disappears and the user can retry.
		c.mu.Lock()
		c.refreshing = false
		c.mu.Unlock()
		tool.DefaultLogger.Errorf("Refresh %s failed: %v", opID, err)
		c.sendNotification(&types.Notification{
			Type:    types.NotifyTypeRefreshFailed,
			Message: "Memory refresh failed",
			Data:    map[string]any{"operationId": opID},
		})
		return
	}

	c.mu.Lock()
	c.progress = 100
	c.mu.Unlock()
	c.sendNotification(&types.Notification{
		Type: types.NotifyTypeRefreshProgress,
		Data: map[string]any{"operationId": opID, "progress": 100},
	})

	// Keep the completed bar visible briefly before returning to idle.
	time.Sleep(c.linger)

	c.mu.Lock()
	c.refreshing = false
	c.mu.Unlock()
	tool.DefaultLogger.Infof("Refresh %s complete", opID)
	c.sendNotification(&types.Notification{
		Type:    types.NotifyTypeRefreshDone,
		Message: "Memory refresh complete",
		Data:    map[string]any{"operationId": opID},
	})
}

func (c *Coordinator) runTicker(ctx context.Context, opID string) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.settled || c.progress >= progressCap {
				c.mu.Unlock()
				continue
			}
			c.progress += progressStep
			p := c.progress
			c.mu.Unlock()
			c.sendNotification(&types.Notification{
				Type: types.NotifyTypeRefreshProgress,
				Data: map[string]any{"operationId": opID, "progress": p},
			})
		}
	}
}

// Snapshot returns the current refresh state for polling clients.
func (c *Coordinator) Snapshot() types.RefreshSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := types.RefreshSnapshot{
		Refreshing: c.refreshing,
		Progress:   c.progress,
	}
	if c.refreshing {
		snap.OperationID = c.opID
	}
	return snap
}

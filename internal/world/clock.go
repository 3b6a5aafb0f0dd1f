package world

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FrameListener receives per-frame ticks with the simulated elapsed time.
type FrameListener interface {
	OnFrame(delta time.Duration)
}

// TurnListener receives discrete turn advances. Turns are the coarse step
// used for memory aging, much slower than the frame cadence.
type TurnListener interface {
	OnTurn(turn uint64)
}

// Clock drives the simulation with a configurable frame interval and speed
// multiplier, deriving discrete turns from accumulated world time.
type Clock struct {
	interval time.Duration
	speed    float64
	turnEvery time.Duration

	frameListeners []FrameListener
	turnListeners  []TurnListener

	accumulated time.Duration
	turn        uint64

	mu     sync.RWMutex
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewClock creates a clock. turnEvery is the amount of simulated time that
// makes up one discrete turn.
func NewClock(interval time.Duration, speed float64, turnEvery time.Duration, logger *zap.Logger) *Clock {
	return &Clock{
		interval:  interval,
		speed:     speed,
		turnEvery: turnEvery,
		logger:    logger,
	}
}

// AddFrameListener registers a per-frame listener.
func (c *Clock) AddFrameListener(l FrameListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frameListeners = append(c.frameListeners, l)
}

// AddTurnListener registers a per-turn listener.
func (c *Clock) AddTurnListener(l TurnListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turnListeners = append(c.turnListeners, l)
}

// Turn returns the current discrete turn number.
func (c *Clock) Turn() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.turn
}

// SetSpeed changes the time multiplier.
func (c *Clock) SetSpeed(speed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = speed
}

// Speed returns the current time multiplier.
func (c *Clock) Speed() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.speed
}

// Start begins the tick loop in a background goroutine.
func (c *Clock) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.loop(ctx)
	c.logger.Info("world clock started",
		zap.Duration("interval", c.interval),
		zap.Float64("speed", c.speed),
		zap.Duration("turn_every", c.turnEvery))
}

// Stop halts the tick loop.
func (c *Clock) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.logger.Info("world clock stopped")
	}
}

func (c *Clock) loop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Advance(c.interval)
		}
	}
}

// Advance moves simulated time forward by the given wall interval scaled by
// the speed multiplier, firing frame listeners and any turns that elapsed.
// Exposed so tests and headless drivers can step the clock manually.
func (c *Clock) Advance(wall time.Duration) {
	c.mu.Lock()
	delta := time.Duration(float64(wall) * c.speed)
	c.accumulated += delta

	var turns []uint64
	for c.turnEvery > 0 && c.accumulated >= c.turnEvery {
		c.accumulated -= c.turnEvery
		c.turn++
		turns = append(turns, c.turn)
	}

	frames := make([]FrameListener, len(c.frameListeners))
	copy(frames, c.frameListeners)
	turnLs := make([]TurnListener, len(c.turnListeners))
	copy(turnLs, c.turnListeners)
	c.mu.Unlock()

	for _, l := range frames {
		l.OnFrame(delta)
	}
	for _, turn := range turns {
		for _, l := range turnLs {
			l.OnTurn(turn)
		}
	}
}

package feedback

import "time"

// Config holds process-wide lifecycle settings. It is immutable after the
// Manager is constructed; tests that need different settings build a new
// Manager rather than mutating a live one.
type Config struct {
	// DefaultDuration is the auto-dismiss window applied when an item's
	// Options.Duration is nil. Zero makes unspecified items sticky.
	// Default: 5 seconds.
	DefaultDuration time.Duration

	// EnterAnimationDuration is the window reserved for the
	// entering → visible transition. Default: 200ms.
	EnterAnimationDuration time.Duration

	// ExitAnimationDuration is the window reserved for the
	// exiting → removed transition. Default: 300ms.
	ExitAnimationDuration time.Duration

	// MaxVisible caps concurrently non-exiting items per type.
	// A type with no entry is unbounded.
	MaxVisible map[Type]int

	// Queue configures admission control. nil disables it: every Add is
	// admitted. A non-nil config with MaxSize 0 rejects every Add.
	Queue *QueueConfig
}

// DefaultConfig returns a Config with sensible defaults: 5s auto-dismiss,
// 200ms/300ms animation windows, three visible toasts, and no admission
// queue.
func DefaultConfig() Config {
	return Config{
		DefaultDuration:        5 * time.Second,
		EnterAnimationDuration: 200 * time.Millisecond,
		ExitAnimationDuration:  300 * time.Millisecond,
		MaxVisible: map[Type]int{
			TypeToast: 3,
		},
	}
}

// normalize fills zero animation/duration fields from the defaults and
// deep-copies the mutable maps so a caller-held Config cannot alias the
// Manager's.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.DefaultDuration < 0 {
		c.DefaultDuration = def.DefaultDuration
	}
	if c.EnterAnimationDuration < 0 {
		c.EnterAnimationDuration = def.EnterAnimationDuration
	}
	if c.ExitAnimationDuration < 0 {
		c.ExitAnimationDuration = def.ExitAnimationDuration
	}

	maxVisible := make(map[Type]int, len(c.MaxVisible))
	for t, n := range c.MaxVisible {
		maxVisible[t] = n
	}
	c.MaxVisible = maxVisible

	if c.Queue != nil {
		q := *c.Queue
		c.Queue = &q
	}
	return c
}

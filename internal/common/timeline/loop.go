package timeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrLoopClosed is returned when work is submitted after Run has returned
var ErrLoopClosed = errors.New("timeline loop is closed")

const defaultQueueSize = 64

// LoopConfig holds configuration for a real-time loop
type LoopConfig struct {
	// QueueSize bounds the number of callbacks waiting to run
	QueueSize int

	// Logger receives panics recovered from callbacks
	Logger logrus.FieldLogger
}

// Loop is a real-time timeline. Every callback, whether from a timer or
// submitted with Do, runs on the goroutine that called Run.
type Loop struct {
	queue  chan func()
	closed chan struct{}
	once   sync.Once
	log    logrus.FieldLogger
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop(cfg *LoopConfig) *Loop {
	size := defaultQueueSize
	var log logrus.FieldLogger = logrus.StandardLogger()
	if cfg != nil {
		if cfg.QueueSize > 0 {
			size = cfg.QueueSize
		}
		if cfg.Logger != nil {
			log = cfg.Logger
		}
	}

	return &Loop{
		queue:  make(chan func(), size),
		closed: make(chan struct{}),
		log:    log,
	}
}

// Run executes callbacks until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.closed) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

// Do runs fn on the loop and waits for it to finish.
// Calling Do from inside a loop callback deadlocks.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.post(ctx, func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.closed:
		return ErrLoopClosed
	}
}

// Now returns the wall clock time
func (l *Loop) Now() time.Time {
	return time.Now()
}

// After schedules fn to run once on the loop after d
func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{quit: make(chan struct{})}
	t.timer = time.AfterFunc(d, func() {
		l.enqueue(func() {
			if t.stopped.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// Every schedules fn to run on the loop every d
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	t := &loopTimer{quit: make(chan struct{})}
	ticker := time.NewTicker(normalizeInterval(d))

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.quit:
				return
			case <-l.closed:
				return
			case <-ticker.C:
				l.enqueue(func() {
					if !t.stopped.Load() {
						fn()
					}
				})
			}
		}
	}()

	return t
}

func (l *Loop) post(ctx context.Context, fn func()) error {
	select {
	case <-l.closed:
		return ErrLoopClosed
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.closed:
		return ErrLoopClosed
	}
}

func (l *Loop) enqueue(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.closed:
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.WithField("panic", r).Error("timeline callback panicked")
		}
	}()
	fn()
}

type loopTimer struct {
	timer   *time.Timer
	quit    chan struct{}
	stopped atomic.Bool
	once    sync.Once
}

// Stop cancels the activity
func (t *loopTimer) Stop() bool {
	wasPending := t.stopped.CompareAndSwap(false, true)
	if t.timer != nil {
		t.timer.Stop()
	}
	t.once.Do(func() { close(t.quit) })
	return wasPending
}

package discord

import (
	"context"
	"sync"

	"github.com/KirkDiggler/aura/internal/models"
)

type contextKey int

const (
	confirmedKey contextKey = iota
	toastsKey
)

// withConfirmation marks ctx as coming from a confirm button press
func withConfirmation(ctx context.Context) context.Context {
	return context.WithValue(ctx, confirmedKey, true)
}

func confirmedFromContext(ctx context.Context) bool {
	confirmed, _ := ctx.Value(confirmedKey).(bool)
	return confirmed
}

// toastCollector gathers the toasts raised while handling one interaction,
// so they can be sent back to the user instead of the channel
type toastCollector struct {
	mu     sync.Mutex
	toasts []*models.Toast
}

func withToastCollector(ctx context.Context) (context.Context, *toastCollector) {
	c := &toastCollector{}
	return context.WithValue(ctx, toastsKey, c), c
}

func collectorFromContext(ctx context.Context) *toastCollector {
	c, _ := ctx.Value(toastsKey).(*toastCollector)
	return c
}

func (c *toastCollector) add(toast *models.Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, toast)
}

// Toasts returns what has been collected so far
func (c *toastCollector) Toasts() []*models.Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*models.Toast(nil), c.toasts...)
}

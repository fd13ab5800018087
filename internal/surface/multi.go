package surface

import (
	"context"

	"github.com/KirkDiggler/aura/internal/models"
)

// Multi fans every call out to several surfaces in order
type Multi struct {
	Renderers  []Renderer
	Notifiers  []Notifier
	Navigators []Navigator
}

// SetText sets the value on every renderer
func (m *Multi) SetText(ctx context.Context, element Element, value string) {
	for _, r := range m.Renderers {
		r.SetText(ctx, element, value)
	}
}

// SetVisible sets visibility on every renderer
func (m *Multi) SetVisible(ctx context.Context, element Element, visible bool) {
	for _, r := range m.Renderers {
		r.SetVisible(ctx, element, visible)
	}
}

// SetEnabled sets the enabled state on every renderer
func (m *Multi) SetEnabled(ctx context.Context, element Element, enabled bool) {
	for _, r := range m.Renderers {
		r.SetEnabled(ctx, element, enabled)
	}
}

// AppendMessage appends the message on every renderer
func (m *Multi) AppendMessage(ctx context.Context, msg *models.ChatMessage) {
	for _, r := range m.Renderers {
		r.AppendMessage(ctx, msg)
	}
}

// Notify shows the toast on every notifier
func (m *Multi) Notify(ctx context.Context, toast *models.Toast) {
	for _, n := range m.Notifiers {
		n.Notify(ctx, toast)
	}
}

// Navigate forwards the navigation to every navigator
func (m *Multi) Navigate(ctx context.Context, destination models.Destination) {
	for _, n := range m.Navigators {
		n.Navigate(ctx, destination)
	}
}

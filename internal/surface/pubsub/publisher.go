// Package pubsub streams surface updates to Redis so an external front end
// can render a session it does not host.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultChannelPrefix namespaces session channels
const DefaultChannelPrefix = "aura:session:"

// EventType identifies a surface call
type EventType string

const (
	EventText       EventType = "text"
	EventVisibility EventType = "visibility"
	EventEnabled    EventType = "enabled"
	EventMessage    EventType = "message"
	EventToast      EventType = "toast"
	EventNavigate   EventType = "navigate"
)

// Event is the JSON payload published for every surface call
type Event struct {
	Type        EventType          `json:"type"`
	Element     surface.Element    `json:"element,omitempty"`
	Value       string             `json:"value,omitempty"`
	Visible     *bool              `json:"visible,omitempty"`
	Enabled     *bool              `json:"enabled,omitempty"`
	Message     *Message           `json:"message,omitempty"`
	Toast       *Toast             `json:"toast,omitempty"`
	Destination models.Destination `json:"destination,omitempty"`
}

// Message is the wire form of a chat message
type Message struct {
	ID     string        `json:"id"`
	Text   string        `json:"text"`
	Sender models.Sender `json:"sender"`
	SentAt time.Time     `json:"sentAt"`
}

// Toast is the wire form of a notification
type Toast struct {
	Level models.ToastLevel `json:"level"`
	Text  string            `json:"text"`
}

const (
	// DefaultQueueSize bounds the events waiting to be published
	DefaultQueueSize = 256

	// DefaultPublishTimeout bounds a single PUBLISH
	DefaultPublishTimeout = 2 * time.Second
)

// Config holds configuration for the publisher
type Config struct {
	RedisClient *redis.Client

	// SessionID selects the channel; events go to <ChannelPrefix><SessionID>
	SessionID     string
	ChannelPrefix string

	// QueueSize and PublishTimeout fall back to the defaults when zero
	QueueSize      int
	PublishTimeout time.Duration

	Logger logrus.FieldLogger
}

// Publisher implements surface.Renderer, Notifier and Navigator by
// publishing events. Surface calls only queue the event; a goroutine owned
// by the publisher sends them in order. When the queue is full the event
// is dropped. Publish failures are logged, never returned.
type Publisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
	log     logrus.FieldLogger

	mu     sync.Mutex
	closed bool
	queue  chan *Event
	done   chan struct{}
}

// New creates a publisher for one session and starts its sender
func New(cfg *Config) (*Publisher, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if cfg.SessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	prefix := cfg.ChannelPrefix
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	channel := prefix + cfg.SessionID
	p := &Publisher{
		client:  cfg.RedisClient,
		channel: channel,
		timeout: timeout,
		log:     log.WithField("channel", channel),
		queue:   make(chan *Event, queueSize),
		done:    make(chan struct{}),
	}
	go p.run()

	return p, nil
}

// Close stops accepting events. Queued events are still published; use
// Wait to block until they are.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.queue)
}

// Wait blocks until a closed publisher has sent its queue
func (p *Publisher) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Channel returns the Redis channel events are published to
func (p *Publisher) Channel() string {
	return p.channel
}

// SetText publishes a text event
func (p *Publisher) SetText(ctx context.Context, element surface.Element, value string) {
	p.publish(ctx, &Event{Type: EventText, Element: element, Value: value})
}

// SetVisible publishes a visibility event
func (p *Publisher) SetVisible(ctx context.Context, element surface.Element, visible bool) {
	p.publish(ctx, &Event{Type: EventVisibility, Element: element, Visible: &visible})
}

// SetEnabled publishes an enabled event
func (p *Publisher) SetEnabled(ctx context.Context, element surface.Element, enabled bool) {
	p.publish(ctx, &Event{Type: EventEnabled, Element: element, Enabled: &enabled})
}

// AppendMessage publishes a chat message
func (p *Publisher) AppendMessage(ctx context.Context, msg *models.ChatMessage) {
	p.publish(ctx, &Event{
		Type: EventMessage,
		Message: &Message{
			ID:     msg.ID,
			Text:   msg.Text,
			Sender: msg.Sender,
			SentAt: msg.SentAt,
		},
	})
}

// Notify publishes a toast
func (p *Publisher) Notify(ctx context.Context, toast *models.Toast) {
	p.publish(ctx, &Event{
		Type:  EventToast,
		Toast: &Toast{Level: toast.Level, Text: toast.Text},
	})
}

// Navigate publishes a navigation
func (p *Publisher) Navigate(ctx context.Context, destination models.Destination) {
	p.publish(ctx, &Event{Type: EventNavigate, Destination: destination})
}

// publish queues the event. It never blocks the caller.
func (p *Publisher) publish(_ context.Context, event *Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	select {
	case p.queue <- event:
	default:
		p.log.WithField("type", event.Type).Warn("dropped surface event, publish queue is full")
	}
}

func (p *Publisher) run() {
	defer close(p.done)

	for event := range p.queue {
		p.send(event)
	}
}

func (p *Publisher) send(event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).Error("failed to marshal surface event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.WithError(err).WithField("type", event.Type).Warn("failed to publish surface event")
	}
}

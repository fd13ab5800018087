package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// maxQueuedLines bounds the channel messages waiting in one outbox
const maxQueuedLines = 32

// outbox sends one room's Discord traffic from its own goroutine so a slow
// or rate limited channel never holds up the shared timeline. Channel
// messages go out in order; edits of the room message coalesce and only
// the latest is sent.
type outbox struct {
	messenger Messenger
	channelID string
	backlog   *backlog
	log       logrus.FieldLogger

	mu     sync.Mutex
	lines  []string
	edit   *discordgo.MessageEdit
	closed bool
	wake   chan struct{}
}

func newOutbox(messenger Messenger, channelID string, b *backlog, log logrus.FieldLogger) *outbox {
	o := &outbox{
		messenger: messenger,
		channelID: channelID,
		backlog:   b,
		log:       log,
		wake:      make(chan struct{}, 1),
	}
	go o.run()
	return o
}

// send queues a channel message
func (o *outbox) send(content string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if len(o.lines) >= maxQueuedLines {
		o.mu.Unlock()
		o.log.Warn("dropped channel message, outbox is full")
		return
	}
	o.lines = append(o.lines, content)
	o.backlog.add(1)
	o.mu.Unlock()

	o.notify()
}

// update queues an edit of the room message, replacing any edit not yet sent
func (o *outbox) update(edit *discordgo.MessageEdit) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.edit == nil {
		o.backlog.add(1)
	}
	o.edit = edit
	o.mu.Unlock()

	o.notify()
}

// close stops accepting work. What is already queued is still sent.
func (o *outbox) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	o.notify()
}

func (o *outbox) notify() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *outbox) run() {
	for range o.wake {
		if done := o.drain(); done {
			return
		}
	}
}

// drain sends everything queued and reports whether the outbox is finished
func (o *outbox) drain() bool {
	for {
		o.mu.Lock()
		lines, edit, closed := o.lines, o.edit, o.closed
		o.lines, o.edit = nil, nil
		o.mu.Unlock()

		if len(lines) == 0 && edit == nil {
			return closed
		}

		for _, line := range lines {
			if _, err := o.messenger.ChannelMessageSend(o.channelID, line); err != nil {
				o.log.WithError(err).Warn("failed to post channel message")
			}
			o.backlog.add(-1)
		}

		if edit != nil {
			if _, err := o.messenger.ChannelMessageEditComplex(edit); err != nil {
				o.log.WithError(err).Warn("failed to update room message")
			}
			o.backlog.add(-1)
		}
	}
}

// backlog counts Discord calls queued across every room
type backlog struct {
	mu      sync.Mutex
	n       int
	settled *sync.Cond
}

func newBacklog() *backlog {
	b := &backlog{}
	b.settled = sync.NewCond(&b.mu)
	return b
}

func (b *backlog) add(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.n += delta
	if b.n <= 0 {
		b.settled.Broadcast()
	}
}

// wait blocks until nothing is queued or ctx is done
func (b *backlog) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.mu.Lock()
		for b.n > 0 {
			b.settled.Wait()
		}
		b.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/bwmarrin/discordgo"
)

// roomSurface renders one meeting room into a Discord channel. It is only
// called on the room's timeline and never talks to Discord itself: element
// changes are batched into a single edit once the current callback
// finishes, and every call is handed to the room's outbox.
type roomSurface struct {
	outbox    *outbox
	timeline  timeline.Timeline
	channelID string
	messageID string
	hostName  string

	view       roomView
	dirty      bool
	released   bool
	pending    timeline.Timer
	onNavigate func(ctx context.Context, destination models.Destination)
}

func newRoomSurface(out *outbox, tl timeline.Timeline, channelID, hostName string, scheduledStart *time.Time) *roomSurface {
	return &roomSurface{
		outbox:    out,
		timeline:  tl,
		channelID: channelID,
		hostName:  hostName,
		view: roomView{
			scheduledStart: scheduledStart,
		},
	}
}

// initial renders the room message to post. The caller posts it off the
// timeline and hands the ID back through attach.
func (r *roomSurface) initial() *discordgo.MessageSend {
	r.dirty = false
	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{renderRoomEmbed(&r.view)},
		Components: renderRoomComponents(&r.view),
	}
}

// attach records the posted room message and sends whatever changed while
// it was being posted
func (r *roomSurface) attach(messageID string) {
	r.messageID = messageID
	if r.dirty && r.pending == nil {
		r.flush()
	}
	if r.released {
		r.outbox.close()
	}
}

// release stops the outbox once the room is gone. A room closed before its
// message was posted keeps the outbox until attach sends the final edit.
func (r *roomSurface) release() {
	r.released = true
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
	if r.messageID != "" {
		r.outbox.close()
	}
}

// SetText implements surface.Renderer
func (r *roomSurface) SetText(ctx context.Context, element surface.Element, value string) {
	switch element {
	case surface.ElementCounselorName:
		r.view.counselor = value
	case surface.ElementCounselorInitials:
		r.view.initials = value
	case surface.ElementStatus:
		r.view.status = value
	case surface.ElementSessionTime:
		r.view.sessionTime = value
	case surface.ElementMicIcon:
		r.view.micOff = value == "mic-off"
	case surface.ElementCameraIcon:
		r.view.cameraOff = value == "video-off"
	case surface.ElementMeetingTimer:
		// ticks every second; shown on the next edit
		r.view.timer = value
		return
	default:
		return
	}
	r.markDirty()
}

// SetVisible implements surface.Renderer
func (r *roomSurface) SetVisible(ctx context.Context, element surface.Element, visible bool) {
	switch element {
	case surface.ElementWaitingOverlay:
		r.view.waiting = visible
	case surface.ElementAudioPulse:
		r.view.speaking = visible
	case surface.ElementCameraOffIndicator:
		r.view.cameraOff = visible
	case surface.ElementChatPanel:
		r.view.chatOpen = visible
	case surface.ElementChatDot:
		r.view.unread = visible
	default:
		return
	}
	r.markDirty()
}

// SetEnabled implements surface.Renderer. Rooms have no disabled controls.
func (r *roomSurface) SetEnabled(ctx context.Context, element surface.Element, enabled bool) {}

// AppendMessage posts the chat message to the channel
func (r *roomSurface) AppendMessage(ctx context.Context, msg *models.ChatMessage) {
	author := r.view.counselor
	if msg.Sender == models.SenderSelf {
		author = r.hostName
	}

	r.outbox.send(fmt.Sprintf("**%s:** %s", author, msg.Text))
}

// Notify returns the toast to the interacting user when there is one,
// otherwise posts it to the channel
func (r *roomSurface) Notify(ctx context.Context, toast *models.Toast) {
	if c := collectorFromContext(ctx); c != nil {
		c.add(toast)
		return
	}

	r.outbox.send(toastLine(toast))
}

// Confirm is answered by the button that started the action
func (r *roomSurface) Confirm(ctx context.Context, prompt string) bool {
	return confirmedFromContext(ctx)
}

// Navigate closes the room
func (r *roomSurface) Navigate(ctx context.Context, destination models.Destination) {
	if r.pending != nil {
		r.pending.Stop()
	}
	r.view.closed = true
	r.view.destination = destination
	r.dirty = true
	r.flush()

	if r.onNavigate != nil {
		r.onNavigate(ctx, destination)
	}
}

func (r *roomSurface) markDirty() {
	r.dirty = true
	if r.pending != nil || r.view.closed {
		return
	}
	r.pending = r.timeline.After(0, r.flush)
}

func (r *roomSurface) flush() {
	r.pending = nil
	if !r.dirty || r.messageID == "" {
		return
	}
	r.dirty = false

	embeds := []*discordgo.MessageEmbed{renderRoomEmbed(&r.view)}
	components := renderRoomComponents(&r.view)

	edit := discordgo.NewMessageEdit(r.channelID, r.messageID)
	edit.Embeds = &embeds
	edit.Components = &components

	r.outbox.update(edit)
}

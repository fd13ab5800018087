package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/common/uuid"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/repositories/room"
	"github.com/KirkDiggler/aura/internal/services/meeting"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/KirkDiggler/aura/internal/surface/pubsub"
	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoRoom is returned when a channel has no meeting room
	ErrNoRoom = errors.New("there is no meeting in this channel")

	// ErrRoomOpen is returned when a channel already hosts a meeting
	ErrRoomOpen = errors.New("this channel already has a meeting")

	// ErrNotHost is returned when someone other than the host uses the controls
	ErrNotHost = errors.New("only the host can use the meeting controls")
)

// Timeline is a timeline that outside goroutines can submit work to
type Timeline interface {
	timeline.Timeline

	// Do runs fn on the timeline and waits for it to finish
	Do(ctx context.Context, fn func()) error
}

// Action is a room control
type Action string

const (
	ActionMic    Action = "mic"
	ActionCamera Action = "camera"
	ActionChat   Action = "chat"
	ActionEnd    Action = "end"
	ActionRetry  Action = "retry"
	ActionLeave  Action = "leave"
)

// RoomsConfig holds configuration for the room manager
type RoomsConfig struct {
	Timeline      Timeline
	Repository    room.Repository
	Messaging     messaging.Service
	UUIDGenerator uuid.UUID
	Messenger     Messenger

	// RedisClient is optional; when set every room also publishes its
	// surface events to <ChannelPrefix><room ID>
	RedisClient   *redis.Client
	ChannelPrefix string

	// Meeting carries the durations and defaults used for every session.
	// Its collaborators are filled in per room.
	Meeting meeting.Config

	Logger logrus.FieldLogger
}

// Rooms runs one meeting session per Discord channel. Sessions share a
// single timeline, so every call into a session goes through Do.
type Rooms struct {
	timeline      Timeline
	repo          room.Repository
	messaging     messaging.Service
	uuidGenerator uuid.UUID
	messenger     Messenger
	redisClient   *redis.Client
	channelPrefix string
	template      meeting.Config
	log           logrus.FieldLogger

	// live holds the surfaces of each open room; only touched on the timeline
	live map[string]*liveRoom

	// backlog counts Discord calls and surface events not yet sent
	backlog *backlog
}

// liveRoom is the surfaces of an open room
type liveRoom struct {
	navigator surface.Navigator
	surface   *roomSurface
	publisher *pubsub.Publisher
}

// NewRooms creates a room manager
func NewRooms(cfg *RoomsConfig) (*Rooms, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Timeline == nil {
		return nil, errors.New("timeline cannot be nil")
	}

	if cfg.Repository == nil {
		return nil, errors.New("room repository cannot be nil")
	}

	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.UUIDGenerator == nil {
		return nil, errors.New("UUID generator cannot be nil")
	}

	if cfg.Messenger == nil {
		return nil, errors.New("messenger cannot be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Rooms{
		timeline:      cfg.Timeline,
		repo:          cfg.Repository,
		messaging:     cfg.Messaging,
		uuidGenerator: cfg.UUIDGenerator,
		messenger:     cfg.Messenger,
		redisClient:   cfg.RedisClient,
		channelPrefix: cfg.ChannelPrefix,
		template:      cfg.Meeting,
		log:           log,
		live:          make(map[string]*liveRoom),
		backlog:       newBacklog(),
	}, nil
}

// OpenInput contains parameters for opening a room
type OpenInput struct {
	ChannelID string
	HostID    string
	HostName  string

	// CounselorName is optional; the meeting default is used when empty
	CounselorName string

	// ScheduledStart is optional; nil starts connecting right away
	ScheduledStart *time.Time

	// StartsIn schedules the start relative to now when ScheduledStart is nil
	StartsIn time.Duration
}

// OpenOutput contains the opened room
type OpenOutput struct {
	Room    *room.Room
	Session *models.MeetingSession
	Waiting bool
}

// Open starts a meeting session in a channel and posts its room message
func (r *Rooms) Open(ctx context.Context, input *OpenInput) (*OpenOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.ChannelID == "" || input.HostID == "" {
		return nil, errors.New("channel ID and host ID cannot be empty")
	}

	if _, err := r.repo.GetRoomByChannel(ctx, &room.GetRoomByChannelInput{ChannelID: input.ChannelID}); err == nil {
		return nil, ErrRoomOpen
	} else if !errors.Is(err, room.ErrRoomNotFound) {
		return nil, fmt.Errorf("failed to look up room: %w", err)
	}

	if input.ScheduledStart == nil && input.StartsIn > 0 {
		start := r.timeline.Now().Add(input.StartsIn)
		input.ScheduledStart = &start
	}

	rm := &room.Room{
		ID:        r.uuidGenerator.NewUUID(),
		ChannelID: input.ChannelID,
		HostID:    input.HostID,
		CreatedAt: r.timeline.Now(),
	}
	log := r.log.WithFields(logrus.Fields{
		"room_id":    rm.ID,
		"channel_id": rm.ChannelID,
	})

	var (
		output  *OpenOutput
		rs      *roomSurface
		post    *discordgo.MessageSend
		openErr error
	)
	err := r.timeline.Do(ctx, func() {
		output, rs, openErr = r.open(ctx, rm, input, log)
		if openErr == nil {
			post = rs.initial()
		}
	})
	if err != nil {
		return nil, err
	}
	if openErr != nil {
		return nil, openErr
	}

	// the room is registered, so posting can happen off the timeline
	msg, err := r.messenger.ChannelMessageSendComplex(rm.ChannelID, post)
	if err != nil {
		if doErr := r.timeline.Do(context.WithoutCancel(ctx), func() { r.abandon(ctx, rm, rs, log) }); doErr != nil {
			log.WithError(doErr).Warn("failed to abandon room")
		}
		return nil, fmt.Errorf("failed to post room message: %w", err)
	}

	err = r.timeline.Do(context.WithoutCancel(ctx), func() {
		rm.MessageID = msg.ID
		rs.attach(msg.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Info("meeting room opened")
	return output, nil
}

// open creates the session and registers the room; it runs on the timeline
func (r *Rooms) open(ctx context.Context, rm *room.Room, input *OpenInput, log logrus.FieldLogger) (*OpenOutput, *roomSurface, error) {
	// another Open may have claimed the channel since the first lookup
	if _, err := r.repo.GetRoomByChannel(ctx, &room.GetRoomByChannelInput{ChannelID: rm.ChannelID}); err == nil {
		return nil, nil, ErrRoomOpen
	} else if !errors.Is(err, room.ErrRoomNotFound) {
		return nil, nil, fmt.Errorf("failed to look up room: %w", err)
	}

	out := newOutbox(r.messenger, rm.ChannelID, r.backlog, log)
	rs := newRoomSurface(out, r.timeline, rm.ChannelID, input.HostName, input.ScheduledStart)
	live := &liveRoom{surface: rs}

	multi := &surface.Multi{
		Renderers:  []surface.Renderer{rs},
		Notifiers:  []surface.Notifier{rs},
		Navigators: []surface.Navigator{rs},
	}
	live.navigator = multi

	// release undoes everything started so far
	release := func() {
		out.close()
		if live.publisher != nil {
			r.retire(live.publisher)
		}
	}

	if r.redisClient != nil {
		publisher, err := pubsub.New(&pubsub.Config{
			RedisClient:   r.redisClient,
			SessionID:     rm.ID,
			ChannelPrefix: r.channelPrefix,
			Logger:        log,
		})
		if err != nil {
			out.close()
			return nil, nil, fmt.Errorf("failed to create surface publisher: %w", err)
		}
		live.publisher = publisher
		// the publisher goes first so subscribers see the close before the room is torn down
		multi.Renderers = append([]surface.Renderer{publisher}, multi.Renderers...)
		multi.Notifiers = append([]surface.Notifier{publisher}, multi.Notifiers...)
		multi.Navigators = append([]surface.Navigator{publisher}, multi.Navigators...)
	}

	cfg := r.template
	cfg.Timeline = r.timeline
	cfg.UUIDGenerator = r.uuidGenerator
	cfg.Messaging = r.messaging
	cfg.Renderer = multi
	cfg.Notifier = multi
	cfg.Confirmer = rs
	cfg.Navigator = multi
	cfg.Logger = log

	svc, err := meeting.New(&cfg)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	rm.Meeting = svc

	started, err := svc.Initialize(ctx, &meeting.InitializeInput{
		CounselorName:  input.CounselorName,
		ScheduledStart: input.ScheduledStart,
	})
	if err != nil {
		svc.Teardown()
		release()
		return nil, nil, fmt.Errorf("failed to initialize meeting: %w", err)
	}

	if err := r.repo.SaveRoom(ctx, &room.SaveRoomInput{Room: rm}); err != nil {
		svc.Teardown()
		release()
		if errors.Is(err, room.ErrRoomExists) {
			return nil, nil, ErrRoomOpen
		}
		return nil, nil, fmt.Errorf("failed to save room: %w", err)
	}

	rs.onNavigate = func(ctx context.Context, _ models.Destination) {
		r.close(ctx, rm, log)
	}
	r.live[rm.ID] = live

	return &OpenOutput{
		Room:    rm,
		Session: started.Session,
		Waiting: started.Waiting,
	}, rs, nil
}

// abandon closes a room whose message could not be posted
func (r *Rooms) abandon(ctx context.Context, rm *room.Room, rs *roomSurface, log logrus.FieldLogger) {
	if _, ok := r.live[rm.ID]; ok {
		r.close(ctx, rm, log)
	}
	rs.outbox.close()
}

// retire lets a closed publisher send its queue in the background
func (r *Rooms) retire(publisher *pubsub.Publisher) {
	publisher.Close()
	r.backlog.add(1)
	go func() {
		defer r.backlog.add(-1)
		_ = publisher.Wait(context.Background())
	}()
}

// close tears a room down; it runs on the timeline
func (r *Rooms) close(ctx context.Context, rm *room.Room, log logrus.FieldLogger) {
	if live, ok := r.live[rm.ID]; ok {
		delete(r.live, rm.ID)
		live.surface.release()
		if live.publisher != nil {
			r.retire(live.publisher)
		}
	}
	rm.Meeting.Teardown()

	err := r.repo.DeleteRoom(context.WithoutCancel(ctx), &room.DeleteRoomInput{
		ChannelID: rm.ChannelID,
		RoomID:    rm.ID,
	})
	if err != nil && !errors.Is(err, room.ErrRoomNotFound) {
		log.WithError(err).Warn("failed to delete room")
		return
	}

	log.Info("meeting room closed")
}

// ControlInput contains parameters for using a room control
type ControlInput struct {
	ChannelID string
	UserID    string
	Action    Action

	// Confirmed answers the end-of-session question
	Confirmed bool
}

// ControlOutput contains the result of using a room control
type ControlOutput struct {
	// Accepted is false when the session rejected the action
	Accepted bool

	// Toasts raised while handling the action, for the acting user
	Toasts []*models.Toast
}

// Control applies a host action to the room in a channel
func (r *Rooms) Control(ctx context.Context, input *ControlInput) (*ControlOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	rm, err := r.roomFor(ctx, input.ChannelID)
	if err != nil {
		return nil, err
	}

	if rm.HostID != input.UserID {
		return nil, ErrNotHost
	}

	if input.Confirmed {
		ctx = withConfirmation(ctx)
	}

	accepted := false
	toasts, err := r.act(ctx, func(ctx context.Context) error {
		var err error
		accepted, err = r.apply(ctx, rm.Meeting, input.Action)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &ControlOutput{
		Accepted: accepted,
		Toasts:   toasts,
	}, nil
}

func (r *Rooms) apply(ctx context.Context, svc meeting.Service, action Action) (bool, error) {
	switch action {
	case ActionMic:
		out, err := svc.ToggleMic(ctx)
		if err != nil {
			return false, err
		}
		return out.Accepted, nil
	case ActionCamera:
		out, err := svc.ToggleCamera(ctx)
		if err != nil {
			return false, err
		}
		return out.Accepted, nil
	case ActionChat:
		out, err := svc.ToggleChatPanel(ctx)
		if err != nil {
			return false, err
		}
		return out.Accepted, nil
	case ActionEnd:
		out, err := svc.EndSession(ctx)
		if err != nil {
			return false, err
		}
		return out.Ended, nil
	case ActionRetry:
		if _, err := svc.Retry(ctx); err != nil {
			return false, err
		}
		return true, nil
	case ActionLeave:
		out, err := svc.LeaveWaitingRoom(ctx)
		if err != nil {
			return false, err
		}
		return out.Left, nil
	default:
		return false, fmt.Errorf("unknown action: %s", action)
	}
}

// SayInput contains a chat line typed in a channel
type SayInput struct {
	ChannelID string
	UserID    string
	Text      string
}

// SayOutput contains the result of a chat line
type SayOutput struct {
	Accepted bool
	Toasts   []*models.Toast
}

// Say adds a chat line to the room. The host speaks as the local
// participant; anyone else speaks for the counselor.
func (r *Rooms) Say(ctx context.Context, input *SayInput) (*SayOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.New("message cannot be empty")
	}

	rm, err := r.roomFor(ctx, input.ChannelID)
	if err != nil {
		return nil, err
	}

	accepted := false
	toasts, err := r.act(ctx, func(ctx context.Context) error {
		if rm.HostID == input.UserID {
			out, err := rm.Meeting.SendMessage(ctx, &meeting.SendMessageInput{Text: input.Text})
			if err != nil {
				return err
			}
			accepted = out.Accepted
			return nil
		}

		out, err := rm.Meeting.ReceiveMessage(ctx, &meeting.ReceiveMessageInput{Text: input.Text})
		if err != nil {
			return err
		}
		accepted = out.Accepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SayOutput{
		Accepted: accepted,
		Toasts:   toasts,
	}, nil
}

// Status returns a snapshot of the session in a channel
func (r *Rooms) Status(ctx context.Context, channelID string) (*models.MeetingSession, error) {
	rm, err := r.roomFor(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var session *models.MeetingSession
	_, err = r.act(ctx, func(ctx context.Context) error {
		out, err := rm.Meeting.GetSession(ctx)
		if err != nil {
			return err
		}
		session = out.Session
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// CloseAll sends every open room back to the dashboard, tears it down and
// waits for the queued Discord calls and surface events to be sent
func (r *Rooms) CloseAll(ctx context.Context) error {
	output, err := r.repo.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}

	for _, rm := range output.Rooms {
		log := r.log.WithFields(logrus.Fields{
			"room_id":    rm.ID,
			"channel_id": rm.ChannelID,
		})
		err := r.timeline.Do(ctx, func() {
			if live, ok := r.live[rm.ID]; ok {
				live.navigator.Navigate(ctx, models.DestinationUserDashboard)
				return
			}
			r.close(ctx, rm, log)
		})
		if err != nil {
			return err
		}
	}

	// let the final room edits and close events go out
	return r.backlog.wait(ctx)
}

// ConfirmPrompt returns the end-of-session question
func (r *Rooms) ConfirmPrompt(ctx context.Context) string {
	output, err := r.messaging.GetConfirmPrompt(ctx, &messaging.GetConfirmPromptInput{
		Prompt: messaging.PromptLeaveMeeting,
	})
	if err != nil {
		r.log.WithError(err).Warn("failed to build confirm prompt")
		return "Leave the meeting?"
	}
	return output.Text
}

func (r *Rooms) roomFor(ctx context.Context, channelID string) (*room.Room, error) {
	rm, err := r.repo.GetRoomByChannel(ctx, &room.GetRoomByChannelInput{ChannelID: channelID})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return nil, ErrNoRoom
		}
		return nil, fmt.Errorf("failed to look up room: %w", err)
	}
	return rm, nil
}

// act runs fn on the timeline and returns the toasts it raised
func (r *Rooms) act(ctx context.Context, fn func(ctx context.Context) error) ([]*models.Toast, error) {
	ctx, collector := withToastCollector(ctx)

	var actErr error
	if err := r.timeline.Do(ctx, func() { actErr = fn(ctx) }); err != nil {
		return nil, err
	}
	if actErr != nil {
		return nil, actErr
	}

	return collector.Toasts(), nil
}

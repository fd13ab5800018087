package meeting

import (
	"context"
	"strings"
	"time"

	"github.com/KirkDiggler/aura/internal/common/clock"
	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/common/uuid"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/sirupsen/logrus"
)

// service implements the Service interface
type service struct {
	tickInterval     time.Duration
	connectDelay     time.Duration
	speakDelay       time.Duration
	greetingDelay    time.Duration
	leaveDelay       time.Duration
	defaultCounselor string
	location         *time.Location

	timeline      timeline.Timeline
	clock         clock.Clock
	uuidGenerator uuid.UUID
	messaging     messaging.Service
	connector     Connector

	renderer  surface.Renderer
	notifier  surface.Notifier
	confirmer surface.Confirmer
	navigator surface.Navigator

	log logrus.FieldLogger

	session     *models.MeetingSession
	initialized bool
	closed      bool

	// ctx outlives the Initialize call and is cancelled by Teardown
	ctx    context.Context
	cancel context.CancelFunc

	// Scheduled activities owned by the session. At most one of each is live.
	countdown timeline.Timer
	elapsed   timeline.Timer
	stage     timeline.Timer
	leave     timeline.Timer
}

// New creates a new meeting service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Timeline == nil {
		return nil, ErrNilTimeline
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}

	if cfg.Renderer == nil {
		return nil, ErrNilRenderer
	}

	if cfg.Notifier == nil {
		return nil, ErrNilNotifier
	}

	if cfg.Confirmer == nil {
		return nil, ErrNilConfirmer
	}

	if cfg.Navigator == nil {
		return nil, ErrNilNavigator
	}

	s := &service{
		tickInterval:     orDefault(cfg.TickInterval, DefaultTickInterval),
		connectDelay:     orDefault(cfg.ConnectDelay, DefaultConnectDelay),
		speakDelay:       orDefault(cfg.SpeakDelay, DefaultSpeakDelay),
		greetingDelay:    orDefault(cfg.GreetingDelay, DefaultGreetingDelay),
		leaveDelay:       orDefault(cfg.LeaveDelay, DefaultLeaveDelay),
		defaultCounselor: cfg.DefaultCounselor,
		location:         cfg.Location,
		timeline:         cfg.Timeline,
		clock:            cfg.Clock,
		uuidGenerator:    cfg.UUIDGenerator,
		messaging:        cfg.Messaging,
		connector:        cfg.Connector,
		renderer:         cfg.Renderer,
		notifier:         cfg.Notifier,
		confirmer:        cfg.Confirmer,
		navigator:        cfg.Navigator,
		log:              cfg.Logger,
	}

	if s.defaultCounselor == "" {
		s.defaultCounselor = DefaultCounselorName
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.clock == nil {
		s.clock = cfg.Timeline
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	return s, nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Initialize starts the session, either waiting for its scheduled start or connecting right away
func (s *service) Initialize(ctx context.Context, input *InitializeInput) (*InitializeOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if s.closed {
		return nil, ErrSessionClosed
	}

	if s.initialized {
		return nil, ErrAlreadyInitialized
	}

	name := strings.TrimSpace(input.CounselorName)
	if name == "" {
		name = s.defaultCounselor
	}

	now := s.clock.Now()
	s.session = &models.MeetingSession{
		ID:                s.uuidGenerator.NewUUID(),
		CounselorName:     name,
		CounselorInitials: Initials(name),
		Phase:             models.PhaseWaiting,
		Messages:          []*models.ChatMessage{},
		CreatedAt:         now,
	}
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.log = s.log.WithField("session_id", s.session.ID)
	s.initialized = true

	s.renderer.SetText(ctx, surface.ElementCounselorName, name)
	s.renderer.SetText(ctx, surface.ElementCounselorInitials, s.session.CounselorInitials)
	s.renderer.SetText(ctx, surface.ElementMeetingTimer, FormatElapsed(0))
	s.renderer.SetVisible(ctx, surface.ElementChatPanel, false)
	s.renderer.SetVisible(ctx, surface.ElementChatDot, false)

	if input.ScheduledStart == nil || !input.ScheduledStart.After(now) {
		if input.ScheduledStart != nil {
			start := *input.ScheduledStart
			s.session.ScheduledStart = &start
		}

		s.log.Info("session due, connecting")
		s.renderer.SetVisible(ctx, surface.ElementWaitingOverlay, false)
		s.enterConnecting()

		return &InitializeOutput{
			Session: s.session.Clone(),
			Waiting: false,
		}, nil
	}

	start := *input.ScheduledStart
	s.session.ScheduledStart = &start

	s.log.WithField("scheduled_start", start).Info("session waiting for scheduled start")
	s.setStatus(models.PhaseWaiting)
	s.renderer.SetText(ctx, surface.ElementSessionTime, start.In(s.location).Format(DefaultScheduledTimeFmt))
	s.renderer.SetVisible(ctx, surface.ElementWaitingOverlay, true)
	s.renderer.SetText(ctx, surface.ElementCountdown, FormatCountdown(start.Sub(now)))
	s.startCountdown()

	return &InitializeOutput{
		Session: s.session.Clone(),
		Waiting: true,
	}, nil
}

// startCountdown replaces any running countdown with a fresh one
func (s *service) startCountdown() {
	s.stopTimer(&s.countdown)
	s.countdown = s.timeline.Every(s.tickInterval, s.onCountdownTick)
}

func (s *service) onCountdownTick() {
	if !s.session.Phase.IsWaiting() {
		s.stopTimer(&s.countdown)
		return
	}

	remaining := clock.Until(s.clock, *s.session.ScheduledStart)
	if remaining > 0 {
		s.renderer.SetText(s.ctx, surface.ElementCountdown, FormatCountdown(remaining))
		return
	}

	s.stopTimer(&s.countdown)
	s.renderer.SetText(s.ctx, surface.ElementCountdown, FormatCountdown(0))
	s.renderer.SetVisible(s.ctx, surface.ElementWaitingOverlay, false)
	s.log.Info("scheduled start reached")
	s.enterConnecting()
}

func (s *service) enterConnecting() {
	s.setPhase(models.PhaseConnecting)
	s.renderer.SetVisible(s.ctx, surface.ElementAudioPulse, false)
	s.startElapsedTimer()

	s.stopTimer(&s.stage)
	s.stage = s.timeline.After(s.connectDelay, s.onConnectStage)
}

// startElapsedTimer resumes counting from the current value
func (s *service) startElapsedTimer() {
	s.stopTimer(&s.elapsed)
	s.renderer.SetText(s.ctx, surface.ElementMeetingTimer, FormatElapsed(s.session.ElapsedSeconds))
	s.elapsed = s.timeline.Every(s.tickInterval, s.onElapsedTick)
}

func (s *service) onElapsedTick() {
	if !s.session.Phase.IsLive() {
		return
	}

	s.session.ElapsedSeconds++
	s.renderer.SetText(s.ctx, surface.ElementMeetingTimer, FormatElapsed(s.session.ElapsedSeconds))
}

func (s *service) onConnectStage() {
	s.stage = nil
	if s.session.Phase != models.PhaseConnecting {
		return
	}

	if s.connector != nil {
		if err := s.connector.Connect(s.ctx, s.session.ID); err != nil {
			s.fail(err)
			return
		}
	}

	s.setPhase(models.PhaseConnected)
	s.notify(s.ctx, messaging.EventHostJoined)
	s.stage = s.timeline.After(s.speakDelay, s.onSpeakStage)
}

func (s *service) onSpeakStage() {
	s.stage = nil
	if s.session.Phase != models.PhaseConnected {
		return
	}

	s.setPhase(models.PhaseSpeaking)
	s.renderer.SetVisible(s.ctx, surface.ElementAudioPulse, true)
	s.stage = s.timeline.After(s.greetingDelay, s.onGreetingStage)
}

func (s *service) onGreetingStage() {
	s.stage = nil
	if !s.session.Phase.IsLive() {
		return
	}

	output, err := s.messaging.GetGreeting(s.ctx, &messaging.GetGreetingInput{
		CounselorName: s.session.CounselorName,
	})
	if err != nil {
		s.log.WithError(err).Error("failed to build greeting")
		return
	}

	s.receive(s.ctx, output.Message)
}

func (s *service) fail(err error) {
	s.log.WithError(err).Warn("connection to host failed")
	s.stopTimer(&s.elapsed)
	s.setPhase(models.PhaseFailed)
	s.notify(s.ctx, messaging.EventConnectionFailed)
}

// ToggleMic mutes or unmutes the local microphone
func (s *service) ToggleMic(ctx context.Context) (*ToggleOutput, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	if !s.guardStarted(ctx) {
		return &ToggleOutput{Accepted: false, Value: s.session.MicMuted}, nil
	}

	s.session.MicMuted = !s.session.MicMuted
	if s.session.MicMuted {
		s.renderer.SetText(ctx, surface.ElementMicIcon, "mic-off")
		s.notify(ctx, messaging.EventMicMuted)
	} else {
		s.renderer.SetText(ctx, surface.ElementMicIcon, "mic")
		s.notify(ctx, messaging.EventMicUnmuted)
	}

	return &ToggleOutput{Accepted: true, Value: s.session.MicMuted}, nil
}

// ToggleCamera turns the local camera off or on
func (s *service) ToggleCamera(ctx context.Context) (*ToggleOutput, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	if !s.guardStarted(ctx) {
		return &ToggleOutput{Accepted: false, Value: s.session.CameraOff}, nil
	}

	s.session.CameraOff = !s.session.CameraOff
	s.renderer.SetVisible(ctx, surface.ElementCameraOffIndicator, s.session.CameraOff)
	if s.session.CameraOff {
		s.renderer.SetText(ctx, surface.ElementCameraIcon, "video-off")
		s.notify(ctx, messaging.EventCameraOff)
	} else {
		s.renderer.SetText(ctx, surface.ElementCameraIcon, "video")
		s.notify(ctx, messaging.EventCameraOn)
	}

	return &ToggleOutput{Accepted: true, Value: s.session.CameraOff}, nil
}

// ToggleChatPanel opens or closes the chat side panel
func (s *service) ToggleChatPanel(ctx context.Context) (*ToggleOutput, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	if !s.guardStarted(ctx) {
		return &ToggleOutput{Accepted: false, Value: s.session.ChatOpen}, nil
	}

	s.session.ChatOpen = !s.session.ChatOpen
	s.session.Unread = false
	s.renderer.SetVisible(ctx, surface.ElementChatPanel, s.session.ChatOpen)
	s.renderer.SetVisible(ctx, surface.ElementChatDot, false)

	return &ToggleOutput{Accepted: true, Value: s.session.ChatOpen}, nil
}

// SendMessage appends a chat message from the local participant
func (s *service) SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	if !s.guardStarted(ctx) {
		return &SendMessageOutput{Accepted: false}, nil
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return &SendMessageOutput{Accepted: false}, nil
	}

	msg := s.appendMessage(ctx, text, models.SenderSelf)
	s.renderer.SetText(ctx, surface.ElementMessageInput, "")

	return &SendMessageOutput{
		Accepted: true,
		Message:  msg,
	}, nil
}

// ReceiveMessage appends a chat message from the host. Inbound messages are
// not gated on the session having started.
func (s *service) ReceiveMessage(ctx context.Context, input *ReceiveMessageInput) (*ReceiveMessageOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	return s.receive(ctx, input.Text), nil
}

func (s *service) receive(ctx context.Context, text string) *ReceiveMessageOutput {
	if s.session.Phase.IsEnded() || strings.TrimSpace(text) == "" {
		return &ReceiveMessageOutput{Accepted: false}
	}

	msg := s.appendMessage(ctx, text, models.SenderRemote)
	if !s.session.ChatOpen {
		s.session.Unread = true
		s.renderer.SetVisible(ctx, surface.ElementChatDot, true)
	}

	return &ReceiveMessageOutput{
		Accepted: true,
		Message:  msg,
		Unread:   s.session.Unread,
	}
}

func (s *service) appendMessage(ctx context.Context, text string, sender models.Sender) *models.ChatMessage {
	msg := &models.ChatMessage{
		ID:     s.uuidGenerator.NewUUID(),
		Text:   text,
		Sender: sender,
		SentAt: s.clock.Now(),
	}
	s.session.Messages = append(s.session.Messages, msg)

	out := *msg
	s.renderer.AppendMessage(ctx, &out)
	return &out
}

// EndSession asks for confirmation and ends the meeting
func (s *service) EndSession(ctx context.Context) (*EndSessionOutput, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	if s.session.Phase.IsEnded() {
		return nil, ErrSessionEnded
	}

	prompt, err := s.messaging.GetConfirmPrompt(ctx, &messaging.GetConfirmPromptInput{
		Prompt: messaging.PromptLeaveMeeting,
	})
	if err != nil {
		return nil, err
	}

	if !s.confirmer.Confirm(ctx, prompt.Text) {
		s.log.Debug("end of session declined")
		return &EndSessionOutput{Ended: false}, nil
	}

	s.stopTimer(&s.countdown)
	s.stopTimer(&s.elapsed)
	s.stopTimer(&s.stage)

	s.setPhase(models.PhaseEnded)
	s.notify(ctx, messaging.EventMeetingEnded)
	s.renderer.SetVisible(ctx, surface.ElementRoom, false)

	s.leave = s.timeline.After(s.leaveDelay, func() {
		s.leave = nil
		s.navigator.Navigate(s.ctx, models.DestinationUserDashboard)
	})

	return &EndSessionOutput{Ended: true}, nil
}

// Retry reruns the connection sequence after a failure
func (s *service) Retry(ctx context.Context) (*RetryOutput, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	if !s.session.Phase.IsFailed() {
		return nil, ErrNotFailed
	}

	s.log.Info("retrying connection")
	s.enterConnecting()

	return &RetryOutput{Phase: s.session.Phase}, nil
}

// LeaveWaitingRoom returns to the dashboard before the meeting starts
func (s *service) LeaveWaitingRoom(ctx context.Context) (*LeaveWaitingRoomOutput, error) {
	if err := s.checkUsable(); err != nil {
		return nil, err
	}

	if !s.session.Phase.IsWaiting() {
		s.notify(ctx, messaging.EventAlreadyStarted)
		return &LeaveWaitingRoomOutput{Left: false}, nil
	}

	s.stopTimer(&s.countdown)
	s.navigator.Navigate(ctx, models.DestinationUserDashboard)

	return &LeaveWaitingRoomOutput{Left: true}, nil
}

// GetSession returns a copy of the current session state
func (s *service) GetSession(ctx context.Context) (*GetSessionOutput, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	return &GetSessionOutput{
		Session: s.session.Clone(),
	}, nil
}

// Teardown cancels every pending activity
func (s *service) Teardown() {
	if s.closed {
		return
	}
	s.closed = true

	s.stopTimer(&s.countdown)
	s.stopTimer(&s.elapsed)
	s.stopTimer(&s.stage)
	s.stopTimer(&s.leave)

	if s.cancel != nil {
		s.cancel()
	}
}

func (s *service) checkUsable() error {
	if s.closed {
		return ErrSessionClosed
	}
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}

// guardStarted rejects user actions before the session starts and after it ends
func (s *service) guardStarted(ctx context.Context) bool {
	switch {
	case s.session.Phase.IsWaiting():
		s.notify(ctx, messaging.EventNotStarted)
		return false
	case s.session.Phase.IsEnded():
		s.notify(ctx, messaging.EventSessionEnded)
		return false
	}
	return true
}

func (s *service) setPhase(phase models.Phase) {
	from := s.session.Phase
	s.session.Phase = phase
	s.log.WithFields(logrus.Fields{
		"from": from,
		"to":   phase,
	}).Info("phase changed")
	s.setStatus(phase)
}

func (s *service) setStatus(phase models.Phase) {
	output, err := s.messaging.GetStatusLabel(s.ctx, &messaging.GetStatusLabelInput{Phase: phase})
	if err != nil {
		s.log.WithError(err).Error("failed to build status label")
		return
	}
	s.renderer.SetText(s.ctx, surface.ElementStatus, output.Label)
}

func (s *service) notify(ctx context.Context, event messaging.Event) {
	output, err := s.messaging.GetToast(ctx, &messaging.GetToastInput{Event: event})
	if err != nil {
		s.log.WithError(err).WithField("event", event).Error("failed to build toast")
		return
	}
	s.notifier.Notify(ctx, output.Toast)
}

func (s *service) stopTimer(t *timeline.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

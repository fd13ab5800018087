package meeting

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/aura/internal/common/timeline"
	uuidMocks "github.com/KirkDiggler/aura/internal/common/uuid/mocks"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface"
	surfaceMocks "github.com/KirkDiggler/aura/internal/surface/mocks"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// harness records everything a meeting service pushes to its surfaces
type harness struct {
	service  *service
	timeline *timeline.Manual

	texts       map[surface.Element]string
	history     map[surface.Element][]string
	visible     map[surface.Element]bool
	appended    []*models.ChatMessage
	toasts      []*models.Toast
	navigations []models.Destination
}

func (h *harness) count(element surface.Element, value string) int {
	n := 0
	for _, v := range h.history[element] {
		if v == value {
			n++
		}
	}
	return n
}

func (h *harness) lastToast() string {
	if len(h.toasts) == 0 {
		return ""
	}
	return h.toasts[len(h.toasts)-1].Text
}

func (h *harness) session() *models.MeetingSession {
	return h.service.session
}

type MeetingServiceTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockConfirmer *surfaceMocks.MockConfirmer
	ctx           context.Context
	testTime      time.Time
	logHook       *test.Hook
	h             *harness
}

func (s *MeetingServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockConfirmer = surfaceMocks.NewMockConfirmer(s.mockCtrl)
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.h = s.newHarness(nil)
}

func TestMeetingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MeetingServiceTestSuite))
}

func (s *MeetingServiceTestSuite) newHarness(connector Connector) *harness {
	h := &harness{
		timeline: timeline.NewManual(s.testTime),
		texts:    map[surface.Element]string{},
		history:  map[surface.Element][]string{},
		visible:  map[surface.Element]bool{},
	}

	renderer := surfaceMocks.NewMockRenderer(s.mockCtrl)
	renderer.EXPECT().SetText(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, element surface.Element, value string) {
			h.texts[element] = value
			h.history[element] = append(h.history[element], value)
		}).AnyTimes()
	renderer.EXPECT().SetVisible(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, element surface.Element, visible bool) {
			h.visible[element] = visible
		}).AnyTimes()
	renderer.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, msg *models.ChatMessage) {
			h.appended = append(h.appended, msg)
		}).AnyTimes()

	notifier := surfaceMocks.NewMockNotifier(s.mockCtrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, toast *models.Toast) {
			h.toasts = append(h.toasts, toast)
		}).AnyTimes()

	navigator := surfaceMocks.NewMockNavigator(s.mockCtrl)
	navigator.EXPECT().Navigate(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, destination models.Destination) {
			h.navigations = append(h.navigations, destination)
		}).AnyTimes()

	ids := 0
	mockUUID := uuidMocks.NewMockUUID(s.mockCtrl)
	mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		ids++
		return fmt.Sprintf("uuid-%d", ids)
	}).AnyTimes()

	messagingService, err := messaging.New(&messaging.Config{Seed: 7})
	s.Require().NoError(err)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.logHook = hook

	svc, err := New(&Config{
		Location:      time.UTC,
		Timeline:      h.timeline,
		UUIDGenerator: mockUUID,
		Messaging:     messagingService,
		Connector:     connector,
		Renderer:      renderer,
		Notifier:      notifier,
		Confirmer:     s.mockConfirmer,
		Navigator:     navigator,
		Logger:        logger,
	})
	s.Require().NoError(err)
	h.service = svc

	return h
}

func (s *MeetingServiceTestSuite) startNow() {
	_, err := s.h.service.Initialize(s.ctx, &InitializeInput{})
	s.Require().NoError(err)
}

func (s *MeetingServiceTestSuite) startIn(d time.Duration) {
	start := s.testTime.Add(d)
	_, err := s.h.service.Initialize(s.ctx, &InitializeInput{
		CounselorName:  "Asha Sharma",
		ScheduledStart: &start,
	})
	s.Require().NoError(err)
}

func (s *MeetingServiceTestSuite) TestInitializeWithoutScheduleConnectsImmediately() {
	output, err := s.h.service.Initialize(s.ctx, &InitializeInput{})
	s.Require().NoError(err)

	s.False(output.Waiting)
	s.Equal(models.PhaseConnecting, output.Session.Phase)
	s.Equal("uuid-1", output.Session.ID)
	s.Equal(DefaultCounselorName, output.Session.CounselorName)
	s.Equal("DR", s.h.texts[surface.ElementCounselorInitials])
	s.Equal("Connecting...", s.h.texts[surface.ElementStatus])
	s.Equal("00:00", s.h.texts[surface.ElementMeetingTimer])
	s.False(s.h.visible[surface.ElementWaitingOverlay])
	s.False(s.h.visible[surface.ElementAudioPulse])

	// elapsed timer and the connect stage
	s.Equal(2, s.h.timeline.Pending())
}

func (s *MeetingServiceTestSuite) TestInitializePastScheduleConnectsImmediately() {
	s.startIn(-5 * time.Minute)

	s.Equal(models.PhaseConnecting, s.h.session().Phase)
	s.Equal("AS", s.h.texts[surface.ElementCounselorInitials])
	s.False(s.h.visible[surface.ElementWaitingOverlay])
}

func (s *MeetingServiceTestSuite) TestCountdownThroughGreeting() {
	s.startIn(2 * time.Minute)

	s.Equal(models.PhaseWaiting, s.h.session().Phase)
	s.True(s.h.visible[surface.ElementWaitingOverlay])
	s.Equal("Waiting for host", s.h.texts[surface.ElementStatus])
	s.Equal("Apr 19, 2025, 12:02:00 PM", s.h.texts[surface.ElementSessionTime])
	s.Equal("00:02:00", s.h.texts[surface.ElementCountdown])

	s.h.timeline.Advance(time.Second)
	s.Equal("00:01:59", s.h.texts[surface.ElementCountdown])

	s.h.timeline.Advance(118 * time.Second)
	s.Equal("00:00:01", s.h.texts[surface.ElementCountdown])
	s.Equal(models.PhaseWaiting, s.h.session().Phase)

	s.h.timeline.Advance(time.Second)
	s.Equal(models.PhaseConnecting, s.h.session().Phase)
	s.Equal("00:00:00", s.h.texts[surface.ElementCountdown])
	s.False(s.h.visible[surface.ElementWaitingOverlay])
	s.Equal(1, s.h.count(surface.ElementStatus, "Connecting..."))

	s.h.timeline.Advance(1500 * time.Millisecond)
	s.Equal(models.PhaseConnected, s.h.session().Phase)
	s.Equal("Host joined the meeting", s.h.lastToast())
	s.Equal(models.ToastSuccess, s.h.toasts[len(s.h.toasts)-1].Level)
	s.Equal("00:01", s.h.texts[surface.ElementMeetingTimer])

	s.h.timeline.Advance(1500 * time.Millisecond)
	s.Equal(models.PhaseSpeaking, s.h.session().Phase)
	s.Equal("Speaking...", s.h.texts[surface.ElementStatus])
	s.True(s.h.visible[surface.ElementAudioPulse])
	s.Empty(s.h.appended)

	s.h.timeline.Advance(2 * time.Second)
	s.Require().Len(s.h.appended, 1)
	s.Equal(models.SenderRemote, s.h.appended[0].Sender)
	s.Contains(messaging.Greetings(messaging.ToneWarm), s.h.appended[0].Text)
	s.True(s.h.session().Unread)
	s.True(s.h.visible[surface.ElementChatDot])

	s.h.timeline.Advance(time.Minute)
	s.Len(s.h.appended, 1)
	s.Equal(1, s.h.count(surface.ElementStatus, "Connecting..."))
	s.Equal(1, s.h.count(surface.ElementStatus, "Connected"))
}

func (s *MeetingServiceTestSuite) TestWholeSecondOffsetsTransitionOnce() {
	for _, offset := range []time.Duration{time.Second, 5 * time.Second, time.Minute, time.Hour} {
		s.Run(offset.String(), func() {
			s.h = s.newHarness(nil)
			s.startIn(offset)

			s.h.timeline.Advance(offset - time.Second)
			s.Equal(models.PhaseWaiting, s.h.session().Phase)

			s.h.timeline.Advance(time.Second)
			s.Equal(models.PhaseConnecting, s.h.session().Phase)

			s.h.timeline.Advance(10 * time.Second)
			s.Equal(models.PhaseSpeaking, s.h.session().Phase)
			s.Equal(1, s.h.count(surface.ElementStatus, "Connecting..."))
			s.Equal(1, s.h.count(surface.ElementStatus, "Connected"))
			s.Equal(1, s.h.count(surface.ElementCountdown, "00:00:00"))
		})
	}
}

func (s *MeetingServiceTestSuite) TestElapsedTimerFormatsMinutes() {
	s.startNow()

	s.h.timeline.Advance(65 * time.Second)
	s.Equal(65, s.h.session().ElapsedSeconds)
	s.Equal("01:05", s.h.texts[surface.ElementMeetingTimer])
}

func (s *MeetingServiceTestSuite) TestGuardsRejectWhileWaiting() {
	s.startIn(2 * time.Minute)

	mic, err := s.h.service.ToggleMic(s.ctx)
	s.Require().NoError(err)
	s.False(mic.Accepted)

	camera, err := s.h.service.ToggleCamera(s.ctx)
	s.Require().NoError(err)
	s.False(camera.Accepted)

	chat, err := s.h.service.ToggleChatPanel(s.ctx)
	s.Require().NoError(err)
	s.False(chat.Accepted)

	sent, err := s.h.service.SendMessage(s.ctx, &SendMessageInput{Text: "hi"})
	s.Require().NoError(err)
	s.False(sent.Accepted)

	s.Require().Len(s.h.toasts, 4)
	for _, toast := range s.h.toasts {
		s.Equal("Host will join soon. Please wait.", toast.Text)
		s.Equal(models.ToastError, toast.Level)
	}

	session := s.h.session()
	s.False(session.MicMuted)
	s.False(session.CameraOff)
	s.False(session.ChatOpen)
	s.Empty(session.Messages)
	s.Empty(s.h.appended)
}

func (s *MeetingServiceTestSuite) TestToggleMicAndCamera() {
	s.startNow()

	mic, err := s.h.service.ToggleMic(s.ctx)
	s.Require().NoError(err)
	s.True(mic.Accepted)
	s.True(mic.Value)
	s.Equal("mic-off", s.h.texts[surface.ElementMicIcon])
	s.Equal("Microphone muted", s.h.lastToast())

	mic, err = s.h.service.ToggleMic(s.ctx)
	s.Require().NoError(err)
	s.False(mic.Value)
	s.Equal("mic", s.h.texts[surface.ElementMicIcon])
	s.Equal("Microphone unmuted", s.h.lastToast())

	camera, err := s.h.service.ToggleCamera(s.ctx)
	s.Require().NoError(err)
	s.True(camera.Accepted)
	s.True(camera.Value)
	s.True(s.h.visible[surface.ElementCameraOffIndicator])
	s.Equal("video-off", s.h.texts[surface.ElementCameraIcon])
	s.Equal("Camera off", s.h.lastToast())

	camera, err = s.h.service.ToggleCamera(s.ctx)
	s.Require().NoError(err)
	s.False(camera.Value)
	s.False(s.h.visible[surface.ElementCameraOffIndicator])
	s.Equal("Camera on", s.h.lastToast())
}

func (s *MeetingServiceTestSuite) TestChatUnreadClearedByToggle() {
	s.startNow()

	received, err := s.h.service.ReceiveMessage(s.ctx, &ReceiveMessageInput{Text: "hello"})
	s.Require().NoError(err)
	s.True(received.Accepted)
	s.True(received.Unread)
	s.True(s.h.visible[surface.ElementChatDot])

	chat, err := s.h.service.ToggleChatPanel(s.ctx)
	s.Require().NoError(err)
	s.True(chat.Value)
	s.True(s.h.visible[surface.ElementChatPanel])
	s.False(s.h.visible[surface.ElementChatDot])
	s.False(s.h.session().Unread)

	received, err = s.h.service.ReceiveMessage(s.ctx, &ReceiveMessageInput{Text: "how are you?"})
	s.Require().NoError(err)
	s.False(received.Unread)
	s.False(s.h.visible[surface.ElementChatDot])

	chat, err = s.h.service.ToggleChatPanel(s.ctx)
	s.Require().NoError(err)
	s.False(chat.Value)
	s.False(s.h.visible[surface.ElementChatPanel])
}

func (s *MeetingServiceTestSuite) TestSendMessage() {
	s.startNow()

	blank, err := s.h.service.SendMessage(s.ctx, &SendMessageInput{Text: "   "})
	s.Require().NoError(err)
	s.False(blank.Accepted)
	s.Empty(s.h.appended)
	s.Empty(s.h.toasts)

	sent, err := s.h.service.SendMessage(s.ctx, &SendMessageInput{Text: "  hi there  "})
	s.Require().NoError(err)
	s.True(sent.Accepted)
	s.Equal("hi there", sent.Message.Text)
	s.Equal(models.SenderSelf, sent.Message.Sender)
	s.Equal("uuid-2", sent.Message.ID)
	s.Equal(s.testTime, sent.Message.SentAt)
	s.Equal("", s.h.texts[surface.ElementMessageInput])
	s.Len(s.h.appended, 1)
	s.Len(s.h.session().Messages, 1)
}

func (s *MeetingServiceTestSuite) TestReceiveWhileWaiting() {
	s.startIn(10 * time.Minute)

	received, err := s.h.service.ReceiveMessage(s.ctx, &ReceiveMessageInput{Text: "See you soon"})
	s.Require().NoError(err)
	s.True(received.Accepted)
	s.True(received.Unread)
	s.Equal(models.PhaseWaiting, s.h.session().Phase)
}

func (s *MeetingServiceTestSuite) TestEndSessionDeclined() {
	s.startNow()
	s.h.timeline.Advance(3 * time.Second)

	s.mockConfirmer.EXPECT().Confirm(gomock.Any(), "Leave this meeting?").Return(false)

	output, err := s.h.service.EndSession(s.ctx)
	s.Require().NoError(err)
	s.False(output.Ended)

	s.h.timeline.Advance(2 * time.Second)
	s.Equal(5, s.h.session().ElapsedSeconds)
	s.Equal(models.PhaseSpeaking, s.h.session().Phase)
	s.Empty(s.h.navigations)
}

func (s *MeetingServiceTestSuite) TestEndSessionConfirmed() {
	s.startNow()
	s.h.timeline.Advance(10 * time.Second)

	s.mockConfirmer.EXPECT().Confirm(gomock.Any(), "Leave this meeting?").Return(true)

	output, err := s.h.service.EndSession(s.ctx)
	s.Require().NoError(err)
	s.True(output.Ended)
	s.Equal(models.PhaseEnded, s.h.session().Phase)
	s.Equal("Meeting ended", s.h.lastToast())
	s.Equal("Meeting ended", s.h.texts[surface.ElementStatus])
	s.False(s.h.visible[surface.ElementRoom])

	s.h.timeline.Advance(799 * time.Millisecond)
	s.Empty(s.h.navigations)

	s.h.timeline.Advance(time.Millisecond)
	s.Equal([]models.Destination{models.DestinationUserDashboard}, s.h.navigations)

	s.h.timeline.Advance(10 * time.Second)
	s.Len(s.h.navigations, 1)
	s.Equal(10, s.h.session().ElapsedSeconds)
	s.Equal("00:10", s.h.texts[surface.ElementMeetingTimer])
	s.Zero(s.h.timeline.Pending())

	mic, err := s.h.service.ToggleMic(s.ctx)
	s.Require().NoError(err)
	s.False(mic.Accepted)
	s.Equal("This meeting has ended.", s.h.lastToast())

	received, err := s.h.service.ReceiveMessage(s.ctx, &ReceiveMessageInput{Text: "bye"})
	s.Require().NoError(err)
	s.False(received.Accepted)

	_, err = s.h.service.EndSession(s.ctx)
	s.ErrorIs(err, ErrSessionEnded)
}

func (s *MeetingServiceTestSuite) TestEndSessionDuringConnectingCancelsSequence() {
	s.startNow()
	s.h.timeline.Advance(time.Second)

	s.mockConfirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true)

	_, err := s.h.service.EndSession(s.ctx)
	s.Require().NoError(err)

	s.h.timeline.Advance(10 * time.Second)
	s.Equal(models.PhaseEnded, s.h.session().Phase)
	s.Zero(s.h.count(surface.ElementStatus, "Connected"))
	s.False(s.h.visible[surface.ElementAudioPulse])
	s.Empty(s.h.appended)
	s.Zero(s.h.timeline.Pending())
}

func (s *MeetingServiceTestSuite) TestConnectorFailureThenRetry() {
	calls := 0
	s.h = s.newHarness(ConnectorFunc(func(ctx context.Context, sessionID string) error {
		calls++
		if calls == 1 {
			return errors.New("host unreachable")
		}
		return nil
	}))
	s.startNow()

	s.h.timeline.Advance(1500 * time.Millisecond)
	s.Equal(models.PhaseFailed, s.h.session().Phase)
	s.Equal("Connection lost", s.h.texts[surface.ElementStatus])
	s.Equal("Could not reach the host. Tap retry to try again.", s.h.lastToast())
	s.Equal(1, s.h.session().ElapsedSeconds)
	s.NotEmpty(s.logHook.AllEntries())

	s.h.timeline.Advance(5 * time.Second)
	s.Equal(1, s.h.session().ElapsedSeconds)

	mic, err := s.h.service.ToggleMic(s.ctx)
	s.Require().NoError(err)
	s.True(mic.Accepted)

	retry, err := s.h.service.Retry(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.PhaseConnecting, retry.Phase)

	s.h.timeline.Advance(1500 * time.Millisecond)
	s.Equal(models.PhaseConnected, s.h.session().Phase)
	s.Equal(2, s.h.session().ElapsedSeconds)
	s.Equal(2, calls)
}

func (s *MeetingServiceTestSuite) TestRetryRequiresFailure() {
	s.startNow()

	_, err := s.h.service.Retry(s.ctx)
	s.ErrorIs(err, ErrNotFailed)
}

func (s *MeetingServiceTestSuite) TestLeaveWaitingRoom() {
	s.startIn(time.Hour)

	output, err := s.h.service.LeaveWaitingRoom(s.ctx)
	s.Require().NoError(err)
	s.True(output.Left)
	s.Equal([]models.Destination{models.DestinationUserDashboard}, s.h.navigations)
	s.Zero(s.h.timeline.Pending())
}

func (s *MeetingServiceTestSuite) TestLeaveWaitingRoomAfterStart() {
	s.startNow()

	output, err := s.h.service.LeaveWaitingRoom(s.ctx)
	s.Require().NoError(err)
	s.False(output.Left)
	s.Equal("Meeting already started", s.h.lastToast())
	s.Empty(s.h.navigations)
}

func (s *MeetingServiceTestSuite) TestTeardownCancelsPendingActivities() {
	s.startIn(time.Minute)
	s.Equal(1, s.h.timeline.Pending())

	s.h.service.Teardown()
	s.h.service.Teardown()
	s.Zero(s.h.timeline.Pending())

	s.h.timeline.Advance(5 * time.Minute)
	s.Equal(models.PhaseWaiting, s.h.session().Phase)

	_, err := s.h.service.ToggleMic(s.ctx)
	s.ErrorIs(err, ErrSessionClosed)

	_, err = s.h.service.Initialize(s.ctx, &InitializeInput{})
	s.ErrorIs(err, ErrSessionClosed)
}

func (s *MeetingServiceTestSuite) TestTeardownDuringConnectionSequence() {
	s.startNow()
	s.h.timeline.Advance(2 * time.Second)

	s.h.service.Teardown()
	s.Zero(s.h.timeline.Pending())
}

func (s *MeetingServiceTestSuite) TestInitializeTwice() {
	s.startNow()

	_, err := s.h.service.Initialize(s.ctx, &InitializeInput{})
	s.ErrorIs(err, ErrAlreadyInitialized)
}

func (s *MeetingServiceTestSuite) TestOperationsBeforeInitialize() {
	_, err := s.h.service.ToggleMic(s.ctx)
	s.ErrorIs(err, ErrNotInitialized)

	_, err = s.h.service.EndSession(s.ctx)
	s.ErrorIs(err, ErrNotInitialized)

	_, err = s.h.service.GetSession(s.ctx)
	s.ErrorIs(err, ErrNotInitialized)

	_, err = s.h.service.Initialize(s.ctx, nil)
	s.ErrorIs(err, ErrNilInput)
}

func (s *MeetingServiceTestSuite) TestGetSessionReturnsCopy() {
	s.startNow()
	_, err := s.h.service.SendMessage(s.ctx, &SendMessageInput{Text: "hi"})
	s.Require().NoError(err)

	output, err := s.h.service.GetSession(s.ctx)
	s.Require().NoError(err)
	output.Session.Messages[0].Text = "changed"
	output.Session.Phase = models.PhaseEnded

	s.Equal("hi", s.h.session().Messages[0].Text)
	s.Equal(models.PhaseConnecting, s.h.session().Phase)
}

func (s *MeetingServiceTestSuite) TestNewValidatesConfig() {
	tl := timeline.NewManual(s.testTime)
	messagingService, err := messaging.New(&messaging.Config{Seed: 1})
	s.Require().NoError(err)

	valid := func() *Config {
		return &Config{
			Timeline:      tl,
			UUIDGenerator: uuidMocks.NewMockUUID(s.mockCtrl),
			Messaging:     messagingService,
			Renderer:      surfaceMocks.NewMockRenderer(s.mockCtrl),
			Notifier:      surfaceMocks.NewMockNotifier(s.mockCtrl),
			Confirmer:     s.mockConfirmer,
			Navigator:     surfaceMocks.NewMockNavigator(s.mockCtrl),
		}
	}

	tests := []struct {
		name   string
		mutate func(cfg *Config)
		want   error
	}{
		{name: "timeline", mutate: func(cfg *Config) { cfg.Timeline = nil }, want: ErrNilTimeline},
		{name: "uuid", mutate: func(cfg *Config) { cfg.UUIDGenerator = nil }, want: ErrNilUUIDGenerator},
		{name: "messaging", mutate: func(cfg *Config) { cfg.Messaging = nil }, want: ErrNilMessaging},
		{name: "renderer", mutate: func(cfg *Config) { cfg.Renderer = nil }, want: ErrNilRenderer},
		{name: "notifier", mutate: func(cfg *Config) { cfg.Notifier = nil }, want: ErrNilNotifier},
		{name: "confirmer", mutate: func(cfg *Config) { cfg.Confirmer = nil }, want: ErrNilConfirmer},
		{name: "navigator", mutate: func(cfg *Config) { cfg.Navigator = nil }, want: ErrNilNavigator},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := valid()
			tt.mutate(cfg)
			_, err := New(cfg)
			s.ErrorIs(err, tt.want)
		})
	}

	_, err = New(nil)
	s.ErrorIs(err, ErrNilConfig)

	svc, err := New(valid())
	s.Require().NoError(err)
	s.Equal(DefaultConnectDelay, svc.connectDelay)
	s.Equal(DefaultLeaveDelay, svc.leaveDelay)
	s.Equal(time.Local, svc.location)
}

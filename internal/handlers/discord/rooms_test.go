package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KirkDiggler/aura/internal/common/timeline"
	uuidMocks "github.com/KirkDiggler/aura/internal/common/uuid/mocks"
	"github.com/KirkDiggler/aura/internal/handlers/discord/mocks"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/repositories/room"
	"github.com/KirkDiggler/aura/internal/services/meeting"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface/pubsub"
	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	testChannelID = "channel-1"
	testHostID    = "host-1"
	testGuestID   = "guest-1"
)

// manualLoop runs submitted work inline on a manual timeline
type manualLoop struct {
	*timeline.Manual
}

func (m *manualLoop) Do(ctx context.Context, fn func()) error {
	fn()
	return nil
}

type RoomsTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockMessenger *mocks.MockMessenger
	mockUUID      *uuidMocks.MockUUID
	timeline      *manualLoop
	repo          room.Repository
	rooms         *Rooms
	ctx           context.Context
	testTime      time.Time

	// sends and edits arrive on the room outboxes
	mu     sync.Mutex
	posted []*discordgo.MessageSend
	sent   []string
	edits  []*discordgo.MessageEdit
}

func (s *RoomsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockMessenger = mocks.NewMockMessenger(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.timeline = &manualLoop{Manual: timeline.NewManual(s.testTime)}
	s.repo = room.NewMemory()
	s.posted = nil
	s.sent = nil
	s.edits = nil

	var ids atomic.Int32
	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		return fmt.Sprintf("uuid-%d", ids.Add(1))
	}).AnyTimes()

	s.mockMessenger.EXPECT().ChannelMessageSendComplex(gomock.Any(), gomock.Any()).
		DoAndReturn(func(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.posted = append(s.posted, data)
			return &discordgo.Message{ID: fmt.Sprintf("msg-%d", len(s.posted)), ChannelID: channelID}, nil
		}).AnyTimes()
	s.mockMessenger.EXPECT().ChannelMessageSend(gomock.Any(), gomock.Any()).
		DoAndReturn(func(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.sent = append(s.sent, content)
			return &discordgo.Message{ChannelID: channelID, Content: content}, nil
		}).AnyTimes()
	s.mockMessenger.EXPECT().ChannelMessageEditComplex(gomock.Any()).
		DoAndReturn(func(edit *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.edits = append(s.edits, edit)
			return &discordgo.Message{ID: edit.ID, ChannelID: edit.Channel}, nil
		}).AnyTimes()

	s.rooms = s.newRooms(nil)
}

func TestRoomsTestSuite(t *testing.T) {
	suite.Run(t, new(RoomsTestSuite))
}

func (s *RoomsTestSuite) newRooms(client *redis.Client) *Rooms {
	return s.newRoomsWith(s.timeline, s.mockMessenger, client)
}

func (s *RoomsTestSuite) newRoomsWith(tl Timeline, messenger Messenger, client *redis.Client) *Rooms {
	messagingService, err := messaging.New(&messaging.Config{Seed: 7})
	s.Require().NoError(err)

	logger, _ := test.NewNullLogger()
	rooms, err := NewRooms(&RoomsConfig{
		Timeline:      tl,
		Repository:    s.repo,
		Messaging:     messagingService,
		UUIDGenerator: s.mockUUID,
		Messenger:     messenger,
		RedisClient:   client,
		Meeting: meeting.Config{
			Location: time.UTC,
		},
		Logger: logger,
	})
	s.Require().NoError(err)
	return rooms
}

func (s *RoomsTestSuite) open(startsIn time.Duration) *OpenOutput {
	output, err := s.rooms.Open(s.ctx, &OpenInput{
		ChannelID: testChannelID,
		HostID:    testHostID,
		HostName:  "Asha",
		StartsIn:  startsIn,
	})
	s.Require().NoError(err)
	return output
}

// settle waits for the room outboxes to send what is queued
func (s *RoomsTestSuite) settle() {
	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	s.Require().NoError(s.rooms.backlog.wait(ctx))
}

func (s *RoomsTestSuite) sentLines() []string {
	s.settle()
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func (s *RoomsTestSuite) editsMade() []*discordgo.MessageEdit {
	s.settle()
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*discordgo.MessageEdit(nil), s.edits...)
}

func (s *RoomsTestSuite) lastEmbed() *discordgo.MessageEmbed {
	edits := s.editsMade()
	s.Require().NotEmpty(edits)
	edit := edits[len(edits)-1]
	s.Require().NotNil(edit.Embeds)
	s.Require().Len(*edit.Embeds, 1)
	return (*edit.Embeds)[0]
}

func (s *RoomsTestSuite) TestOpenPostsRoomMessage() {
	output := s.open(0)

	s.False(output.Waiting)
	s.Equal("uuid-1", output.Room.ID)
	s.Equal("msg-1", output.Room.MessageID)
	s.Equal(models.PhaseConnecting, output.Session.Phase)

	s.Require().Len(s.posted, 1)
	s.Require().Len(s.posted[0].Embeds, 1)
	s.Equal("[DR] Session with Dr. Rohan Verma", s.posted[0].Embeds[0].Title)
	s.Equal("Connecting...", s.posted[0].Embeds[0].Description)

	// nothing changed since the post, so no edit is due
	s.timeline.Advance(0)
	s.Empty(s.editsMade())

	stored, err := s.repo.GetRoomByChannel(s.ctx, &room.GetRoomByChannelInput{ChannelID: testChannelID})
	s.Require().NoError(err)
	s.Equal(testHostID, stored.HostID)
}

func (s *RoomsTestSuite) TestConnectionSequenceEditsRoomMessage() {
	s.open(0)

	s.timeline.Advance(meeting.DefaultConnectDelay)
	s.Equal("Connected", s.lastEmbed().Description)
	s.Contains(s.sentLines(), "✅ Host joined the meeting")

	s.timeline.Advance(meeting.DefaultSpeakDelay)
	s.Equal("Speaking...", s.lastEmbed().Description)

	s.timeline.Advance(meeting.DefaultGreetingDelay)
	sent := s.sentLines()
	s.Require().NotEmpty(sent)
	s.Contains(sent[len(sent)-1], "**Dr. Rohan Verma:** ")

	chat := s.lastEmbed().Fields[4]
	s.Equal("Chat", chat.Name)
	s.Equal("Closed (new message)", chat.Value)
}

func (s *RoomsTestSuite) TestEditsAreBatchedPerCallback() {
	s.open(0)

	s.timeline.Advance(meeting.DefaultConnectDelay)
	s.Len(s.editsMade(), 1)
}

func (s *RoomsTestSuite) TestOpenTwiceInChannel() {
	s.open(0)

	_, err := s.rooms.Open(s.ctx, &OpenInput{
		ChannelID: testChannelID,
		HostID:    testGuestID,
	})
	s.ErrorIs(err, ErrRoomOpen)
	s.Len(s.posted, 1)
}

// lookupGate holds the first two channel lookups until both have arrived
type lookupGate struct {
	room.Repository
	calls   atomic.Int32
	arrived sync.WaitGroup
}

func newLookupGate(repo room.Repository) *lookupGate {
	g := &lookupGate{Repository: repo}
	g.arrived.Add(2)
	return g
}

func (g *lookupGate) GetRoomByChannel(ctx context.Context, input *room.GetRoomByChannelInput) (*room.Room, error) {
	if g.calls.Add(1) <= 2 {
		g.arrived.Done()
		g.arrived.Wait()
	}
	return g.Repository.GetRoomByChannel(ctx, input)
}

func (s *RoomsTestSuite) TestConcurrentOpenPostsOneRoom() {
	loop := timeline.NewLoop(&timeline.LoopConfig{})
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	s.repo = newLookupGate(room.NewMemory())
	s.rooms = s.newRoomsWith(loop, s.mockMessenger, nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.rooms.Open(s.ctx, &OpenInput{
				ChannelID: testChannelID,
				HostID:    fmt.Sprintf("host-%d", i),
			})
		}()
	}
	wg.Wait()

	opened := 0
	for _, err := range errs {
		if err == nil {
			opened++
			continue
		}
		s.ErrorIs(err, ErrRoomOpen)
	}
	s.Equal(1, opened)

	s.mu.Lock()
	posted := len(s.posted)
	s.mu.Unlock()
	s.Equal(1, posted)

	s.Require().NoError(s.rooms.CloseAll(s.ctx))
}

func (s *RoomsTestSuite) TestSlowDiscordDoesNotStallTimeline() {
	release := make(chan struct{})
	var edits atomic.Int32
	var last atomic.Pointer[discordgo.MessageEdit]

	messenger := mocks.NewMockMessenger(s.mockCtrl)
	messenger.EXPECT().ChannelMessageSendComplex(gomock.Any(), gomock.Any()).
		Return(&discordgo.Message{ID: "msg-1", ChannelID: testChannelID}, nil)
	messenger.EXPECT().ChannelMessageSend(gomock.Any(), gomock.Any()).
		DoAndReturn(func(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			<-release
			return &discordgo.Message{ChannelID: channelID, Content: content}, nil
		}).AnyTimes()
	messenger.EXPECT().ChannelMessageEditComplex(gomock.Any()).
		DoAndReturn(func(edit *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			<-release
			edits.Add(1)
			last.Store(edit)
			return &discordgo.Message{ID: edit.ID, ChannelID: edit.Channel}, nil
		}).AnyTimes()

	s.rooms = s.newRoomsWith(s.timeline, messenger, nil)
	s.open(0)

	advanced := make(chan struct{})
	go func() {
		defer close(advanced)
		s.timeline.Advance(meeting.DefaultConnectDelay + meeting.DefaultSpeakDelay + meeting.DefaultGreetingDelay)
	}()

	select {
	case <-advanced:
	case <-time.After(time.Second):
		close(release)
		s.FailNow("timeline waited on Discord")
	}

	close(release)
	s.settle()

	// edits queued behind the blocked call collapse into one
	s.LessOrEqual(edits.Load(), int32(2))
	s.Require().NotNil(last.Load())
	chat := (*last.Load().Embeds)[0].Fields[4]
	s.Equal("Closed (new message)", chat.Value)
}

func (s *RoomsTestSuite) TestRedisDownDoesNotStallTimeline() {
	// accepts connections but never answers, so every PUBLISH hangs
	silent, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	defer silent.Close()

	client := redis.NewClient(&redis.Options{
		Addr:        silent.Addr().String(),
		ReadTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	s.rooms = s.newRooms(client)

	start := time.Now()
	s.open(0)
	s.timeline.Advance(meeting.DefaultConnectDelay + meeting.DefaultSpeakDelay + meeting.DefaultGreetingDelay)
	s.Less(time.Since(start), 250*time.Millisecond)

	s.Contains(s.sentLines(), "✅ Host joined the meeting")

	// a closed client fails the queued publishes at once
	s.Require().NoError(client.Close())
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	s.Require().NoError(s.rooms.CloseAll(ctx))
}

func (s *RoomsTestSuite) TestOpenPostFailureReleasesChannel() {
	messenger := mocks.NewMockMessenger(s.mockCtrl)
	messenger.EXPECT().ChannelMessageSendComplex(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("missing access"))
	s.rooms = s.newRoomsWith(s.timeline, messenger, nil)

	_, err := s.rooms.Open(s.ctx, &OpenInput{
		ChannelID: testChannelID,
		HostID:    testHostID,
	})
	s.ErrorContains(err, "failed to post room message")

	_, err = s.repo.GetRoomByChannel(s.ctx, &room.GetRoomByChannelInput{ChannelID: testChannelID})
	s.ErrorIs(err, room.ErrRoomNotFound)
	s.Zero(s.timeline.Pending())
}

func (s *RoomsTestSuite) TestOpenScheduledWaits() {
	output := s.open(10 * time.Minute)

	s.True(output.Waiting)
	s.Require().NotNil(output.Session.ScheduledStart)
	s.Equal(s.testTime.Add(10*time.Minute), *output.Session.ScheduledStart)

	embed := s.posted[0].Embeds[0]
	s.Equal("Waiting for host", embed.Description)
	s.Equal(colorWaiting, embed.Color)
	s.Equal(fmt.Sprintf("<t:%d:R>", s.testTime.Add(10*time.Minute).Unix()), embed.Fields[1].Value)
}

func (s *RoomsTestSuite) TestControlRequiresRoom() {
	_, err := s.rooms.Control(s.ctx, &ControlInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Action:    ActionMic,
	})
	s.ErrorIs(err, ErrNoRoom)
}

func (s *RoomsTestSuite) TestControlRequiresHost() {
	s.open(0)

	_, err := s.rooms.Control(s.ctx, &ControlInput{
		ChannelID: testChannelID,
		UserID:    testGuestID,
		Action:    ActionMic,
	})
	s.ErrorIs(err, ErrNotHost)
}

func (s *RoomsTestSuite) TestControlToastsGoToActingUser() {
	s.open(0)
	sentBefore := len(s.sentLines())

	output, err := s.rooms.Control(s.ctx, &ControlInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Action:    ActionMic,
	})
	s.Require().NoError(err)

	s.True(output.Accepted)
	s.Require().Len(output.Toasts, 1)
	s.Equal("Microphone muted", output.Toasts[0].Text)
	s.Len(s.sentLines(), sentBefore)

	s.timeline.Advance(0)
	s.Equal("Off", s.lastEmbed().Fields[2].Value)
}

func (s *RoomsTestSuite) TestControlWhileWaitingIsRejected() {
	s.open(10 * time.Minute)

	output, err := s.rooms.Control(s.ctx, &ControlInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Action:    ActionCamera,
	})
	s.Require().NoError(err)

	s.False(output.Accepted)
	s.Require().Len(output.Toasts, 1)
	s.Equal("Host will join soon. Please wait.", output.Toasts[0].Text)
}

func (s *RoomsTestSuite) TestEndWithoutConfirmation() {
	s.open(0)

	output, err := s.rooms.Control(s.ctx, &ControlInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Action:    ActionEnd,
	})
	s.Require().NoError(err)
	s.False(output.Accepted)

	session, err := s.rooms.Status(s.ctx, testChannelID)
	s.Require().NoError(err)
	s.Equal(models.PhaseConnecting, session.Phase)
}

func (s *RoomsTestSuite) TestEndConfirmedClosesRoom() {
	s.open(0)

	output, err := s.rooms.Control(s.ctx, &ControlInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Action:    ActionEnd,
		Confirmed: true,
	})
	s.Require().NoError(err)
	s.True(output.Accepted)
	s.Require().Len(output.Toasts, 1)
	s.Equal("Meeting ended", output.Toasts[0].Text)

	// still open until the leave delay passes
	_, err = s.rooms.Status(s.ctx, testChannelID)
	s.Require().NoError(err)

	s.timeline.Advance(meeting.DefaultLeaveDelay)

	_, err = s.rooms.Status(s.ctx, testChannelID)
	s.ErrorIs(err, ErrNoRoom)

	edits := s.editsMade()
	last := edits[len(edits)-1]
	s.Require().NotNil(last.Components)
	s.Empty(*last.Components)
	s.Equal(colorClosed, (*last.Embeds)[0].Color)
	s.Zero(s.timeline.Pending())

	// the channel is free for a new room
	s.open(0)
}

func (s *RoomsTestSuite) TestLeaveWaitingRoomClosesRoom() {
	s.open(10 * time.Minute)

	output, err := s.rooms.Control(s.ctx, &ControlInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Action:    ActionLeave,
	})
	s.Require().NoError(err)
	s.True(output.Accepted)

	_, err = s.rooms.Status(s.ctx, testChannelID)
	s.ErrorIs(err, ErrNoRoom)
	s.Zero(s.timeline.Pending())
}

func (s *RoomsTestSuite) TestRetryWithoutFailure() {
	s.open(0)

	_, err := s.rooms.Control(s.ctx, &ControlInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Action:    ActionRetry,
	})
	s.ErrorIs(err, meeting.ErrNotFailed)
}

func (s *RoomsTestSuite) TestSayFromHostAndGuest() {
	s.open(0)

	output, err := s.rooms.Say(s.ctx, &SayInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Text:      "hi there",
	})
	s.Require().NoError(err)
	s.True(output.Accepted)
	sent := s.sentLines()
	s.Equal("**Asha:** hi there", sent[len(sent)-1])

	output, err = s.rooms.Say(s.ctx, &SayInput{
		ChannelID: testChannelID,
		UserID:    testGuestID,
		Text:      "hello Asha",
	})
	s.Require().NoError(err)
	s.True(output.Accepted)
	sent = s.sentLines()
	s.Equal("**Dr. Rohan Verma:** hello Asha", sent[len(sent)-1])

	session, err := s.rooms.Status(s.ctx, testChannelID)
	s.Require().NoError(err)
	s.Require().Len(session.Messages, 2)
	s.Equal(models.SenderSelf, session.Messages[0].Sender)
	s.Equal(models.SenderRemote, session.Messages[1].Sender)
	s.True(session.Unread)
}

func (s *RoomsTestSuite) TestSayWhileWaiting() {
	s.open(10 * time.Minute)

	output, err := s.rooms.Say(s.ctx, &SayInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Text:      "anyone?",
	})
	s.Require().NoError(err)
	s.False(output.Accepted)
	s.Require().Len(output.Toasts, 1)
	s.Equal("Host will join soon. Please wait.", output.Toasts[0].Text)
}

func (s *RoomsTestSuite) TestSayRejectsBlankText() {
	s.open(0)

	_, err := s.rooms.Say(s.ctx, &SayInput{
		ChannelID: testChannelID,
		UserID:    testHostID,
		Text:      "   ",
	})
	s.Error(err)
}

func (s *RoomsTestSuite) TestCloseAll() {
	s.open(0)
	_, err := s.rooms.Open(s.ctx, &OpenInput{
		ChannelID: "channel-2",
		HostID:    testGuestID,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.rooms.CloseAll(s.ctx))

	output, err := s.repo.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(output.Rooms)
	s.Zero(s.timeline.Pending())
}

func (s *RoomsTestSuite) TestConfirmPrompt() {
	s.Equal("Leave this meeting?", s.rooms.ConfirmPrompt(s.ctx))
}

func (s *RoomsTestSuite) TestPublishesSurfaceEvents() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sub := client.Subscribe(s.ctx, pubsub.DefaultChannelPrefix+"uuid-1")
	defer sub.Close()
	_, err = sub.Receive(s.ctx)
	s.Require().NoError(err)

	s.rooms = s.newRooms(client)
	s.open(0)

	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()

	msg, err := sub.ReceiveMessage(ctx)
	s.Require().NoError(err)

	var event pubsub.Event
	s.Require().NoError(json.Unmarshal([]byte(msg.Payload), &event))
	s.Equal(pubsub.EventText, event.Type)
	s.Equal("counselor-name", string(event.Element))
	s.Equal("Dr. Rohan Verma", event.Value)
}

func (s *RoomsTestSuite) TestNewRoomsValidatesConfig() {
	_, err := NewRooms(nil)
	s.Error(err)

	_, err = NewRooms(&RoomsConfig{Timeline: s.timeline})
	s.Error(err)
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KirkDiggler/aura/internal/common/timeline"
	"github.com/KirkDiggler/aura/internal/common/uuid"
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/meeting"
	"github.com/KirkDiggler/aura/internal/services/messaging"
	"github.com/KirkDiggler/aura/internal/surface"
	"github.com/KirkDiggler/aura/internal/surface/pubsub"
	"github.com/KirkDiggler/aura/internal/surface/terminal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const meetingHelp = `commands:
  mic            mute or unmute your microphone
  camera         turn your camera off or on
  chat           open or close the chat panel
  say <text>     send a chat message
  hear <text>    receive a message from the counselor
  retry          reconnect after a failed connection
  end            end the meeting
  leave          leave the waiting room
  status         show the session
  wait <dur>     pause before reading the next command
  quit           close the room`

// publishDrainTimeout bounds how long exit waits for queued session updates
const publishDrainTimeout = 5 * time.Second

var errConnectFailed = errors.New("host unreachable")

type meetingOptions struct {
	counselor   string
	in          time.Duration
	at          string
	failConnect int
	sessionID   string
}

func newMeetingCmd(a *app) *cobra.Command {
	opts := &meetingOptions{}

	cmd := &cobra.Command{
		Use:   "meeting",
		Short: "Join a counseling session",
		Long:  "Join a counseling session. The room waits for its scheduled start, connects to the host, and then reads commands from stdin until the meeting ends or input runs out.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMeeting(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.counselor, "counselor", "", "counselor display name (default from config)")
	cmd.Flags().DurationVar(&opts.in, "in", 0, "start the session after this long")
	cmd.Flags().StringVar(&opts.at, "at", "", "scheduled start in RFC3339")
	cmd.Flags().IntVar(&opts.failConnect, "fail-connect", 0, "fail this many connection attempts")
	cmd.Flags().StringVar(&opts.sessionID, "session-id", "", "pub/sub channel suffix (default random)")

	return cmd
}

func (o *meetingOptions) scheduledStart(now time.Time) (*time.Time, error) {
	if o.in < 0 {
		return nil, errors.New("--in cannot be negative")
	}

	switch {
	case o.at != "" && o.in > 0:
		return nil, errors.New("--at and --in cannot be used together")
	case o.at != "":
		start, err := time.Parse(time.RFC3339, o.at)
		if err != nil {
			return nil, fmt.Errorf("invalid --at: %w", err)
		}
		return &start, nil
	case o.in > 0:
		start := now.Add(o.in)
		return &start, nil
	default:
		return nil, nil
	}
}

// connector fails the first n attempts
func (o *meetingOptions) connector() meeting.Connector {
	if o.failConnect <= 0 {
		return nil
	}

	remaining := o.failConnect
	return meeting.ConnectorFunc(func(ctx context.Context, sessionID string) error {
		if remaining > 0 {
			remaining--
			return errConnectFailed
		}
		return nil
	})
}

func runMeeting(cmd *cobra.Command, a *app, opts *meetingOptions) error {
	ctx := cmd.Context()

	start, err := opts.scheduledStart(time.Now())
	if err != nil {
		return err
	}

	template, err := a.cfg.Meeting.Template()
	if err != nil {
		return err
	}

	msgSvc, err := messaging.New(&messaging.Config{})
	if err != nil {
		return err
	}

	uuidGen := uuid.New()
	sessionID := opts.sessionID
	if sessionID == "" {
		sessionID = uuidGen.NewUUID()
	}
	log := a.log.WithField("session_channel", sessionID)

	in := bufio.NewReader(cmd.InOrStdin())
	term := terminal.New(&terminal.Config{
		Output: cmd.OutOrStdout(),
		Input:  in,
	})
	waiter := newNavigationWaiter()

	multi := &surface.Multi{
		Renderers:  []surface.Renderer{term},
		Notifiers:  []surface.Notifier{term},
		Navigators: []surface.Navigator{term, waiter},
	}

	redisClient, err := newRedisClient(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()

		publisher, err := pubsub.New(&pubsub.Config{
			RedisClient:   redisClient,
			SessionID:     sessionID,
			ChannelPrefix: a.cfg.Redis.ChannelPrefix,
			Logger:        log,
		})
		if err != nil {
			return err
		}
		defer func() {
			publisher.Close()
			waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishDrainTimeout)
			defer cancel()
			if err := publisher.Wait(waitCtx); err != nil {
				log.WithError(err).Warn("session updates not fully published")
			}
		}()
		log.WithField("channel", publisher.Channel()).Info("publishing session updates")

		multi.Renderers = append(multi.Renderers, publisher)
		multi.Notifiers = append(multi.Notifiers, publisher)
		multi.Navigators = append(multi.Navigators, publisher)
	}

	loop, stop := startLoop(ctx, log)
	defer stop()

	template.Timeline = loop
	template.UUIDGenerator = uuidGen
	template.Messaging = msgSvc
	template.Connector = opts.connector()
	template.Renderer = multi
	template.Notifier = multi
	template.Confirmer = term
	template.Navigator = multi
	template.Logger = log

	svc, err := meeting.New(&template)
	if err != nil {
		return err
	}

	var initErr error
	if err := loop.Do(ctx, func() {
		_, initErr = svc.Initialize(ctx, &meeting.InitializeInput{
			CounselorName:  opts.counselor,
			ScheduledStart: start,
		})
	}); err != nil {
		return err
	}
	if initErr != nil {
		return initErr
	}
	defer func() {
		_ = loop.Do(context.WithoutCancel(ctx), svc.Teardown)
	}()

	r := &meetingREPL{
		svc:    svc,
		loop:   loop,
		term:   term,
		in:     in,
		waiter: waiter,
		log:    log,
	}
	return r.run(ctx)
}

// meetingREPL feeds stdin lines to a running session
type meetingREPL struct {
	svc    meeting.Service
	loop   *timeline.Loop
	term   *terminal.Terminal
	in     *bufio.Reader
	waiter *navigationWaiter
	log    logrus.FieldLogger
}

func (r *meetingREPL) run(ctx context.Context) error {
	for !r.waiter.navigated() {
		line, readErr := r.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}

		quit, err := r.handle(ctx, strings.TrimSpace(line))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		if readErr != nil {
			break
		}
	}

	return r.finish(ctx)
}

// finish lets an ended meeting reach its navigation
func (r *meetingREPL) finish(ctx context.Context) error {
	session, err := r.session(ctx)
	if err != nil {
		return err
	}
	if !session.Phase.IsEnded() {
		return nil
	}

	_, err = r.waiter.wait(ctx)
	return err
}

func (r *meetingREPL) handle(ctx context.Context, line string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	var callErr error
	call := func(fn func() error) error {
		return r.loop.Do(ctx, func() { callErr = fn() })
	}

	if name != "" {
		r.log.WithField("command", name).Debug("meeting command")
	}

	var err error
	switch strings.ToLower(name) {
	case "":
		return false, nil
	case "mic":
		err = call(func() error {
			_, err := r.svc.ToggleMic(ctx)
			return err
		})
	case "camera":
		err = call(func() error {
			_, err := r.svc.ToggleCamera(ctx)
			return err
		})
	case "chat":
		err = call(func() error {
			_, err := r.svc.ToggleChatPanel(ctx)
			return err
		})
	case "say":
		err = call(func() error {
			_, err := r.svc.SendMessage(ctx, &meeting.SendMessageInput{Text: arg})
			return err
		})
	case "hear":
		err = call(func() error {
			_, err := r.svc.ReceiveMessage(ctx, &meeting.ReceiveMessageInput{Text: arg})
			return err
		})
	case "retry":
		err = call(func() error {
			_, err := r.svc.Retry(ctx)
			return err
		})
	case "end":
		var ended bool
		err = call(func() error {
			output, err := r.svc.EndSession(ctx)
			if err == nil {
				ended = output.Ended
			}
			return err
		})
		if err == nil && callErr == nil && ended {
			_, err = r.waiter.wait(ctx)
		}
	case "leave":
		err = call(func() error {
			_, err := r.svc.LeaveWaitingRoom(ctx)
			return err
		})
	case "status":
		session, serr := r.session(ctx)
		if serr != nil {
			return false, serr
		}
		r.term.Println(statusLine(session))
	case "wait":
		d, perr := time.ParseDuration(arg)
		if perr != nil {
			r.term.Println(fmt.Sprintf("wait needs a duration: %v", perr))
			return false, nil
		}
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	case "help":
		r.term.Println(meetingHelp)
	case "quit", "exit":
		return true, nil
	default:
		r.term.Println(fmt.Sprintf("unknown command %q, try help", name))
	}

	if err != nil {
		return false, err
	}

	if callErr != nil {
		switch {
		case errors.Is(callErr, meeting.ErrNotFailed), errors.Is(callErr, meeting.ErrSessionEnded):
			r.term.Println(callErr.Error())
		default:
			return false, callErr
		}
	}

	return false, nil
}

func (r *meetingREPL) session(ctx context.Context) (*models.MeetingSession, error) {
	var output *meeting.GetSessionOutput
	var getErr error
	if err := r.loop.Do(ctx, func() {
		output, getErr = r.svc.GetSession(ctx)
	}); err != nil {
		return nil, err
	}
	if getErr != nil {
		return nil, getErr
	}
	return output.Session, nil
}

func statusLine(session *models.MeetingSession) string {
	parts := []string{
		"Counselor: " + session.CounselorName,
		"Phase: " + string(session.Phase),
		"Elapsed: " + meeting.FormatElapsed(session.ElapsedSeconds),
		"Mic: " + onOff(!session.MicMuted),
		"Camera: " + onOff(!session.CameraOff),
		"Chat: " + openClosed(session.ChatOpen),
		fmt.Sprintf("Messages: %d", len(session.Messages)),
	}
	return strings.Join(parts, " | ")
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func openClosed(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/aura/internal/models"
	"github.com/KirkDiggler/aura/internal/services/meeting"
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const maxStartMinutes = 24 * 60

// MeetingCommand handles the /meeting command
type MeetingCommand struct {
	BaseCommand
	rooms *Rooms
	log   logrus.FieldLogger
}

// NewMeetingCommand creates a new meeting command handler
func NewMeetingCommand(rooms *Rooms, log logrus.FieldLogger) *MeetingCommand {
	minMinutes := float64(1)
	return &MeetingCommand{
		BaseCommand: BaseCommand{
			Name:        "meeting",
			Description: "Counseling session commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Open a session in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "counselor",
							Description: "Name of the counselor",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "minutes",
							Description: "Start the session this many minutes from now",
							MinValue:    &minMinutes,
							MaxValue:    maxStartMinutes,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "mic",
					Description: "Mute or unmute your microphone",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "camera",
					Description: "Turn your camera off or on",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "chat",
					Description: "Open or close the chat panel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "say",
					Description: "Send a chat message",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "text",
							Description: "What to say",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "End the session",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the session status",
				},
			},
		},
		rooms: rooms,
		log:   log,
	}
}

// Handle processes a Discord interaction for the meeting command
func (c *MeetingCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	ctx := context.Background()
	userID, username := interactionUser(i)
	sub := data.Options[0]

	switch sub.Name {
	case "join":
		return c.handleJoin(ctx, s, i, userID, username, sub.Options)
	case "mic":
		return c.handleControl(ctx, s, i, userID, ActionMic)
	case "camera":
		return c.handleControl(ctx, s, i, userID, ActionCamera)
	case "chat":
		return c.handleControl(ctx, s, i, userID, ActionChat)
	case "say":
		return c.handleSay(ctx, s, i, userID, sub.Options)
	case "end":
		return c.handleEnd(ctx, s, i, userID)
	case "status":
		return c.handleStatus(ctx, s, i)
	default:
		return errors.New("unknown subcommand")
	}
}

func (c *MeetingCommand) handleJoin(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	input := &OpenInput{
		ChannelID: i.ChannelID,
		HostID:    userID,
		HostName:  username,
	}
	for _, opt := range options {
		switch opt.Name {
		case "counselor":
			input.CounselorName = opt.StringValue()
		case "minutes":
			input.StartsIn = time.Duration(opt.IntValue()) * time.Minute
		}
	}

	output, err := c.rooms.Open(ctx, input)
	if err != nil {
		if errors.Is(err, ErrRoomOpen) {
			return RespondWithError(s, i, "There's already a session in this channel. Use `/meeting end` to close it first.")
		}
		c.log.WithError(err).Error("failed to open meeting room")
		return RespondWithError(s, i, fmt.Sprintf("Failed to open session: %v", err))
	}

	if output.Waiting {
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Your session with %s is scheduled. The room opens when the countdown ends.", output.Session.CounselorName))
	}
	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Connecting you with %s...", output.Session.CounselorName))
}

func (c *MeetingCommand) handleControl(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string, action Action) error {
	output, err := c.rooms.Control(ctx, &ControlInput{
		ChannelID: i.ChannelID,
		UserID:    userID,
		Action:    action,
	})
	if err != nil {
		return respondWithRoomError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, toastsMessage(output.Toasts, "Done."))
}

func (c *MeetingCommand) handleSay(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) error {
	text := ""
	for _, opt := range options {
		if opt.Name == "text" {
			text = opt.StringValue()
		}
	}

	output, err := c.rooms.Say(ctx, &SayInput{
		ChannelID: i.ChannelID,
		UserID:    userID,
		Text:      text,
	})
	if err != nil {
		return respondWithRoomError(s, i, err)
	}

	if !output.Accepted {
		return RespondWithEphemeralMessage(s, i, toastsMessage(output.Toasts, "Message not sent."))
	}
	return RespondWithEphemeralMessage(s, i, toastsMessage(output.Toasts, "Sent."))
}

func (c *MeetingCommand) handleEnd(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	session, err := c.rooms.Status(ctx, i.ChannelID)
	if err != nil {
		return respondWithRoomError(s, i, err)
	}

	if session.Phase.IsEnded() {
		return RespondWithEphemeralMessage(s, i, "This session has already ended.")
	}

	return RespondWithEphemeralButtons(s, i, c.rooms.ConfirmPrompt(ctx), confirmButtons())
}

func (c *MeetingCommand) handleStatus(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	session, err := c.rooms.Status(ctx, i.ChannelID)
	if err != nil {
		return respondWithRoomError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, statusMessage(session))
}

func respondWithRoomError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	switch {
	case errors.Is(err, ErrNoRoom):
		return RespondWithError(s, i, "There's no session in this channel. Use `/meeting join` to open one.")
	case errors.Is(err, ErrNotHost):
		return RespondWithError(s, i, "Only the person who opened this session can use its controls.")
	case errors.Is(err, meeting.ErrNotFailed):
		return RespondWithError(s, i, "The connection hasn't failed, there's nothing to retry.")
	case errors.Is(err, meeting.ErrSessionEnded), errors.Is(err, meeting.ErrSessionClosed):
		return RespondWithError(s, i, "This session has already ended.")
	default:
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}
}

// toastsMessage joins toasts into one reply
func toastsMessage(toasts []*models.Toast, fallback string) string {
	if len(toasts) == 0 {
		return fallback
	}

	lines := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		lines = append(lines, toastLine(toast))
	}
	return strings.Join(lines, "\n")
}

func statusMessage(session *models.MeetingSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Session with %s**\n", session.CounselorName)
	fmt.Fprintf(&b, "Phase: %s\n", session.Phase)
	if session.ScheduledStart != nil && session.Phase.IsWaiting() {
		fmt.Fprintf(&b, "Starts: <t:%d:R>\n", session.ScheduledStart.Unix())
	} else {
		fmt.Fprintf(&b, "Elapsed: %s\n", meeting.FormatElapsed(session.ElapsedSeconds))
	}
	fmt.Fprintf(&b, "Microphone: %s, Camera: %s\n", onOff(!session.MicMuted), onOff(!session.CameraOff))
	fmt.Fprintf(&b, "Messages: %d", len(session.Messages))
	if session.Unread {
		b.WriteString(" (new message)")
	}
	return b.String()
}

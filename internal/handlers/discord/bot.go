package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	rooms      *Rooms
	config     *Config
	log        logrus.FieldLogger
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Session is optional; one is created from Token when nil
	Session *discordgo.Session

	// Rooms runs the meeting sessions
	Rooms *Rooms

	Logger logrus.FieldLogger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" && cfg.Session == nil {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.Rooms == nil {
		return nil, errors.New("rooms cannot be nil")
	}

	session := cfg.Session
	if session == nil {
		var err error
		session, err = NewSession(cfg.Token)
		if err != nil {
			return nil, err
		}
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		rooms:      cfg.Rooms,
		config:     cfg,
		log:        log,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// NewSession creates a Discord session for a bot token
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return session, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	meetingCmd := NewMeetingCommand(b.rooms, b.log)
	if err := b.RegisterCommand(meetingCmd); err != nil {
		return fmt.Errorf("failed to register meeting command: %w", err)
	}

	b.log.Info("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop closes every room, removes the commands and shuts down the Discord connection
func (b *Bot) Stop(ctx context.Context) error {
	if err := b.rooms.CloseAll(ctx); err != nil {
		b.log.WithError(err).Warn("failed to close meeting rooms")
	}

	appID := b.appID()
	for cmdName, cmdID := range b.commandIDs {
		log := b.log.WithFields(logrus.Fields{
			"command":    cmdName,
			"command_id": cmdID,
		})
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.WithError(err).Warn("failed to delete command")
		} else {
			log.Info("deleted command")
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	// If guild ID is provided, register command for that specific guild
	// Otherwise, register it globally
	log := b.log.WithField("command", cmd.GetName())
	if b.config.GuildID != "" {
		log = log.WithField("guild_id", b.config.GuildID)
	}

	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	// Store the command handler and its ID
	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.WithField("command_id", createdCmd.ID).Info("registered command")

	return nil
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		if h, ok := b.commands[name]; ok {
			if err := h.Handle(s, i); err != nil {
				b.log.WithError(err).WithField("command", name).Error("failed to handle command")
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			b.log.WithError(err).Error("failed to handle component interaction")
		}
	}
}

// handleComponentInteraction handles button clicks
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	customID := i.MessageComponentData().CustomID
	userID, _ := interactionUser(i)

	switch customID {
	case ButtonMic:
		return b.handleControlButton(ctx, s, i, userID, ActionMic)
	case ButtonCamera:
		return b.handleControlButton(ctx, s, i, userID, ActionCamera)
	case ButtonChat:
		return b.handleControlButton(ctx, s, i, userID, ActionChat)
	case ButtonRetry:
		return b.handleControlButton(ctx, s, i, userID, ActionRetry)
	case ButtonLeave:
		return b.handleControlButton(ctx, s, i, userID, ActionLeave)
	case ButtonEnd:
		return RespondWithEphemeralButtons(s, i, b.rooms.ConfirmPrompt(ctx), confirmButtons())
	case ButtonEndConfirm:
		return b.handleEndConfirm(ctx, s, i, userID)
	case ButtonEndCancel:
		return UpdateWithMessage(s, i, "Staying in the session.")
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}
}

func (b *Bot) handleControlButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string, action Action) error {
	output, err := b.rooms.Control(ctx, &ControlInput{
		ChannelID: i.ChannelID,
		UserID:    userID,
		Action:    action,
	})
	if err != nil {
		return respondWithRoomError(s, i, err)
	}

	return RespondWithEphemeralMessage(s, i, toastsMessage(output.Toasts, "Done."))
}

func (b *Bot) handleEndConfirm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	output, err := b.rooms.Control(ctx, &ControlInput{
		ChannelID: i.ChannelID,
		UserID:    userID,
		Action:    ActionEnd,
		Confirmed: true,
	})
	if err != nil {
		if errors.Is(err, ErrNoRoom) || errors.Is(err, ErrNotHost) {
			return respondWithRoomError(s, i, err)
		}
		b.log.WithError(err).Warn("failed to end session")
		return UpdateWithMessage(s, i, "This session has already ended.")
	}

	return UpdateWithMessage(s, i, toastsMessage(output.Toasts, "Session ended."))
}

package discord

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/aura/internal/models"
	"github.com/bwmarrin/discordgo"
)

const (
	colorLive    = 0x00ff00
	colorWaiting = 0xf1c40f
	colorClosed  = 0x95a5a6
	colorError   = 0xff0000
)

// Button IDs
const (
	ButtonMic        = "meeting_mic"
	ButtonCamera     = "meeting_camera"
	ButtonChat       = "meeting_chat"
	ButtonEnd        = "meeting_end"
	ButtonEndConfirm = "meeting_end_confirm"
	ButtonEndCancel  = "meeting_end_cancel"
	ButtonRetry      = "meeting_retry"
	ButtonLeave      = "meeting_leave"
)

// roomView is what the room message shows
type roomView struct {
	counselor      string
	initials       string
	status         string
	sessionTime    string
	timer          string
	scheduledStart *time.Time

	waiting   bool
	speaking  bool
	micOff    bool
	cameraOff bool
	chatOpen  bool
	unread    bool

	// closed is set once the room has navigated away
	closed      bool
	destination models.Destination
}

func renderRoomEmbed(v *roomView) *discordgo.MessageEmbed {
	if v.closed {
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("Session with %s", v.counselor),
			Description: fmt.Sprintf("This room is closed. Returning to %s.", v.destination),
			Color:       colorClosed,
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("[%s] Session with %s", v.initials, v.counselor),
		Description: v.status,
		Color:       colorLive,
	}

	if v.waiting {
		embed.Color = colorWaiting
		if v.sessionTime != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "Scheduled",
				Value:  v.sessionTime,
				Inline: true,
			})
		}
		if v.scheduledStart != nil {
			// Discord renders relative timestamps live on the client
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   "Starts",
				Value:  fmt.Sprintf("<t:%d:R>", v.scheduledStart.Unix()),
				Inline: true,
			})
		}
		return embed
	}

	audio := "Quiet"
	if v.speaking {
		audio = "🔊 Speaking"
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Elapsed", Value: orDash(v.timer), Inline: true},
		{Name: "Host", Value: audio, Inline: true},
		{Name: "Microphone", Value: onOff(!v.micOff), Inline: true},
		{Name: "Camera", Value: onOff(!v.cameraOff), Inline: true},
		{Name: "Chat", Value: chatLabel(v), Inline: true},
	}

	return embed
}

func renderRoomComponents(v *roomView) []discordgo.MessageComponent {
	if v.closed {
		return []discordgo.MessageComponent{}
	}

	if v.waiting {
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Back to dashboard",
						Style:    discordgo.SecondaryButton,
						CustomID: ButtonLeave,
					},
				},
			},
		}
	}

	micLabel := "Mute"
	if v.micOff {
		micLabel = "Unmute"
	}
	cameraLabel := "Camera off"
	if v.cameraOff {
		cameraLabel = "Camera on"
	}
	chatButton := "Open chat"
	if v.chatOpen {
		chatButton = "Close chat"
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    micLabel,
					Style:    discordgo.SecondaryButton,
					CustomID: ButtonMic,
					Emoji:    &discordgo.ComponentEmoji{Name: "🎙️"},
				},
				discordgo.Button{
					Label:    cameraLabel,
					Style:    discordgo.SecondaryButton,
					CustomID: ButtonCamera,
					Emoji:    &discordgo.ComponentEmoji{Name: "📷"},
				},
				discordgo.Button{
					Label:    chatButton,
					Style:    discordgo.SecondaryButton,
					CustomID: ButtonChat,
					Emoji:    &discordgo.ComponentEmoji{Name: "💬"},
				},
				discordgo.Button{
					Label:    "Retry",
					Style:    discordgo.PrimaryButton,
					CustomID: ButtonRetry,
				},
				discordgo.Button{
					Label:    "End",
					Style:    discordgo.DangerButton,
					CustomID: ButtonEnd,
				},
			},
		},
	}
}

func confirmButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Leave",
			Style:    discordgo.DangerButton,
			CustomID: ButtonEndConfirm,
		},
		discordgo.Button{
			Label:    "Stay",
			Style:    discordgo.SecondaryButton,
			CustomID: ButtonEndCancel,
		},
	}
}

func toastLine(toast *models.Toast) string {
	switch toast.Level {
	case models.ToastSuccess:
		return "✅ " + toast.Text
	case models.ToastError:
		return "⚠️ " + toast.Text
	default:
		return "ℹ️ " + toast.Text
	}
}

func onOff(on bool) string {
	if on {
		return "On"
	}
	return "Off"
}

func chatLabel(v *roomView) string {
	label := "Closed"
	if v.chatOpen {
		label = "Open"
	}
	if v.unread {
		label += " (new message)"
	}
	return label
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

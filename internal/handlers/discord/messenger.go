package discord

import "github.com/bwmarrin/discordgo"

//go:generate mockgen -package=mocks -destination=mocks/mock_messenger.go github.com/KirkDiggler/aura/internal/handlers/discord Messenger

// Messenger is the part of a Discord session a room posts through.
// *discordgo.Session satisfies it.
type Messenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

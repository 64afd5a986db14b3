package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/stability-party/spbot/internal/roll"
)

// channelMessenger adapts a discordgo session to the presenter's
// messenger. Edits go through the channel message API rather than the
// interaction webhook, so a roll can outlive its interaction token.
type channelMessenger struct {
	session *discordgo.Session
}

// NewChannelMessenger wraps a discordgo session as a roll messenger.
func NewChannelMessenger(session *discordgo.Session) roll.Messenger {
	return &channelMessenger{session: session}
}

func (m *channelMessenger) Send(channelID string, msg roll.Message) (string, error) {
	send := &discordgo.MessageSend{
		Content:    msg.Content,
		Components: msg.Components,
	}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{msg.Embed}
	}
	created, err := m.session.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (m *channelMessenger) Edit(channelID, messageID string, msg roll.Message) error {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	edit.SetContent(msg.Content)
	if msg.Embed != nil {
		edit.SetEmbeds([]*discordgo.MessageEmbed{msg.Embed})
	} else {
		edit.SetEmbeds([]*discordgo.MessageEmbed{})
	}
	components := msg.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	edit.Components = &components
	_, err := m.session.ChannelMessageEditComplex(edit)
	return err
}

package nakama

import (
	"context"
	"fmt"
	"strings"

	"menteur/internal/config"
	"menteur/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/rtapi"
)

// chatModule is the part of runtime.NakamaModule the chat adapter needs.
type chatModule interface {
	ChannelMessageSend(ctx context.Context, channelID string, content map[string]interface{}, senderId, senderUsername string, persist bool) (*rtapi.ChannelMessageAck, error)
	NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error
	UsersGetUsername(ctx context.Context, usernames []string) ([]*api.User, error)
}

// NakamaChatAdapter implements ports.ChatPort with Nakama channel messages
// for the table and notifications for private replies.
type NakamaChatAdapter struct {
	nk         chatModule
	contentKey string
	sender     string
	persist    bool
}

// NewNakamaChatAdapter creates a chat adapter posting as cfg.BotUsername.
func NewNakamaChatAdapter(nk chatModule, cfg config.GameConfig) *NakamaChatAdapter {
	return &NakamaChatAdapter{
		nk:         nk,
		contentKey: cfg.ContentKey,
		sender:     cfg.BotUsername,
		persist:    cfg.PersistMessages,
	}
}

// SendToChannel posts each line as its own channel message.
func (a *NakamaChatAdapter) SendToChannel(ctx context.Context, channelID string, lines []string) error {
	for _, line := range lines {
		content := map[string]interface{}{a.contentKey: line}
		if _, err := a.nk.ChannelMessageSend(ctx, channelID, content, "", a.sender, a.persist); err != nil {
			return fmt.Errorf("failed to send channel message: %w", err)
		}
	}
	return nil
}

// SendToPlayer resolves the username and sends the lines as one notification.
func (a *NakamaChatAdapter) SendToPlayer(ctx context.Context, channelID, identity string, lines []string) error {
	users, err := a.nk.UsersGetUsername(ctx, []string{identity})
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", identity, err)
	}
	if len(users) == 0 {
		return fmt.Errorf("user %s not found", identity)
	}

	content := map[string]interface{}{
		a.contentKey: strings.Join(lines, "\n"),
		"channel_id": channelID,
	}
	if err := a.nk.NotificationSend(ctx, users[0].Id, notificationSubject, content, NotificationCodeWhisper, "", false); err != nil {
		return fmt.Errorf("failed to notify user %s: %w", identity, err)
	}
	return nil
}

var _ ports.ChatPort = (*NakamaChatAdapter)(nil)

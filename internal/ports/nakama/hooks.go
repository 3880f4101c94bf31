package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"menteur/internal/app"
	"menteur/internal/ports"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"
)

// afterChannelMessageSend is triggered after a player posts in a chat
// channel. Commands in the message are run against that channel's table and
// the replies are posted back.
func (m *gameModule) afterChannelMessageSend(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out, in *rtapi.Envelope) error {
	send := in.GetChannelMessageSend()
	if send == nil {
		return nil
	}
	username, _ := ctx.Value(runtime.RUNTIME_CTX_USERNAME).(string)
	if username == "" {
		return nil
	}

	logger = logger.WithField("channel", send.ChannelId)
	text, err := messageText(send.Content, m.cfg.ContentKey)
	if err != nil {
		logger.Debug("AfterChannelMessageSend: Ignoring message from %s: %v", username, err)
		return nil
	}

	msg := app.Message{ChannelID: send.ChannelId, Sender: username, Text: text}
	_, err = m.dispatch(ctx, logger, NewNakamaChatAdapter(nk, m.cfg), msg)
	return err
}

// messageText extracts the text field from a channel message's JSON content.
func messageText(content, key string) (string, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return "", fmt.Errorf("failed to unmarshal content: %w", err)
	}
	text, ok := fields[key].(string)
	if !ok {
		return "", fmt.Errorf("content has no %q text", key)
	}
	return text, nil
}

// dispatch runs msg through the service and, when chat is set, delivers the
// resulting events.
func (m *gameModule) dispatch(ctx context.Context, logger runtime.Logger, chat ports.ChatPort, msg app.Message) ([]app.Event, error) {
	events, err := m.svc.Handle(ctx, msg)
	if err != nil {
		logger.Error("dispatch: Command %q from %s failed: %v", msg.Text, msg.Sender, err)
		return nil, err
	}
	for _, ev := range events {
		if ev.Kind == app.EventRejected {
			logger.Debug("dispatch: Rejected %q from %s: %v", msg.Text, msg.Sender, ev.Lines)
		}
		if ev.Kind == app.EventGameEnded {
			logger.Info("dispatch: Game ended: %v", ev.Lines)
		}
	}

	if chat == nil {
		return events, nil
	}
	if err := ports.Deliver(ctx, chat, msg.ChannelID, events); err != nil {
		logger.Error("dispatch: Failed to deliver events: %v", err)
		return events, err
	}
	return events, nil
}

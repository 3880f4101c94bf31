package ports

import (
	"context"
	"fmt"

	"menteur/internal/app"
)

// ChatPort delivers game text to a chat surface.
type ChatPort interface {
	// SendToChannel posts lines, in order, to everyone in channelID.
	SendToChannel(ctx context.Context, channelID string, lines []string) error

	// SendToPlayer delivers lines privately to one player. channelID names the
	// channel the message relates to.
	SendToPlayer(ctx context.Context, channelID, identity string, lines []string) error
}

// Deliver sends every event in order through chat. It stops at the first
// failed delivery.
func Deliver(ctx context.Context, chat ChatPort, channelID string, events []app.Event) error {
	for _, ev := range events {
		if len(ev.Lines) == 0 {
			continue
		}
		if ev.Broadcast() {
			if err := chat.SendToChannel(ctx, channelID, ev.Lines); err != nil {
				return fmt.Errorf("deliver %s to channel %s: %w", ev.Kind, channelID, err)
			}
			continue
		}
		for _, to := range ev.Recipients {
			if err := chat.SendToPlayer(ctx, channelID, to, ev.Lines); err != nil {
				return fmt.Errorf("deliver %s to %s: %w", ev.Kind, to, err)
			}
		}
	}
	return nil
}

package app

import "strings"

// EventKind identifies emitted events for transport dispatch.
type EventKind string

const (
	EventSessionCreated EventKind = "session_created"
	EventPlayerJoined   EventKind = "player_joined"
	EventGameStarted    EventKind = "game_started"
	EventTripletRemoved EventKind = "triplet_removed"
	EventHandDealt      EventKind = "hand_dealt"
	EventHandShown      EventKind = "hand_shown"
	EventTurnStarted    EventKind = "turn_started"
	EventRankDeclared   EventKind = "rank_declared"
	EventCardsPlayed    EventKind = "cards_played"
	EventChallenged     EventKind = "challenged"
	EventGameEnded      EventKind = "game_ended"
	EventStatus         EventKind = "status"
	EventHelp           EventKind = "help"
	EventRejected       EventKind = "rejected"
)

// Event is text to deliver to the chat surface.
type Event struct {
	Kind       EventKind
	Lines      []string
	Recipients []string // identities; empty means broadcast to the channel
}

// Broadcast reports whether the event goes to the whole channel.
func (e Event) Broadcast() bool { return len(e.Recipients) == 0 }

func broadcast(kind EventKind, text ...string) Event {
	return Event{Kind: kind, Lines: splitLines(text)}
}

func private(kind EventKind, to string, text ...string) Event {
	return Event{Kind: kind, Lines: splitLines(text), Recipients: []string{to}}
}

// splitLines flattens multi-line text so each chat line is sent on its own.
func splitLines(text []string) []string {
	var lines []string
	for _, t := range text {
		lines = append(lines, strings.Split(t, "\n")...)
	}
	return lines
}

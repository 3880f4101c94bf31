package app

import (
	"fmt"
	"strings"

	"golang.org/x/text/message"

	"menteur/internal/domain"
	"menteur/internal/speech"
)

// renderHand formats a hand for its owner: a header with the card count and
// one numbered line per card, or a single line when the hand is empty. The
// numbers are the ones accepted by the play command.
func renderHand(p *message.Printer, h *domain.Hand) string {
	cards := h.Cards()
	if len(cards) == 0 {
		return p.Sprintf(speech.NoCardsLeft)
	}
	var b strings.Builder
	b.WriteString(p.Sprintf(speech.CardsLeft, len(cards)))
	for i, c := range cards {
		fmt.Fprintf(&b, "\n  %2d.  %s", i+1, c)
	}
	return b.String()
}

package domain

import (
	"fmt"
	"slices"
)

// Hand owns the cards held by one player. Cards are kept sorted so the
// indices shown to a player are the indices accepted by take.
type Hand struct {
	cards []Card
}

// NewHand returns a sorted hand holding a copy of cards.
func NewHand(cards ...Card) *Hand {
	h := &Hand{cards: append([]Card(nil), cards...)}
	h.Sort()
	return h
}

// Len returns the number of cards in the hand.
func (h *Hand) Len() int { return len(h.cards) }

// Empty reports whether the hand holds no card.
func (h *Hand) Empty() bool { return len(h.cards) == 0 }

// Sort orders the hand by rank then suit. Sorting is idempotent.
func (h *Hand) Sort() {
	SortCards(h.cards)
}

// Cards returns a sorted copy of the hand.
func (h *Hand) Cards() []Card {
	h.Sort()
	return append([]Card(nil), h.cards...)
}

// RemoveTriplet removes the first run of three same-rank cards found in
// sorted order and returns its rank. It reports false when no run exists.
//
// Only one run is removed per call: callers loop until it returns false,
// which lets them announce each discard. Four of a kind loses three cards on
// the first call and keeps the fourth.
func (h *Hand) RemoveTriplet() (Rank, bool) {
	h.Sort()
	for i := 0; i+3 <= len(h.cards); i++ {
		r := h.cards[i].Rank
		if h.cards[i+1].Rank == r && h.cards[i+2].Rank == r {
			h.cards = slices.Delete(h.cards, i, i+3)
			return r, true
		}
	}
	return 0, false
}

// take removes the cards at the given indices and returns them in the order
// requested. Every index is checked before anything is removed, and removal
// runs from the highest index down so earlier removals never shift the
// positions of later ones.
func (h *Hand) take(indices []int) ([]Card, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: no card selected", ErrInvalidIndex)
	}
	h.Sort()
	seen := make(map[int]bool, len(indices))
	out := make([]Card, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(h.cards) {
			return nil, fmt.Errorf("%w: %d out of range [0,%d)", ErrInvalidIndex, idx, len(h.cards))
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: %d selected twice", ErrInvalidIndex, idx)
		}
		seen[idx] = true
		out = append(out, h.cards[idx])
	}

	desc := append([]int(nil), indices...)
	slices.Sort(desc)
	slices.Reverse(desc)
	for _, idx := range desc {
		h.cards = slices.Delete(h.cards, idx, idx+1)
	}
	return out, nil
}

// add puts cards into the hand and restores sorted order.
func (h *Hand) add(cards ...Card) {
	h.cards = append(h.cards, cards...)
	h.Sort()
}

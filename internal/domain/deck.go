package domain

import (
	"math/rand"
	"slices"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = RankCount * SuitCount

// NewDeck returns a sorted 52-card deck, one card per rank and suit.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := As; r <= Roi; r++ {
		for s := Carreau; s <= Trefle; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// Shuffle permutes cards in place.
func Shuffle(rng *rand.Rand, cards []Card) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// Deal distributes cards one at a time to each of n hands in turn until the
// deck is exhausted. Hand sizes differ by at most one.
func Deal(cards []Card, n int) [][]Card {
	if n < 1 {
		return nil
	}
	hands := make([][]Card, n)
	for i, c := range cards {
		hands[i%n] = append(hands[i%n], c)
	}
	return hands
}

// SortCards orders cards by rank, then suit.
func SortCards(cards []Card) {
	slices.SortFunc(cards, Card.Compare)
}

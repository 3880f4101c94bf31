package domain

import (
	"cmp"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rank is the face value of a card, ordered from As (0) to Roi (12).
type Rank int

const (
	As Rank = iota
	Deux
	Trois
	Quatre
	Cinq
	Six
	Sept
	Huit
	Neuf
	Dix
	Valet
	Dame
	Roi
)

// RankCount is the number of canonical ranks.
const RankCount = 13

var rankNames = [RankCount]string{
	"As", "Deux", "Trois", "Quatre", "Cinq", "Six", "Sept",
	"Huit", "Neuf", "Dix", "Valet", "Dame", "Roi",
}

// Aliases accepted by ParseRank on top of the canonical names. Keys are lowercase.
var rankAliases = map[string]Rank{
	"ace": As, "two": Deux, "three": Trois, "four": Quatre, "five": Cinq, "six": Six,
	"seven": Sept, "eight": Huit, "nine": Neuf, "ten": Dix, "jack": Valet, "queen": Dame,
	"king": Roi,
}

// Suit is a card suit, ordered Carreau, Coeur, Pique, Trèfle.
type Suit int

const (
	Carreau Suit = iota
	Coeur
	Pique
	Trefle
)

// SuitCount is the number of canonical suits.
const SuitCount = 4

var suitNames = [SuitCount]string{"Carreau", "Coeur", "Pique", "Trèfle"}

// String returns the canonical display name of the rank.
func (r Rank) String() string {
	if r < 0 || int(r) >= RankCount {
		return fmt.Sprintf("Rank(%d)", int(r))
	}
	return rankNames[r]
}

// String returns the canonical display name of the suit.
func (s Suit) String() string {
	if s < 0 || int(s) >= SuitCount {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// RankNames lists the canonical rank names in order.
func RankNames() []string {
	return append([]string(nil), rankNames[:]...)
}

// ParseRank resolves a rank name. The name is capitalized to its canonical form
// ("roi" -> "Roi") before matching; English names are accepted as aliases.
func ParseRank(name string) (Rank, error) {
	trimmed := strings.TrimSpace(name)
	canonical := cases.Title(language.French).String(trimmed)
	for i, n := range rankNames {
		if n == canonical {
			return Rank(i), nil
		}
	}
	if r, ok := rankAliases[strings.ToLower(trimmed)]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRank, name)
}

// Card is a single playing card. Cards are values and never mutated.
type Card struct {
	Rank Rank
	Suit Suit
}

// Compare orders cards by rank, then suit. It returns -1, 0 or +1.
func (c Card) Compare(other Card) int {
	if r := cmp.Compare(c.Rank, other.Rank); r != 0 {
		return r
	}
	return cmp.Compare(c.Suit, other.Suit)
}

// String renders the card as "<rank> de <suit>".
func (c Card) String() string {
	return c.Rank.String() + " de " + c.Suit.String()
}

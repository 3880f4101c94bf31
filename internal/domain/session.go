package domain

import (
	"fmt"
	"math/rand"
	"slices"
)

// Phase represents the lifecycle stage of a session.
type Phase string

const (
	// PhaseOpen accepts new players.
	PhaseOpen Phase = "open"
	// PhasePlaying is the active game; turns proceed.
	PhasePlaying Phase = "playing"
	// PhaseEnded is reached once a winner is confirmed or the session is abandoned.
	PhaseEnded Phase = "ended"
)

// Player is a seated participant and the hand they own.
type Player struct {
	ID   string
	Hand *Hand
}

// Session holds the authoritative state of one game table.
//
// Session is not safe for concurrent use; the owner must serialize calls.
type Session struct {
	host   string
	roster []string
	phase  Phase

	players  []*Player
	current  int
	previous int

	pile       []Card
	activeRank Rank
	declared   bool
	bluff      bool

	rng *rand.Rand
}

// NewSession creates an open session whose roster holds only the host.
func NewSession(host string, rng *rand.Rand) *Session {
	return &Session{
		host:     host,
		roster:   []string{host},
		phase:    PhaseOpen,
		current:  -1,
		previous: -1,
		rng:      rng,
	}
}

func (s *Session) Host() string  { return s.host }
func (s *Session) Phase() Phase  { return s.phase }
func (s *Session) Started() bool { return s.phase != PhaseOpen }

// Roster returns the identities that joined, in join order.
func (s *Session) Roster() []string { return append([]string(nil), s.roster...) }

// Players returns the seated players in turn order. Nil before Start.
func (s *Session) Players() []*Player { return append([]*Player(nil), s.players...) }

func (s *Session) CurrentIndex() int  { return s.current }
func (s *Session) PreviousIndex() int { return s.previous }

// Current returns the player whose turn it is, or nil before the first turn.
func (s *Session) Current() *Player { return s.playerAt(s.current) }

// Previous returns the player who acted before the current turn, if any.
func (s *Session) Previous() *Player { return s.playerAt(s.previous) }

func (s *Session) playerAt(i int) *Player {
	if i < 0 || i >= len(s.players) {
		return nil
	}
	return s.players[i]
}

// Pile returns a copy of the cards played since the last challenge.
func (s *Session) Pile() []Card { return append([]Card(nil), s.pile...) }

func (s *Session) PileSize() int { return len(s.pile) }

// ActiveRank returns the rank declared for the current turn.
func (s *Session) ActiveRank() (Rank, bool) { return s.activeRank, s.declared }

// Bluffed reports whether the last batch of played cards did not all match
// the declared rank.
func (s *Session) Bluffed() bool { return s.bluff }

// Join adds id to the roster and reports whether it was newly added.
// Callers must only call Join while the session is open.
func (s *Session) Join(id string) bool {
	if slices.Contains(s.roster, id) {
		return false
	}
	s.roster = append(s.roster, id)
	return true
}

// Start seals the roster: it shuffles the deck and the seating order, deals
// the deck round-robin and resets the turn state. It can only run once.
func (s *Session) Start() error {
	if s.phase != PhaseOpen {
		return ErrAlreadyStarted
	}

	deck := NewDeck()
	Shuffle(s.rng, deck)

	seats := append([]string(nil), s.roster...)
	s.rng.Shuffle(len(seats), func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })

	hands := Deal(deck, len(seats))
	s.players = make([]*Player, len(seats))
	for i, id := range seats {
		s.players[i] = &Player{ID: id, Hand: NewHand(hands[i]...)}
	}

	s.current = -1
	s.previous = -1
	s.pile = nil
	s.declared = false
	s.bluff = false
	s.phase = PhasePlaying
	return nil
}

// IndexOf returns the seat index of id, or -1 if id is not seated.
func (s *Session) IndexOf(id string) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// PlayerFor looks up a seated player. It reports false when id never joined
// or the session has not started.
func (s *Session) PlayerFor(id string) (*Player, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.players[i], true
}

// AdvanceTurn moves the turn to the next seat, remembering who acted before,
// and returns the new current player. The declared rank is cleared.
func (s *Session) AdvanceTurn() *Player {
	if len(s.players) == 0 {
		return nil
	}
	s.previous = s.current
	s.current = (s.current + 1) % len(s.players)
	s.declared = false
	return s.players[s.current]
}

// PassTurn moves the turn to the next seat without counting it as an action:
// PreviousIndex still names the player who acted last.
func (s *Session) PassTurn() *Player {
	if len(s.players) == 0 {
		return nil
	}
	s.current = (s.current + 1) % len(s.players)
	s.declared = false
	return s.players[s.current]
}

// Holders returns the seated players who still hold cards, in seat order.
func (s *Session) Holders() []*Player {
	var out []*Player
	for _, p := range s.players {
		if !p.Hand.Empty() {
			out = append(out, p)
		}
	}
	return out
}

// DeclareRank sets the rank announced for the current turn. The name is
// validated before anything is assigned.
func (s *Session) DeclareRank(name string) error {
	r, err := ParseRank(name)
	if err != nil {
		return err
	}
	s.activeRank = r
	s.declared = true
	return nil
}

// PlayCards moves the cards at indices from the current player's hand to the
// pile and returns how many were played. The bluff flag is set when any of
// them differs from the declared rank. Nothing changes on error.
func (s *Session) PlayCards(indices []int) (int, error) {
	if s.phase != PhasePlaying {
		return 0, ErrNotStarted
	}
	p := s.Current()
	if p == nil {
		return 0, ErrNoTurn
	}
	if !s.declared {
		return 0, ErrRankNotDeclared
	}
	cards, err := p.Hand.take(indices)
	if err != nil {
		return 0, err
	}

	s.bluff = false
	for _, c := range cards {
		if c.Rank != s.activeRank {
			s.bluff = true
		}
	}
	s.pile = append(s.pile, cards...)
	return len(cards), nil
}

// Challenge hands the whole pile to the player at playerIndex and returns the
// number of cards transferred. Who receives the pile is the caller's policy.
//
// When the pile goes back to the player who acted last, their play is taken
// back: PreviousIndex is reset, so an empty hand there is not a win.
func (s *Session) Challenge(playerIndex int) (int, error) {
	p := s.playerAt(playerIndex)
	if p == nil {
		return 0, fmt.Errorf("%w: seat %d", ErrUnknownPlayer, playerIndex)
	}
	total := len(s.pile)
	p.Hand.add(s.pile...)
	s.pile = nil
	s.bluff = false
	if playerIndex == s.previous {
		s.previous = -1
	}
	return total, nil
}

// HasWinner reports whether the player who acted last has emptied their hand.
func (s *Session) HasWinner() bool {
	p := s.Previous()
	return p != nil && p.Hand.Empty()
}

// Winner returns the winning player when HasWinner is true.
func (s *Session) Winner() (*Player, bool) {
	if !s.HasWinner() {
		return nil, false
	}
	return s.Previous(), true
}

// Finish ends the session. No further turns are valid.
func (s *Session) Finish() {
	s.phase = PhaseEnded
}

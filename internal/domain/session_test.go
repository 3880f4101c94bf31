package domain

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func newStartedSession(t *testing.T, ids ...string) *Session {
	t.Helper()
	s := NewSession(ids[0], rand.New(rand.NewSource(42)))
	for _, id := range ids[1:] {
		if !s.Join(id) {
			t.Fatalf("join %s failed", id)
		}
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func totalCards(s *Session) int {
	total := s.PileSize()
	for _, p := range s.Players() {
		total += p.Hand.Len()
	}
	return total
}

func TestJoin(t *testing.T) {
	s := NewSession("alice", rand.New(rand.NewSource(1)))
	if s.Join("alice") {
		t.Fatal("host must already be on the roster")
	}
	if !s.Join("bob") {
		t.Fatal("bob should join")
	}
	if s.Join("bob") {
		t.Fatal("bob must not join twice")
	}
	if got := s.Roster(); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Fatalf("roster = %v", got)
	}
}

func TestStart(t *testing.T) {
	s := newStartedSession(t, "alice", "bob", "carol")

	if s.Phase() != PhasePlaying {
		t.Fatalf("phase = %s, want playing", s.Phase())
	}
	if totalCards(s) != DeckSize {
		t.Fatalf("cards after start = %d, want %d", totalCards(s), DeckSize)
	}
	sizes := map[int]int{}
	for _, p := range s.Players() {
		sizes[p.Hand.Len()]++
	}
	if sizes[18] != 1 || sizes[17] != 2 {
		t.Fatalf("hand sizes = %v, want one 18 and two 17", sizes)
	}
	if s.CurrentIndex() != -1 || s.PreviousIndex() != -1 {
		t.Fatalf("indices = %d/%d, want -1/-1", s.CurrentIndex(), s.PreviousIndex())
	}
	if s.HasWinner() {
		t.Fatal("no winner right after start")
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second start err = %v, want ErrAlreadyStarted", err)
	}
}

func TestStartSeatsEveryRosterEntry(t *testing.T) {
	s := newStartedSession(t, "alice", "bob", "carol", "dave")
	for _, id := range s.Roster() {
		if _, ok := s.PlayerFor(id); !ok {
			t.Fatalf("%s not seated", id)
		}
	}
	if _, ok := s.PlayerFor("eve"); ok {
		t.Fatal("eve must not be seated")
	}
}

func TestAdvanceTurnCycles(t *testing.T) {
	s := newStartedSession(t, "alice", "bob", "carol")

	wantCurrent := []int{0, 1, 2, 0, 1}
	wantPrevious := []int{-1, 0, 1, 2, 0}
	for i := range wantCurrent {
		p := s.AdvanceTurn()
		if s.CurrentIndex() != wantCurrent[i] || s.PreviousIndex() != wantPrevious[i] {
			t.Fatalf("step %d: current/previous = %d/%d, want %d/%d",
				i, s.CurrentIndex(), s.PreviousIndex(), wantCurrent[i], wantPrevious[i])
		}
		if p != s.Current() {
			t.Fatalf("step %d: returned player is not current", i)
		}
	}
}

func TestAdvanceTurnWithoutPlayers(t *testing.T) {
	s := NewSession("alice", rand.New(rand.NewSource(1)))
	if p := s.AdvanceTurn(); p != nil {
		t.Fatalf("AdvanceTurn() = %v, want nil before start", p)
	}
}

func TestDeclareRank(t *testing.T) {
	s := newStartedSession(t, "alice", "bob")
	s.AdvanceTurn()

	if err := s.DeclareRank("cavalier"); !errors.Is(err, ErrInvalidRank) {
		t.Fatalf("err = %v, want ErrInvalidRank", err)
	}
	if _, declared := s.ActiveRank(); declared {
		t.Fatal("invalid rank must not be recorded")
	}

	if err := s.DeclareRank("dame"); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if r, declared := s.ActiveRank(); !declared || r != Dame {
		t.Fatalf("active rank = %v/%v, want Dame", r, declared)
	}

	s.AdvanceTurn()
	if _, declared := s.ActiveRank(); declared {
		t.Fatal("advancing the turn clears the declaration")
	}
}

func TestPlayCardsBluff(t *testing.T) {
	tests := []struct {
		name      string
		hand      []Card
		indices   []int
		wantBluff bool
	}{
		{name: "truthful single", hand: []Card{c(Roi, Coeur), c(As, Pique)}, indices: []int{1}, wantBluff: false},
		{name: "bluff single", hand: []Card{c(Roi, Coeur), c(As, Pique)}, indices: []int{0}, wantBluff: true},
		{name: "mixed", hand: []Card{c(Roi, Coeur), c(As, Pique), c(Deux, Pique)}, indices: []int{1, 2}, wantBluff: true},
		{name: "truthful pair", hand: []Card{c(Roi, Coeur), c(As, Pique), c(Roi, Pique)}, indices: []int{1, 2}, wantBluff: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStartedSession(t, "alice", "bob")
			p := s.AdvanceTurn()
			p.Hand = NewHand(tt.hand...)
			if err := s.DeclareRank("Roi"); err != nil {
				t.Fatalf("declare: %v", err)
			}
			// Hands are sorted, so index 0 is always the As.
			n, err := s.PlayCards(tt.indices)
			if err != nil {
				t.Fatalf("play: %v", err)
			}
			if n != len(tt.indices) {
				t.Fatalf("played %d, want %d", n, len(tt.indices))
			}
			if s.Bluffed() != tt.wantBluff {
				t.Fatalf("bluffed = %v, want %v (pile %v)", s.Bluffed(), tt.wantBluff, s.Pile())
			}
			if s.PileSize() != len(tt.indices) {
				t.Fatalf("pile = %d, want %d", s.PileSize(), len(tt.indices))
			}
		})
	}
}

func TestPlayCardsRejected(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		s := NewSession("alice", rand.New(rand.NewSource(1)))
		if _, err := s.PlayCards([]int{0}); !errors.Is(err, ErrNotStarted) {
			t.Fatalf("err = %v, want ErrNotStarted", err)
		}
	})
	t.Run("no turn", func(t *testing.T) {
		s := newStartedSession(t, "alice", "bob")
		if _, err := s.PlayCards([]int{0}); !errors.Is(err, ErrNoTurn) {
			t.Fatalf("err = %v, want ErrNoTurn", err)
		}
	})
	t.Run("rank not declared", func(t *testing.T) {
		s := newStartedSession(t, "alice", "bob")
		s.AdvanceTurn()
		if _, err := s.PlayCards([]int{0}); !errors.Is(err, ErrRankNotDeclared) {
			t.Fatalf("err = %v, want ErrRankNotDeclared", err)
		}
	})
	t.Run("invalid index leaves state untouched", func(t *testing.T) {
		s := newStartedSession(t, "alice", "bob")
		p := s.AdvanceTurn()
		if err := s.DeclareRank("roi"); err != nil {
			t.Fatalf("declare: %v", err)
		}
		before := p.Hand.Cards()
		if _, err := s.PlayCards([]int{0, p.Hand.Len()}); !errors.Is(err, ErrInvalidIndex) {
			t.Fatalf("err = %v, want ErrInvalidIndex", err)
		}
		if !reflect.DeepEqual(p.Hand.Cards(), before) {
			t.Fatal("hand changed on rejected play")
		}
		if s.PileSize() != 0 || s.Bluffed() {
			t.Fatal("pile or bluff changed on rejected play")
		}
	})
}

func TestChallengeScenario(t *testing.T) {
	s := newStartedSession(t, "alice", "bob", "carol")

	first := s.AdvanceTurn()
	first.Hand = NewHand(c(Deux, Coeur), c(Roi, Pique), c(Cinq, Trefle))
	if err := s.DeclareRank("Roi"); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := s.PlayCards([]int{0}); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !s.Bluffed() {
		t.Fatal("Deux declared as Roi is a bluff")
	}

	second := s.AdvanceTurn()
	if s.Previous() != first {
		t.Fatal("previous must be the player who just played")
	}
	before := first.Hand.Len()
	n, err := s.Challenge(s.IndexOf(first.ID))
	if err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if n != 1 {
		t.Fatalf("transferred %d cards, want 1", n)
	}
	if first.Hand.Len() != before+1 {
		t.Fatalf("bluffer hand = %d, want %d", first.Hand.Len(), before+1)
	}
	if s.PileSize() != 0 || s.Bluffed() {
		t.Fatal("pile and bluff flag must reset after a challenge")
	}
	if s.Current() != second {
		t.Fatal("a challenge does not move the turn")
	}
}

func TestChallengeUnknownSeat(t *testing.T) {
	s := newStartedSession(t, "alice", "bob")
	if _, err := s.Challenge(5); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
	if _, err := s.Challenge(-1); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
}

func TestCardsAreConserved(t *testing.T) {
	s := newStartedSession(t, "alice", "bob", "carol")
	rng := rand.New(rand.NewSource(3))

	for turn := 0; turn < 30; turn++ {
		p := s.AdvanceTurn()
		if p.Hand.Empty() {
			break
		}
		if err := s.DeclareRank(RankNames()[rng.Intn(RankCount)]); err != nil {
			t.Fatalf("declare: %v", err)
		}
		if _, err := s.PlayCards([]int{rng.Intn(p.Hand.Len())}); err != nil {
			t.Fatalf("play: %v", err)
		}
		if rng.Intn(3) == 0 {
			if _, err := s.Challenge(s.CurrentIndex()); err != nil {
				t.Fatalf("challenge: %v", err)
			}
		}
		if got := totalCards(s); got != DeckSize {
			t.Fatalf("turn %d: %d cards in play, want %d", turn, got, DeckSize)
		}
	}
}

func TestWinner(t *testing.T) {
	s := newStartedSession(t, "alice", "bob")

	p := s.AdvanceTurn()
	p.Hand = NewHand(c(Valet, Coeur))
	if err := s.DeclareRank("valet"); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := s.PlayCards([]int{0}); err != nil {
		t.Fatalf("play: %v", err)
	}
	if s.HasWinner() {
		t.Fatal("the winner is only known once the turn moves on")
	}

	s.AdvanceTurn()
	w, ok := s.Winner()
	if !ok || w != p {
		t.Fatalf("winner = %v/%v, want %s", w, ok, p.ID)
	}

	s.Finish()
	if s.Phase() != PhaseEnded {
		t.Fatalf("phase = %s, want ended", s.Phase())
	}
	if _, err := s.PlayCards([]int{0}); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("err = %v, want ErrNotStarted after finish", err)
	}
}

func TestChallengeTakesBackPlay(t *testing.T) {
	s := newStartedSession(t, "alice", "bob", "carol")

	first := s.AdvanceTurn()
	first.Hand = NewHand(c(Deux, Coeur))
	if err := s.DeclareRank("roi"); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := s.PlayCards([]int{0}); err != nil {
		t.Fatalf("play: %v", err)
	}
	s.AdvanceTurn()
	if !s.HasWinner() {
		t.Fatal("empty hand after a play is a pending win")
	}

	if _, err := s.Challenge(s.IndexOf(first.ID)); err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if s.PreviousIndex() != -1 {
		t.Fatalf("previous = %d, want -1 once the play is taken back", s.PreviousIndex())
	}
	first.Hand = NewHand()
	if s.HasWinner() {
		t.Fatal("a taken back play cannot win")
	}
}

func TestChallengeKeepsPlayWhenChallengerPays(t *testing.T) {
	s := newStartedSession(t, "alice", "bob")

	first := s.AdvanceTurn()
	first.Hand = NewHand(c(Roi, Coeur))
	if err := s.DeclareRank("roi"); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := s.PlayCards([]int{0}); err != nil {
		t.Fatalf("play: %v", err)
	}
	second := s.AdvanceTurn()
	if _, err := s.Challenge(s.IndexOf(second.ID)); err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if w, ok := s.Winner(); !ok || w != first {
		t.Fatalf("winner = %v/%v, want %s", w, ok, first.ID)
	}
}

func TestPassTurn(t *testing.T) {
	s := newStartedSession(t, "alice", "bob", "carol")
	s.AdvanceTurn()
	s.AdvanceTurn()

	p := s.PassTurn()
	if s.CurrentIndex() != 2 || p != s.Players()[2] {
		t.Fatalf("current = %d, want 2", s.CurrentIndex())
	}
	if s.PreviousIndex() != 0 {
		t.Fatalf("previous = %d, want 0: passing is not an action", s.PreviousIndex())
	}
	if _, declared := s.ActiveRank(); declared {
		t.Fatal("passing clears the declared rank")
	}
	if s.PassTurn() != s.Players()[0] {
		t.Fatal("passing wraps around the table")
	}
}

func TestHolders(t *testing.T) {
	s := newStartedSession(t, "alice", "bob", "carol")
	players := s.Players()
	players[1].Hand = NewHand()

	got := s.Holders()
	if len(got) != 2 || got[0] != players[0] || got[1] != players[2] {
		t.Fatalf("holders = %v, want seats 0 and 2", got)
	}
}

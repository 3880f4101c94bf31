package speech

import (
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Trèfle", want: "trefle"},
		{in: "!CRÉER", want: "!creer"},
		{in: "Hélène", want: "helene"},
		{in: "roi", want: "roi"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Fold(tt.in); got != tt.want {
				t.Fatalf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	got := Fields("  !Poser  1   Trois ")
	want := []string{"!poser", "1", "trois"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
}

func TestNewPrinterFrench(t *testing.T) {
	p := NewPrinter("fr")
	if got := p.Sprintf(CardsLeft, 3); got != "Il vous reste 3 cartes :" {
		t.Fatalf("french CardsLeft = %q", got)
	}
}

func TestNewPrinterEnglishUsesKey(t *testing.T) {
	p := NewPrinter("en")
	if got := p.Sprintf(CardsLeft, 3); got != "You have 3 cards left:" {
		t.Fatalf("english CardsLeft = %q", got)
	}
}

func TestNewPrinterFallsBackToFrench(t *testing.T) {
	for _, locale := range []string{"", "not a locale!"} {
		p := NewPrinter(locale)
		if got := p.Sprintf(NoCardsLeft); got != "Vous n'avez plus de cartes." {
			t.Fatalf("NewPrinter(%q) NoCardsLeft = %q", locale, got)
		}
	}
}

func TestFrenchCatalogCoversEveryKey(t *testing.T) {
	keys := []string{
		NoCardsLeft, CardsLeft, SessionCreated, SessionExists, NoSession, Joined, AlreadyJoined,
		TableFull, AlreadyStarted, NotStarted, GameOver, HostOnly, NotEnoughPlayers, GameStarted,
		TripletDiscarded, TurnStart, NotSeated, NotYourTurn, AlreadyDeclared, InvalidRank,
		RankDeclared, DeclareFirst, MissingRank, MalformedIndex, InvalidIndex, CardsPlayed,
		NextTurn, LastCards, NothingToChallenge, CannotChallengeSelf, ChallengeTarget,
		UnknownPlayer, BluffCaught, BluffFailed, Winner, SitsOut, LastHolder, Stopped, UnknownCommand, StatusHeader,
		StatusRoster, StatusSeat, StatusTurn, None, PhaseOpen, PhasePlaying, PhaseEnded,
		HelpHeader, HelpCreate, HelpJoin, HelpStart, HelpHand, HelpDeclare, HelpPlay,
		HelpChallenge, HelpStatus, HelpStop,
	}
	for _, k := range keys {
		if _, ok := french[k]; !ok {
			t.Errorf("missing french translation for %q", k)
		}
	}
}

// Package speech holds every player-facing sentence of the game and the text
// normalization applied to incoming chat commands.
//
// Sentences are keyed by their English wording and registered with
// golang.org/x/text/message; French is the default table language.
package speech

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when the configured locale is empty or unknown.
const DefaultLocale = "fr"

// Message keys. English printers format the key itself.
const (
	NoCardsLeft = "You have no cards left."
	CardsLeft   = "You have %d cards left:"

	SessionCreated   = "%s opened a game. Type %sjoin to sit down."
	SessionExists    = "A game is already running here."
	NoSession        = "No game here. Type %screate to open one."
	Joined           = "%s joins the game (%d players)."
	AlreadyJoined    = "%s is already in the game."
	TableFull        = "The table is full (%d players)."
	AlreadyStarted   = "The game has already started."
	NotStarted       = "The game has not started yet."
	GameOver         = "The game is over."
	HostOnly         = "Only %s can do that."
	NotEnoughPlayers = "Not enough players: %d of %d needed."
	GameStarted      = "The game begins! Turn order: %s."
	TripletDiscarded = "%s discards three %s."
	TurnStart        = "%s, your turn: declare a rank with %sdeclare <rank>."

	NotSeated       = "You are not playing in this game."
	NotYourTurn     = "It is %s's turn."
	AlreadyDeclared = "You already declared %s."
	InvalidRank     = "Unknown rank %q. Ranks: %s."
	RankDeclared    = "%s declares %s."
	DeclareFirst    = "Declare a rank first with %sdeclare <rank>."
	MissingRank     = "Name a rank, e.g. %sdeclare king."
	MalformedIndex  = "Give card numbers from your hand, e.g. %splay 1 3."
	InvalidIndex    = "Invalid card numbers. Your hand has %d cards."
	CardsPlayed     = "%s plays %d card(s) as %s."
	NextTurn        = "%s: challenge with %schallenge, or declare with %sdeclare <rank>."
	LastCards       = "%s has no cards left! Challenge now or %s wins."

	NothingToChallenge  = "There is nothing to challenge."
	CannotChallengeSelf = "You cannot challenge yourself."
	ChallengeTarget     = "Only %s, who played last, can be challenged."
	UnknownPlayer       = "Unknown player %q."
	BluffCaught         = "%s was bluffing! %s picks up %d card(s)."
	BluffFailed         = "%s told the truth! %s picks up %d card(s)."
	Winner              = "%s has no cards left and wins the game!"
	SitsOut             = "%s was caught with no cards left and sits out the rest of the game."
	LastHolder          = "%s is the last player holding cards and wins the game!"
	Stopped             = "%s ended the game."

	UnknownCommand = "Unknown command %q. Type %shelp."
	StatusHeader   = "Game %s (%s), host %s."
	StatusRoster   = "Players: %s."
	StatusSeat     = "%s: %d card(s)"
	StatusTurn     = "Turn: %s, declared rank: %s, pile: %d card(s)."
	None           = "none"

	PhaseOpen    = "open"
	PhasePlaying = "playing"
	PhaseEnded   = "ended"

	HelpHeader    = "Commands:"
	HelpCreate    = "  %screate: open a game in this channel"
	HelpJoin      = "  %sjoin: sit at the table"
	HelpStart     = "  %sstart: deal the cards (host only)"
	HelpHand      = "  %shand: show your cards"
	HelpDeclare   = "  %sdeclare <rank>: announce the rank you are about to play"
	HelpPlay      = "  %splay <n> [n...]: play cards by their number in your hand"
	HelpChallenge = "  %schallenge [player]: call the last player a liar"
	HelpStatus    = "  %sstatus: show the table"
	HelpStop      = "  %sstop: end the game (host only)"
)

var french = map[string]string{
	NoCardsLeft: "Vous n'avez plus de cartes.",
	CardsLeft:   "Il vous reste %d cartes :",

	SessionCreated:   "%s ouvre une partie. Tapez %srejoindre pour y participer.",
	SessionExists:    "Une partie est déjà en cours ici.",
	NoSession:        "Aucune partie ici. Tapez %screer pour en ouvrir une.",
	Joined:           "%s rejoint la partie (%d joueurs).",
	AlreadyJoined:    "%s participe déjà à la partie.",
	TableFull:        "La table est pleine (%d joueurs).",
	AlreadyStarted:   "La partie a déjà commencé.",
	NotStarted:       "La partie n'a pas encore commencé.",
	GameOver:         "La partie est terminée.",
	HostOnly:         "Seul %s peut faire cela.",
	NotEnoughPlayers: "Pas assez de joueurs : %d sur %d nécessaires.",
	GameStarted:      "La partie commence ! Ordre de jeu : %s.",
	TripletDiscarded: "%s se défausse de trois %s.",
	TurnStart:        "%s, à vous : annoncez une valeur avec %sannonce <valeur>.",

	NotSeated:       "Vous ne participez pas à cette partie.",
	NotYourTurn:     "C'est au tour de %s.",
	AlreadyDeclared: "Vous avez déjà annoncé %s.",
	InvalidRank:     "Valeur inconnue %q. Valeurs : %s.",
	RankDeclared:    "%s annonce %s.",
	DeclareFirst:    "Annoncez d'abord une valeur avec %sannonce <valeur>.",
	MissingRank:     "Précisez une valeur, par exemple %sannonce roi.",
	MalformedIndex:  "Indiquez les numéros de vos cartes, par exemple %sposer 1 3.",
	InvalidIndex:    "Numéros de cartes invalides. Votre main compte %d cartes.",
	CardsPlayed:     "%s pose %d carte(s) en annonçant %s.",
	NextTurn:        "%s : contestez avec %smenteur, ou annoncez avec %sannonce <valeur>.",
	LastCards:       "%s n'a plus de cartes ! Contestez maintenant ou %s gagne.",

	NothingToChallenge:  "Il n'y a rien à contester.",
	CannotChallengeSelf: "Vous ne pouvez pas vous contester vous-même.",
	ChallengeTarget:     "Seul %s, qui vient de jouer, peut être contesté.",
	UnknownPlayer:       "Joueur inconnu %q.",
	BluffCaught:         "%s mentait ! %s ramasse %d carte(s).",
	BluffFailed:         "%s disait vrai ! %s ramasse %d carte(s).",
	Winner:              "%s n'a plus de cartes et gagne la partie !",
	SitsOut:             "%s a été pris sans plus aucune carte et ne joue plus jusqu'à la fin.",
	LastHolder:          "%s est le dernier à avoir des cartes et gagne la partie !",
	Stopped:             "%s met fin à la partie.",

	UnknownCommand: "Commande inconnue %q. Tapez %saide.",
	StatusHeader:   "Partie %s (%s), hôte %s.",
	StatusRoster:   "Joueurs : %s.",
	StatusSeat:     "%s : %d carte(s)",
	StatusTurn:     "Tour : %s, valeur annoncée : %s, tas : %d carte(s).",
	None:           "aucune",

	PhaseOpen:    "ouverte",
	PhasePlaying: "en cours",
	PhaseEnded:   "terminée",

	HelpHeader:    "Commandes :",
	HelpCreate:    "  %screer : ouvrir une partie sur ce canal",
	HelpJoin:      "  %srejoindre : s'asseoir à la table",
	HelpStart:     "  %scommencer : distribuer les cartes (hôte uniquement)",
	HelpHand:      "  %sjeu : voir ses cartes",
	HelpDeclare:   "  %sannonce <valeur> : annoncer la valeur que l'on va poser",
	HelpPlay:      "  %sposer <n> [n...] : poser des cartes par leur numéro",
	HelpChallenge: "  %smenteur [joueur] : accuser le dernier joueur de mentir",
	HelpStatus:    "  %setat : afficher la table",
	HelpStop:      "  %sfin : terminer la partie (hôte uniquement)",
}

var registered = mustRegister()

func mustRegister() bool {
	if err := register(language.French, french); err != nil {
		panic(fmt.Sprintf("speech: %v", err))
	}
	return true
}

func register(tag language.Tag, table map[string]string) error {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := message.SetString(tag, key, table[key]); err != nil {
			return fmt.Errorf("register %q for %s: %w", key, tag, err)
		}
	}
	return nil
}

// NewPrinter returns a printer for locale, falling back to DefaultLocale when
// locale is empty or cannot be parsed.
func NewPrinter(locale string) *message.Printer {
	_ = registered
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		tag = language.MustParse(DefaultLocale)
	}
	return message.NewPrinter(tag)
}

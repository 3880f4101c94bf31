package app

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/message"

	"menteur/internal/config"
	"menteur/internal/domain"
	"menteur/internal/speech"
)

// Message is one line of chat addressed to the game.
type Message struct {
	ChannelID string
	Sender    string
	Text      string
}

// Service turns chat commands into game actions and the events to announce.
// It is safe for concurrent use: each channel's table runs on its own
// goroutine.
type Service struct {
	cfg      config.GameConfig
	printer  *message.Printer
	registry *Registry

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(cfg config.GameConfig, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		cfg:      cfg,
		printer:  speech.NewPrinter(cfg.Locale),
		registry: NewRegistry(),
		rng:      rng,
	}
}

// Registry exposes the live tables.
func (s *Service) Registry() *Registry { return s.registry }

// Close stops every table.
func (s *Service) Close() { s.registry.Close() }

// command is a parsed chat command.
type command struct {
	word string // as typed, folded
	name string // canonical, empty when unknown
	args []string
}

type handler func(s *Service, ctx context.Context, msg Message, cmd command) ([]Event, error)

var handlers = map[string]handler{
	cmdCreate:    (*Service).create,
	cmdJoin:      (*Service).join,
	cmdStart:     (*Service).start,
	cmdHand:      (*Service).hand,
	cmdDeclare:   (*Service).declare,
	cmdPlay:      (*Service).play,
	cmdChallenge: (*Service).challenge,
	cmdStatus:    (*Service).status,
	cmdHelp:      (*Service).help,
	cmdStop:      (*Service).stop,
}

// Handle executes the command carried by msg, if any. Text that is not a
// command yields no events. Player mistakes are reported as a private
// EventRejected; the returned error is reserved for failures of the service
// itself, such as a cancelled context.
func (s *Service) Handle(ctx context.Context, msg Message) ([]Event, error) {
	cmd, ok := s.parse(msg.Text)
	if !ok {
		return nil, nil
	}

	var (
		events []Event
		err    error
	)
	if h, known := handlers[cmd.name]; known {
		events, err = h(s, ctx, msg, cmd)
	} else {
		err = validationErr(speech.UnknownCommand, cmd.word, s.cfg.CommandPrefix)
	}
	if errors.Is(err, ErrTableClosed) {
		err = stateErr(speech.NoSession, s.cfg.CommandPrefix)
	}

	var cerr *CommandError
	if errors.As(err, &cerr) {
		return []Event{s.rejection(msg.Sender, cerr)}, nil
	}
	return events, err
}

// rejection renders a command error for its issuer.
func (s *Service) rejection(to string, cerr *CommandError) Event {
	return private(EventRejected, to, s.printer.Sprintf(cerr.Key, cerr.Args...))
}

func (s *Service) parse(text string) (command, bool) {
	fields := speech.Fields(text)
	if len(fields) == 0 {
		return command{}, false
	}
	prefix := speech.Fold(s.cfg.CommandPrefix)
	if !strings.HasPrefix(fields[0], prefix) {
		return command{}, false
	}
	word := strings.TrimPrefix(fields[0], prefix)
	if word == "" {
		// "! play 1": the prefix stands alone.
		if len(fields) < 2 {
			return command{}, false
		}
		fields = fields[1:]
		word = fields[0]
	}
	return command{word: word, name: commandAliases[word], args: fields[1:]}, true
}

func (s *Service) newRNG() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// withTable runs fn on the channel's table. fn receives the name the sender
// is known by at the table.
func (s *Service) withTable(ctx context.Context, msg Message, fn func(*table, *domain.Session, string) ([]Event, error)) ([]Event, error) {
	t, ok := s.registry.lookup(msg.ChannelID)
	if !ok {
		return nil, stateErr(speech.NoSession, s.cfg.CommandPrefix)
	}
	return t.do(ctx, func(sess *domain.Session) ([]Event, error) {
		if sess.Phase() == domain.PhaseEnded {
			return nil, stateErr(speech.GameOver)
		}
		return fn(t, sess, identify(sess, msg.Sender))
	})
}

// identify returns the roster name matching sender, ignoring case and
// accents, or sender itself when nobody on the roster matches.
func identify(sess *domain.Session, sender string) string {
	want := speech.Fold(sender)
	for _, id := range sess.Roster() {
		if speech.Fold(id) == want {
			return id
		}
	}
	return sender
}

// finish ends the session and frees the channel. It runs on the table goroutine.
func (s *Service) finish(t *table, sess *domain.Session) {
	sess.Finish()
	s.registry.remove(t.channelID, t)
	t.stop()
}

// win ends the game with w as the winner.
func (s *Service) win(t *table, sess *domain.Session, w *domain.Player) Event {
	s.finish(t, sess)
	return broadcast(EventGameEnded, s.printer.Sprintf(speech.Winner, w.ID))
}

// nextTurn advances the turn, passing over players who have no cards left.
func nextTurn(sess *domain.Session) *domain.Player {
	next := sess.AdvanceTurn()
	for i := 1; next.Hand.Empty() && i < len(sess.Players()); i++ {
		next = sess.PassTurn()
	}
	return next
}

func (s *Service) create(ctx context.Context, msg Message, _ command) ([]Event, error) {
	_, created := s.registry.create(msg.ChannelID, func() *table {
		return newTable(msg.ChannelID, domain.NewSession(msg.Sender, s.newRNG()), s.cfg.QueueSize)
	})
	if !created {
		return nil, stateErr(speech.SessionExists)
	}
	return []Event{
		broadcast(EventSessionCreated, s.printer.Sprintf(speech.SessionCreated, msg.Sender, s.cfg.CommandPrefix)),
	}, nil
}

func (s *Service) join(ctx context.Context, msg Message, _ command) ([]Event, error) {
	return s.withTable(ctx, msg, func(_ *table, sess *domain.Session, sender string) ([]Event, error) {
		if sess.Started() {
			return nil, stateErr(speech.AlreadyStarted)
		}
		if len(sess.Roster()) >= s.cfg.MaxPlayers {
			return nil, stateErr(speech.TableFull, s.cfg.MaxPlayers)
		}
		if !sess.Join(sender) {
			return nil, stateErr(speech.AlreadyJoined, sender)
		}
		return []Event{
			broadcast(EventPlayerJoined, s.printer.Sprintf(speech.Joined, sender, len(sess.Roster()))),
		}, nil
	})
}

func (s *Service) start(ctx context.Context, msg Message, _ command) ([]Event, error) {
	return s.withTable(ctx, msg, func(t *table, sess *domain.Session, sender string) ([]Event, error) {
		if sess.Started() {
			return nil, stateErr(speech.AlreadyStarted)
		}
		if sender != sess.Host() {
			return nil, stateErr(speech.HostOnly, sess.Host())
		}
		if n := len(sess.Roster()); n < s.cfg.MinPlayers {
			return nil, stateErr(speech.NotEnoughPlayers, n, s.cfg.MinPlayers)
		}
		if err := sess.Start(); err != nil {
			return nil, err
		}

		players := sess.Players()
		order := make([]string, len(players))
		for i, p := range players {
			order[i] = p.ID
		}
		events := []Event{
			broadcast(EventGameStarted, s.printer.Sprintf(speech.GameStarted, strings.Join(order, ", "))),
		}
		for _, p := range players {
			events = append(events, s.discardTriplets(p)...)
		}
		// Discarding can empty a hand before anyone plays.
		for _, p := range players {
			if p.Hand.Empty() {
				return append(events, s.win(t, sess, p)), nil
			}
		}

		next := sess.AdvanceTurn()
		events = append(events, broadcast(EventTurnStarted, s.printer.Sprintf(speech.TurnStart, next.ID, s.cfg.CommandPrefix)))
		for _, p := range players {
			events = append(events, private(EventHandDealt, p.ID, renderHand(s.printer, p.Hand)))
		}
		return events, nil
	})
}

// discardTriplets removes every triplet from p's hand, one announcement each.
func (s *Service) discardTriplets(p *domain.Player) []Event {
	var events []Event
	for {
		r, ok := p.Hand.RemoveTriplet()
		if !ok {
			return events
		}
		events = append(events, broadcast(EventTripletRemoved, s.printer.Sprintf(speech.TripletDiscarded, p.ID, r)))
	}
}

func (s *Service) hand(ctx context.Context, msg Message, _ command) ([]Event, error) {
	return s.withTable(ctx, msg, func(_ *table, sess *domain.Session, sender string) ([]Event, error) {
		if !sess.Started() {
			return nil, stateErr(speech.NotStarted)
		}
		p, ok := sess.PlayerFor(sender)
		if !ok {
			return nil, stateErr(speech.NotSeated)
		}
		return []Event{private(EventHandShown, p.ID, renderHand(s.printer, p.Hand))}, nil
	})
}

// requireTurn checks that sender is the player whose turn it is.
func requireTurn(sess *domain.Session, sender string) error {
	if !sess.Started() {
		return stateErr(speech.NotStarted)
	}
	if _, ok := sess.PlayerFor(sender); !ok {
		return stateErr(speech.NotSeated)
	}
	if cur := sess.Current(); cur == nil || cur.ID != sender {
		name := ""
		if cur != nil {
			name = cur.ID
		}
		return stateErr(speech.NotYourTurn, name)
	}
	return nil
}

func (s *Service) declare(ctx context.Context, msg Message, cmd command) ([]Event, error) {
	return s.withTable(ctx, msg, func(t *table, sess *domain.Session, sender string) ([]Event, error) {
		if err := requireTurn(sess, sender); err != nil {
			return nil, err
		}
		// Moving on without a challenge concedes the previous player's win.
		if w, ok := sess.Winner(); ok {
			return []Event{s.win(t, sess, w)}, nil
		}
		if r, declared := sess.ActiveRank(); declared {
			return nil, stateErr(speech.AlreadyDeclared, r)
		}
		if len(cmd.args) == 0 {
			return nil, validationErr(speech.MissingRank, s.cfg.CommandPrefix)
		}
		if err := sess.DeclareRank(cmd.args[0]); err != nil {
			if errors.Is(err, domain.ErrInvalidRank) {
				return nil, validationErr(speech.InvalidRank, cmd.args[0], strings.Join(domain.RankNames(), ", "))
			}
			return nil, err
		}
		r, _ := sess.ActiveRank()
		return []Event{broadcast(EventRankDeclared, s.printer.Sprintf(speech.RankDeclared, sender, r))}, nil
	})
}

// parseIndices converts 1-based card numbers into hand indices.
func parseIndices(args []string) ([]int, bool) {
	if len(args) == 0 {
		return nil, false
	}
	indices := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, false
		}
		indices = append(indices, n-1)
	}
	return indices, true
}

func (s *Service) play(ctx context.Context, msg Message, cmd command) ([]Event, error) {
	return s.withTable(ctx, msg, func(_ *table, sess *domain.Session, sender string) ([]Event, error) {
		if err := requireTurn(sess, sender); err != nil {
			return nil, err
		}
		rank, declared := sess.ActiveRank()
		if !declared {
			return nil, stateErr(speech.DeclareFirst, s.cfg.CommandPrefix)
		}
		indices, ok := parseIndices(cmd.args)
		if !ok {
			return nil, validationErr(speech.MalformedIndex, s.cfg.CommandPrefix)
		}
		p := sess.Current()
		n, err := sess.PlayCards(indices)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidIndex) {
				return nil, validationErr(speech.InvalidIndex, p.Hand.Len())
			}
			return nil, err
		}

		events := []Event{
			broadcast(EventCardsPlayed, s.printer.Sprintf(speech.CardsPlayed, p.ID, n, rank)),
			private(EventHandShown, p.ID, renderHand(s.printer, p.Hand)),
		}
		next := nextTurn(sess)
		if sess.HasWinner() {
			events = append(events, broadcast(EventCardsPlayed, s.printer.Sprintf(speech.LastCards, p.ID, p.ID)))
		}
		events = append(events, broadcast(EventTurnStarted,
			s.printer.Sprintf(speech.NextTurn, next.ID, s.cfg.CommandPrefix, s.cfg.CommandPrefix)))
		return events, nil
	})
}

func (s *Service) challenge(ctx context.Context, msg Message, cmd command) ([]Event, error) {
	return s.withTable(ctx, msg, func(t *table, sess *domain.Session, sender string) ([]Event, error) {
		if !sess.Started() {
			return nil, stateErr(speech.NotStarted)
		}
		challenger, ok := sess.PlayerFor(sender)
		if !ok {
			return nil, stateErr(speech.NotSeated)
		}
		accused := sess.Previous()
		if accused == nil || sess.PileSize() == 0 {
			return nil, stateErr(speech.NothingToChallenge)
		}
		if len(cmd.args) > 0 {
			target, found := findPlayer(sess, cmd.args[0])
			if !found {
				return nil, notFoundErr(speech.UnknownPlayer, cmd.args[0])
			}
			if target != accused {
				return nil, stateErr(speech.ChallengeTarget, accused.ID)
			}
		}
		if challenger == accused {
			return nil, stateErr(speech.CannotChallengeSelf)
		}
		if challenger.Hand.Empty() {
			return nil, stateErr(speech.NoCardsLeft)
		}

		bluffed := sess.Bluffed()
		loser, key := challenger, speech.BluffFailed
		if bluffed {
			loser, key = accused, speech.BluffCaught
		}
		n, err := sess.Challenge(sess.IndexOf(loser.ID))
		if err != nil {
			return nil, err
		}

		events := []Event{broadcast(EventChallenged, s.printer.Sprintf(key, accused.ID, loser.ID, n))}
		events = append(events, s.discardTriplets(loser)...)
		events = append(events, private(EventHandShown, loser.ID, renderHand(s.printer, loser.Hand)))

		if !bluffed {
			// An honest last play survives the challenge.
			if w, ok := sess.Winner(); ok {
				return append(events, s.win(t, sess, w)), nil
			}
			if loser.Hand.Empty() {
				return append(events, s.win(t, sess, loser)), nil
			}
			return events, nil
		}

		// A caught bluffer never wins, even when the pile completes the
		// last triplet: they sit out and the turn passes them by.
		if loser.Hand.Empty() {
			events = append(events, broadcast(EventChallenged, s.printer.Sprintf(speech.SitsOut, loser.ID)))
			if holders := sess.Holders(); len(holders) == 1 {
				s.finish(t, sess)
				events = append(events, broadcast(EventGameEnded, s.printer.Sprintf(speech.LastHolder, holders[0].ID)))
			}
		}
		return events, nil
	})
}

// findPlayer resolves a seated player by name, ignoring case, accents and a
// leading "@".
func findPlayer(sess *domain.Session, name string) (*domain.Player, bool) {
	want := speech.Fold(strings.TrimPrefix(name, "@"))
	for _, p := range sess.Players() {
		if speech.Fold(p.ID) == want {
			return p, true
		}
	}
	return nil, false
}

func (s *Service) status(ctx context.Context, msg Message, _ command) ([]Event, error) {
	return s.withTable(ctx, msg, func(t *table, sess *domain.Session, _ string) ([]Event, error) {
		lines := []string{
			s.printer.Sprintf(speech.StatusHeader, t.shortID(), s.phaseName(sess.Phase()), sess.Host()),
		}
		if !sess.Started() {
			lines = append(lines, s.printer.Sprintf(speech.StatusRoster, strings.Join(sess.Roster(), ", ")))
			return []Event{private(EventStatus, msg.Sender, lines...)}, nil
		}

		players := sess.Players()
		seats := make([]string, len(players))
		for i, p := range players {
			seats[i] = s.printer.Sprintf(speech.StatusSeat, p.ID, p.Hand.Len())
		}
		lines = append(lines, s.printer.Sprintf(speech.StatusRoster, strings.Join(seats, ", ")))

		rank := s.printer.Sprintf(speech.None)
		if r, declared := sess.ActiveRank(); declared {
			rank = r.String()
		}
		current := ""
		if cur := sess.Current(); cur != nil {
			current = cur.ID
		}
		lines = append(lines, s.printer.Sprintf(speech.StatusTurn, current, rank, sess.PileSize()))
		return []Event{private(EventStatus, msg.Sender, lines...)}, nil
	})
}

func (s *Service) phaseName(phase domain.Phase) string {
	switch phase {
	case domain.PhaseOpen:
		return s.printer.Sprintf(speech.PhaseOpen)
	case domain.PhasePlaying:
		return s.printer.Sprintf(speech.PhasePlaying)
	default:
		return s.printer.Sprintf(speech.PhaseEnded)
	}
}

func (s *Service) help(_ context.Context, msg Message, _ command) ([]Event, error) {
	lines := []string{s.printer.Sprintf(speech.HelpHeader)}
	for _, key := range []string{
		speech.HelpCreate, speech.HelpJoin, speech.HelpStart, speech.HelpHand, speech.HelpDeclare,
		speech.HelpPlay, speech.HelpChallenge, speech.HelpStatus, speech.HelpStop,
	} {
		lines = append(lines, s.printer.Sprintf(key, s.cfg.CommandPrefix))
	}
	return []Event{private(EventHelp, msg.Sender, lines...)}, nil
}

func (s *Service) stop(ctx context.Context, msg Message, _ command) ([]Event, error) {
	return s.withTable(ctx, msg, func(t *table, sess *domain.Session, sender string) ([]Event, error) {
		if sender != sess.Host() {
			return nil, stateErr(speech.HostOnly, sess.Host())
		}
		s.finish(t, sess)
		return []Event{broadcast(EventGameEnded, s.printer.Sprintf(speech.Stopped, sender))}, nil
	})
}

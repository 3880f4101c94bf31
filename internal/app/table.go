package app

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"menteur/internal/domain"
)

// table owns one session and serializes every command against it on a
// single goroutine. Commands are queued in a bounded inbox.
type table struct {
	id        uuid.UUID
	channelID string
	session   *domain.Session

	inbox    chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newTable(channelID string, session *domain.Session, queueSize int) *table {
	t := &table{
		id:        uuid.New(),
		channelID: channelID,
		session:   session,
		inbox:     make(chan func(), queueSize),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *table) run() {
	defer close(t.done)
	for {
		select {
		case <-t.quit:
			return
		case job := <-t.inbox:
			job()
		}
	}
}

// do runs fn on the table goroutine and waits for its result. Commands still
// queued when the table stops fail with ErrTableClosed.
func (t *table) do(ctx context.Context, fn func(*domain.Session) ([]Event, error)) ([]Event, error) {
	type result struct {
		events []Event
		err    error
	}
	reply := make(chan result, 1)
	job := func() {
		events, err := fn(t.session)
		reply <- result{events: events, err: err}
	}

	select {
	case t.inbox <- job:
	case <-t.quit:
		return nil, ErrTableClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.events, r.err
	case <-t.done:
		// The job may have been the one that stopped the table.
		select {
		case r := <-reply:
			return r.events, r.err
		default:
			return nil, ErrTableClosed
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// stop ends the table goroutine. Safe to call more than once and from a job.
func (t *table) stop() {
	t.stopOnce.Do(func() { close(t.quit) })
}

// shortID is the prefix of the table id shown to players.
func (t *table) shortID() string {
	return t.id.String()[:8]
}

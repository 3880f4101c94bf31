package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type channelMessage struct {
	channelID string
	content   map[string]interface{}
	sender    string
	persist   bool
}

type notification struct {
	userID  string
	subject string
	content map[string]interface{}
	code    int
}

// mockNakama records chat traffic. Calls outside the chat surface hit the
// nil embedded module and panic.
type mockNakama struct {
	runtime.NakamaModule

	messages      []channelMessage
	notifications []notification
	userIDs       map[string]string // username -> user id
	sendErr       error
}

func newMockNakama(usernames ...string) *mockNakama {
	m := &mockNakama{userIDs: make(map[string]string)}
	for i, name := range usernames {
		m.userIDs[name] = fmt.Sprintf("uid-%d", i+1)
	}
	return m
}

func (m *mockNakama) ChannelMessageSend(ctx context.Context, channelID string, content map[string]interface{}, senderId, senderUsername string, persist bool) (*rtapi.ChannelMessageAck, error) {
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.messages = append(m.messages, channelMessage{channelID: channelID, content: content, sender: senderUsername, persist: persist})
	return &rtapi.ChannelMessageAck{ChannelId: channelID}, nil
}

func (m *mockNakama) NotificationSend(ctx context.Context, userID, subject string, content map[string]interface{}, code int, sender string, persistent bool) error {
	m.notifications = append(m.notifications, notification{userID: userID, subject: subject, content: content, code: code})
	return nil
}

func (m *mockNakama) UsersGetUsername(ctx context.Context, usernames []string) ([]*api.User, error) {
	var users []*api.User
	for _, name := range usernames {
		if id, ok := m.userIDs[name]; ok {
			users = append(users, &api.User{Id: id, Username: name})
		}
	}
	return users, nil
}

// lines returns the text of every channel message sent so far.
func (m *mockNakama) lines() []string {
	out := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, msg.content["message"].(string))
	}
	return out
}

// mockInitializer records registrations.
type mockInitializer struct {
	runtime.Initializer

	rpcs     map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error)
	afterRts map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, *rtapi.Envelope, *rtapi.Envelope) error
}

func (mi *mockInitializer) RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error {
	if mi.rpcs == nil {
		mi.rpcs = make(map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error))
	}
	mi.rpcs[id] = fn
	return nil
}

func (mi *mockInitializer) RegisterAfterRt(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out, in *rtapi.Envelope) error) error {
	if mi.afterRts == nil {
		mi.afterRts = make(map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, *rtapi.Envelope, *rtapi.Envelope) error)
	}
	mi.afterRts[id] = fn
	return nil
}

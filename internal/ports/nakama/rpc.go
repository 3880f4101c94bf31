package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"menteur/internal/app"
	"menteur/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// commandRequest is the RpcCommand payload. Token is required when the call
// carries no user session, as for a server-to-server call from a chat bridge.
type commandRequest struct {
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
	Token     string `json:"token"`
	Deliver   bool   `json:"deliver"`
}

// rpcCommand runs one chat command and returns the resulting events.
// With deliver set, the events are also posted to the Nakama channel.
//
// Payload: {"channel_id": "...", "text": "!play 1 2", "token": "...", "deliver": false}
// Returns: {"events": [{"kind": "...", "lines": [...], "recipients": [...], "broadcast": true}]}
func (m *gameModule) rpcCommand(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req commandRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", codeInvalidArgument)
	}

	sender, channelID, err := m.resolveCaller(ctx, req)
	if err != nil {
		logger.Warn("RpcCommand: Rejected caller: %v", err)
		return "", err
	}
	if channelID == "" || strings.TrimSpace(req.Text) == "" {
		return "", runtime.NewError("channel_id and text are required", codeInvalidArgument)
	}

	logger = logger.WithFields(map[string]interface{}{"channel": channelID, "sender": sender})
	var chat ports.ChatPort
	if req.Deliver {
		chat = NewNakamaChatAdapter(nk, m.cfg)
	}
	events, err := m.dispatch(ctx, logger, chat, app.Message{ChannelID: channelID, Sender: sender, Text: req.Text})
	if err != nil {
		return "", runtime.NewError("internal error", codeInternal)
	}

	resp, err := encodeEvents(events)
	if err != nil {
		logger.Error("RpcCommand: Failed to encode response: %v", err)
		return "", runtime.NewError("internal error", codeInternal)
	}
	return resp, nil
}

// resolveCaller returns the identity and channel the command runs as. A
// bridge token binds both; a user session supplies the username.
func (m *gameModule) resolveCaller(ctx context.Context, req commandRequest) (string, string, error) {
	if req.Token != "" {
		claims, err := m.bridge.Verify(req.Token)
		if errors.Is(err, app.ErrBridgeDisabled) {
			return "", "", runtime.NewError("bridge tokens are disabled", codeFailedPrecondition)
		}
		if err != nil {
			return "", "", runtime.NewError("invalid bridge token", codeUnauthenticated)
		}
		if req.ChannelID != "" && req.ChannelID != claims.ChannelID {
			return "", "", runtime.NewError("bridge token is not valid for this channel", codeUnauthenticated)
		}
		return claims.Identity, claims.ChannelID, nil
	}

	username, _ := ctx.Value(runtime.RUNTIME_CTX_USERNAME).(string)
	if username == "" {
		return "", "", runtime.NewError("authentication required", codeUnauthenticated)
	}
	return username, req.ChannelID, nil
}

func encodeEvents(events []app.Event) (string, error) {
	list := make([]interface{}, 0, len(events))
	for _, ev := range events {
		list = append(list, map[string]interface{}{
			"kind":       string(ev.Kind),
			"lines":      toList(ev.Lines),
			"recipients": toList(ev.Recipients),
			"broadcast":  ev.Broadcast(),
		})
	}
	return marshalStruct(map[string]interface{}{"events": list})
}

func toList(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func marshalStruct(fields map[string]interface{}) (string, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(st)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

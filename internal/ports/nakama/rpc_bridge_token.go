package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"menteur/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

type bridgeTokenRequest struct {
	Identity  string `json:"identity"`
	ChannelID string `json:"channel_id"`
}

// rpcBridgeToken issues a bridge token so an external chat gateway can send
// commands for one of its users in one channel. Only the gateway may call it,
// through a server to server request; client sessions are refused.
//
// Payload: {"identity": "...", "channel_id": "..."}
// Returns: {"token": "...", "expires_in": 3600}
func (m *gameModule) rpcBridgeToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); userID != "" {
		logger.Warn("RpcBridgeToken [User:%s]: Refused client call", userID)
		return "", runtime.NewError("rpc is only callable server to server", codePermissionDenied)
	}

	var req bridgeTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", codeInvalidArgument)
	}
	req.Identity = strings.TrimSpace(req.Identity)
	if req.Identity == "" || req.ChannelID == "" {
		return "", runtime.NewError("identity and channel_id are required", codeInvalidArgument)
	}

	token, err := m.bridge.GenerateToken(req.Identity, req.ChannelID)
	if errors.Is(err, app.ErrBridgeDisabled) {
		return "", runtime.NewError("bridge tokens are disabled", codeFailedPrecondition)
	}
	if err != nil {
		logger.Error("RpcBridgeToken [Identity:%s]: Failed to generate token: %v", req.Identity, err)
		return "", runtime.NewError("internal error", codeInternal)
	}

	logger.Info("RpcBridgeToken [Identity:%s]: Issued token for channel %s", req.Identity, req.ChannelID)
	return marshalStruct(map[string]interface{}{
		"token":      token,
		"expires_in": m.cfg.BridgeTokenTTL().Seconds(),
	})
}

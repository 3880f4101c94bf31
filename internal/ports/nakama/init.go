package nakama

import (
	"context"
	"database/sql"
	"math/rand"

	"menteur/internal/app"
	"menteur/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gameModule holds what the hooks and RPCs share for the lifetime of the
// plugin: the configuration, the command service and its table registry.
type gameModule struct {
	cfg    config.GameConfig
	svc    *app.Service
	bridge *app.BridgeService
}

func newGameModule(cfg config.GameConfig, rng *rand.Rand) *gameModule {
	return &gameModule{
		cfg:    cfg,
		svc:    app.NewService(cfg, rng),
		bridge: app.NewBridgeService(cfg.BridgeSecret, cfg.BridgeIssuer, cfg.BridgeTokenTTL()),
	}
}

// InitModule loads the game configuration and wires the chat hook and RPCs
// for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if env == nil {
		env = map[string]string{}
	}
	cfg, err := config.Load(config.DefaultPath, env)
	if err != nil {
		logger.Error("InitModule: Failed to load game config: %v", err)
		return err
	}

	m := newGameModule(*cfg, nil)
	if err := m.register(initializer); err != nil {
		logger.Error("InitModule: Failed to register handlers: %v", err)
		return err
	}
	if !m.bridge.Enabled() {
		logger.Warn("InitModule: Bridge secret missing, %s will only accept authenticated users.", RpcCommand)
	}

	logger.WithFields(map[string]interface{}{
		"prefix": cfg.CommandPrefix,
		"locale": cfg.Locale,
	}).Info("Menteur Go module loaded.")
	return nil
}

func (m *gameModule) register(initializer runtime.Initializer) error {
	if err := initializer.RegisterAfterRt(hookChannelMessageSend, m.afterChannelMessageSend); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcCommand, m.rpcCommand); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcBridgeToken, m.rpcBridgeToken)
}

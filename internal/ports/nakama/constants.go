package nakama

const (
	// RpcCommand runs one chat command for an authenticated user or a bridge token holder.
	RpcCommand = "menteur_command"

	// RpcBridgeToken issues a bridge token for a gateway user and a channel.
	// It is only callable server to server.
	RpcBridgeToken = "menteur_bridge_token"

	// hookChannelMessageSend is the realtime message the chat hook listens to.
	hookChannelMessageSend = "ChannelMessageSend"
)

// Private replies are delivered as notifications.
const (
	NotificationCodeWhisper = 1001
	notificationSubject     = "menteur"
)

// Error codes for runtime.NewError, following gRPC status codes.
const (
	codeInvalidArgument    = 3
	codePermissionDenied   = 7
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnauthenticated    = 16
)

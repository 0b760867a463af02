package consts

const (
	ChannelCacheKey   = "courier:channel:owner:"
	TokenRevokedKey   = "courier:token:revoked:"
	ChannelCacheScope = "channel"
)

package consts

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

const (
	ChannelStatusEnabled = "1"
)

const (
	DateLayout = "2006-01-02"
)

// BaseURL gin.Context 中分页链接前缀的 Key
const BaseURL = "base_url"

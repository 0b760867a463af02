package api

import "Courier/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ConversationHandler *handler.ConversationHandler
	CampaignHandler     *handler.CampaignHandler
	ChannelHandler      *handler.ChannelHandler
	WalletHandler       *handler.WalletHandler
	ReportHandler       *handler.ReportHandler
}

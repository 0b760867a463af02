package api

import (
	"Courier/internal/api/config"
	"Courier/internal/api/middleware"
	"Courier/internal/pkg/consts"
	"Courier/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
)

// SetupRouter 注册全部报表接口；rdb 可为 nil，此时不检查 Token 吊销
func SetupRouter(group *HandlersGroup, rdb redisv9.Cmdable, cfg *config.Config) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, logger.LogFormat{Index: cfg.Log.Index, Token: cfg.Log.Token})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		v1 := apiGroup.Group("/v1")
		v1.Use(middleware.AuthMiddleware(rdb), middleware.CommonMiddleware(cfg.Server.BaseURL))
		{
			conversationGroup := v1.Group("/conversations")
			{
				conversationGroup.GET("", group.ConversationHandler.GetInbox)
				conversationGroup.GET("/:contact_id/messages", group.ConversationHandler.GetTimeline)
			}

			campaignGroup := v1.Group("/campaigns")
			{
				campaignGroup.GET("", group.CampaignHandler.GetCampaigns)
				campaignGroup.GET("/:campaign_id/reports", group.CampaignHandler.GetCampaignReports)
			}

			channelGroup := v1.Group("/channels")
			{
				channelGroup.GET("", group.ChannelHandler.GetChannels)
				channelGroup.DELETE("/cache", group.ChannelHandler.InvalidateOwn)
			}

			walletGroup := v1.Group("/wallet")
			{
				walletGroup.GET("/transactions", group.WalletHandler.GetTransactions)
			}

			reportGroup := v1.Group("/reports")
			{
				reportGroup.GET("/delivery", group.ReportHandler.GetDeliverySummary)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := v1.Group("/admin")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.DELETE("/channels/cache", group.ChannelHandler.ClearAll)
				adminGroup.GET("/reports/billing", group.ReportHandler.GetBilling)
			}
		}
	}

	return r
}

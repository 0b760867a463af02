package wire

import (
	"Courier/internal/api"
	"Courier/internal/api/config"
	"Courier/internal/api/dto"
	"Courier/internal/api/handler"
	"Courier/internal/job"
	"Courier/internal/pkg/cache"
	"Courier/internal/pkg/consts"
	"Courier/internal/pkg/cron"
	"Courier/internal/pkg/kafka"
	"Courier/internal/repository"
	"Courier/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager // kafka.enable 为 false 时为 nil
	CronMgr      *cron.Manager
}

// BuildApplication rdb 为 nil 时缓存只有本地一级，且不检查 Token 吊销
func BuildApplication(db *gorm.DB, rdb *redisv9.Client, cfg *config.Config) (*ApplicationContainer, error) {
	var cmd redisv9.Cmdable
	if rdb != nil {
		cmd = rdb
	}

	queryTimeout := cfg.DB.QueryTimeoutDuration()
	strategy := repository.ParseStrategy(cfg.Report.Strategy)
	log.Info("report pipeline configured", "strategy", strategy, "query_timeout", queryTimeout)

	conversationRepo := repository.NewConversationRepo(db, queryTimeout)
	conversationAggregator := repository.NewConversationAggregator(db, strategy, queryTimeout)
	campaignRepo := repository.NewCampaignRepo(db, queryTimeout)
	channelRepo := repository.NewChannelRepo(db, queryTimeout)
	walletRepo := repository.NewWalletRepo(db, queryTimeout)
	reportRepo := repository.NewReportRepo(db, queryTimeout)

	channelTTL := cfg.Report.ChannelCacheTTLDuration()
	cacheOpts := []cache.Option[uint64, []*dto.ChannelDTO]{
		cache.WithLoadTimeout[uint64, []*dto.ChannelDTO](queryTimeout),
	}
	if cmd != nil {
		cacheOpts = append(cacheOpts, cache.WithTier[uint64, []*dto.ChannelDTO](
			cache.NewRedisTier[uint64, []*dto.ChannelDTO](cmd, consts.ChannelCacheKey, channelTTL)))
	}
	channelCache := cache.NewTTLCache(consts.ChannelCacheScope, channelTTL, service.ChannelLoader(channelRepo), cacheOpts...)

	normalizer := service.NewFilterNormalizer(cfg.Report)
	channelService := service.NewChannelService(channelCache)
	conversationService := service.NewConversationService(normalizer, conversationRepo, conversationAggregator, channelService)
	campaignService := service.NewCampaignService(normalizer, campaignRepo)
	walletService := service.NewWalletService(normalizer, walletRepo)
	reportService := service.NewReportService(normalizer, reportRepo)

	handlers := &api.HandlersGroup{
		ConversationHandler: handler.NewConversationHandler(conversationService),
		CampaignHandler:     handler.NewCampaignHandler(campaignService),
		ChannelHandler:      handler.NewChannelHandler(channelService),
		WalletHandler:       handler.NewWalletHandler(walletService),
		ReportHandler:       handler.NewReportHandler(reportService),
	}

	router := api.SetupRouter(handlers, cmd, cfg)

	cronMgr := cron.NewCronManager(cfg.Cron.CachePurge, job.NewCachePurgeJob(consts.ChannelCacheScope, channelService))

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, channelService)
		if err != nil {
			return nil, err
		}
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}

package kafka

import (
	"context"
	log "log/slog"
	"strings"

	"github.com/IBM/sarama"
)

const channelTable = "channels"

// ChannelCacheInvalidator 发送号码缓存的失效入口
type ChannelCacheInvalidator interface {
	Invalidate(ctx context.Context, ownerID uint64)
	InvalidateAll(ctx context.Context)
}

// ChannelHandler 订阅 channels 表的 binlog，号码变化后立即清理所属账号的缓存
type ChannelHandler struct {
	invalidator ChannelCacheInvalidator
}

func NewChannelHandler(invalidator ChannelCacheInvalidator) *ChannelHandler {
	return &ChannelHandler{
		invalidator: invalidator,
	}
}

func (s *ChannelHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("channel consumer setup")
	return nil
}

func (s *ChannelHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("channel consumer cleanup")
	return nil
}

func (s *ChannelHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-channels consume claim", "partition", claim.Partition())
	if err := pullMessageBatch(session, claim, s.logic); err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	log.Info("topic-channels consume claim end", "partition", claim.Partition())
	return nil
}

func (s *ChannelHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, channelTable)
	if err != nil {
		return err
	}
	s.apply(ctx, canalMsg)
	return nil
}

// apply 表结构变更或 TRUNCATE 无法定位账号，直接清空
func (s *ChannelHandler) apply(ctx context.Context, canalMsg *CanalMessage) {
	if canalMsg.IsDDL || strings.EqualFold(canalMsg.Type, "TRUNCATE") {
		s.invalidator.InvalidateAll(ctx)
		return
	}

	for _, ownerID := range canalMsg.Uint64Values("user_id") {
		s.invalidator.Invalidate(ctx, ownerID)
	}
}

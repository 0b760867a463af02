package kafka

import (
	"Courier/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	channelConsumer sarama.ConsumerGroup
	channelHandler  sarama.ConsumerGroupHandler
	channelTopic    string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, invalidator ChannelCacheInvalidator) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	channelConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaChannelConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		channelConsumer: channelConsumer,
		channelHandler:  NewChannelHandler(invalidator),
		channelTopic:    cfg.KafkaChannelConsumer.Topic,
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.channelConsumer.Errors() {
			log.Error("channel consumer error", "err", err)
		}
	}()

	go func() {
		log.Info("Channel consumer started", "topic", m.channelTopic)
		for {
			if err := m.channelConsumer.Consume(ctx, []string{m.channelTopic}, m.channelHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.channelConsumer.Close(); err != nil {
		log.Error("Failed to close channel consumer", "err", err)
	}

	return nil
}

package kafka

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second

	retryInitial = 100 * time.Millisecond
	retryMax     = 5 * time.Second
)

// ErrSkipMessage 消息本身有问题，重试没有意义，记录后直接提交位点
var ErrSkipMessage = errors.New("skip message")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session.Context(), session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session.Context(), session, batch, logic)
				// 清空缓冲区 & 重置定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session.Context(), session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// offsetMarker sarama.ConsumerGroupSession 中提交位点的部分，自动提交已关闭
type offsetMarker interface {
	MarkMessage(msg *sarama.ConsumerMessage, metadata string)
	Commit()
}

// processBatch 并发处理一批消息，全部完成后提交最后一条的位点
func processBatch(ctx context.Context, marker offsetMarker, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			retryWithBackoff(ctx, m, logic)
		}(msg)
	}

	wg.Wait()

	if ctx.Err() != nil {
		return
	}
	if len(messages) > 0 {
		marker.MarkMessage(messages[len(messages)-1], "")
		marker.Commit()
	}
}

func retryWithBackoff(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	interval := retryInitial
	for {
		err := logic(ctx, m)
		if err == nil {
			return
		}
		if errors.Is(err, ErrSkipMessage) {
			log.WarnContext(ctx, "skip kafka message", "topic", m.Topic, "offset", m.Offset, "err", err)
			return
		}

		log.ErrorContext(ctx, "process message error", "topic", m.Topic, "offset", m.Offset, "err", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
		interval = min(interval*2, retryMax)
	}
}

// ToCanalMessage 将kafka消息转换为canal消息结构体，格式或表名不符时返回 ErrSkipMessage
func ToCanalMessage(msg *sarama.ConsumerMessage, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(msg.Value, &canalMsg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal canal message: %v", ErrSkipMessage, err)
	}

	if canalMsg.Table != tableName {
		return nil, fmt.Errorf("%w: table %q, want %q", ErrSkipMessage, canalMsg.Table, tableName)
	}

	return &canalMsg, nil
}

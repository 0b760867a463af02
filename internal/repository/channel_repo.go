package repository

import (
	"Courier/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type ChannelRepo interface {
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Channel, error)
}

type channelRepoImpl struct {
	store
}

func NewChannelRepo(db *gorm.DB, timeout time.Duration) ChannelRepo {
	return &channelRepoImpl{store: newStore(db, timeout)}
}

// ListByOwner 账号下全部发送号码
func (s *channelRepoImpl) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Channel, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	channels := make([]*model.Channel, 0)
	if err := db.Where("user_id = ?", ownerID).Order("id ASC").Find(&channels).Error; err != nil {
		return nil, wrapErr(err, "list channels")
	}
	return channels, nil
}

package service

import (
	"Courier/internal/api/dto"
	"Courier/internal/pkg/cache"
	"Courier/internal/repository"
	"context"
	log "log/slog"
)

type ChannelService interface {
	GetChannels(ctx context.Context, ownerID uint64) ([]*dto.ChannelDTO, error)
	Invalidate(ctx context.Context, ownerID uint64)
	InvalidateAll(ctx context.Context)
	PurgeExpired() int
}

type channelServiceImpl struct {
	cache *cache.TTLCache[uint64, []*dto.ChannelDTO]
}

// ChannelLoader 缓存回源函数
func ChannelLoader(channelRepo repository.ChannelRepo) cache.Loader[uint64, []*dto.ChannelDTO] {
	return func(ctx context.Context, ownerID uint64) ([]*dto.ChannelDTO, error) {
		channels, err := channelRepo.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return assembleChannels(channels), nil
	}
}

func NewChannelService(c *cache.TTLCache[uint64, []*dto.ChannelDTO]) ChannelService {
	return &channelServiceImpl{cache: c}
}

// GetChannels 读穿透缓存，TTL 内允许读到旧数据
func (s *channelServiceImpl) GetChannels(ctx context.Context, ownerID uint64) ([]*dto.ChannelDTO, error) {
	if ownerID == 0 {
		return nil, ErrOwnerMissing
	}
	return s.cache.Get(ctx, ownerID)
}

func (s *channelServiceImpl) Invalidate(ctx context.Context, ownerID uint64) {
	s.cache.Invalidate(ctx, ownerID)
	log.InfoContext(ctx, "channel cache invalidated", "owner_id", ownerID)
}

func (s *channelServiceImpl) InvalidateAll(ctx context.Context) {
	s.cache.Clear(ctx)
	log.InfoContext(ctx, "channel cache cleared")
}

func (s *channelServiceImpl) PurgeExpired() int {
	return s.cache.Purge()
}

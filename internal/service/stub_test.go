package service

import (
	"Courier/internal/api/dto"
	"Courier/internal/model"
	"Courier/internal/repository"
	"context"
	"sync/atomic"
)

type stubConversationRepo struct {
	selectFn   func(ctx context.Context, f *model.ReportFilter) ([]*model.ConversationCandidate, error)
	countFn    func(ctx context.Context, f *model.ReportFilter) (int64, error)
	statsFn    func(ctx context.Context, ownerID uint64, ids []uint64) (map[uint64]*model.ConversationStats, error)
	contactFn  func(ctx context.Context, ownerID, contactID uint64) (*model.Contact, error)
	timelineFn func(ctx context.Context, contactID uint64, f *model.ReportFilter) ([]*model.Message, error)
	timeCntFn  func(ctx context.Context, contactID uint64, f *model.ReportFilter) (int64, error)

	countCalls atomic.Int32
}

func (s *stubConversationRepo) SelectCandidates(ctx context.Context, f *model.ReportFilter) ([]*model.ConversationCandidate, error) {
	if s.selectFn != nil {
		return s.selectFn(ctx, f)
	}
	return nil, nil
}

func (s *stubConversationRepo) CountCandidates(ctx context.Context, f *model.ReportFilter) (int64, error) {
	s.countCalls.Add(1)
	if s.countFn != nil {
		return s.countFn(ctx, f)
	}
	return 0, nil
}

func (s *stubConversationRepo) GetStats(ctx context.Context, ownerID uint64, ids []uint64) (map[uint64]*model.ConversationStats, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx, ownerID, ids)
	}
	return map[uint64]*model.ConversationStats{}, nil
}

func (s *stubConversationRepo) GetContact(ctx context.Context, ownerID, contactID uint64) (*model.Contact, error) {
	if s.contactFn != nil {
		return s.contactFn(ctx, ownerID, contactID)
	}
	return &model.Contact{ID: contactID, UserID: ownerID}, nil
}

func (s *stubConversationRepo) SelectTimeline(ctx context.Context, contactID uint64, f *model.ReportFilter) ([]*model.Message, error) {
	if s.timelineFn != nil {
		return s.timelineFn(ctx, contactID, f)
	}
	return nil, nil
}

func (s *stubConversationRepo) CountTimeline(ctx context.Context, contactID uint64, f *model.ReportFilter) (int64, error) {
	if s.timeCntFn != nil {
		return s.timeCntFn(ctx, contactID, f)
	}
	return 0, nil
}

type stubAggregator struct {
	aggregateFn func(ctx context.Context, ownerID uint64, candidates []*model.ConversationCandidate) (*model.ConversationAggregates, error)
	calls       atomic.Int32
}

func (s *stubAggregator) Aggregate(ctx context.Context, ownerID uint64, candidates []*model.ConversationCandidate) (*model.ConversationAggregates, error) {
	s.calls.Add(1)
	if s.aggregateFn != nil {
		return s.aggregateFn(ctx, ownerID, candidates)
	}
	return model.NewConversationAggregates(), nil
}

func (s *stubAggregator) Strategy() repository.Strategy {
	return repository.StrategyBatched
}

type stubChannelService struct {
	channels []*dto.ChannelDTO
	err      error
}

func (s *stubChannelService) GetChannels(context.Context, uint64) ([]*dto.ChannelDTO, error) {
	return s.channels, s.err
}

func (s *stubChannelService) Invalidate(context.Context, uint64) {}
func (s *stubChannelService) InvalidateAll(context.Context)      {}
func (s *stubChannelService) PurgeExpired() int                  { return 0 }

package service

import (
	"Courier/internal/api/dto"
	"Courier/internal/model"
	"Courier/internal/pkg/pagination"
	"Courier/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ConversationService interface {
	GetInbox(ctx context.Context, q ReportQuery) (*dto.InboxPage, error)
	GetTimeline(ctx context.Context, q ReportQuery, contactID uint64) (*dto.TimelinePage, error)
}

type conversationServiceImpl struct {
	normalizer *FilterNormalizer
	convRepo   repository.ConversationRepo
	aggregator repository.ConversationAggregator
	channelSvc ChannelService
}

func NewConversationService(
	normalizer *FilterNormalizer,
	convRepo repository.ConversationRepo,
	aggregator repository.ConversationAggregator,
	channelSvc ChannelService,
) ConversationService {
	return &conversationServiceImpl{
		normalizer: normalizer,
		convRepo:   convRepo,
		aggregator: aggregator,
		channelSvc: channelSvc,
	}
}

// GetInbox 收件箱：每个有消息的联系人一行，附带账号的发送号码
func (s *conversationServiceImpl) GetInbox(ctx context.Context, q ReportQuery) (*dto.InboxPage, error) {
	f, err := s.normalizer.NormalizeFilter(ctx, q)
	if err != nil {
		return nil, err
	}

	var (
		res      *pageResult[*model.ConversationCandidate, *model.ConversationAggregates]
		channels []*dto.ChannelDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = runPage(gctx, f, pageSource[*model.ConversationCandidate, *model.ConversationAggregates]{
			selectPage: s.convRepo.SelectCandidates,
			count:      s.convRepo.CountCandidates,
			aggregate: func(ctx context.Context, candidates []*model.ConversationCandidate) (*model.ConversationAggregates, error) {
				return s.aggregator.Aggregate(ctx, f.OwnerID, candidates)
			},
		})
		return err
	})
	g.Go(func() error {
		// 缓存层的问题不影响收件箱本身
		list, err := s.channelSvc.GetChannels(gctx, f.OwnerID)
		if err != nil {
			log.WarnContext(ctx, "load channels for inbox failed", "owner_id", f.OwnerID, "err", err)
			list = []*dto.ChannelDTO{}
		}
		channels = list
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return &dto.InboxPage{
		Meta:     pagination.Build(q.Path, f.Page, f.PerPage, res.total),
		Items:    assembleConversations(res.candidates, res.aggregates),
		Channels: channels,
	}, nil
}

// GetTimeline 单个联系人的消息时间线，页头未读数与收件箱使用同一统计查询
func (s *conversationServiceImpl) GetTimeline(ctx context.Context, q ReportQuery, contactID uint64) (*dto.TimelinePage, error) {
	f, err := s.normalizer.NormalizeFilter(ctx, q)
	if err != nil {
		return nil, err
	}
	if contactID == 0 {
		return nil, ErrParamInvalid
	}

	contact, err := s.convRepo.GetContact(ctx, f.OwnerID, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	var (
		res   *pageResult[*model.Message, struct{}]
		stats map[uint64]*model.ConversationStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = runPage(gctx, f, pageSource[*model.Message, struct{}]{
			selectPage: func(ctx context.Context, f *model.ReportFilter) ([]*model.Message, error) {
				return s.convRepo.SelectTimeline(ctx, contactID, f)
			},
			count: func(ctx context.Context, f *model.ReportFilter) (int64, error) {
				return s.convRepo.CountTimeline(ctx, contactID, f)
			},
		})
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.convRepo.GetStats(gctx, f.OwnerID, []uint64{contactID})
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	page := &dto.TimelinePage{
		Meta:  pagination.Build(q.Path, f.Page, f.PerPage, res.total),
		Items: assembleTimeline(res.candidates),
	}
	_ = copyContact(&page.Contact, contact)
	if st, ok := stats[contactID]; ok {
		page.UnreadCount = max(st.UnreadCount, 0)
		if st.LastActivity > 0 {
			last := st.LastActivity
			page.LastActivity = &last
		}
	}
	return page, nil
}

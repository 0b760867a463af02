package service

import (
	"Courier/internal/api/dto"
	"Courier/internal/model"
	"Courier/internal/pkg/pagination"
	"Courier/internal/repository"
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type CampaignService interface {
	GetCampaigns(ctx context.Context, q ReportQuery) (*dto.CampaignPage, error)
	GetCampaignReports(ctx context.Context, q ReportQuery, campaignID uint64) (*dto.CampaignDetailPage, error)
}

type campaignServiceImpl struct {
	normalizer   *FilterNormalizer
	campaignRepo repository.CampaignRepo
}

func NewCampaignService(normalizer *FilterNormalizer, campaignRepo repository.CampaignRepo) CampaignService {
	return &campaignServiceImpl{
		normalizer:   normalizer,
		campaignRepo: campaignRepo,
	}
}

// GetCampaigns 群发历史，每行附带投递状态分桶
func (s *campaignServiceImpl) GetCampaigns(ctx context.Context, q ReportQuery) (*dto.CampaignPage, error) {
	f, err := s.normalizer.NormalizeFilter(ctx, q)
	if err != nil {
		return nil, err
	}

	res, err := runPage(ctx, f, pageSource[*model.Campaign, map[uint64]*model.CampaignRollup]{
		selectPage: s.campaignRepo.SelectCampaigns,
		count:      s.campaignRepo.CountCampaigns,
		aggregate: func(ctx context.Context, campaigns []*model.Campaign) (map[uint64]*model.CampaignRollup, error) {
			ids := make([]uint64, 0, len(campaigns))
			for _, c := range campaigns {
				ids = append(ids, c.ID)
			}
			return s.campaignRepo.GetRollups(ctx, f.OwnerID, ids)
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CampaignItem, 0, len(res.candidates))
	for _, c := range res.candidates {
		items = append(items, assembleCampaign(c, res.aggregates[c.ID]))
	}

	return &dto.CampaignPage{
		Meta:  pagination.Build(q.Path, f.Page, f.PerPage, res.total),
		Items: items,
	}, nil
}

// GetCampaignReports 群发详情：校验归属后分页返回投递记录
func (s *campaignServiceImpl) GetCampaignReports(ctx context.Context, q ReportQuery, campaignID uint64) (*dto.CampaignDetailPage, error) {
	f, err := s.normalizer.NormalizeFilter(ctx, q)
	if err != nil {
		return nil, err
	}
	if campaignID == 0 {
		return nil, ErrParamInvalid
	}

	campaign, err := s.campaignRepo.GetCampaign(ctx, f.OwnerID, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}

	var (
		res     *pageResult[*model.DeliveryReport, struct{}]
		rollups map[uint64]*model.CampaignRollup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = runPage(gctx, f, pageSource[*model.DeliveryReport, struct{}]{
			selectPage: func(ctx context.Context, f *model.ReportFilter) ([]*model.DeliveryReport, error) {
				return s.campaignRepo.SelectReports(ctx, campaignID, f)
			},
			count: func(ctx context.Context, f *model.ReportFilter) (int64, error) {
				return s.campaignRepo.CountReports(ctx, campaignID, f)
			},
		})
		return err
	})
	g.Go(func() error {
		var err error
		rollups, err = s.campaignRepo.GetRollups(gctx, f.OwnerID, []uint64{campaignID})
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return &dto.CampaignDetailPage{
		Meta:     pagination.Build(q.Path, f.Page, f.PerPage, res.total),
		Campaign: *assembleCampaign(campaign, rollups[campaignID]),
		Items:    assembleReports(res.candidates),
	}, nil
}

package repository

import (
	"Courier/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type CampaignRepo interface {
	SelectCampaigns(ctx context.Context, f *model.ReportFilter) ([]*model.Campaign, error)
	CountCampaigns(ctx context.Context, f *model.ReportFilter) (int64, error)
	GetRollups(ctx context.Context, ownerID uint64, campaignIDs []uint64) (map[uint64]*model.CampaignRollup, error)
	GetCampaign(ctx context.Context, ownerID, campaignID uint64) (*model.Campaign, error)

	SelectReports(ctx context.Context, campaignID uint64, f *model.ReportFilter) ([]*model.DeliveryReport, error)
	CountReports(ctx context.Context, campaignID uint64, f *model.ReportFilter) (int64, error)
}

type campaignRepoImpl struct {
	store
}

func NewCampaignRepo(db *gorm.DB, timeout time.Duration) CampaignRepo {
	return &campaignRepoImpl{store: newStore(db, timeout)}
}

// campaignScope 群发历史的筛选条件，列表与计数共用
func campaignScope(f *model.ReportFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		q := tx.Table("campaigns c").
			Where("c.user_id = ? AND c.deleted_at IS NULL", f.OwnerID)

		if f.HasSearch() {
			pattern := f.SearchPattern()
			q = q.Where("(LOWER(c.name) LIKE ? ESCAPE '!' OR EXISTS ("+
				"SELECT 1 FROM delivery_reports r WHERE r.campaign_id = c.id AND r.mobile LIKE ? ESCAPE '!'))",
				pattern, pattern)
		}
		if f.Platform != "" {
			q = q.Where("EXISTS (SELECT 1 FROM delivery_reports r WHERE r.campaign_id = c.id AND r.platform = ?)", f.Platform)
		}

		switch f.State {
		case model.CampaignStatePending, model.CampaignStateFailed:
			q = q.Where("EXISTS (SELECT 1 FROM delivery_reports r WHERE r.campaign_id = c.id AND r.status = ?)", string(f.State))
		case model.CampaignStateCompleted:
			q = q.Where("NOT EXISTS (SELECT 1 FROM delivery_reports r WHERE r.campaign_id = c.id AND r.status = ?)", model.ReportStatusPending)
		}

		if f.From != nil {
			q = q.Where("c.created_at >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("c.created_at < ?", *f.To)
		}
		return q
	}
}

// SelectCampaigns 按 ID 倒序取一页群发任务
func (s *campaignRepoImpl) SelectCampaigns(ctx context.Context, f *model.ReportFilter) ([]*model.Campaign, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	campaigns := make([]*model.Campaign, 0, f.Limit)
	err := db.Scopes(campaignScope(f)).
		Select("c.*").
		Order("c.id DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&campaigns).Error
	if err != nil {
		return nil, wrapErr(err, "select campaigns")
	}
	return campaigns, nil
}

func (s *campaignRepoImpl) CountCampaigns(ctx context.Context, f *model.ReportFilter) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var total int64
	err := db.Scopes(campaignScope(f)).
		Select("COUNT(DISTINCT c.id)").
		Scan(&total).Error
	if err != nil {
		return 0, wrapErr(err, "count campaigns")
	}
	return total, nil
}

type rollupRow struct {
	CampaignID uint64
	Status     string
	Cnt        int64
}

// GetRollups 一次 GROUP BY 得到整页群发任务的投递分桶
func (s *campaignRepoImpl) GetRollups(ctx context.Context, ownerID uint64, campaignIDs []uint64) (map[uint64]*model.CampaignRollup, error) {
	result := make(map[uint64]*model.CampaignRollup, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return result, nil
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var rows []*rollupRow
	err := db.Model(&model.DeliveryReport{}).
		Select("campaign_id, status, COUNT(*) AS cnt").
		Where("user_id = ? AND campaign_id IN ?", ownerID, campaignIDs).
		Group("campaign_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr(err, "campaign rollups")
	}

	for _, id := range campaignIDs {
		result[id] = &model.CampaignRollup{CampaignID: id}
	}
	for _, row := range rows {
		rollup, ok := result[row.CampaignID]
		if !ok {
			continue
		}
		rollup.Add(row.Status, row.Cnt)
	}
	return result, nil
}

// GetCampaign 获取属于该账号的群发任务
func (s *campaignRepoImpl) GetCampaign(ctx context.Context, ownerID, campaignID uint64) (*model.Campaign, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var campaign model.Campaign
	if err := db.Where("id = ? AND user_id = ?", campaignID, ownerID).First(&campaign).Error; err != nil {
		return nil, wrapErr(err, "get campaign")
	}
	return &campaign, nil
}

func reportScope(campaignID uint64, f *model.ReportFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		q := tx.Model(&model.DeliveryReport{}).
			Where("user_id = ? AND campaign_id = ?", f.OwnerID, campaignID)
		if f.HasSearch() {
			q = q.Where("mobile LIKE ? ESCAPE '!'", f.SearchPattern())
		}
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.Platform != "" {
			q = q.Where("platform = ?", f.Platform)
		}
		if f.From != nil {
			q = q.Where("created_at >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("created_at < ?", *f.To)
		}
		return q
	}
}

// SelectReports 群发详情中的投递记录，按 ID 倒序
func (s *campaignRepoImpl) SelectReports(ctx context.Context, campaignID uint64, f *model.ReportFilter) ([]*model.DeliveryReport, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	reports := make([]*model.DeliveryReport, 0, f.Limit)
	err := db.Scopes(reportScope(campaignID, f)).
		Order("id DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&reports).Error
	if err != nil {
		return nil, wrapErr(err, "select reports")
	}
	return reports, nil
}

func (s *campaignRepoImpl) CountReports(ctx context.Context, campaignID uint64, f *model.ReportFilter) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var total int64
	if err := db.Scopes(reportScope(campaignID, f)).Count(&total).Error; err != nil {
		return 0, wrapErr(err, "count reports")
	}
	return total, nil
}

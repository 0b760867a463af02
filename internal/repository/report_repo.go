package repository

import (
	"Courier/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ReportRepo 按时间段汇总的投递与计费报表，不分页
type ReportRepo interface {
	DeliverySummary(ctx context.Context, f *model.ReportFilter) ([]*model.CampaignDeliverySummary, error)
	Billing(ctx context.Context, from, to *time.Time) ([]*model.BillingLine, error)
}

type reportRepoImpl struct {
	store
}

func NewReportRepo(db *gorm.DB, timeout time.Duration) ReportRepo {
	return &reportRepoImpl{store: newStore(db, timeout)}
}

func createdBetween(q *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where(column+" >= ?", *from)
	}
	if to != nil {
		q = q.Where(column+" < ?", *to)
	}
	return q
}

type deliveryRow struct {
	CampaignID uint64
	Name       string
	Status     string
	Cnt        int64
}

// DeliverySummary 一次 GROUP BY 得到时间段内各群发任务的投递分桶，按任务 ID 倒序
func (s *reportRepoImpl) DeliverySummary(ctx context.Context, f *model.ReportFilter) ([]*model.CampaignDeliverySummary, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	q := db.Table("delivery_reports r").
		Select("c.id AS campaign_id, c.name AS name, r.status AS status, COUNT(r.id) AS cnt").
		Joins("JOIN campaigns c ON c.id = r.campaign_id AND c.deleted_at IS NULL").
		Where("c.user_id = ? AND r.user_id = ?", f.OwnerID, f.OwnerID)
	if f.HasSearch() {
		q = q.Where("LOWER(c.name) LIKE ? ESCAPE '!'", f.SearchPattern())
	}
	if f.Platform != "" {
		q = q.Where("r.platform = ?", f.Platform)
	}
	q = createdBetween(q, "r.created_at", f.From, f.To)

	var rows []*deliveryRow
	err := q.Group("c.id, c.name, r.status").
		Order("c.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr(err, "delivery summary")
	}

	summaries := make([]*model.CampaignDeliverySummary, 0)
	index := make(map[uint64]*model.CampaignDeliverySummary)
	for _, row := range rows {
		sum, ok := index[row.CampaignID]
		if !ok {
			sum = &model.CampaignDeliverySummary{
				CampaignID: row.CampaignID,
				Name:       row.Name,
				Rollup:     model.CampaignRollup{CampaignID: row.CampaignID},
			}
			index[row.CampaignID] = sum
			summaries = append(summaries, sum)
		}
		sum.Rollup.Add(row.Status, row.Cnt)
	}
	return summaries, nil
}

// Billing 时间段内各账号已送达条数与单价，跨账号，仅供管理员
func (s *reportRepoImpl) Billing(ctx context.Context, from, to *time.Time) ([]*model.BillingLine, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	q := db.Table("delivery_reports r").
		Select("u.id AS user_id, u.name AS name, u.market_msg_charge AS rate, "+
			"COALESCE(SUM(CASE WHEN r.status IN ? THEN 1 ELSE 0 END), 0) AS delivered_count",
			[]string{model.ReportStatusDelivered, model.ReportStatusRead}).
		Joins("JOIN users u ON u.id = r.user_id AND u.deleted_at IS NULL")
	q = createdBetween(q, "r.created_at", from, to)

	lines := make([]*model.BillingLine, 0)
	err := q.Group("u.id, u.name, u.market_msg_charge").
		Order("u.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, wrapErr(err, "billing report")
	}
	return lines, nil
}

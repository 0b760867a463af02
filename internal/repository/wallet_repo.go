package repository

import (
	"Courier/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type WalletRepo interface {
	SelectTransactions(ctx context.Context, f *model.ReportFilter) ([]*model.WalletTransaction, error)
	CountTransactions(ctx context.Context, f *model.ReportFilter) (int64, error)
	GetCampaignNames(ctx context.Context, ownerID uint64, campaignIDs []uint64) (map[uint64]string, error)
	GetTotals(ctx context.Context, ownerID uint64) (*model.WalletTotals, error)
}

type walletRepoImpl struct {
	store
}

func NewWalletRepo(db *gorm.DB, timeout time.Duration) WalletRepo {
	return &walletRepoImpl{store: newStore(db, timeout)}
}

// walletScope 钱包流水的筛选条件，列表与计数共用
func walletScope(f *model.ReportFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		q := tx.Table("wallets w").
			Where("w.user_id = ? AND w.deleted_at IS NULL", f.OwnerID)

		if f.HasSearch() {
			q = q.Where("EXISTS (SELECT 1 FROM campaigns c WHERE c.id = w.broadcast_id AND LOWER(c.name) LIKE ? ESCAPE '!')",
				f.SearchPattern())
		}

		switch f.WalletKind {
		case model.WalletKindDebit:
			q = q.Where("w.type = ?", model.WalletTypeDebit)
		case model.WalletKindCredit:
			q = q.Where("w.type = ? AND w.broadcast_id IS NULL", model.WalletTypeCredit)
		case model.WalletKindRefund:
			q = q.Where("w.type = ? AND w.broadcast_id IS NOT NULL", model.WalletTypeCredit)
		}
		if f.Status != "" {
			q = q.Where("w.status = ?", f.Status)
		}

		if f.From != nil {
			q = q.Where("w.created_at >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("w.created_at < ?", *f.To)
		}
		return q
	}
}

// SelectTransactions 按时间倒序取一页流水，同一时刻按 ID 倒序
func (s *walletRepoImpl) SelectTransactions(ctx context.Context, f *model.ReportFilter) ([]*model.WalletTransaction, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	txs := make([]*model.WalletTransaction, 0, f.Limit)
	err := db.Scopes(walletScope(f)).
		Select("w.*").
		Order("w.created_at DESC, w.id DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&txs).Error
	if err != nil {
		return nil, wrapErr(err, "select wallet transactions")
	}
	return txs, nil
}

func (s *walletRepoImpl) CountTransactions(ctx context.Context, f *model.ReportFilter) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var total int64
	err := db.Scopes(walletScope(f)).
		Select("COUNT(DISTINCT w.id)").
		Scan(&total).Error
	if err != nil {
		return 0, wrapErr(err, "count wallet transactions")
	}
	return total, nil
}

type campaignNameRow struct {
	ID   uint64
	Name string
}

// GetCampaignNames 流水关联的群发任务名称，已删除的任务也保留名称
func (s *walletRepoImpl) GetCampaignNames(ctx context.Context, ownerID uint64, campaignIDs []uint64) (map[uint64]string, error) {
	names := make(map[uint64]string, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return names, nil
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var rows []*campaignNameRow
	err := db.Unscoped().Model(&model.Campaign{}).
		Select("id, name").
		Where("user_id = ? AND id IN ?", ownerID, campaignIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr(err, "wallet campaign names")
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// GetTotals 一次 SUM 得到账号的支出、收入与余额
func (s *walletRepoImpl) GetTotals(ctx context.Context, ownerID uint64) (*model.WalletTotals, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var totals model.WalletTotals
	err := db.Model(&model.WalletTransaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS debit, "+
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS credit",
			model.WalletTypeDebit, model.WalletTypeCredit).
		Where("user_id = ?", ownerID).
		Scan(&totals).Error
	if err != nil {
		return nil, wrapErr(err, "wallet totals")
	}
	totals.Balance = totals.Credit - totals.Debit
	return &totals, nil
}

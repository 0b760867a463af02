package service

import (
	"Courier/internal/api/dto"
	"Courier/internal/model"
	"Courier/internal/pkg/pagination"
	"Courier/internal/repository"
	"context"

	"golang.org/x/sync/errgroup"
)

type WalletService interface {
	GetTransactions(ctx context.Context, q ReportQuery) (*dto.WalletHistoryPage, error)
}

type walletServiceImpl struct {
	normalizer *FilterNormalizer
	walletRepo repository.WalletRepo
}

func NewWalletService(normalizer *FilterNormalizer, walletRepo repository.WalletRepo) WalletService {
	return &walletServiceImpl{
		normalizer: normalizer,
		walletRepo: walletRepo,
	}
}

// GetTransactions 钱包流水分页，汇总值覆盖账号全部流水，与当前筛选无关
func (s *walletServiceImpl) GetTransactions(ctx context.Context, q ReportQuery) (*dto.WalletHistoryPage, error) {
	f, err := s.normalizer.NormalizeFilter(ctx, q)
	if err != nil {
		return nil, err
	}

	var (
		res    *pageResult[*model.WalletTransaction, map[uint64]string]
		totals *model.WalletTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = runPage(gctx, f, pageSource[*model.WalletTransaction, map[uint64]string]{
			selectPage: s.walletRepo.SelectTransactions,
			count:      s.walletRepo.CountTransactions,
			aggregate: func(ctx context.Context, txs []*model.WalletTransaction) (map[uint64]string, error) {
				return s.walletRepo.GetCampaignNames(ctx, f.OwnerID, walletCampaignIDs(txs))
			},
		})
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.walletRepo.GetTotals(gctx, f.OwnerID)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return &dto.WalletHistoryPage{
		Meta:         pagination.Build(q.Path, f.Page, f.PerPage, res.total),
		WalletTotals: *totals,
		Items:        assembleWallet(res.candidates, res.aggregates),
	}, nil
}

// walletCampaignIDs 一页流水关联的群发任务 ID，去重
func walletCampaignIDs(txs []*model.WalletTransaction) []uint64 {
	seen := make(map[uint64]struct{}, len(txs))
	ids := make([]uint64, 0, len(txs))
	for _, tx := range txs {
		if tx.CampaignID == nil {
			continue
		}
		if _, ok := seen[*tx.CampaignID]; ok {
			continue
		}
		seen[*tx.CampaignID] = struct{}{}
		ids = append(ids, *tx.CampaignID)
	}
	return ids
}

package service

import (
	"Courier/internal/api/dto"
	"Courier/internal/repository"
	"context"
)

type ReportService interface {
	GetDeliverySummary(ctx context.Context, q ReportQuery) ([]*dto.DeliverySummaryItem, error)
	GetBilling(ctx context.Context, q ReportQuery) ([]*dto.BillingItem, error)
}

type reportServiceImpl struct {
	normalizer *FilterNormalizer
	reportRepo repository.ReportRepo
}

func NewReportService(normalizer *FilterNormalizer, reportRepo repository.ReportRepo) ReportService {
	return &reportServiceImpl{
		normalizer: normalizer,
		reportRepo: reportRepo,
	}
}

// GetDeliverySummary 时间段内账号各群发任务的投递统计
func (s *reportServiceImpl) GetDeliverySummary(ctx context.Context, q ReportQuery) ([]*dto.DeliverySummaryItem, error) {
	f, err := s.normalizer.NormalizeFilter(ctx, q)
	if err != nil {
		return nil, err
	}
	summaries, err := s.reportRepo.DeliverySummary(ctx, f)
	if err != nil {
		return nil, err
	}
	return assembleDeliverySummary(summaries), nil
}

// GetBilling 时间段内全部账号的计费，调用方需具备管理员角色
func (s *reportServiceImpl) GetBilling(ctx context.Context, q ReportQuery) ([]*dto.BillingItem, error) {
	f, err := s.normalizer.NormalizeFilter(ctx, q)
	if err != nil {
		return nil, err
	}
	lines, err := s.reportRepo.Billing(ctx, f.From, f.To)
	if err != nil {
		return nil, err
	}
	return assembleBilling(lines), nil
}

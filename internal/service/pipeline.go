package service

import (
	"Courier/internal/model"
	"context"

	"golang.org/x/sync/errgroup"
)

// pageSource 一类报表的取数步骤，选择与计数必须使用同一组谓词
type pageSource[C any, A any] struct {
	selectPage func(ctx context.Context, f *model.ReportFilter) ([]C, error)
	count      func(ctx context.Context, f *model.ReportFilter) (int64, error)
	aggregate  func(ctx context.Context, candidates []C) (A, error) // 可为 nil
}

type pageResult[C any, A any] struct {
	candidates []C
	aggregates A
	total      int64
}

// runPage 选择 -> {聚合, 计数} 并行 -> 返回，供各报表组装
func runPage[C any, A any](ctx context.Context, f *model.ReportFilter, src pageSource[C, A]) (*pageResult[C, A], error) {
	candidates, err := src.selectPage(ctx, f)
	if err != nil {
		return nil, err
	}

	res := &pageResult[C, A]{candidates: candidates}

	// 首页为空时总数必为 0
	if len(candidates) == 0 && f.Offset == 0 {
		return res, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if src.aggregate != nil && len(candidates) > 0 {
		g.Go(func() error {
			agg, err := src.aggregate(gctx, candidates)
			if err != nil {
				return err
			}
			res.aggregates = agg
			return nil
		})
	}
	g.Go(func() error {
		total, err := src.count(gctx, f)
		if err != nil {
			return err
		}
		res.total = total
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

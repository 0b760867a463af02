package service

import (
	"Courier/internal/api/config"
	"Courier/internal/model"
	"Courier/internal/pkg/util"
	"context"
	log "log/slog"
	"strings"
	"time"
)

const (
	defaultPerPage      = 10
	defaultMaxPerPage   = 200
	defaultActiveWindow = 24 * time.Hour
	maxSearchRunes      = 100
)

// ReportQuery HTTP 层解析后的原始查询参数
type ReportQuery struct {
	OwnerID  uint64
	Path     string // 分页链接前缀
	Search   string
	Filter   string
	From     string
	To       string
	Page     int
	PerPage  int
	Platform string
	State    string
	Status   string

	WalletType string // 钱包流水收支类型
}

// FilterNormalizer 把原始查询参数归一化为 ReportFilter
type FilterNormalizer struct {
	defaultPerPage int
	maxPerPage     int
	activeWindow   time.Duration
	now            func() time.Time
}

func NewFilterNormalizer(cfg config.ReportConfig) *FilterNormalizer {
	n := &FilterNormalizer{
		defaultPerPage: cfg.DefaultPerPage,
		maxPerPage:     cfg.MaxPerPage,
		activeWindow:   cfg.ActiveWindow(),
		now:            time.Now,
	}
	if n.defaultPerPage <= 0 {
		n.defaultPerPage = defaultPerPage
	}
	if n.maxPerPage <= 0 {
		n.maxPerPage = defaultMaxPerPage
	}
	if n.defaultPerPage > n.maxPerPage {
		n.defaultPerPage = n.maxPerPage
	}
	if n.activeWindow <= 0 {
		n.activeWindow = defaultActiveWindow
	}
	return n
}

// WithClock 替换时钟，测试用
func (n *FilterNormalizer) WithClock(now func() time.Time) *FilterNormalizer {
	cp := *n
	cp.now = now
	return &cp
}

// NormalizeFilter 只有缺少账号标识时报错，其余非法输入一律修正并记录告警
func (n *FilterNormalizer) NormalizeFilter(ctx context.Context, q ReportQuery) (*model.ReportFilter, error) {
	if q.OwnerID == 0 {
		return nil, ErrOwnerMissing
	}

	f := &model.ReportFilter{
		OwnerID: q.OwnerID,
		Search:  n.parseSearch(ctx, q.Search),
		Kind:    n.parseKind(ctx, q.Filter),
	}

	from := n.parseDay(ctx, "from", q.From)
	to := n.parseDay(ctx, "to", q.To)
	if from != nil && to != nil && from.After(*to) {
		log.WarnContext(ctx, "date range reversed, swapping", "from", q.From, "to", q.To)
		from, to = to, from
	}
	if to != nil {
		// 结束日期按整天包含，改为次日零点的开区间
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	f.From, f.To = from, to

	if f.Kind == model.FilterActive {
		f.ActiveSince = n.now().Add(-n.activeWindow).Unix()
	}

	f.Page = q.Page
	if f.Page < 1 {
		f.Page = 1
	}
	f.PerPage = q.PerPage
	switch {
	case f.PerPage <= 0:
		f.PerPage = n.defaultPerPage
	case f.PerPage > n.maxPerPage:
		log.WarnContext(ctx, "per_page exceeds limit, clamped", "per_page", q.PerPage, "max", n.maxPerPage)
		f.PerPage = n.maxPerPage
	}
	f.Offset = (f.Page - 1) * f.PerPage
	f.Limit = f.PerPage

	f.Platform = n.parsePlatform(ctx, q.Platform)
	f.State = n.parseState(ctx, q.State)
	f.Status = strings.ToLower(strings.TrimSpace(q.Status))
	f.WalletKind = n.parseWalletKind(ctx, q.WalletType)

	return f, nil
}

func (n *FilterNormalizer) parseSearch(ctx context.Context, raw string) string {
	search := strings.TrimSpace(raw)
	if runes := []rune(search); len(runes) > maxSearchRunes {
		log.WarnContext(ctx, "search too long, truncated", "len", len(runes), "max", maxSearchRunes)
		search = strings.TrimSpace(string(runes[:maxSearchRunes]))
	}
	return search
}

func (n *FilterNormalizer) parseKind(ctx context.Context, token string) model.FilterKind {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "none", "all":
		return model.FilterNone
	case "unread":
		return model.FilterUnread
	case "active":
		return model.FilterActive
	default:
		log.WarnContext(ctx, "unknown filter token, ignored", "filter", token)
		return model.FilterNone
	}
}

func (n *FilterNormalizer) parseDay(ctx context.Context, field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	day, ok := util.ParseDay(raw)
	if !ok {
		log.WarnContext(ctx, "unparsable date, ignored", "field", field, "value", raw)
		return nil
	}
	return &day
}

func (n *FilterNormalizer) parsePlatform(ctx context.Context, raw string) string {
	switch p := strings.ToLower(strings.TrimSpace(raw)); p {
	case "":
		return ""
	case model.PlatformAPI, model.PlatformWeb:
		return p
	default:
		log.WarnContext(ctx, "unknown platform, ignored", "type", raw)
		return ""
	}
}

func (n *FilterNormalizer) parseState(ctx context.Context, raw string) model.CampaignState {
	switch s := model.CampaignState(strings.ToLower(strings.TrimSpace(raw))); s {
	case model.CampaignStateAny:
		return model.CampaignStateAny
	case model.CampaignStatePending, model.CampaignStateFailed, model.CampaignStateCompleted:
		return s
	default:
		log.WarnContext(ctx, "unknown campaign state, ignored", "state", raw)
		return model.CampaignStateAny
	}
}

func (n *FilterNormalizer) parseWalletKind(ctx context.Context, raw string) model.WalletKind {
	switch k := model.WalletKind(strings.ToLower(strings.TrimSpace(raw))); k {
	case model.WalletKindAny, model.WalletKindDebit, model.WalletKindCredit, model.WalletKindRefund:
		return k
	default:
		log.WarnContext(ctx, "unknown wallet type, ignored", "type", raw)
		return model.WalletKindAny
	}
}

package service

import (
	"Courier/internal/api/config"
	"Courier/internal/model"
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestNormalizer() *FilterNormalizer {
	return NewFilterNormalizer(config.ReportConfig{
		DefaultPerPage:    10,
		MaxPerPage:        200,
		ActiveWindowHours: 24,
	}).WithClock(func() time.Time { return fixedNow })
}

func TestNormalizeFilter_OwnerRequired(t *testing.T) {
	_, err := newTestNormalizer().NormalizeFilter(context.Background(), ReportQuery{})
	assert.ErrorIs(t, err, ErrOwnerMissing)
}

func TestNormalizeFilter_Defaults(t *testing.T) {
	f, err := newTestNormalizer().NormalizeFilter(context.Background(), ReportQuery{OwnerID: 7, Search: "   "})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), f.OwnerID)
	assert.False(t, f.HasSearch())
	assert.Equal(t, model.FilterNone, f.Kind)
	assert.Nil(t, f.From)
	assert.Nil(t, f.To)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.PerPage)
	assert.Equal(t, 0, f.Offset)
	assert.Equal(t, 10, f.Limit)
}

func TestNormalizeFilter_Paging(t *testing.T) {
	n := newTestNormalizer()
	ctx := context.Background()

	f, err := n.NormalizeFilter(ctx, ReportQuery{OwnerID: 1, Page: 3, PerPage: 25})
	require.NoError(t, err)
	assert.Equal(t, 50, f.Offset)
	assert.Equal(t, 25, f.Limit)

	f, err = n.NormalizeFilter(ctx, ReportQuery{OwnerID: 1, Page: -4, PerPage: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 200, f.PerPage)
	assert.Equal(t, 0, f.Offset)
}

func TestNormalizeFilter_FilterTokens(t *testing.T) {
	n := newTestNormalizer()
	cases := map[string]model.FilterKind{
		"":        model.FilterNone,
		"none":    model.FilterNone,
		"UNREAD":  model.FilterUnread,
		" active": model.FilterActive,
		"starred": model.FilterNone,
	}
	for token, want := range cases {
		f, err := n.NormalizeFilter(context.Background(), ReportQuery{OwnerID: 1, Filter: token})
		require.NoError(t, err)
		assert.Equal(t, want, f.Kind, "token %q", token)
	}
}

func TestNormalizeFilter_ActiveSinceFromClock(t *testing.T) {
	f, err := newTestNormalizer().NormalizeFilter(context.Background(), ReportQuery{OwnerID: 1, Filter: "active"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(-24*time.Hour).Unix(), f.ActiveSince)
}

func TestNormalizeFilter_DateRange(t *testing.T) {
	n := newTestNormalizer()
	ctx := context.Background()

	f, err := n.NormalizeFilter(ctx, ReportQuery{OwnerID: 1, From: "2024-03-01", To: "2024-03-05"})
	require.NoError(t, err)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), *f.To)

	f, err = n.NormalizeFilter(ctx, ReportQuery{OwnerID: 1, From: "2024-03-05", To: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), *f.To)

	f, err = n.NormalizeFilter(ctx, ReportQuery{OwnerID: 1, From: "yesterday", To: "2024-03-01"})
	require.NoError(t, err)
	assert.Nil(t, f.From)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), *f.To)
}

func TestNormalizeFilter_CampaignExtras(t *testing.T) {
	n := newTestNormalizer()
	ctx := context.Background()

	f, err := n.NormalizeFilter(ctx, ReportQuery{OwnerID: 1, Platform: "API", State: "Completed", Status: " Failed "})
	require.NoError(t, err)
	assert.Equal(t, model.PlatformAPI, f.Platform)
	assert.Equal(t, model.CampaignStateCompleted, f.State)
	assert.Equal(t, "failed", f.Status)

	f, err = n.NormalizeFilter(ctx, ReportQuery{OwnerID: 1, Platform: "sms", State: "archived"})
	require.NoError(t, err)
	assert.Empty(t, f.Platform)
	assert.Equal(t, model.CampaignStateAny, f.State)
}

func TestNewFilterNormalizer_FallbackConfig(t *testing.T) {
	n := NewFilterNormalizer(config.ReportConfig{})
	f, err := n.NormalizeFilter(context.Background(), ReportQuery{OwnerID: 1, PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 200, f.PerPage)
}

func TestNormalizeFilter_LongSearchTruncated(t *testing.T) {
	long := strings.Repeat("号", 150)
	f, err := newTestNormalizer().NormalizeFilter(context.Background(), ReportQuery{OwnerID: 1, Search: long})
	require.NoError(t, err)
	assert.Equal(t, 100, utf8.RuneCountInString(f.Search))
}

func TestNormalizeFilter_WalletKind(t *testing.T) {
	n := newTestNormalizer()
	ctx := context.Background()

	for raw, want := range map[string]model.WalletKind{
		"":        model.WalletKindAny,
		"Debit":   model.WalletKindDebit,
		" credit": model.WalletKindCredit,
		"REFUND":  model.WalletKindRefund,
		"bonus":   model.WalletKindAny,
	} {
		f, err := n.NormalizeFilter(ctx, ReportQuery{OwnerID: 1, WalletType: raw})
		require.NoError(t, err)
		assert.Equal(t, want, f.WalletKind, raw)
	}
}

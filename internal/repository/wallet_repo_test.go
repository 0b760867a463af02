package repository

import (
	"Courier/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type walletFixture struct {
	diwali, reminder             *model.Campaign
	topUp, spend, refund, latest *model.WalletTransaction
}

func seedWalletTx(t *testing.T, db *gorm.DB, ownerID uint64, typ string, amount float64, campaign *model.Campaign, at time.Time) *model.WalletTransaction {
	t.Helper()
	tx := &model.WalletTransaction{
		UserID:    ownerID,
		Amount:    amount,
		Type:      typ,
		Status:    "1",
		Reference: "txn",
		CreatedAt: at,
		UpdatedAt: at,
	}
	if campaign != nil {
		tx.CampaignID = &campaign.ID
	}
	require.NoError(t, db.Create(tx).Error)
	return tx
}

// seedWallet 账号 1：充值 500，群发扣费 120 与 50，退款 20；另有一条已删除流水和其他账号的流水
func seedWallet(t *testing.T, db *gorm.DB) walletFixture {
	f := walletFixture{
		diwali:   seedCampaign(t, db, 1, "Diwali offer", baseTime),
		reminder: seedCampaign(t, db, 1, "Reminder", baseTime),
	}
	f.topUp = seedWalletTx(t, db, 1, model.WalletTypeCredit, 500, nil, baseTime.AddDate(0, 0, -3))
	f.spend = seedWalletTx(t, db, 1, model.WalletTypeDebit, 120, f.diwali, baseTime.AddDate(0, 0, -2))
	f.refund = seedWalletTx(t, db, 1, model.WalletTypeCredit, 20, f.diwali, baseTime.AddDate(0, 0, -1))
	f.latest = seedWalletTx(t, db, 1, model.WalletTypeDebit, 50, f.reminder, baseTime)

	removed := seedWalletTx(t, db, 1, model.WalletTypeDebit, 999, nil, baseTime)
	require.NoError(t, db.Delete(removed).Error)
	seedWalletTx(t, db, 2, model.WalletTypeCredit, 1000, nil, baseTime)
	return f
}

func walletIDs(txs []*model.WalletTransaction) []uint64 {
	ids := make([]uint64, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	return ids
}

func TestWallet_NewestFirst(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t)
	fx := seedWallet(t, db)
	repo := NewWalletRepo(db, time.Second)

	txs, err := repo.SelectTransactions(ctx, pageFilter(1, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, []uint64{fx.latest.ID, fx.refund.ID, fx.spend.ID, fx.topUp.ID}, walletIDs(txs))
}

func TestWallet_CountMatchesPagedSelection(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t)
	seedWallet(t, db)
	repo := NewWalletRepo(db, time.Second)

	from := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	filters := map[string]func(f *model.ReportFilter){
		"all":    func(*model.ReportFilter) {},
		"debit":  func(f *model.ReportFilter) { f.WalletKind = model.WalletKindDebit },
		"credit": func(f *model.ReportFilter) { f.WalletKind = model.WalletKindCredit },
		"refund": func(f *model.ReportFilter) { f.WalletKind = model.WalletKindRefund },
		"search": func(f *model.ReportFilter) { f.Search = "DIWALI" },
		"range":  func(f *model.ReportFilter) { f.From, f.To = &from, &to },
		"status": func(f *model.ReportFilter) { f.Status = "0" },
	}
	want := map[string]int64{"all": 4, "debit": 2, "credit": 1, "refund": 1, "search": 2, "range": 2, "status": 0}

	for name, apply := range filters {
		t.Run(name, func(t *testing.T) {
			seen := make(map[uint64]struct{})
			var total int64
			for page := 1; page <= 3; page++ {
				f := pageFilter(1, page, 2)
				apply(f)
				txs, err := repo.SelectTransactions(ctx, f)
				require.NoError(t, err)
				for _, tx := range txs {
					seen[tx.ID] = struct{}{}
				}
				total, err = repo.CountTransactions(ctx, f)
				require.NoError(t, err)
			}
			assert.Equal(t, want[name], total)
			assert.Len(t, seen, int(total))
		})
	}
}

func TestWallet_RefundAndCreditSplit(t *testing.T) {
	ctx := context.Background()
	db, _ := newTestDB(t)
	fx := seedWallet(t, db)
	repo := NewWalletRepo(db, time.Second)

	f := pageFilter(1, 1, 10)
	f.WalletKind = model.WalletKindRefund
	txs, err := repo.SelectTransactions(ctx, f)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, fx.refund.ID, txs[0].ID)
	assert.Equal(t, model.WalletKindRefund, txs[0].KindOf())

	f.WalletKind = model.WalletKindCredit
	txs, err = repo.SelectTransactions(ctx, f)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, fx.topUp.ID, txs[0].ID)
	assert.Equal(t, model.WalletKindCredit, txs[0].KindOf())
}

func TestWallet_TotalsInOneQuery(t *testing.T) {
	ctx := context.Background()
	db, counter := newTestDB(t)
	seedWallet(t, db)
	repo := NewWalletRepo(db, time.Second)

	counter.Reset()
	totals, err := repo.GetTotals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.Count())
	assert.InDelta(t, 170, totals.Debit, 1e-9)
	assert.InDelta(t, 520, totals.Credit, 1e-9)
	assert.InDelta(t, 350, totals.Balance, 1e-9)

	empty, err := repo.GetTotals(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, *empty)
}

func TestWallet_CampaignNamesKeepDeletedCampaigns(t *testing.T) {
	ctx := context.Background()
	db, counter := newTestDB(t)
	fx := seedWallet(t, db)
	require.NoError(t, db.Delete(fx.reminder).Error)
	repo := NewWalletRepo(db, time.Second)

	counter.Reset()
	names, err := repo.GetCampaignNames(ctx, 1, []uint64{fx.diwali.ID, fx.reminder.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.Count())
	assert.Equal(t, map[uint64]string{fx.diwali.ID: "Diwali offer", fx.reminder.ID: "Reminder"}, names)

	// 其他账号无法读到
	names, err = repo.GetCampaignNames(ctx, 2, []uint64{fx.diwali.ID})
	require.NoError(t, err)
	assert.Empty(t, names)
}

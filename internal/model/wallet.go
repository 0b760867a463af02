package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	WalletTypeCredit = "credit"
	WalletTypeDebit  = "debit"
)

// WalletTransaction 账号钱包流水，关联群发任务的入账即为退款
type WalletTransaction struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64         `gorm:"not null;index:idx_wallet_user_created,priority:1" json:"userId"`
	CreatedBy   uint64         `gorm:"not null;default:0" json:"createdBy"`
	Amount      float64        `gorm:"not null" json:"amount"`
	Type        string         `gorm:"type:varchar(8);not null" json:"type"`
	Status      string         `gorm:"type:varchar(2);not null;default:'1'" json:"status"` // 1-有效 0-无效 2-封禁
	Description string         `gorm:"type:varchar(255)" json:"description"`
	Reference   string         `gorm:"column:transection;type:varchar(255);not null;default:''" json:"reference"`
	CampaignID  *uint64        `gorm:"column:broadcast_id;index" json:"campaignId"`
	ScheduledID *uint64        `json:"scheduledId"`
	CreatedAt   time.Time      `gorm:"index:idx_wallet_user_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WalletTransaction) TableName() string { return "wallets" }

// WalletKind 钱包流水的收支筛选，refund 指关联了群发任务的入账
type WalletKind string

const (
	WalletKindAny    WalletKind = ""
	WalletKindDebit  WalletKind = "debit"
	WalletKindCredit WalletKind = "credit"
	WalletKindRefund WalletKind = "refund"
)

// KindOf 推导单条流水的收支类别
func (w *WalletTransaction) KindOf() WalletKind {
	switch {
	case w.Type == WalletTypeDebit:
		return WalletKindDebit
	case w.CampaignID != nil:
		return WalletKindRefund
	default:
		return WalletKindCredit
	}
}

// WalletTotals 账号全部有效流水的汇总，不受分页筛选影响
type WalletTotals struct {
	Debit   float64 `json:"totalDebit"`
	Credit  float64 `json:"totalCredit"`
	Balance float64 `json:"balance"`
}

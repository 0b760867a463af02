package model

import (
	"time"

	"gorm.io/gorm"
)

// Account 平台账号，计费报表只读取名称与单价
type Account struct {
	ID              uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	MarketMsgCharge float64        `gorm:"not null;default:0" json:"marketMsgCharge"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "users" }

// CampaignDeliverySummary 时间段内单个群发任务的投递分桶
type CampaignDeliverySummary struct {
	CampaignID uint64
	Name       string
	Rollup     CampaignRollup
}

// BillingLine 时间段内单个账号的计费明细，已送达与已读均按送达计费
type BillingLine struct {
	UserID         uint64
	Name           string
	DeliveredCount int64
	Rate           float64
}

func (b *BillingLine) Amount() float64 {
	return float64(b.DeliveredCount) * b.Rate
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Campaign 群发任务，派发后只允许软删除
type Campaign struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64         `gorm:"not null;index" json:"userId"`
	TemplateID uint64         `gorm:"not null;default:0" json:"templateId"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	Total      int64          `gorm:"not null;default:0" json:"total"`
	Status     string         `gorm:"type:varchar(8);not null;default:'1'" json:"status"`
	ScheduleAt *time.Time     `json:"scheduleAt"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Campaign) TableName() string { return "campaigns" }

const (
	PlatformAPI = "api"
	PlatformWeb = "web"
)

// DeliveryReport 群发中每个号码的一次投递记录，状态由回执推进
type DeliveryReport struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"not null;index" json:"userId"`
	CampaignID uint64    `gorm:"not null;index:idx_report_campaign_status,priority:1" json:"campaignId"`
	ContactID  *uint64   `gorm:"index" json:"contactId"`
	Mobile     string    `gorm:"type:varchar(32);not null;index" json:"mobile"`
	Status     string    `gorm:"type:varchar(32);not null;index:idx_report_campaign_status,priority:2" json:"status"`
	Platform   string    `gorm:"type:varchar(8);not null;default:'web'" json:"platform"`
	MessageID  string    `gorm:"type:varchar(128)" json:"messageId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (DeliveryReport) TableName() string { return "delivery_reports" }

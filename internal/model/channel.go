package model

import (
	"time"

	"gorm.io/gorm"
)

// Channel 账号下的 WhatsApp 发送号码，变化极少
type Channel struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint64         `gorm:"not null;index" json:"userId"`
	WhatsappNo    string         `gorm:"type:varchar(32);not null" json:"whatsappNo"`
	WhatsappNoID  string         `gorm:"type:varchar(64);not null" json:"whatsappNoId"`
	WhatsappBizID string         `gorm:"type:varchar(64);not null" json:"whatsappBizId"`
	Status        string         `gorm:"type:varchar(2);not null;default:'1'" json:"status"` // 1-启用 0-停用 2-封禁
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Channel) TableName() string { return "channels" }

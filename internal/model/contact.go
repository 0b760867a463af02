package model

import (
	"time"

	"gorm.io/gorm"
)

// Contact 联系人，首次收发消息时创建，只做软删除
type Contact struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64         `gorm:"not null;uniqueIndex:idx_contact_user_mobile;index" json:"userId"`
	Name        string         `gorm:"type:varchar(200);not null;default:''" json:"name"`
	Mobile      string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_contact_user_mobile" json:"mobile"`
	Email       *string        `gorm:"type:varchar(100)" json:"email"`
	CountryCode string         `gorm:"type:varchar(10);not null;default:'91'" json:"countryCode"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Contact) TableName() string { return "contacts" }

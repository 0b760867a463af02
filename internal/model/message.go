package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

const (
	MessageStatusQueued    = "queued"
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
	MessageStatusFailed    = "failed"
)

// Message 聊天消息，除状态流转外不再修改
type Message struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64         `gorm:"not null;index:idx_msg_user_contact,priority:1" json:"userId"`
	ContactID   uint64         `gorm:"not null;index:idx_msg_user_contact,priority:2;index:idx_msg_contact_unread,priority:1" json:"contactId"`
	Direction   string         `gorm:"type:varchar(16);not null;index:idx_msg_contact_unread,priority:2" json:"direction"`
	Status      string         `gorm:"type:varchar(16);not null;index:idx_msg_contact_unread,priority:3" json:"status"`
	Type        string         `gorm:"type:varchar(32);not null;default:'text'" json:"type"`
	Body        string         `gorm:"type:text" json:"body"`
	MessageTime int64          `gorm:"not null;default:0;index" json:"messageTime"` // 逻辑时间戳(秒)，用于最后活跃排序
	Payload     datatypes.JSON `json:"payload"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
}

func (Message) TableName() string { return "messages" }

// IsUnread 入站且未读
func (m *Message) IsUnread() bool {
	return m.Direction == DirectionReceived && m.Status != MessageStatusRead
}

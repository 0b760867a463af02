package dto

import (
	"Courier/internal/pkg/pagination"
	"time"
)

// ContactSummary 联系人概要
type ContactSummary struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Mobile      string    `json:"mobile"`
	Email       *string   `json:"email"`
	CountryCode string    `json:"countryCode"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ChatSummary 最后一条消息概要
type ChatSummary struct {
	ID          uint64    `json:"id"`
	Direction   string    `json:"direction"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	Body        string    `json:"body"`
	MessageTime int64     `json:"messageTime"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReportSummary 投递记录概要
type ReportSummary struct {
	ID         uint64    `json:"id"`
	CampaignID uint64    `json:"campaignId"`
	Mobile     string    `json:"mobile"`
	Status     string    `json:"status"`
	Platform   string    `json:"platform"`
	MessageID  string    `json:"messageId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ConversationItem 收件箱中的一行，没有聊天或投递记录时对应字段为 null
type ConversationItem struct {
	ContactID    uint64         `json:"contactId"`
	Contact      ContactSummary `json:"contact"`
	LastMessage  *ChatSummary   `json:"lastMessage"`
	LastReport   *ReportSummary `json:"lastReport"`
	UnreadCount  int64          `json:"unreadCount"`
	LastActivity *int64         `json:"lastActivity"`
}

// ChannelDTO 发送号码
type ChannelDTO struct {
	ID            uint64 `json:"id"`
	WhatsappNo    string `json:"whatsappNo"`
	WhatsappNoID  string `json:"whatsappNoId"`
	WhatsappBizID string `json:"whatsappBizId"`
	Status        string `json:"status"`
}

// InboxPage 收件箱分页
type InboxPage struct {
	pagination.Meta
	Items    []*ConversationItem `json:"data"`
	Channels []*ChannelDTO       `json:"channels"`
}

// TimelineMessage 联系人时间线中的一条消息
type TimelineMessage struct {
	ID          uint64      `json:"id"`
	Direction   string      `json:"direction"`
	Status      string      `json:"status"`
	Type        string      `json:"type"`
	Body        string      `json:"body"`
	MessageTime int64       `json:"messageTime"`
	Payload     interface{} `json:"payload"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// TimelinePage 联系人时间线分页，每页内按时间正序
type TimelinePage struct {
	pagination.Meta
	Contact      ContactSummary     `json:"contact"`
	UnreadCount  int64              `json:"unreadCount"`
	LastActivity *int64             `json:"lastActivity"`
	Items        []*TimelineMessage `json:"data"`
}

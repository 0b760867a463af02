package model

import (
	"strings"
	"time"
)

// FilterKind 会话列表的状态筛选
type FilterKind int8

const (
	FilterNone FilterKind = iota
	FilterUnread
	FilterActive
)

func (k FilterKind) String() string {
	switch k {
	case FilterUnread:
		return "unread"
	case FilterActive:
		return "active"
	default:
		return "none"
	}
}

// CampaignState 群发历史的进度筛选
type CampaignState string

const (
	CampaignStateAny       CampaignState = ""
	CampaignStatePending   CampaignState = "pending"
	CampaignStateFailed    CampaignState = "failed"
	CampaignStateCompleted CampaignState = "completed"
)

// ReportFilter 归一化后的查询条件，选择器与计数器共用同一份
type ReportFilter struct {
	OwnerID     uint64
	Search      string // 已 trim，空串表示不搜索
	Kind        FilterKind
	From        *time.Time // 含
	To          *time.Time // 不含，已推到次日零点
	ActiveSince int64      // Kind == FilterActive 时有效

	Page    int
	PerPage int
	Offset  int
	Limit   int

	Platform   string
	State      CampaignState
	Status     string
	WalletKind WalletKind
}

func (f *ReportFilter) HasSearch() bool {
	return f.Search != ""
}

// SearchPattern 转义后的 LIKE 模式，配合 ESCAPE '!' 使用
func (f *ReportFilter) SearchPattern() string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(f.Search)) + "%"
}

// ConversationCandidate 选择器返回的一页会话标识
type ConversationCandidate struct {
	ContactID     uint64
	LastMessageID uint64
}

// ConversationStats 单个联系人的聚合值
type ConversationStats struct {
	ContactID    uint64
	UnreadCount  int64
	LastActivity int64 // 0 表示没有任何消息
}

// ConversationAggregates 一页候选的全部聚合与明细，均以 ID 为键
type ConversationAggregates struct {
	Stats    map[uint64]*ConversationStats // contact_id
	Contacts map[uint64]*Contact           // contact_id
	Messages map[uint64]*Message           // message_id
	Reports  map[uint64]*DeliveryReport    // contact_id，最近一条投递记录
}

func NewConversationAggregates() *ConversationAggregates {
	return &ConversationAggregates{
		Stats:    make(map[uint64]*ConversationStats),
		Contacts: make(map[uint64]*Contact),
		Messages: make(map[uint64]*Message),
		Reports:  make(map[uint64]*DeliveryReport),
	}
}

// ContactIDs 候选中的联系人 ID，保持顺序
func ContactIDs(candidates []*ConversationCandidate) []uint64 {
	ids := make([]uint64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ContactID)
	}
	return ids
}

// MessageIDs 候选中的最后一条消息 ID
func MessageIDs(candidates []*ConversationCandidate) []uint64 {
	ids := make([]uint64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.LastMessageID)
	}
	return ids
}

const (
	ReportStatusSent      = "sent"
	ReportStatusDelivered = "delivered"
	ReportStatusRead      = "read"
	ReportStatusFailed    = "failed"
	ReportStatusPending   = "pending"
	ReportStatusProcess   = "process"
	ReportStatusQueue     = "queue"
)

// CampaignRollup 按状态分桶的投递统计，各桶之和恒等于记录总数
type CampaignRollup struct {
	CampaignID uint64 `json:"campaignId"`
	Sent       int64  `json:"sent"`
	Delivered  int64  `json:"delivered"`
	Read       int64  `json:"read"`
	Failed     int64  `json:"failed"`
	Pending    int64  `json:"pending"`
	Processing int64  `json:"processing"`
	Other      int64  `json:"other"`
}

// Add 把某状态的计数归入对应桶，未知状态进入 Other
func (r *CampaignRollup) Add(status string, n int64) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case ReportStatusSent:
		r.Sent += n
	case ReportStatusDelivered:
		r.Delivered += n
	case ReportStatusRead:
		r.Read += n
	case ReportStatusFailed:
		r.Failed += n
	case ReportStatusPending:
		r.Pending += n
	case ReportStatusProcess, ReportStatusQueue:
		r.Processing += n
	default:
		r.Other += n
	}
}

func (r *CampaignRollup) Total() int64 {
	return r.Sent + r.Delivered + r.Read + r.Failed + r.Pending + r.Processing + r.Other
}

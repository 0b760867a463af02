package dto

import (
	"Courier/internal/model"
	"Courier/internal/pkg/pagination"
	"time"
)

// CampaignItem 群发历史中的一行
type CampaignItem struct {
	ID         uint64               `json:"id"`
	Name       string               `json:"name"`
	TemplateID uint64               `json:"templateId"`
	Total      int64                `json:"total"`
	Status     string               `json:"status"`
	ScheduleAt *time.Time           `json:"scheduleAt"`
	CreatedAt  time.Time            `json:"createdAt"`
	Rollup     model.CampaignRollup `json:"rollup"`
}

// CampaignPage 群发历史分页
type CampaignPage struct {
	pagination.Meta
	Items []*CampaignItem `json:"data"`
}

// CampaignDetailPage 群发详情：任务概要 + 投递记录分页
type CampaignDetailPage struct {
	pagination.Meta
	Campaign CampaignItem     `json:"campaign"`
	Items    []*ReportSummary `json:"data"`
}

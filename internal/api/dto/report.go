package dto

import "Courier/internal/model"

// DeliverySummaryItem 时间段内单个群发任务的投递统计
type DeliverySummaryItem struct {
	CampaignID uint64               `json:"campaignId"`
	Name       string               `json:"name"`
	Total      int64                `json:"total"`
	Rollup     model.CampaignRollup `json:"rollup"`
}

// BillingItem 时间段内单个账号的计费
type BillingItem struct {
	UserID         uint64  `json:"userId"`
	Name           string  `json:"name"`
	DeliveredCount int64   `json:"deliveredCount"`
	Rate           float64 `json:"rate"`
	Amount         float64 `json:"amount"`
}

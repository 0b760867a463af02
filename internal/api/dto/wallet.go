package dto

import (
	"Courier/internal/model"
	"Courier/internal/pkg/pagination"
	"time"
)

// CampaignRef 流水关联的群发任务
type CampaignRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// WalletTransactionItem 钱包流水中的一行，未关联群发任务时 campaign 为 null
type WalletTransactionItem struct {
	ID          uint64           `json:"id"`
	Type        string           `json:"type"`
	Kind        model.WalletKind `json:"kind"`
	Amount      float64          `json:"amount"`
	Status      string           `json:"status"`
	Description string           `json:"description"`
	Campaign    *CampaignRef     `json:"campaign"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// WalletHistoryPage 钱包流水分页，附带账号级汇总
type WalletHistoryPage struct {
	pagination.Meta
	model.WalletTotals
	Items []*WalletTransactionItem `json:"data"`
}

package service

import (
	"Courier/internal/api/dto"
	"Courier/internal/model"
	log "log/slog"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
)

// payload 中需要剔除空元素的数组字段
var cleanedPayloadArrays = []string{"buttons", "chat_buttons", "carousel_cards"}

// assembleConversations 按候选顺序组装收件箱行，不做任何 I/O
func assembleConversations(candidates []*model.ConversationCandidate, agg *model.ConversationAggregates) []*dto.ConversationItem {
	items := make([]*dto.ConversationItem, 0, len(candidates))
	if agg == nil {
		agg = model.NewConversationAggregates()
	}

	for _, c := range candidates {
		item := &dto.ConversationItem{
			ContactID: c.ContactID,
			Contact:   dto.ContactSummary{ID: c.ContactID},
		}

		if contact, ok := agg.Contacts[c.ContactID]; ok {
			_ = copyContact(&item.Contact, contact)
		}
		if msg, ok := agg.Messages[c.LastMessageID]; ok {
			item.LastMessage = &dto.ChatSummary{}
			_ = copier.Copy(item.LastMessage, msg)
		}
		if report, ok := agg.Reports[c.ContactID]; ok {
			item.LastReport = &dto.ReportSummary{}
			_ = copier.Copy(item.LastReport, report)
		}
		if st, ok := agg.Stats[c.ContactID]; ok {
			item.UnreadCount = max(st.UnreadCount, 0)
			if st.LastActivity > 0 {
				last := st.LastActivity
				item.LastActivity = &last
			}
		}

		items = append(items, item)
	}
	return items
}

func copyContact(dst *dto.ContactSummary, contact *model.Contact) error {
	return copier.Copy(dst, contact)
}

// assembleTimeline 仓储按 ID 倒序返回，页内翻转为时间正序
func assembleTimeline(messages []*model.Message) []*dto.TimelineMessage {
	items := make([]*dto.TimelineMessage, len(messages))
	for i, m := range messages {
		item := &dto.TimelineMessage{}
		_ = copier.Copy(item, m)
		item.Payload = decodePayload(m.Payload)
		items[len(messages)-1-i] = item
	}
	return items
}

func assembleCampaign(c *model.Campaign, rollup *model.CampaignRollup) *dto.CampaignItem {
	item := &dto.CampaignItem{}
	_ = copier.Copy(item, c)
	if rollup != nil {
		item.Rollup = *rollup
	} else {
		item.Rollup = model.CampaignRollup{CampaignID: c.ID}
	}
	return item
}

// assembleWallet 按仓储顺序组装流水，群发任务名称缺失时只保留 ID
func assembleWallet(txs []*model.WalletTransaction, names map[uint64]string) []*dto.WalletTransactionItem {
	items := make([]*dto.WalletTransactionItem, 0, len(txs))
	for _, tx := range txs {
		item := &dto.WalletTransactionItem{}
		_ = copier.Copy(item, tx)
		item.Kind = tx.KindOf()
		if tx.CampaignID != nil {
			item.Campaign = &dto.CampaignRef{ID: *tx.CampaignID, Name: names[*tx.CampaignID]}
		}
		items = append(items, item)
	}
	return items
}

func assembleDeliverySummary(summaries []*model.CampaignDeliverySummary) []*dto.DeliverySummaryItem {
	items := make([]*dto.DeliverySummaryItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, &dto.DeliverySummaryItem{
			CampaignID: s.CampaignID,
			Name:       s.Name,
			Total:      s.Rollup.Total(),
			Rollup:     s.Rollup,
		})
	}
	return items
}

func assembleBilling(lines []*model.BillingLine) []*dto.BillingItem {
	items := make([]*dto.BillingItem, 0, len(lines))
	for _, l := range lines {
		item := &dto.BillingItem{}
		_ = copier.Copy(item, l)
		item.Amount = l.Amount()
		items = append(items, item)
	}
	return items
}

func assembleReports(reports []*model.DeliveryReport) []*dto.ReportSummary {
	items := make([]*dto.ReportSummary, 0, len(reports))
	for _, r := range reports {
		item := &dto.ReportSummary{}
		_ = copier.Copy(item, r)
		items = append(items, item)
	}
	return items
}

func assembleChannels(channels []*model.Channel) []*dto.ChannelDTO {
	items := make([]*dto.ChannelDTO, 0, len(channels))
	for _, ch := range channels {
		item := &dto.ChannelDTO{}
		_ = copier.Copy(item, ch)
		items = append(items, item)
	}
	return items
}

// decodePayload 解析消息附加数据，剔除所有值都为空的按钮等元素
func decodePayload(raw datatypes.JSON) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Debug("undecodable message payload", "err", err)
		return nil
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return decoded
	}
	for _, key := range cleanedPayloadArrays {
		arr, ok := obj[key].([]interface{})
		if !ok {
			continue
		}
		kept := make([]interface{}, 0, len(arr))
		for _, el := range arr {
			if isEmptyEntry(el) {
				continue
			}
			kept = append(kept, el)
		}
		obj[key] = kept
	}
	return obj
}

func isEmptyEntry(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]interface{}:
		for _, field := range t {
			if field != nil {
				return false
			}
		}
		return true
	default:
		return false
	}
}

package repository

import (
	"Courier/internal/model"
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConversationAggregator 为一页候选补齐聚合值与明细，查询次数与页大小无关
type ConversationAggregator interface {
	Aggregate(ctx context.Context, ownerID uint64, candidates []*model.ConversationCandidate) (*model.ConversationAggregates, error)
	Strategy() Strategy
}

// NewConversationAggregator 按策略创建聚合器
func NewConversationAggregator(db *gorm.DB, strategy Strategy, timeout time.Duration) ConversationAggregator {
	if strategy == StrategyJoined {
		return &joinedAggregator{store: newStore(db, timeout)}
	}
	return &batchedAggregator{store: newStore(db, timeout)}
}

// latestReportIDs 每个联系人最近一条投递记录
func latestReportIDs(db *gorm.DB, ownerID uint64, contactIDs []uint64) *gorm.DB {
	return db.Model(&model.DeliveryReport{}).
		Select("MAX(id)").
		Where("user_id = ? AND contact_id IN ?", ownerID, contactIDs).
		Group("contact_id")
}

type batchedAggregator struct {
	store
}

func (s *batchedAggregator) Strategy() Strategy {
	return StrategyBatched
}

// Aggregate 统计、联系人、消息、投递记录各一次 IN 查询，并发执行
func (s *batchedAggregator) Aggregate(ctx context.Context, ownerID uint64, candidates []*model.ConversationCandidate) (*model.ConversationAggregates, error) {
	agg := model.NewConversationAggregates()
	if len(candidates) == 0 {
		return agg, nil
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	contactIDs := model.ContactIDs(candidates)
	messageIDs := model.MessageIDs(candidates)

	var (
		stats    []*model.ConversationStats
		contacts []*model.Contact
		messages []*model.Message
		reports  []*model.DeliveryReport
	)

	g, gctx := errgroup.WithContext(db.Statement.Context)
	q := func() *gorm.DB { return s.db.WithContext(gctx) }

	g.Go(func() error {
		return wrapErr(statsQuery(q(), ownerID, contactIDs).Scan(&stats).Error, "batch stats")
	})
	g.Go(func() error {
		return wrapErr(q().Where("user_id = ? AND id IN ?", ownerID, contactIDs).Find(&contacts).Error, "batch contacts")
	})
	g.Go(func() error {
		return wrapErr(q().Where("user_id = ? AND id IN ?", ownerID, messageIDs).Find(&messages).Error, "batch messages")
	})
	g.Go(func() error {
		sub := latestReportIDs(q(), ownerID, contactIDs)
		return wrapErr(q().Where("id IN (?)", sub).Find(&reports).Error, "batch latest reports")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, st := range stats {
		agg.Stats[st.ContactID] = st
	}
	for _, c := range contacts {
		agg.Contacts[c.ID] = c
	}
	for _, m := range messages {
		agg.Messages[m.ID] = m
	}
	for _, r := range reports {
		if r.ContactID != nil {
			agg.Reports[*r.ContactID] = r
		}
	}
	return agg, nil
}

type joinedAggregator struct {
	store
}

func (s *joinedAggregator) Strategy() Strategy {
	return StrategyJoined
}

// joinedRow 单条联表查询的一行，对应一个候选
type joinedRow struct {
	MessageID        uint64
	ContactID        uint64
	Direction        string
	MessageStatus    string
	MessageType      string
	Body             string
	MessageTime      int64
	Payload          datatypes.JSON
	MessageCreatedAt time.Time

	ContactName      string
	Mobile           string
	Email            *string
	CountryCode      string
	ContactCreatedAt time.Time
	ContactUpdatedAt time.Time

	UnreadCount  int64
	LastActivity int64

	ReportID        *uint64
	CampaignID      *uint64
	ReportMobile    *string
	ReportStatus    *string
	ReportPlatform  *string
	ReportMessageID *string
	ReportCreatedAt *time.Time
	ReportUpdatedAt *time.Time
}

// Aggregate 消息、联系人、统计子查询与最近投递记录一次联表取回
func (s *joinedAggregator) Aggregate(ctx context.Context, ownerID uint64, candidates []*model.ConversationCandidate) (*model.ConversationAggregates, error) {
	agg := model.NewConversationAggregates()
	if len(candidates) == 0 {
		return agg, nil
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	contactIDs := model.ContactIDs(candidates)
	messageIDs := model.MessageIDs(candidates)
	fresh := func() *gorm.DB { return db.Session(&gorm.Session{NewDB: true}) }

	var rows []*joinedRow
	err := db.Table("messages m").
		Select(`m.id AS message_id, m.contact_id AS contact_id, m.direction AS direction,
			m.status AS message_status, m.type AS message_type, m.body AS body,
			m.message_time AS message_time, m.payload AS payload, m.created_at AS message_created_at,
			c.name AS contact_name, c.mobile AS mobile, c.email AS email, c.country_code AS country_code,
			c.created_at AS contact_created_at, c.updated_at AS contact_updated_at,
			st.unread_count AS unread_count, st.last_activity AS last_activity,
			r.id AS report_id, r.campaign_id AS campaign_id, r.mobile AS report_mobile,
			r.status AS report_status, r.platform AS report_platform, r.message_id AS report_message_id,
			r.created_at AS report_created_at, r.updated_at AS report_updated_at`).
		Joins("JOIN contacts c ON c.id = m.contact_id AND c.user_id = ? AND c.deleted_at IS NULL", ownerID).
		Joins("JOIN (?) AS st ON st.contact_id = m.contact_id", statsQuery(fresh(), ownerID, contactIDs)).
		Joins("LEFT JOIN delivery_reports r ON r.id IN (?) AND r.contact_id = m.contact_id",
			latestReportIDs(fresh(), ownerID, contactIDs)).
		Where("m.user_id = ? AND m.id IN ?", ownerID, messageIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr(err, "joined aggregate")
	}

	for _, row := range rows {
		agg.Stats[row.ContactID] = &model.ConversationStats{
			ContactID:    row.ContactID,
			UnreadCount:  row.UnreadCount,
			LastActivity: row.LastActivity,
		}
		agg.Contacts[row.ContactID] = &model.Contact{
			ID:          row.ContactID,
			UserID:      ownerID,
			Name:        row.ContactName,
			Mobile:      row.Mobile,
			Email:       row.Email,
			CountryCode: row.CountryCode,
			CreatedAt:   row.ContactCreatedAt,
			UpdatedAt:   row.ContactUpdatedAt,
		}
		agg.Messages[row.MessageID] = &model.Message{
			ID:          row.MessageID,
			UserID:      ownerID,
			ContactID:   row.ContactID,
			Direction:   row.Direction,
			Status:      row.MessageStatus,
			Type:        row.MessageType,
			Body:        row.Body,
			MessageTime: row.MessageTime,
			Payload:     row.Payload,
			CreatedAt:   row.MessageCreatedAt,
		}
		if row.ReportID != nil {
			contactID := row.ContactID
			agg.Reports[row.ContactID] = &model.DeliveryReport{
				ID:         *row.ReportID,
				UserID:     ownerID,
				CampaignID: deref(row.CampaignID),
				ContactID:  &contactID,
				Mobile:     deref(row.ReportMobile),
				Status:     deref(row.ReportStatus),
				Platform:   deref(row.ReportPlatform),
				MessageID:  deref(row.ReportMessageID),
				CreatedAt:  deref(row.ReportCreatedAt),
				UpdatedAt:  deref(row.ReportUpdatedAt),
			}
		}
	}
	return agg, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

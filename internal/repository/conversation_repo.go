package repository

import (
	"Courier/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type ConversationRepo interface {
	SelectCandidates(ctx context.Context, f *model.ReportFilter) ([]*model.ConversationCandidate, error)
	CountCandidates(ctx context.Context, f *model.ReportFilter) (int64, error)
	GetStats(ctx context.Context, ownerID uint64, contactIDs []uint64) (map[uint64]*model.ConversationStats, error)

	GetContact(ctx context.Context, ownerID, contactID uint64) (*model.Contact, error)
	SelectTimeline(ctx context.Context, contactID uint64, f *model.ReportFilter) ([]*model.Message, error)
	CountTimeline(ctx context.Context, contactID uint64, f *model.ReportFilter) (int64, error)
}

type conversationRepoImpl struct {
	store
}

func NewConversationRepo(db *gorm.DB, timeout time.Duration) ConversationRepo {
	return &conversationRepoImpl{store: newStore(db, timeout)}
}

// unreadCond 未读的唯一定义：入站且状态不是 read，列表与单联系人视图共用
func unreadCond(alias string) string {
	return alias + ".direction = '" + model.DirectionReceived + "' AND " + alias + ".status <> '" + model.MessageStatusRead + "'"
}

// conversationScope 选择器与计数器共用的谓词，latest 为每个联系人的最后一条消息
func conversationScope(f *model.ReportFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		latest := tx.Session(&gorm.Session{NewDB: true}).
			Table("messages m").
			Select("m.contact_id AS contact_id, MAX(m.id) AS last_message_id").
			Where("m.user_id = ?", f.OwnerID).
			Group("m.contact_id")

		q := tx.Table("(?) AS latest", latest).
			Joins("JOIN messages lm ON lm.id = latest.last_message_id").
			Joins("JOIN contacts c ON c.id = latest.contact_id AND c.user_id = ? AND c.deleted_at IS NULL", f.OwnerID)

		if f.HasSearch() {
			pattern := f.SearchPattern()
			q = q.Where("(LOWER(c.name) LIKE ? ESCAPE '!' OR c.mobile LIKE ? ESCAPE '!')", pattern, pattern)
		}
		if f.From != nil {
			q = q.Where("lm.created_at >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("lm.created_at < ?", *f.To)
		}

		switch f.Kind {
		case model.FilterUnread:
			q = q.Where("EXISTS (SELECT 1 FROM messages u WHERE u.user_id = ? AND u.contact_id = latest.contact_id AND "+unreadCond("u")+")", f.OwnerID)
		case model.FilterActive:
			q = q.Where("EXISTS (SELECT 1 FROM messages a WHERE a.user_id = ? AND a.contact_id = latest.contact_id AND a.message_time >= ?)", f.OwnerID, f.ActiveSince)
		}
		return q
	}
}

// SelectCandidates 按最后一条消息 ID 倒序取一页联系人
func (s *conversationRepoImpl) SelectCandidates(ctx context.Context, f *model.ReportFilter) ([]*model.ConversationCandidate, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	candidates := make([]*model.ConversationCandidate, 0, f.Limit)
	err := db.Scopes(conversationScope(f)).
		Select("latest.contact_id AS contact_id, latest.last_message_id AS last_message_id").
		Order("latest.last_message_id DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Scan(&candidates).Error
	if err != nil {
		return nil, wrapErr(err, "select conversation candidates")
	}
	return candidates, nil
}

// CountCandidates 与 SelectCandidates 相同谓词下的总数
func (s *conversationRepoImpl) CountCandidates(ctx context.Context, f *model.ReportFilter) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var total int64
	err := db.Scopes(conversationScope(f)).
		Select("COUNT(DISTINCT latest.contact_id)").
		Scan(&total).Error
	if err != nil {
		return 0, wrapErr(err, "count conversation candidates")
	}
	return total, nil
}

func statsQuery(db *gorm.DB, ownerID uint64, contactIDs []uint64) *gorm.DB {
	return db.Table("messages s").
		Select("s.contact_id AS contact_id, "+
			"SUM(CASE WHEN "+unreadCond("s")+" THEN 1 ELSE 0 END) AS unread_count, "+
			"MAX(s.message_time) AS last_activity").
		Where("s.user_id = ? AND s.contact_id IN ?", ownerID, contactIDs).
		Group("s.contact_id")
}

// GetStats 一次查询得到一批联系人的未读数与最后活跃时间
func (s *conversationRepoImpl) GetStats(ctx context.Context, ownerID uint64, contactIDs []uint64) (map[uint64]*model.ConversationStats, error) {
	result := make(map[uint64]*model.ConversationStats, len(contactIDs))
	if len(contactIDs) == 0 {
		return result, nil
	}

	db, cancel := s.conn(ctx)
	defer cancel()

	var rows []*model.ConversationStats
	if err := statsQuery(db, ownerID, contactIDs).Scan(&rows).Error; err != nil {
		return nil, wrapErr(err, "query conversation stats")
	}
	for _, row := range rows {
		result[row.ContactID] = row
	}
	return result, nil
}

// GetContact 获取属于该账号且未删除的联系人
func (s *conversationRepoImpl) GetContact(ctx context.Context, ownerID, contactID uint64) (*model.Contact, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var contact model.Contact
	err := db.Where("id = ? AND user_id = ?", contactID, ownerID).First(&contact).Error
	if err != nil {
		return nil, wrapErr(err, "get contact")
	}
	return &contact, nil
}

func timelineScope(contactID uint64, f *model.ReportFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		q := tx.Model(&model.Message{}).
			Where("user_id = ? AND contact_id = ?", f.OwnerID, contactID)
		if f.HasSearch() {
			q = q.Where("LOWER(body) LIKE ? ESCAPE '!'", f.SearchPattern())
		}
		if f.From != nil {
			q = q.Where("created_at >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("created_at < ?", *f.To)
		}
		return q
	}
}

// SelectTimeline 联系人的消息，按 ID 倒序分页
func (s *conversationRepoImpl) SelectTimeline(ctx context.Context, contactID uint64, f *model.ReportFilter) ([]*model.Message, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	messages := make([]*model.Message, 0, f.Limit)
	err := db.Scopes(timelineScope(contactID, f)).
		Order("id DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapErr(err, "select timeline")
	}
	return messages, nil
}

func (s *conversationRepoImpl) CountTimeline(ctx context.Context, contactID uint64, f *model.ReportFilter) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var total int64
	if err := db.Scopes(timelineScope(contactID, f)).Count(&total).Error; err != nil {
		return 0, wrapErr(err, "count timeline")
	}
	return total, nil
}

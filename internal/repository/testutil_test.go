package repository

import (
	"Courier/internal/model"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// queryCounter 统计实际发往数据库的语句数
type queryCounter struct {
	n atomic.Int64
}

func (c *queryCounter) LogMode(logger.LogLevel) logger.Interface { return c }

func (c *queryCounter) Info(context.Context, string, ...interface{})  {}
func (c *queryCounter) Warn(context.Context, string, ...interface{})  {}
func (c *queryCounter) Error(context.Context, string, ...interface{}) {}

func (c *queryCounter) Trace(context.Context, time.Time, func() (string, int64), error) {
	c.n.Add(1)
}

func (c *queryCounter) Reset()       { c.n.Store(0) }
func (c *queryCounter) Count() int64 { return c.n.Load() }

var baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) (*gorm.DB, *queryCounter) {
	t.Helper()
	counter := &queryCounter{}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: counter})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Contact{},
		&model.Message{},
		&model.Campaign{},
		&model.DeliveryReport{},
		&model.Channel{},
		&model.WalletTransaction{},
		&model.Account{},
	))
	counter.Reset()
	return db, counter
}

func seedContact(t *testing.T, db *gorm.DB, ownerID uint64, name, mobile string) *model.Contact {
	t.Helper()
	c := &model.Contact{UserID: ownerID, Name: name, Mobile: mobile, CountryCode: "91",
		CreatedAt: baseTime, UpdatedAt: baseTime}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedMessage(t *testing.T, db *gorm.DB, c *model.Contact, direction, status string, at time.Time) *model.Message {
	t.Helper()
	m := &model.Message{
		UserID:      c.UserID,
		ContactID:   c.ID,
		Direction:   direction,
		Status:      status,
		Type:        "text",
		Body:        direction + " to " + c.Name,
		MessageTime: at.Unix(),
		CreatedAt:   at,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedReport(t *testing.T, db *gorm.DB, ownerID, campaignID uint64, contact *model.Contact, mobile, status, platform string) *model.DeliveryReport {
	t.Helper()
	r := &model.DeliveryReport{
		UserID:     ownerID,
		CampaignID: campaignID,
		Mobile:     mobile,
		Status:     status,
		Platform:   platform,
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime,
	}
	if contact != nil {
		r.ContactID = &contact.ID
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func pageFilter(ownerID uint64, page, perPage int) *model.ReportFilter {
	return &model.ReportFilter{
		OwnerID: ownerID,
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

package service

import (
	"Courier/internal/api/dto"
	"Courier/internal/model"
	"Courier/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestGetInbox_AssemblesInCandidateOrder(t *testing.T) {
	email := "a@example.com"
	repo := &stubConversationRepo{
		selectFn: func(_ context.Context, f *model.ReportFilter) ([]*model.ConversationCandidate, error) {
			return []*model.ConversationCandidate{
				{ContactID: 3, LastMessageID: 30},
				{ContactID: 1, LastMessageID: 10},
			}, nil
		},
		countFn: func(context.Context, *model.ReportFilter) (int64, error) { return 12, nil },
	}
	aggregator := &stubAggregator{
		aggregateFn: func(_ context.Context, ownerID uint64, candidates []*model.ConversationCandidate) (*model.ConversationAggregates, error) {
			assert.Equal(t, uint64(9), ownerID)
			agg := model.NewConversationAggregates()
			agg.Contacts[1] = &model.Contact{ID: 1, Name: "Alice", Mobile: "9198", Email: &email}
			agg.Contacts[3] = &model.Contact{ID: 3, Name: "Carol", Mobile: "9197"}
			agg.Messages[30] = &model.Message{ID: 30, ContactID: 3, Body: "", Direction: model.DirectionSent}
			agg.Stats[1] = &model.ConversationStats{ContactID: 1, UnreadCount: 2, LastActivity: 1700000000}
			agg.Reports[1] = &model.DeliveryReport{ID: 5, CampaignID: 2, Status: "delivered"}
			return agg, nil
		},
	}
	channels := &stubChannelService{channels: []*dto.ChannelDTO{{ID: 1, WhatsappNo: "919800000000"}}}
	svc := NewConversationService(newTestNormalizer(), repo, aggregator, channels)

	page, err := svc.GetInbox(context.Background(), ReportQuery{OwnerID: 9, Path: "/api/v1/conversations", PerPage: 2})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	carol, alice := page.Items[0], page.Items[1]

	assert.Equal(t, uint64(3), carol.ContactID)
	assert.Equal(t, "Carol", carol.Contact.Name)
	require.NotNil(t, carol.LastMessage)
	assert.Equal(t, "", carol.LastMessage.Body)
	assert.Nil(t, carol.LastReport)
	assert.Nil(t, carol.LastActivity)
	assert.Equal(t, int64(0), carol.UnreadCount)

	assert.Equal(t, "Alice", alice.Contact.Name)
	require.NotNil(t, alice.Contact.Email)
	assert.Equal(t, email, *alice.Contact.Email)
	assert.Nil(t, alice.LastMessage)
	require.NotNil(t, alice.LastReport)
	assert.Equal(t, "delivered", alice.LastReport.Status)
	assert.Equal(t, int64(2), alice.UnreadCount)
	require.NotNil(t, alice.LastActivity)

	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 6, page.LastPage)
	assert.Len(t, page.Channels, 1)
}

func TestGetInbox_EmptyFirstPageSkipsCount(t *testing.T) {
	repo := &stubConversationRepo{}
	aggregator := &stubAggregator{}
	svc := NewConversationService(newTestNormalizer(), repo, aggregator, &stubChannelService{})

	page, err := svc.GetInbox(context.Background(), ReportQuery{OwnerID: 1, Path: "/c"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, int64(0), page.Total)
	assert.Nil(t, page.From)
	assert.Equal(t, int32(0), repo.countCalls.Load())
	assert.Equal(t, int32(0), aggregator.calls.Load())
}

func TestGetInbox_EmptyLaterPageStillCounts(t *testing.T) {
	repo := &stubConversationRepo{
		countFn: func(context.Context, *model.ReportFilter) (int64, error) { return 4, nil },
	}
	aggregator := &stubAggregator{}
	svc := NewConversationService(newTestNormalizer(), repo, aggregator, &stubChannelService{})

	page, err := svc.GetInbox(context.Background(), ReportQuery{OwnerID: 1, Page: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, int32(1), repo.countCalls.Load())
	assert.Equal(t, int32(0), aggregator.calls.Load())
}

func TestGetInbox_StoreErrorPropagates(t *testing.T) {
	unavailable := errors.Join(repository.ErrStoreUnavailable, errors.New("i/o timeout"))
	repo := &stubConversationRepo{
		selectFn: func(context.Context, *model.ReportFilter) ([]*model.ConversationCandidate, error) {
			return []*model.ConversationCandidate{{ContactID: 1, LastMessageID: 1}}, nil
		},
		countFn: func(context.Context, *model.ReportFilter) (int64, error) { return 0, unavailable },
	}
	svc := NewConversationService(newTestNormalizer(), repo, &stubAggregator{}, &stubChannelService{})

	_, err := svc.GetInbox(context.Background(), ReportQuery{OwnerID: 1})
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestGetInbox_ChannelFailureIsNotFatal(t *testing.T) {
	svc := NewConversationService(newTestNormalizer(), &stubConversationRepo{}, &stubAggregator{},
		&stubChannelService{err: errors.New("redis down")})

	page, err := svc.GetInbox(context.Background(), ReportQuery{OwnerID: 1})
	require.NoError(t, err)
	assert.NotNil(t, page.Channels)
	assert.Empty(t, page.Channels)
}

func TestGetInbox_OwnerMissing(t *testing.T) {
	svc := NewConversationService(newTestNormalizer(), &stubConversationRepo{}, &stubAggregator{}, &stubChannelService{})
	_, err := svc.GetInbox(context.Background(), ReportQuery{})
	assert.ErrorIs(t, err, ErrOwnerMissing)
}

func TestGetTimeline_ChronologicalPageWithHeader(t *testing.T) {
	repo := &stubConversationRepo{
		contactFn: func(_ context.Context, ownerID, contactID uint64) (*model.Contact, error) {
			return &model.Contact{ID: contactID, UserID: ownerID, Name: "Alice"}, nil
		},
		timelineFn: func(context.Context, uint64, *model.ReportFilter) ([]*model.Message, error) {
			return []*model.Message{
				{ID: 9, Body: "newest", Payload: datatypes.JSON(`{"buttons":[{"text":null,"url":null},{"text":"Buy","url":null}]}`)},
				{ID: 8, Body: "older"},
			}, nil
		},
		timeCntFn: func(context.Context, uint64, *model.ReportFilter) (int64, error) { return 5, nil },
		statsFn: func(_ context.Context, _ uint64, ids []uint64) (map[uint64]*model.ConversationStats, error) {
			return map[uint64]*model.ConversationStats{
				ids[0]: {ContactID: ids[0], UnreadCount: 3, LastActivity: 1700000000},
			}, nil
		},
	}
	svc := NewConversationService(newTestNormalizer(), repo, &stubAggregator{}, &stubChannelService{})

	page, err := svc.GetTimeline(context.Background(), ReportQuery{OwnerID: 1, PerPage: 2}, 4)
	require.NoError(t, err)
	assert.Equal(t, "Alice", page.Contact.Name)
	assert.Equal(t, int64(3), page.UnreadCount)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "older", page.Items[0].Body)
	assert.Equal(t, "newest", page.Items[1].Body)
	assert.Nil(t, page.Items[0].Payload)

	payload, ok := page.Items[1].Payload.(map[string]interface{})
	require.True(t, ok)
	buttons, ok := payload["buttons"].([]interface{})
	require.True(t, ok)
	assert.Len(t, buttons, 1)
}

func TestGetTimeline_ContactNotFound(t *testing.T) {
	repo := &stubConversationRepo{
		contactFn: func(context.Context, uint64, uint64) (*model.Contact, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewConversationService(newTestNormalizer(), repo, &stubAggregator{}, &stubChannelService{})

	_, err := svc.GetTimeline(context.Background(), ReportQuery{OwnerID: 1}, 4)
	assert.ErrorIs(t, err, ErrContactNotFound)

	_, err = svc.GetTimeline(context.Background(), ReportQuery{OwnerID: 1}, 0)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestDecodePayload(t *testing.T) {
	assert.Nil(t, decodePayload(nil))
	assert.Nil(t, decodePayload(datatypes.JSON(`null`)))
	assert.Nil(t, decodePayload(datatypes.JSON(`{broken`)))
	assert.Equal(t, []interface{}{"a"}, decodePayload(datatypes.JSON(`["a"]`)))

	decoded := decodePayload(datatypes.JSON(`{"chat_buttons":[{},null,{"id":1}],"caption":"hi"}`))
	obj := decoded.(map[string]interface{})
	assert.Len(t, obj["chat_buttons"], 1)
	assert.Equal(t, "hi", obj["caption"])
}

func TestAssembleConversations_NeverNegativeUnread(t *testing.T) {
	agg := model.NewConversationAggregates()
	agg.Stats[1] = &model.ConversationStats{ContactID: 1, UnreadCount: -3}
	items := assembleConversations([]*model.ConversationCandidate{{ContactID: 1, LastMessageID: 2}}, agg)
	require.Len(t, items, 1)
	assert.Equal(t, int64(0), items[0].UnreadCount)
	assert.Equal(t, uint64(1), items[0].Contact.ID)
}

func TestRunPage_CountsWithSamePredicate(t *testing.T) {
	var selected, counted *model.ReportFilter
	res, err := runPage(context.Background(), &model.ReportFilter{OwnerID: 1, Limit: 2},
		pageSource[int, struct{}]{
			selectPage: func(_ context.Context, f *model.ReportFilter) ([]int, error) {
				selected = f
				return []int{1, 2}, nil
			},
			count: func(_ context.Context, f *model.ReportFilter) (int64, error) {
				counted = f
				return 9, nil
			},
		})
	require.NoError(t, err)
	assert.Same(t, selected, counted)
	assert.Equal(t, int64(9), res.total)
	assert.Equal(t, []int{1, 2}, res.candidates)
}

func TestRunPage_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := runPage(ctx, &model.ReportFilter{OwnerID: 1, Limit: 1}, pageSource[int, struct{}]{
		selectPage: func(context.Context, *model.ReportFilter) ([]int, error) { return []int{1}, nil },
		count: func(ctx context.Context, _ *model.ReportFilter) (int64, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

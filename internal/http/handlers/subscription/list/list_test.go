package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, userID string, q models.ListQuery) (models.Page, error) {
	args := m.Called(ctx, userID, q)
	return args.Get(0).(models.Page), args.Error(1)
}

func newRequest(target, userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID == "" {
		return req
	}
	return req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, userID))
}

func TestListHandler_ParsesQuery(t *testing.T) {
	svc := new(MockService)
	want := models.ListQuery{
		Page:   2,
		Limit:  10,
		Cycle:  models.Monthly,
		Search: "net",
		SortBy: models.SortByCost,
		Order:  models.OrderDesc,
	}
	page := models.Page{
		Items:       []models.SubscriptionWithCost{{Subscription: models.Subscription{ID: "sub-1", Name: "Netflix"}, TotalMonthlyCost: 15}},
		Page:        2,
		Limit:       10,
		Total:       11,
		HasPrevPage: true,
	}
	svc.On("List", mock.Anything, "user-1", want).Return(page, nil).Once()

	rec := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).
		ServeHTTP(rec, newRequest("/subscriptions?page=2&limit=10&cycle=Monthly&search=%20NET%20&sort_by=cost&order=DESC", "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body["page"])
	assert.EqualValues(t, 10, body["limit"])
	assert.EqualValues(t, 11, body["total"])
	assert.Equal(t, false, body["hasNextPage"])
	assert.Equal(t, true, body["hasPrevPage"])
	assert.Len(t, body["items"], 1)
	svc.AssertExpectations(t)
}

func TestListHandler_DefaultsAndErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("defaults", func(t *testing.T) {
		svc := new(MockService)
		svc.On("List", mock.Anything, "user-1", models.ListQuery{Page: 1, Limit: 5, Order: models.OrderAsc}).
			Return(models.Page{Items: []models.SubscriptionWithCost{}, Page: 1, Limit: 5}, nil).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest("/subscriptions?page=abc&limit=&cycle=Weekly&sort_by=name", "user-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items":[],"page":1,"limit":5,"total":0,"hasNextPage":false,"hasPrevPage":false}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("unauthorized", func(t *testing.T) {
		svc := new(MockService)
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest("/subscriptions", ""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("List", mock.Anything, "user-1", mock.Anything).Return(models.Page{}, errors.New("db error")).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest("/subscriptions", "user-1"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	})
}

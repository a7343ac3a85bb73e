package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Export(ctx context.Context, userID string, q models.ListQuery, scope string) ([]models.SubscriptionWithCost, error) {
	args := m.Called(ctx, userID, q, scope)
	rows, _ := args.Get(0).([]models.SubscriptionWithCost)
	return rows, args.Error(1)
}

func newRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "user-1"))
}

func TestExportHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rows := []models.SubscriptionWithCost{{
		Subscription:     models.Subscription{Name: `Say "hi"`, BillingCycle: models.Monthly, IsActive: true, BaseCost: 10, TaxRate: 0.1},
		TotalMonthlyCost: 11,
	}}

	t.Run("default scope is page", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Export", mock.Anything, "user-1", mock.Anything, "page").Return(rows, nil).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest("/subscriptions/export"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="subscriptions.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t,
			`"name","billing_cycle","is_active","base_cost","tax_rate","total_monthly_cost"`+"\n"+
				`"Say ""hi""","Monthly","true","10","0.1","11"`,
			rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("scope all", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Export", mock.Anything, "user-1", mock.MatchedBy(func(q models.ListQuery) bool {
			return q.SortBy == models.SortByCost
		}), "all").Return([]models.SubscriptionWithCost{}, nil).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest("/subscriptions/export?scope=all&sort_by=cost"))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown scope", func(t *testing.T) {
		svc := new(MockService)
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest("/subscriptions/export?scope=everything"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Export", mock.Anything, "user-1", mock.Anything, "page").Return(nil, errors.New("db error")).Once()

		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, newRequest("/subscriptions/export"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	})
}

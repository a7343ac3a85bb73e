// Package query применяет фильтрацию, сортировку и пагинацию к списку подписок.
package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/cost"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Ограничения пагинации.
const (
	DefaultLimit = 5
	MaxLimit     = 50
)

// FromValues разбирает параметры запроса. Некорректные значения
// заменяются значениями по умолчанию, ошибок не бывает.
func FromValues(v url.Values) models.ListQuery {
	q := models.ListQuery{
		Page:  1,
		Limit: DefaultLimit,
		Order: models.OrderAsc,
	}

	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 1 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(v.Get("limit")); err == nil {
		q.Limit = min(MaxLimit, max(1, limit))
	}
	if cycle := models.BillingCycle(v.Get("cycle")); cycle.Valid() {
		q.Cycle = cycle
	}
	q.Search = strings.ToLower(strings.TrimSpace(v.Get("search")))
	if v.Get("sort_by") == models.SortByCost {
		q.SortBy = models.SortByCost
	}
	if strings.EqualFold(v.Get("order"), models.OrderDesc) {
		q.Order = models.OrderDesc
	}
	return q
}

// Filter оставляет подписки, подходящие под период и поиск по имени.
func Filter(items []models.Subscription, q models.ListQuery) []models.Subscription {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Subscription, 0, len(items))
	for _, it := range items {
		if q.Cycle.Valid() && it.BillingCycle != q.Cycle {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Sorted фильтрует, добавляет стоимость и сортирует без пагинации.
func Sorted(items []models.Subscription, q models.ListQuery) []models.SubscriptionWithCost {
	filtered := Filter(items, q)

	mapped := make([]models.SubscriptionWithCost, 0, len(filtered))
	for _, it := range filtered {
		mapped = append(mapped, cost.WithCost(it))
	}

	if q.SortBy == models.SortByCost {
		slices.SortStableFunc(mapped, func(a, b models.SubscriptionWithCost) int {
			switch {
			case a.TotalMonthlyCost < b.TotalMonthlyCost:
				return -1
			case a.TotalMonthlyCost > b.TotalMonthlyCost:
				return 1
			}
			return 0
		})
		if q.Order == models.OrderDesc {
			slices.Reverse(mapped)
		}
	}
	return mapped
}

// Apply возвращает страницу результатов. Страница за пределами
// выборки возвращается пустой с корректными флагами.
func Apply(items []models.Subscription, q models.ListQuery) models.Page {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	mapped := Sorted(items, q)
	total := len(mapped)
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit

	paged := []models.SubscriptionWithCost{}
	if start < total {
		paged = mapped[start:min(end, total)]
	}

	return models.Page{
		Items:       paged,
		Page:        q.Page,
		Limit:       q.Limit,
		Total:       total,
		HasNextPage: end < total,
		HasPrevPage: start > 0,
	}
}

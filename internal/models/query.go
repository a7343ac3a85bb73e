package models

// SortByCost единственный поддерживаемый ключ сортировки.
const SortByCost = "cost"

// Порядок сортировки.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListQuery нормализованные параметры выборки списка подписок.
type ListQuery struct {
	Page   int
	Limit  int
	Cycle  BillingCycle // пустое значение отключает фильтр
	Search string       // в нижнем регистре, без пробелов по краям
	SortBy string       // "cost" или пусто
	Order  string       // "asc" или "desc"
}

// Page страница результатов выборки.
type Page struct {
	Items       []SubscriptionWithCost `json:"items"`
	Page        int                    `json:"page"`
	Limit       int                    `json:"limit"`
	Total       int                    `json:"total"`
	HasNextPage bool                   `json:"hasNextPage"`
	HasPrevPage bool                   `json:"hasPrevPage"`
}

// Summary агрегированная стоимость подписок пользователя.
type Summary struct {
	Count        int     `json:"count"`
	ActiveCount  int     `json:"active_count"`
	MonthlyTotal float64 `json:"monthly_total"`
	AnnualTotal  float64 `json:"annual_total"`
}

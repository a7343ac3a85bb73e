package models

import "time"

// BillingCycle период списания средств по подписке.
type BillingCycle string

const (
	// Monthly ежемесячное списание.
	Monthly BillingCycle = "Monthly"
	// Quarterly ежеквартальное списание.
	Quarterly BillingCycle = "Quarterly"
	// Annually ежегодное списание.
	Annually BillingCycle = "Annually"
)

// Valid сообщает, является ли значение одним из допустимых периодов.
func (c BillingCycle) Valid() bool {
	switch c {
	case Monthly, Quarterly, Annually:
		return true
	}
	return false
}

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
type Subscription struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Name         string       `json:"name"`
	BillingCycle BillingCycle `json:"billing_cycle"`
	IsActive     bool         `json:"is_active"`
	BaseCost     float64      `json:"base_cost"`
	TaxRate      float64      `json:"tax_rate"`
	CreatedAt    time.Time    `json:"created_at"`
}

// SubscriptionInput изменяемые поля подписки, приходящие от клиента.
type SubscriptionInput struct {
	Name         string
	BillingCycle BillingCycle
	IsActive     bool
	BaseCost     float64
	TaxRate      float64
}

// DummyEntry используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в SubscriptionInput.
// IsActive указатель, чтобы отличать отсутствующее поле от false.
type DummyEntry struct {
	Name         string  `json:"name" validate:"required"`
	BillingCycle string  `json:"billing_cycle" validate:"required,oneof=Monthly Quarterly Annually"`
	IsActive     *bool   `json:"is_active" validate:"required"`
	BaseCost     float64 `json:"base_cost" validate:"gte=0"`
	TaxRate      float64 `json:"tax_rate" validate:"gte=0"`
}

// Input конвертирует провалидированный запрос в SubscriptionInput.
func (d DummyEntry) Input() SubscriptionInput {
	in := SubscriptionInput{
		Name:         d.Name,
		BillingCycle: BillingCycle(d.BillingCycle),
		BaseCost:     d.BaseCost,
		TaxRate:      d.TaxRate,
	}
	if d.IsActive != nil {
		in.IsActive = *d.IsActive
	}
	return in
}

// SubscriptionWithCost подписка с рассчитанной месячной стоимостью.
type SubscriptionWithCost struct {
	Subscription
	TotalMonthlyCost float64 `json:"total_monthly_cost"`
}

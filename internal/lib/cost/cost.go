// Package cost приводит стоимость подписки к месячному эквиваленту.
package cost

import (
	"math"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// CycleFactor возвращает количество месяцев в периоде списания.
// Неизвестный период считается ежемесячным.
func CycleFactor(cycle models.BillingCycle) float64 {
	switch cycle {
	case models.Quarterly:
		return 3
	case models.Annually:
		return 12
	default:
		return 1
	}
}

// MonthlyCost считает месячную стоимость с учётом налога без округления.
func MonthlyCost(baseCost, taxRate float64, cycle models.BillingCycle) float64 {
	return baseCost * (1 + taxRate) / CycleFactor(cycle)
}

// Round2 округляет значение до двух знаков после запятой.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WithCost дополняет подписку округлённой месячной стоимостью.
func WithCost(sub models.Subscription) models.SubscriptionWithCost {
	return models.SubscriptionWithCost{
		Subscription:     sub,
		TotalMonthlyCost: Round2(MonthlyCost(sub.BaseCost, sub.TaxRate, sub.BillingCycle)),
	}
}

// Package csvexport формирует CSV-выгрузку подписок.
//
// Каждое значение заключается в кавычки, кавычки внутри значения удваиваются,
// строки разделяются символом перевода строки.
package csvexport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Header колонки выгрузки.
var Header = []string{"name", "billing_cycle", "is_active", "base_cost", "tax_rate", "total_monthly_cost"}

// Write пишет заголовок и строки подписок в w.
func Write(w io.Writer, items []models.SubscriptionWithCost) error {
	const op = "csvexport.Write"

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, row(Header))
	for _, it := range items {
		lines = append(lines, row([]string{
			it.Name,
			string(it.BillingCycle),
			strconv.FormatBool(it.IsActive),
			formatFloat(it.BaseCost),
			formatFloat(it.TaxRate),
			formatFloat(it.TotalMonthlyCost),
		}))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func row(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package reporting

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"p9e.in/fieldvisits/models"
)

// Totals are the aggregate figures shown under a report listing. Sums cover
// the whole filtered set, not just the current page.
type Totals struct {
	ReportCount       int64           `json:"reportCount"`
	OrdersQuoted      int64           `json:"ordersQuoted"`
	TotalOrderAmount  decimal.Decimal `json:"totalOrderAmount"`
	PaymentsCollected int64           `json:"paymentsCollected"`
	TotalPayment      decimal.Decimal `json:"totalPayment"`
}

// computeTotals aggregates over the reports matched by the filter. newQuery
// must return a fresh filtered chain per call; gorm statements cannot be
// reused once executed.
func computeTotals(newQuery func() *gorm.DB) (*Totals, error) {
	var t Totals

	if err := newQuery().Model(&models.VisitReport{}).Count(&t.ReportCount).Error; err != nil {
		return nil, err
	}

	row := newQuery().Model(&models.VisitReport{}).
		Select(
			"coalesce(sum(case when is_order_quoted then 1 else 0 end), 0)",
			"coalesce(sum(case when is_order_quoted then order_amount else 0 end), 0)",
			"coalesce(sum(case when is_payment_collected then 1 else 0 end), 0)",
			"coalesce(sum(case when is_payment_collected then payment_amount else 0 end), 0)",
		).Row()
	if err := row.Scan(&t.OrdersQuoted, &t.TotalOrderAmount, &t.PaymentsCollected, &t.TotalPayment); err != nil {
		return nil, err
	}
	return &t, nil
}

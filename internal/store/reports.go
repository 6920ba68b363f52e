package store

import (
	"context"
	"time"

	"pizza-builder-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatusTotal struct {
	Status     models.OrderStatus `json:"status"`
	Orders     int64              `json:"orders"`
	TotalSales float64            `json:"totalSales"`
}

type SalesReport struct {
	From         *time.Time    `json:"from,omitempty"`
	To           *time.Time    `json:"to,omitempty"`
	TotalRevenue float64       `json:"totalRevenue"`
	OrderCount   int64         `json:"orderCount"`
	ByStatus     []StatusTotal `json:"byStatus"`
}

// SalesReport aggregates orders created in [from, to]; zero times leave that
// side open. Cancelled orders count per status but not toward revenue.
func (s *Store) SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	scope := func() *gorm.DB {
		q := s.db(ctx).Model(&models.Order{})
		if !from.IsZero() {
			q = q.Where("created_at >= ?", from)
		}
		if !to.IsZero() {
			q = q.Where("created_at <= ?", to)
		}
		return q
	}

	report := &SalesReport{}
	if !from.IsZero() {
		report.From = &from
	}
	if !to.IsZero() {
		report.To = &to
	}

	var rows []StatusTotal
	err := scope().
		Select("status, count(*) as orders, coalesce(sum(order_total), 0) as total_sales").
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	revenue := decimal.Zero
	for i, r := range rows {
		rows[i].TotalSales, _ = decimal.NewFromFloat(r.TotalSales).Round(2).Float64()
		report.OrderCount += r.Orders
		if r.Status != models.StatusCancelled {
			revenue = revenue.Add(decimal.NewFromFloat(r.TotalSales))
		}
	}
	report.TotalRevenue, _ = revenue.Round(2).Float64()
	report.ByStatus = rows
	return report, nil
}

package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/planteforte/dashboard-comercial-api/internal/domain"
)

// Seasonality monta a matriz ano x mês de faturamento do período e
// aponta o mês historicamente mais forte (somando todos os anos).
func (s *service) Seasonality(token string, filters *domain.Filters) (*domain.SeasonalityReport, error) {
	sales, _, err := s.ingester.RawSales(token, filters)
	if err != nil {
		return nil, err
	}

	matrix := make(map[int]map[time.Month]decimal.Decimal)
	monthTotals := make(map[time.Month]decimal.Decimal)
	total := decimal.Zero

	for _, sale := range sales {
		year, month := sale.IssueDate.Year(), sale.IssueDate.Month()

		if matrix[year] == nil {
			matrix[year] = make(map[time.Month]decimal.Decimal)
		}
		matrix[year][month] = matrix[year][month].Add(sale.Amount)
		monthTotals[month] = monthTotals[month].Add(sale.Amount)
		total = total.Add(sale.Amount)
	}

	var bestMonth time.Month
	bestTotal := decimal.Zero
	for month := time.January; month <= time.December; month++ {
		if t, ok := monthTotals[month]; ok && t.GreaterThan(bestTotal) {
			bestMonth = month
			bestTotal = t
		}
	}

	return &domain.SeasonalityReport{
		Matrix:       matrix,
		BestMonth:    bestMonth,
		SalesCount:   len(sales),
		TotalRevenue: total,
	}, nil
}

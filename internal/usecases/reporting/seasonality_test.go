package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planteforte/dashboard-comercial-api/internal/domain"
)

func TestSeasonality(t *testing.T) {
	service, m := newTestService(t, nil)
	filters := &domain.Filters{}

	sales := []domain.Sale{
		sale("Alice", day(2023, 3, 5), 100, domain.ChannelSite),
		sale("Bob", day(2024, 3, 10), 250, domain.ChannelSite),
		sale("Carol", day(2024, 5, 20), 300, domain.ChannelShopee),
	}

	m.ingester.EXPECT().RawSales("tok", filters).Return(sales, false, nil)

	report, err := service.Seasonality("tok", filters)
	require.NoError(t, err)

	assert.Equal(t, 3, report.SalesCount)
	assert.True(t, report.TotalRevenue.Equal(decimal.NewFromInt(650)))

	require.Contains(t, report.Matrix, 2023)
	require.Contains(t, report.Matrix, 2024)
	assert.True(t, report.Matrix[2023][time.March].Equal(decimal.NewFromInt(100)))
	assert.True(t, report.Matrix[2024][time.March].Equal(decimal.NewFromInt(250)))
	assert.True(t, report.Matrix[2024][time.May].Equal(decimal.NewFromInt(300)))

	// O melhor mês soma todos os anos: março acumula 350 contra 300 de maio
	assert.Equal(t, time.March, report.BestMonth)
}

func TestSeasonalityEmptyPeriod(t *testing.T) {
	service, m := newTestService(t, nil)
	filters := &domain.Filters{}

	m.ingester.EXPECT().RawSales("tok", filters).Return(nil, false, nil)

	report, err := service.Seasonality("tok", filters)
	require.NoError(t, err)

	assert.Zero(t, report.SalesCount)
	assert.True(t, report.TotalRevenue.IsZero())
	assert.Empty(t, report.Matrix)
	assert.Zero(t, int(report.BestMonth))
}

package reporting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
)

func item(sku, description string, quantity, total int64) tinydomain.Item {
	return tinydomain.Item{
		Codigo:     sku,
		Descricao:  description,
		Quantidade: tinydomain.NewFlexValor(decimal.NewFromInt(quantity)),
		ValorTotal: tinydomain.NewFlexValor(decimal.NewFromInt(total)),
	}
}

func TestProductABC(t *testing.T) {
	cfg := &config.Config{
		ProductAnalysis: config.ProductAnalysis{SampleSize: 2, RequestDelayMillis: 0},
	}
	service, m := newTestService(t, cfg)

	sales := []domain.Sale{
		{ExternalID: "1", IssueDate: day(2024, 3, 10)},
		{ExternalID: "2", IssueDate: day(2024, 3, 11)},
		{ExternalID: "3", IssueDate: day(2024, 3, 12)},
	}
	filters := &domain.Filters{}

	m.ingester.EXPECT().RawSales("tok", filters).Return(sales, false, nil)

	// A amostra pega as notas mais recentes; a nota "1" fica de fora
	m.tiny.EXPECT().GetSaleItems("tok", "3").Return([]tinydomain.Item{
		item("SKU-1", "Substrato 10kg", 2, 800),
	})
	m.tiny.EXPECT().GetSaleItems("tok", "2").Return([]tinydomain.Item{
		item("SKU-2", "Adubo 5kg", 3, 150),
		item("SKU-3", "Vaso 20cm", 1, 50),
	})

	report, err := service.ProductABC("tok", filters)
	require.NoError(t, err)

	assert.Equal(t, 2, report.SampledNotes)
	assert.Equal(t, 3, report.AvailableRows)
	assert.True(t, report.TotalRevenue.Equal(decimal.NewFromInt(1000)))

	require.Len(t, report.Items, 3)
	assert.Equal(t, "SKU-1", report.Items[0].SKU)
	assert.Equal(t, domain.ABCClassA, report.Items[0].Class)
	assert.InDelta(t, 80.0, report.Items[0].CumulativePercent, 0.001)

	assert.Equal(t, "SKU-2", report.Items[1].SKU)
	assert.Equal(t, domain.ABCClassB, report.Items[1].Class)
	assert.InDelta(t, 95.0, report.Items[1].CumulativePercent, 0.001)

	assert.Equal(t, "SKU-3", report.Items[2].SKU)
	assert.Equal(t, domain.ABCClassC, report.Items[2].Class)
	// O último item da curva sempre fecha em 100%
	assert.InDelta(t, 100.0, report.Items[2].CumulativePercent, 0.001)
}

func TestProductABCAggregatesBySKU(t *testing.T) {
	cfg := &config.Config{
		ProductAnalysis: config.ProductAnalysis{SampleSize: 0, RequestDelayMillis: 0},
	}
	service, m := newTestService(t, cfg)

	sales := []domain.Sale{
		{ExternalID: "1", IssueDate: day(2024, 3, 10)},
		{ExternalID: "2", IssueDate: day(2024, 3, 11)},
	}
	filters := &domain.Filters{}

	m.ingester.EXPECT().RawSales("tok", filters).Return(sales, false, nil)
	m.tiny.EXPECT().GetSaleItems("tok", "2").Return([]tinydomain.Item{
		item("SKU-1", "Substrato 10kg", 1, 40),
	})
	m.tiny.EXPECT().GetSaleItems("tok", "1").Return([]tinydomain.Item{
		item("SKU-1", "Substrato 10kg", 2, 60),
	})

	report, err := service.ProductABC("tok", filters)
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	assert.True(t, report.Items[0].Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, report.Items[0].Total.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.ABCClassC, report.Items[0].Class)
}

func TestProductABCDetailUnavailable(t *testing.T) {
	cfg := &config.Config{
		ProductAnalysis: config.ProductAnalysis{SampleSize: 1, RequestDelayMillis: 0},
	}
	service, m := newTestService(t, cfg)

	sales := []domain.Sale{{ExternalID: "1", IssueDate: day(2024, 3, 10)}}
	filters := &domain.Filters{}

	m.ingester.EXPECT().RawSales("tok", filters).Return(sales, false, nil)
	m.tiny.EXPECT().GetSaleItems("tok", "1").Return(nil)

	report, err := service.ProductABC("tok", filters)
	require.NoError(t, err)

	assert.Empty(t, report.Items)
	assert.True(t, report.TotalRevenue.IsZero())
}

func TestProductABCIngestError(t *testing.T) {
	service, m := newTestService(t, &config.Config{})
	filters := &domain.Filters{}

	m.ingester.EXPECT().RawSales("abc", filters).Return(nil, false, tinydomain.ErrInvalidToken)

	_, err := service.ProductABC("abc", filters)
	assert.ErrorIs(t, err, tinydomain.ErrInvalidToken)
}

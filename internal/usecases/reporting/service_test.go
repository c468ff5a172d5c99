package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	tinymocks "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/mocks"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	ingestmocks "github.com/planteforte/dashboard-comercial-api/internal/usecases/ingesting/mocks"
)

type reportingMocks struct {
	tiny     *tinymocks.MockTinyIntegrator
	ingester *ingestmocks.MockService
}

func newTestService(t *testing.T, cfg *config.Config) (Service, reportingMocks) {
	ctrl := gomock.NewController(t)

	m := reportingMocks{
		tiny:     tinymocks.NewMockTinyIntegrator(ctrl),
		ingester: ingestmocks.NewMockService(ctrl),
	}

	if cfg == nil {
		cfg = &config.Config{}
	}
	return NewService(cfg, m.tiny, m.ingester), m
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func sale(customer string, issueDate time.Time, amount float64, channel domain.Channel) domain.Sale {
	return domain.Sale{
		Customer:  customer,
		IssueDate: issueDate,
		Amount:    decimal.NewFromFloat(amount),
		Channel:   channel,
	}
}

func fixtureResult() *domain.IngestResult {
	s1 := sale("Alice", day(2024, 3, 10), 100, domain.ChannelSite)
	s1.City, s1.State, s1.CityKey = "São Paulo", "SP", "SAO PAULO-SP"

	s2 := sale("Bob", day(2024, 3, 10), 200, domain.ChannelShopee)
	s2.City, s2.State, s2.CityKey = "Campinas", "SP", "CAMPINAS-SP"

	s3 := sale("Carol", day(2024, 3, 12), 300, domain.ChannelSite)
	// Nota sem cidade: conta nos KPIs mas fica fora do join geográfico

	return &domain.IngestResult{
		Sales: []domain.Sale{s1, s2, s3},
		Enriched: []domain.EnrichedSale{
			{Sale: s1, Latitude: -23.5, Longitude: -46.6},
			{Sale: s2, Latitude: -22.9, Longitude: -47.0},
		},
	}
}

func TestKPIs(t *testing.T) {
	service, _ := newTestService(t, nil)

	kpis := service.KPIs(fixtureResult())

	assert.True(t, kpis.TotalRevenue.Equal(decimal.NewFromInt(600)), "faturamento %s", kpis.TotalRevenue)
	assert.True(t, kpis.AverageTicket.Equal(decimal.NewFromInt(200)), "ticket %s", kpis.AverageTicket)
	assert.Equal(t, 3, kpis.InvoiceCount)
	// A nota sem cidade não entra na contagem de cidades atendidas
	assert.Equal(t, 2, kpis.CityCount)
}

func TestKPIsCountSalesWithoutGeoMatch(t *testing.T) {
	service, _ := newTestService(t, nil)

	s1 := sale("Alice", day(2024, 3, 10), 100, domain.ChannelSite)
	s1.City, s1.State, s1.CityKey = "São Paulo", "SP", "SAO PAULO-SP"

	s2 := sale("Bob", day(2024, 3, 11), 900, domain.ChannelSite)
	s2.City, s2.State, s2.CityKey = "Povoado Novo", "SP", "POVOADO NOVO-SP"

	// Só a primeira cidade tem par na tabela do IBGE
	result := &domain.IngestResult{
		Sales: []domain.Sale{s1, s2},
		Enriched: []domain.EnrichedSale{
			{Sale: s1, Latitude: -23.5, Longitude: -46.6},
		},
	}

	kpis := service.KPIs(result)

	// Venda em cidade fora da tabela continua contando como receita;
	// só os rankings geográficos ficam restritos ao join
	assert.Equal(t, 2, kpis.InvoiceCount)
	assert.True(t, kpis.TotalRevenue.Equal(decimal.NewFromInt(1000)), "faturamento %s", kpis.TotalRevenue)
	assert.Equal(t, 2, kpis.CityCount)

	states := service.TopStates(result, 10)
	require.Len(t, states, 1)
	assert.True(t, states[0].Total.Equal(decimal.NewFromInt(100)))
}

func TestKPIsEmptyResult(t *testing.T) {
	service, _ := newTestService(t, nil)

	kpis := service.KPIs(&domain.IngestResult{})

	assert.True(t, kpis.TotalRevenue.IsZero())
	assert.True(t, kpis.AverageTicket.IsZero())
	assert.Zero(t, kpis.InvoiceCount)
	assert.Zero(t, kpis.CityCount)
}

func TestChannelBreakdown(t *testing.T) {
	service, _ := newTestService(t, nil)

	breakdown := service.ChannelBreakdown(fixtureResult())

	require.Len(t, breakdown, 2)
	assert.Equal(t, "Site", breakdown[0].Label)
	assert.True(t, breakdown[0].Total.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "Shopee", breakdown[1].Label)
	assert.True(t, breakdown[1].Total.Equal(decimal.NewFromInt(200)))
}

func TestDailySeries(t *testing.T) {
	service, _ := newTestService(t, nil)

	series := service.DailySeries(fixtureResult())

	require.Len(t, series, 2)
	assert.Equal(t, day(2024, 3, 10), series[0].Date)
	assert.True(t, series[0].Total.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, day(2024, 3, 12), series[1].Date)
	assert.True(t, series[1].Total.Equal(decimal.NewFromInt(300)))
}

func TestTopStatesAndCities(t *testing.T) {
	service, _ := newTestService(t, nil)
	result := fixtureResult()

	states := service.TopStates(result, 10)
	require.Len(t, states, 1)
	assert.Equal(t, "SP", states[0].Label)
	// Rankings geográficos somam só as vendas com par no IBGE
	assert.True(t, states[0].Total.Equal(decimal.NewFromInt(300)))

	cities := service.TopCities(result, 10)
	require.Len(t, cities, 2)
	assert.Equal(t, "Campinas", cities[0].Label)
	assert.Equal(t, "São Paulo", cities[1].Label)

	limited := service.TopCities(result, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "Campinas", limited[0].Label)
}

func TestRankDescendingTieBreak(t *testing.T) {
	ranked := rankDescending(map[string]decimal.Decimal{
		"B": decimal.NewFromInt(10),
		"A": decimal.NewFromInt(10),
		"C": decimal.NewFromInt(5),
	}, 0)

	require.Len(t, ranked, 3)
	assert.Equal(t, "A", ranked[0].Label)
	assert.Equal(t, "B", ranked[1].Label)
	assert.Equal(t, "C", ranked[2].Label)
}

package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/ingesting"
)

// Service calcula os agregados comerciais sobre o resultado da ingestão.
//
// Indicadores não geográficos (KPIs, canais, série diária) usam o
// conjunto completo de vendas; os rankings geográficos usam só o
// subconjunto com coordenadas, porque o join com o IBGE é interno.
type Service interface {
	KPIs(result *domain.IngestResult) domain.KPIs
	ChannelBreakdown(result *domain.IngestResult) []domain.RankedTotal
	DailySeries(result *domain.IngestResult) []domain.DatePoint
	TopStates(result *domain.IngestResult, limit int) []domain.RankedTotal
	TopCities(result *domain.IngestResult, limit int) []domain.RankedTotal
	ProductABC(token string, filters *domain.Filters) (*domain.ABCReport, error)
	Retention(token string, window1, window2 *domain.Filters) (*domain.RetentionReport, error)
	Seasonality(token string, filters *domain.Filters) (*domain.SeasonalityReport, error)
}

type service struct {
	cfg            *config.Config
	tinyIntegrator tiny.TinyIntegrator
	ingester       ingesting.Service
}

func NewService(cfg *config.Config, tinyIntegrator tiny.TinyIntegrator, ingester ingesting.Service) Service {
	return &service{
		cfg:            cfg,
		tinyIntegrator: tinyIntegrator,
		ingester:       ingester,
	}
}

func (s *service) KPIs(result *domain.IngestResult) domain.KPIs {
	total := decimal.Zero
	cities := make(map[string]struct{})

	for _, sale := range result.Sales {
		total = total.Add(sale.Amount)
		if sale.City != "" {
			cities[sale.CityKey] = struct{}{}
		}
	}

	ticket := decimal.Zero
	if len(result.Sales) > 0 {
		ticket = total.Div(decimal.NewFromInt(int64(len(result.Sales))))
	}

	return domain.KPIs{
		TotalRevenue:  total,
		AverageTicket: ticket,
		InvoiceCount:  len(result.Sales),
		CityCount:     len(cities),
	}
}

func (s *service) ChannelBreakdown(result *domain.IngestResult) []domain.RankedTotal {
	totals := make(map[string]decimal.Decimal)
	for _, sale := range result.Sales {
		label := string(sale.Channel)
		totals[label] = totals[label].Add(sale.Amount)
	}

	return rankDescending(totals, 0)
}

func (s *service) DailySeries(result *domain.IngestResult) []domain.DatePoint {
	totals := make(map[time.Time]decimal.Decimal)
	for _, sale := range result.Sales {
		day := sale.IssueDate.Truncate(24 * time.Hour)
		totals[day] = totals[day].Add(sale.Amount)
	}

	series := make([]domain.DatePoint, 0, len(totals))
	for day, total := range totals {
		series = append(series, domain.DatePoint{Date: day, Total: total})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series
}

func (s *service) TopStates(result *domain.IngestResult, limit int) []domain.RankedTotal {
	totals := make(map[string]decimal.Decimal)
	for _, sale := range result.Enriched {
		totals[sale.State] = totals[sale.State].Add(sale.Amount)
	}

	return rankDescending(totals, limit)
}

func (s *service) TopCities(result *domain.IngestResult, limit int) []domain.RankedTotal {
	totals := make(map[string]decimal.Decimal)
	for _, sale := range result.Enriched {
		totals[sale.City] = totals[sale.City].Add(sale.Amount)
	}

	return rankDescending(totals, limit)
}

// rankDescending ordena os totais por valor decrescente e corta em
// limit quando positivo. Empates desempatam pelo rótulo para a saída
// ser estável.
func rankDescending(totals map[string]decimal.Decimal, limit int) []domain.RankedTotal {
	ranked := make([]domain.RankedTotal, 0, len(totals))
	for label, total := range totals {
		ranked = append(ranked, domain.RankedTotal{Label: label, Total: total})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Total.Equal(ranked[j].Total) {
			return ranked[i].Total.GreaterThan(ranked[j].Total)
		}
		return ranked[i].Label < ranked[j].Label
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

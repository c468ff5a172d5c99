package reporting

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/planteforte/dashboard-comercial-api/internal/domain"
)

// Retention cruza os clientes de duas janelas de tempo e reparte em
// perdidos, novos e retidos. A identidade do cliente é o nome em caixa
// alta sem espaços nas pontas; cada resumo carrega os canais pelos
// quais o cliente comprou, para filtro na ponta.
func (s *service) Retention(token string, window1, window2 *domain.Filters) (*domain.RetentionReport, error) {
	sales1, _, err := s.ingester.RawSales(token, window1)
	if err != nil {
		return nil, err
	}

	sales2, _, err := s.ingester.RawSales(token, window2)
	if err != nil {
		return nil, err
	}

	customers1 := summarizeCustomers(sales1)
	customers2 := summarizeCustomers(sales2)

	report := &domain.RetentionReport{
		Window1Count: len(customers1),
		Window2Count: len(customers2),
	}

	for identity, summary := range customers1 {
		if _, ok := customers2[identity]; ok {
			report.Retained = append(report.Retained, *summary)
		} else {
			report.Lost = append(report.Lost, *summary)
		}
	}

	for identity, summary := range customers2 {
		if _, ok := customers1[identity]; !ok {
			report.New = append(report.New, *summary)
		}
	}

	if len(customers1) > 0 {
		report.RetentionRate = float64(len(report.Retained)) / float64(len(customers1))
	}

	sortSummaries(report.Lost)
	sortSummaries(report.New)
	sortSummaries(report.Retained)

	return report, nil
}

func summarizeCustomers(sales []domain.Sale) map[string]*domain.CustomerSummary {
	type accumulator struct {
		summary  *domain.CustomerSummary
		channels map[domain.Channel]struct{}
	}
	customers := make(map[string]*accumulator)

	for _, sale := range sales {
		identity := strings.ToUpper(strings.TrimSpace(sale.Customer))
		if identity == "" {
			continue
		}

		acc, ok := customers[identity]
		if !ok {
			acc = &accumulator{
				summary:  &domain.CustomerSummary{Name: identity, Total: decimal.Zero},
				channels: make(map[domain.Channel]struct{}),
			}
			customers[identity] = acc
		}

		acc.summary.Total = acc.summary.Total.Add(sale.Amount)
		acc.summary.Orders++
		acc.channels[sale.Channel] = struct{}{}
	}

	summaries := make(map[string]*domain.CustomerSummary, len(customers))
	for identity, acc := range customers {
		for channel := range acc.channels {
			acc.summary.Channels = append(acc.summary.Channels, channel)
		}
		sort.Slice(acc.summary.Channels, func(i, j int) bool {
			return acc.summary.Channels[i] < acc.summary.Channels[j]
		})
		summaries[identity] = acc.summary
	}

	return summaries
}

func sortSummaries(summaries []domain.CustomerSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Total.Equal(summaries[j].Total) {
			return summaries[i].Total.GreaterThan(summaries[j].Total)
		}
		return summaries[i].Name < summaries[j].Name
	})
}

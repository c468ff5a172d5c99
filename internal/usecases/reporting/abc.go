package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/pkg/utils"
)

var (
	abcClassALimit = decimal.NewFromInt(80)
	abcClassBLimit = decimal.NewFromInt(95)
)

// ProductABC monta a curva ABC de produtos do período. A API do Tiny só
// entrega itens no endpoint de detalhe, uma nota por chamada, então a
// análise amostra as notas mais recentes (tamanho configurável) com uma
// pausa entre chamadas para não estourar o rate limit.
func (s *service) ProductABC(token string, filters *domain.Filters) (*domain.ABCReport, error) {
	sales, _, err := s.ingester.RawSales(token, filters)
	if err != nil {
		return nil, err
	}

	sort.Slice(sales, func(i, j int) bool {
		return sales[i].IssueDate.After(sales[j].IssueDate)
	})

	sampleSize := s.cfg.ProductAnalysis.SampleSize
	if sampleSize <= 0 || sampleSize > len(sales) {
		sampleSize = len(sales)
	}
	delay := time.Duration(s.cfg.ProductAnalysis.RequestDelayMillis) * time.Millisecond

	type productTotals struct {
		description string
		quantity    decimal.Decimal
		total       decimal.Decimal
	}
	products := make(map[string]*productTotals)

	for i, sale := range sales[:sampleSize] {
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}

		items := s.tinyIntegrator.GetSaleItems(token, sale.ExternalID)
		if len(items) == 0 {
			logrus.Debugf("Nota %s sem itens no detalhe", sale.ExternalID)
			continue
		}

		for _, item := range items {
			p, ok := products[item.Codigo]
			if !ok {
				p = &productTotals{description: item.Descricao}
				products[item.Codigo] = p
			}
			p.quantity = p.quantity.Add(item.Quantidade.Decimal())
			p.total = p.total.Add(item.ValorTotal.Decimal())
		}
	}

	report := &domain.ABCReport{
		SampledNotes:  sampleSize,
		AvailableRows: len(sales),
	}

	for _, p := range products {
		report.TotalRevenue = report.TotalRevenue.Add(p.total)
	}

	items := make([]domain.ProductItem, 0, len(products))
	for sku, p := range products {
		items = append(items, domain.ProductItem{
			SKU:         sku,
			Description: p.description,
			Quantity:    p.quantity,
			Total:       p.total,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].Total.Equal(items[j].Total) {
			return items[i].Total.GreaterThan(items[j].Total)
		}
		return items[i].SKU < items[j].SKU
	})

	// A classe é decidida pelo percentual ACUMULADO na sequência
	// ordenada, não pela fatia individual do item.
	cumulative := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for i := range items {
		cumulative = cumulative.Add(items[i].Total)

		percent := decimal.Zero
		if report.TotalRevenue.IsPositive() {
			percent = cumulative.Mul(hundred).Div(report.TotalRevenue)
		}
		rawPercent, _ := percent.Float64()
		items[i].CumulativePercent = utils.RoundWithTwoDecimalPlace(rawPercent)

		switch {
		case percent.LessThanOrEqual(abcClassALimit):
			items[i].Class = domain.ABCClassA
		case percent.LessThanOrEqual(abcClassBLimit):
			items[i].Class = domain.ABCClassB
		default:
			items[i].Class = domain.ABCClassC
		}
	}

	report.Items = items
	return report, nil
}

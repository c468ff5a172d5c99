package ingesting

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/ibge"
	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny"
	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
	"github.com/planteforte/dashboard-comercial-api/infrastructure/repository"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/pkg/cache"
)

// Service executa o pipeline de ingestão: busca as notas do período no
// Tiny, classifica canal e assinatura, aplica o blacklist e cruza com a
// tabela de municípios do IBGE.
type Service interface {
	Ingest(token string, filters *domain.Filters) (*domain.IngestResult, error)
	RawSales(token string, filters *domain.Filters) ([]domain.Sale, bool, error)
}

type service struct {
	tinyIntegrator tiny.TinyIntegrator
	municipios     ibge.MunicipioProvider
	blacklist      repository.BlacklistRepository
	invoiceCache   *cache.InMemory[[]tinydomain.Invoice]
}

func NewService(
	cfg *config.Config,
	tinyIntegrator tiny.TinyIntegrator,
	municipios ibge.MunicipioProvider,
	blacklist repository.BlacklistRepository,
) Service {
	ttl := time.Duration(cfg.SalesCache.TTLSeconds) * time.Second

	return &service{
		tinyIntegrator: tinyIntegrator,
		municipios:     municipios,
		blacklist:      blacklist,
		invoiceCache:   cache.NewInMemory[[]tinydomain.Invoice](ttl),
	}
}

// Ingest roda o pipeline completo. Resultado parcial da API é aceito:
// processamos o que veio e marcamos Partial, em vez de derrubar o
// dashboard inteiro por uma página que falhou.
func (s *service) Ingest(token string, filters *domain.Filters) (*domain.IngestResult, error) {
	sales, partial, err := s.RawSales(token, filters)
	if err != nil {
		return nil, err
	}

	enriched, err := s.enrich(sales)
	if err != nil {
		return nil, err
	}

	return &domain.IngestResult{
		Sales:    sales,
		Enriched: enriched,
		Partial:  partial,
	}, nil
}

// RawSales devolve as vendas classificadas e filtradas pelo blacklist,
// sem o join geográfico. O filtro roda depois da leitura do cache, assim
// exclusões novas valem já na próxima consulta.
func (s *service) RawSales(token string, filters *domain.Filters) ([]domain.Sale, bool, error) {
	invoices, partial, err := s.fetchInvoices(token, filters)
	if err != nil {
		return nil, false, err
	}

	excluded, err := s.blacklist.All()
	if err != nil {
		return nil, false, err
	}

	sales := make([]domain.Sale, 0, len(invoices))
	for _, invoice := range invoices {
		sale := buildSale(invoice)
		if _, skip := excluded[sale.Fingerprint]; skip {
			continue
		}
		sales = append(sales, sale)
	}

	return sales, partial, nil
}

func (s *service) fetchInvoices(token string, filters *domain.Filters) ([]tinydomain.Invoice, bool, error) {
	key := cacheKey(token, filters)
	if invoices, ok := s.invoiceCache.Get(key); ok {
		return invoices, false, nil
	}

	invoices, err := s.tinyIntegrator.GetSales(token, filters)
	if err != nil {
		if tinydomain.IsRemoteError(err) {
			// Resultado parcial: usa o que veio e não grava no cache,
			// senão a próxima consulta repete o buraco.
			logrus.Warnf("Ingestão parcial do Tiny: %v", err)
			return invoices, true, nil
		}
		return nil, false, err
	}

	s.invoiceCache.Set(key, invoices)
	return invoices, false, nil
}

func (s *service) enrich(sales []domain.Sale) ([]domain.EnrichedSale, error) {
	index, err := s.municipios.Municipalities()
	if err != nil {
		return nil, err
	}

	enriched := make([]domain.EnrichedSale, 0, len(sales))
	for _, sale := range sales {
		if sale.City == "" {
			continue
		}
		municipality, ok := index[sale.CityKey]
		if !ok {
			continue
		}
		enriched = append(enriched, domain.EnrichedSale{
			Sale:      sale,
			Latitude:  municipality.Latitude,
			Longitude: municipality.Longitude,
		})
	}

	return enriched, nil
}

func buildSale(invoice tinydomain.Invoice) domain.Sale {
	city, state := invoice.Location()
	customer := invoice.CustomerName()
	amount := invoice.Amount()
	issueDate := domain.ParseIssueDate(invoice.DataEmissao)

	return domain.Sale{
		ExternalID:      string(invoice.ID),
		Number:          string(invoice.Numero),
		IssueDateRaw:    invoice.DataEmissao,
		IssueDate:       issueDate,
		Customer:        customer,
		City:            city,
		State:           state,
		Amount:          amount,
		EcommerceNumber: string(invoice.NumeroEcommerce),
		Notes:           invoice.Obs,
		Channel:         domain.IdentifyChannel(string(invoice.NumeroEcommerce), invoice.Obs, customer),
		Fingerprint:     domain.MakeFingerprint(issueDate, customer, amount),
		CityKey:         domain.MakeCityKey(city, state),
	}
}

func cacheKey(token string, filters *domain.Filters) string {
	digest := sha256.Sum256([]byte(token))

	start, end := "", ""
	if filters != nil {
		if filters.StartDate != nil {
			start = filters.StartDate.Format("2006-01-02")
		}
		if filters.EndDate != nil {
			end = filters.EndDate.Format("2006-01-02")
		}
	}

	return fmt.Sprintf("%x|%s|%s", digest[:8], start, end)
}

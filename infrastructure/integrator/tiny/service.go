package tiny

import (
	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/tinyclient"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
)

// minTokenLength é o tamanho mínimo plausível de um token do Tiny.
const minTokenLength = 10

type TinyIntegrator interface {
	// GetSales busca os cabeçalhos das notas do período. Pode devolver
	// resultado parcial junto com um *RemoteError.
	GetSales(token string, filters *domain.Filters) ([]tinydomain.Invoice, error)

	// GetSaleItems busca os itens de uma nota. Lista vazia quando o
	// detalhe está indisponível; nunca falha.
	GetSaleItems(token, invoiceID string) []tinydomain.Item
}

type TinyService struct {
	cfg    *config.Config
	Client tinyclient.Client
}

func New(cfg *config.Config, client tinyclient.Client) TinyIntegrator {
	return &TinyService{
		cfg:    cfg,
		Client: client,
	}
}

func (s *TinyService) GetSales(token string, filters *domain.Filters) ([]tinydomain.Invoice, error) {
	if len(token) < minTokenLength {
		return nil, tinydomain.ErrInvalidToken
	}

	if filters == nil || filters.StartDate == nil || filters.EndDate == nil || filters.StartDate.After(*filters.EndDate) {
		return nil, tinydomain.ErrInvalidPeriod
	}

	return s.Client.SearchInvoices(tinyclient.SearchParams{
		Token:     token,
		StartDate: *filters.StartDate,
		EndDate:   *filters.EndDate,
	})
}

func (s *TinyService) GetSaleItems(token, invoiceID string) []tinydomain.Item {
	detail := s.Client.GetInvoiceDetail(token, invoiceID)
	if detail == nil {
		return nil
	}

	items := make([]tinydomain.Item, 0, len(detail.Itens))
	for _, w := range detail.Itens {
		items = append(items, w.Item)
	}
	return items
}

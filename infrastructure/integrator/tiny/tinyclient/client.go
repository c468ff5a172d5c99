package tinyclient

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client interface {
	SearchInvoices(params SearchParams) ([]tinydomain.Invoice, error)
	GetInvoiceDetail(token, invoiceID string) *tinydomain.DetailInvoice
}

type TinyClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient cria uma nova instância do cliente da API do Tiny.
func NewClient(cfg *config.Config) Client {
	timeout := time.Duration(cfg.Tiny.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &TinyClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}

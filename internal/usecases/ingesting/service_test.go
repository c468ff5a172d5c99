package ingesting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	ibgemocks "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/ibge/mocks"
	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
	tinymocks "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/mocks"
	repomocks "github.com/planteforte/dashboard-comercial-api/infrastructure/repository/mocks"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
)

type pipelineMocks struct {
	tiny       *tinymocks.MockTinyIntegrator
	municipios *ibgemocks.MockMunicipioProvider
	blacklist  *repomocks.MockBlacklistRepository
}

func newTestService(t *testing.T) (Service, pipelineMocks) {
	ctrl := gomock.NewController(t)

	m := pipelineMocks{
		tiny:       tinymocks.NewMockTinyIntegrator(ctrl),
		municipios: ibgemocks.NewMockMunicipioProvider(ctrl),
		blacklist:  repomocks.NewMockBlacklistRepository(ctrl),
	}

	cfg := &config.Config{SalesCache: config.SalesCache{TTLSeconds: 60}}
	return NewService(cfg, m.tiny, m.municipios, m.blacklist), m
}

func testFilters() *domain.Filters {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	return &domain.Filters{StartDate: &start, EndDate: &end}
}

func testInvoices() []tinydomain.Invoice {
	return []tinydomain.Invoice{
		{
			ID:          "101",
			Numero:      "12345",
			DataEmissao: "15/03/2024",
			Nome:        "João Silva",
			ValorNota:   tinydomain.NewFlexValor(decimal.NewFromFloat(1234.56)),
			Cliente:     tinydomain.Customer{Cidade: "São Paulo", UF: "SP"},
		},
		{
			ID:          "102",
			Numero:      "12346",
			DataEmissao: "16/03/2024",
			Nome:        "Maria Souza",
			ValorNota:   tinydomain.NewFlexValor(decimal.NewFromInt(100)),
			Cliente:     tinydomain.Customer{Cidade: "Vila Sem Registro", UF: "SP"},
		},
		{
			ID:          "103",
			Numero:      "12347",
			DataEmissao: "17/03/2024",
			Nome:        "Pedro Lima",
			ValorNota:   tinydomain.NewFlexValor(decimal.NewFromInt(50)),
		},
	}
}

func saoPauloIndex() map[string]domain.Municipality {
	return map[string]domain.Municipality{
		"SAO PAULO-SP": {
			Key:       "SAO PAULO-SP",
			Name:      "São Paulo",
			State:     "SP",
			Latitude:  -23.5329,
			Longitude: -46.6395,
		},
	}
}

func TestIngest(t *testing.T) {
	service, m := newTestService(t)
	filters := testFilters()

	m.tiny.EXPECT().GetSales("token-valido-123", filters).Return(testInvoices(), nil)
	m.blacklist.EXPECT().All().Return(map[string]struct{}{}, nil)
	m.municipios.EXPECT().Municipalities().Return(saoPauloIndex(), nil)

	result, err := service.Ingest("token-valido-123", filters)
	require.NoError(t, err)

	assert.False(t, result.Partial)
	require.Len(t, result.Sales, 3)

	// Cidade sem par na tabela do IBGE e nota sem cidade ficam fora do
	// conjunto geográfico, mas permanecem no conjunto de vendas
	require.Len(t, result.Enriched, 1)
	assert.Equal(t, "João Silva", result.Enriched[0].Customer)
	assert.InDelta(t, -23.5329, result.Enriched[0].Latitude, 0.0001)
	assert.InDelta(t, -46.6395, result.Enriched[0].Longitude, 0.0001)

	first := result.Sales[0]
	assert.Equal(t, "101", first.ExternalID)
	assert.Equal(t, "20240315-JoãoSilva-123456", first.Fingerprint)
	assert.Equal(t, "SAO PAULO-SP", first.CityKey)
	assert.Equal(t, domain.ChannelVendaDireta, first.Channel)
}

func TestIngestBlacklistExclusion(t *testing.T) {
	service, m := newTestService(t)
	filters := testFilters()

	m.tiny.EXPECT().GetSales("token-valido-123", filters).Return(testInvoices(), nil)
	m.blacklist.EXPECT().All().Return(map[string]struct{}{
		"20240315-JoãoSilva-123456": {},
	}, nil)
	m.municipios.EXPECT().Municipalities().Return(saoPauloIndex(), nil)

	result, err := service.Ingest("token-valido-123", filters)
	require.NoError(t, err)

	require.Len(t, result.Sales, 2)
	for _, sale := range result.Sales {
		assert.NotEqual(t, "20240315-JoãoSilva-123456", sale.Fingerprint)
	}
	assert.Empty(t, result.Enriched)
}

func TestIngestPartialResult(t *testing.T) {
	service, m := newTestService(t)
	filters := testFilters()

	remoteErr := &tinydomain.RemoteError{Message: "API bloqueada temporariamente"}
	partial := testInvoices()[:1]

	// Resultado parcial não vai para o cache: a próxima consulta
	// repete a busca inteira
	m.tiny.EXPECT().GetSales("token-valido-123", filters).Return(partial, remoteErr).Times(2)
	m.blacklist.EXPECT().All().Return(map[string]struct{}{}, nil).Times(2)
	m.municipios.EXPECT().Municipalities().Return(saoPauloIndex(), nil).Times(2)

	result, err := service.Ingest("token-valido-123", filters)
	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Len(t, result.Sales, 1)

	result, err = service.Ingest("token-valido-123", filters)
	require.NoError(t, err)
	assert.True(t, result.Partial)
}

func TestIngestFatalError(t *testing.T) {
	service, m := newTestService(t)
	filters := testFilters()

	m.tiny.EXPECT().GetSales("abc", filters).Return(nil, tinydomain.ErrInvalidToken)

	_, err := service.Ingest("abc", filters)
	assert.ErrorIs(t, err, tinydomain.ErrInvalidToken)
}

func TestRawSalesCache(t *testing.T) {
	service, m := newTestService(t)
	filters := testFilters()

	m.tiny.EXPECT().GetSales("token-valido-123", filters).Return(testInvoices(), nil).Times(1)
	// O blacklist é aplicado depois da leitura do cache, então roda a
	// cada chamada mesmo com as notas já em memória
	m.blacklist.EXPECT().All().Return(map[string]struct{}{}, nil).Times(2)

	sales, partial, err := service.RawSales("token-valido-123", filters)
	require.NoError(t, err)
	assert.False(t, partial)
	assert.Len(t, sales, 3)

	sales, _, err = service.RawSales("token-valido-123", filters)
	require.NoError(t, err)
	assert.Len(t, sales, 3)
}

func TestRawSalesCacheKeyedByToken(t *testing.T) {
	service, m := newTestService(t)
	filters := testFilters()

	m.tiny.EXPECT().GetSales("token-valido-123", filters).Return(testInvoices(), nil)
	m.tiny.EXPECT().GetSales("outro-token-9999", filters).Return(testInvoices()[:1], nil)
	m.blacklist.EXPECT().All().Return(map[string]struct{}{}, nil).Times(2)

	sales, _, err := service.RawSales("token-valido-123", filters)
	require.NoError(t, err)
	assert.Len(t, sales, 3)

	sales, _, err = service.RawSales("outro-token-9999", filters)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

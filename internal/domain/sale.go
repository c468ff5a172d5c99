package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale é uma nota fiscal já convertida do formato da API para o domínio.
// Imutável depois de montada pelo pipeline de ingestão.
type Sale struct {
	ExternalID      string          `json:"id"`
	Number          string          `json:"numero"`
	IssueDateRaw    string          `json:"data_emissao"`
	IssueDate       time.Time       `json:"data"`
	Customer        string          `json:"cliente"`
	City            string          `json:"cidade"`
	State           string          `json:"uf"`
	Amount          decimal.Decimal `json:"valor"`
	EcommerceNumber string          `json:"numero_ecommerce"`
	Notes           string          `json:"obs"`
	Channel         Channel         `json:"canal"`
	Fingerprint     string          `json:"id_unico"`
	CityKey         string          `json:"chave_cidade"`
}

// Municipality é uma linha da tabela de referência do IBGE.
type Municipality struct {
	Key       string  `json:"chave_cidade"`
	Name      string  `json:"nome"`
	State     string  `json:"uf"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EnrichedSale é a unidade consumida pelas agregações geográficas:
// uma venda cuja chave de cidade encontrou par na tabela do IBGE.
type EnrichedSale struct {
	Sale
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Filters delimita o período consultado na API do Tiny.
type Filters struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// IngestResult é a saída de uma rodada do pipeline de ingestão.
// Sales carrega todas as vendas classificadas e já filtradas pelo
// blacklist; Enriched carrega o subconjunto com coordenadas (join
// interno com o IBGE, vendas sem cidade cadastrada ficam de fora).
// Partial indica que a paginação abortou no meio e os números podem
// estar incompletos.
type IngestResult struct {
	Sales    []Sale         `json:"vendas"`
	Enriched []EnrichedSale `json:"vendas_geo"`
	Partial  bool           `json:"parcial"`
}

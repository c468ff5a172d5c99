package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPIs são os indicadores principais do dashboard.
type KPIs struct {
	TotalRevenue  decimal.Decimal `json:"total_vendas"`
	AverageTicket decimal.Decimal `json:"ticket_medio"`
	InvoiceCount  int             `json:"notas_emitidas"`
	CityCount     int             `json:"cidades_atendidas"`
}

// DatePoint é um ponto da série temporal diária.
type DatePoint struct {
	Date  time.Time       `json:"data"`
	Total decimal.Decimal `json:"valor"`
}

// RankedTotal é uma linha dos rankings de estado/cidade.
type RankedTotal struct {
	Label string          `json:"nome"`
	Total decimal.Decimal `json:"valor"`
}

// ABCClass é a classe da curva ABC de faturamento.
type ABCClass string

const (
	ABCClassA ABCClass = "A"
	ABCClassB ABCClass = "B"
	ABCClassC ABCClass = "C"
)

// ProductItem é um item de produto agregado por SKU.
type ProductItem struct {
	SKU               string          `json:"sku"`
	Description       string          `json:"descricao"`
	Quantity          decimal.Decimal `json:"quantidade"`
	Total             decimal.Decimal `json:"valor_total"`
	CumulativePercent float64         `json:"percentual_acumulado"`
	Class             ABCClass        `json:"curva_abc"`
}

// ABCReport é a curva ABC completa, ordenada por faturamento.
type ABCReport struct {
	Items         []ProductItem   `json:"itens"`
	TotalRevenue  decimal.Decimal `json:"faturamento_total"`
	SampledNotes  int             `json:"notas_analisadas"`
	AvailableRows int             `json:"notas_disponiveis"`
}

// CustomerSummary é o acumulado de um cliente dentro de uma janela.
type CustomerSummary struct {
	Name     string          `json:"cliente"`
	Total    decimal.Decimal `json:"total_acumulado"`
	Orders   int             `json:"pedidos"`
	Channels []Channel       `json:"canais"`
}

// RetentionReport cruza os clientes de duas janelas de tempo.
// Perdidos = janela1 - janela2; Novos = janela2 - janela1;
// Retidos = interseção. A taxa é |retidos| / |janela1| (0 com base vazia).
type RetentionReport struct {
	RetentionRate float64           `json:"taxa_retencao"`
	Lost          []CustomerSummary `json:"perdidos"`
	New           []CustomerSummary `json:"novos"`
	Retained      []CustomerSummary `json:"retidos"`
	Window1Count  int               `json:"clientes_periodo_1"`
	Window2Count  int               `json:"clientes_periodo_2"`
}

// SeasonalityReport é a matriz ano x mês de faturamento.
type SeasonalityReport struct {
	// Matrix[ano][mês 1-12] = faturamento do mês
	Matrix       map[int]map[time.Month]decimal.Decimal `json:"matriz"`
	BestMonth    time.Month                             `json:"melhor_mes"`
	SalesCount   int                                    `json:"vendas_analisadas"`
	TotalRevenue decimal.Decimal                        `json:"faturamento_analisado"`
}

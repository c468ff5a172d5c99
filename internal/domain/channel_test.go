package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifyChannel(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		notes    string
		customer string
		expected Channel
	}{
		{
			name:     "referência alfanumérica mista é Shopee",
			ref:      "260120HU3PR6HQ",
			expected: ChannelShopee,
		},
		{
			name:     "referência numérica longa é Mercado Livre",
			ref:      "2000011120510065",
			expected: ChannelMercadoLivre,
		},
		{
			name:     "referência com # é Mercado Livre",
			ref:      "#345221",
			expected: ChannelMercadoLivre,
		},
		{
			name:     "referência numérica curta é Site",
			ref:      "9590",
			expected: ChannelSite,
		},
		{
			name:     "referência numérica de dez dígitos ainda é Site",
			ref:      "1234567890",
			expected: ChannelSite,
		},
		{
			name:     "referência numérica de onze dígitos já é Mercado Livre",
			ref:      "12345678901",
			expected: ChannelMercadoLivre,
		},
		{
			name:     "sem referência, observação com shopee",
			notes:    "Pedido via Shopee 123",
			expected: ChannelShopee,
		},
		{
			name:     "sem referência, cliente ebazar é Mercado Livre",
			customer: "EBAZAR.COM.BR LTDA",
			expected: ChannelMercadoLivre,
		},
		{
			name:     "sem referência, observação com pagar-me é Site",
			notes:    "pagamento aprovado pagar-me",
			expected: ChannelSite,
		},
		{
			name:     "sem referência e sem pista é Venda Direta",
			expected: ChannelVendaDireta,
		},
		{
			name:     "referência None é tratada como vazia",
			ref:      "None",
			expected: ChannelVendaDireta,
		},
		{
			name:     "referência só de espaços é tratada como vazia",
			ref:      "   ",
			expected: ChannelVendaDireta,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IdentifyChannel(tt.ref, tt.notes, tt.customer))
		})
	}
}

// A ordem das regras é contrato: a checagem alfanumérica precisa vir
// antes das numéricas, senão um pedido Shopee longo com letras e muitos
// dígitos seria classificado como Mercado Livre.
func TestIdentifyChannelRuleOrdering(t *testing.T) {
	assert.Equal(t, ChannelShopee, IdentifyChannel("2401312ABCDEF9999", "", ""))

	// E a pista em texto nunca sobrepõe uma referência válida
	assert.Equal(t, ChannelSite, IdentifyChannel("9590", "comprou na shopee", ""))
}

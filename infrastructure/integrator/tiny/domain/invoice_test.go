package tinydomain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexValorUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{name: "número JSON", payload: `154.9`, expected: "154.9"},
		{name: "string com ponto", payload: `"154.90"`, expected: "154.9"},
		{name: "string com vírgula decimal", payload: `"154,90"`, expected: "154.9"},
		{name: "milhar e vírgula", payload: `"1.234,56"`, expected: "1234.56"},
		{name: "vazio vira zero", payload: `""`, expected: "0"},
		{name: "null vira zero", payload: `null`, expected: "0"},
		{name: "lixo vira zero", payload: `"abc"`, expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v FlexValor
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &v))
			assert.True(t, v.Decimal().Equal(decimal.RequireFromString(tt.expected)),
				"esperado %s, veio %s", tt.expected, v.Decimal())
		})
	}
}

func TestFlexStringUnmarshal(t *testing.T) {
	var s FlexString

	require.NoError(t, json.Unmarshal([]byte(`12345`), &s))
	assert.Equal(t, "12345", s.String())

	require.NoError(t, json.Unmarshal([]byte(`"12345"`), &s))
	assert.Equal(t, "12345", s.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Equal(t, "", s.String())
}

func TestFlexIntUnmarshal(t *testing.T) {
	var n FlexInt

	require.NoError(t, json.Unmarshal([]byte(`7`), &n))
	assert.Equal(t, 7, int(n))

	require.NoError(t, json.Unmarshal([]byte(`"7"`), &n))
	assert.Equal(t, 7, int(n))

	require.NoError(t, json.Unmarshal([]byte(`"x"`), &n))
	assert.Equal(t, 0, int(n))
}

func TestInvoiceWrapperUnmarshal(t *testing.T) {
	t.Run("nota embrulhada em nota_fiscal", func(t *testing.T) {
		payload := `{"nota_fiscal":{"id":"111","numero":"5001","nome":"Cliente A"}}`

		var w InvoiceWrapper
		require.NoError(t, json.Unmarshal([]byte(payload), &w))
		assert.Equal(t, "111", w.NotaFiscal.ID.String())
		assert.Equal(t, "Cliente A", w.NotaFiscal.Nome)
	})

	t.Run("nota sem embrulho", func(t *testing.T) {
		payload := `{"id":"222","numero":"5002","nome":"Cliente B"}`

		var w InvoiceWrapper
		require.NoError(t, json.Unmarshal([]byte(payload), &w))
		assert.Equal(t, "222", w.NotaFiscal.ID.String())
		assert.Equal(t, "Cliente B", w.NotaFiscal.Nome)
	})
}

func TestInvoiceAmount(t *testing.T) {
	t.Run("valor_nota tem prioridade", func(t *testing.T) {
		inv := Invoice{
			ValorNota:  NewFlexValor(decimal.RequireFromString("10")),
			Valor:      NewFlexValor(decimal.RequireFromString("20")),
			ValorTotal: NewFlexValor(decimal.RequireFromString("30")),
		}
		assert.True(t, inv.Amount().Equal(decimal.RequireFromString("10")))
	})

	t.Run("cai para valor e depois valor_total", func(t *testing.T) {
		inv := Invoice{ValorTotal: NewFlexValor(decimal.RequireFromString("30"))}
		assert.True(t, inv.Amount().Equal(decimal.RequireFromString("30")))
	})

	t.Run("tudo zerado devolve zero", func(t *testing.T) {
		assert.True(t, Invoice{}.Amount().IsZero())
	})
}

func TestInvoiceLocation(t *testing.T) {
	inv := Invoice{
		NomeMunicipio: "Campinas",
		UF:            "SP",
		Cliente:       Customer{Cidade: "São Paulo", UF: "SP"},
	}
	city, state := inv.Location()
	assert.Equal(t, "São Paulo", city)
	assert.Equal(t, "SP", state)

	inv.Cliente = Customer{}
	city, state = inv.Location()
	assert.Equal(t, "Campinas", city)
	assert.Equal(t, "SP", state)
}

func TestErrorMessageClassification(t *testing.T) {
	assert.True(t, IsNoResultsMessage("A consulta não retornou registros"))
	assert.True(t, IsNoResultsMessage("query returned no results"))
	assert.False(t, IsNoResultsMessage("token inválido"))

	assert.True(t, IsAuthenticationMessage("Erro de autenticação do token"))
	assert.True(t, IsAuthenticationMessage("authentication failed"))
	assert.False(t, IsAuthenticationMessage("A consulta não retornou registros"))
}

package tinyclient

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
)

func testConfig(searchURL, detailURL string) *config.Config {
	return &config.Config{
		Tiny: config.Tiny{
			SearchURL:             searchURL,
			DetailURL:             detailURL,
			RequestTimeoutSeconds: 5,
			RetryDelaySeconds:     0,
		},
	}
}

func searchParams() SearchParams {
	return SearchParams{
		Token:     "token-de-teste-valido",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestSearchInvoicesPagination(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "JSON", r.Form.Get("formato"))
		assert.Equal(t, "01/01/2024", r.Form.Get("dataInicial"))
		assert.Equal(t, "31/01/2024", r.Form.Get("dataFinal"))

		page := r.Form.Get("pagina")
		fmt.Fprintf(w, `{"retorno":{"status":"OK","numero_paginas":3,"notas_fiscais":[{"nota_fiscal":{"id":"%s00","numero":"%s","nome":"Cliente %s"}}]}}`, page, page, page)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))

	invoices, err := client.SearchInvoices(searchParams())
	require.NoError(t, err)

	assert.Equal(t, 3, calls, "uma chamada por página, sem repetição")
	require.Len(t, invoices, 3)
	assert.Equal(t, "100", invoices[0].ID.String())
	assert.Equal(t, "300", invoices[2].ID.String())
}

func TestSearchInvoicesNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"retorno":{"status":"Erro","erros":[{"erro":"A consulta não retornou registros"}]}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))

	invoices, err := client.SearchInvoices(searchParams())
	require.NoError(t, err, "período vazio não é erro")
	assert.Empty(t, invoices)
}

func TestSearchInvoicesAuthenticationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"retorno":{"status":"Erro","erros":[{"erro":"Erro de autenticação do token informado"}]}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))

	invoices, err := client.SearchInvoices(searchParams())
	assert.ErrorIs(t, err, tinydomain.ErrAuthenticationFailed)
	assert.Nil(t, invoices, "falha de autenticação descarta tudo")
}

func TestSearchInvoicesPartialResult(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `{"retorno":{"status":"OK","numero_paginas":3,"notas_fiscais":[{"nota_fiscal":{"id":"100"}}]}}`)
			return
		}
		fmt.Fprint(w, `{"retorno":{"status":"Erro","erros":[{"erro":"Erro interno do servidor"}]}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))

	invoices, err := client.SearchInvoices(searchParams())
	assert.True(t, tinydomain.IsRemoteError(err), "erro no meio da paginação vira RemoteError")
	assert.Len(t, invoices, 1, "as páginas já lidas são preservadas")
}

func TestSearchInvoicesTransportFailureKeepsPages(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `{"retorno":{"status":"OK","numero_paginas":2,"notas_fiscais":[{"nota_fiscal":{"id":"100"}}]}}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))

	invoices, err := client.SearchInvoices(searchParams())
	assert.True(t, tinydomain.IsRemoteError(err))
	assert.Len(t, invoices, 1)
}

func TestSearchInvoicesStagnationGuard(t *testing.T) {
	// Servidor patológico: numero_paginas cresce a cada resposta, então
	// o número de páginas restantes nunca diminui.
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"retorno":{"status":"OK","numero_paginas":%d,"notas_fiscais":[{"nota_fiscal":{"id":"%d"}}]}}`, calls+2, calls)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""))

	invoices, err := client.SearchInvoices(searchParams())
	assert.True(t, tinydomain.IsRemoteError(err), "paginação estagnada deve abortar com RemoteError")
	assert.NotEmpty(t, invoices)
	assert.LessOrEqual(t, calls, 10, "o laço não pode rodar indefinidamente")
}

func TestGetInvoiceDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "777", r.Form.Get("id"))
		fmt.Fprint(w, `{"retorno":{"status":"OK","nota_fiscal":{"id":"777","itens":[{"item":{"codigo":"SKU1","descricao":"Adubo","quantidade":"2","valor_total":"50,00"}}]}}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig("", server.URL))

	detail := client.GetInvoiceDetail("token-de-teste-valido", "777")
	require.NotNil(t, detail)
	require.Len(t, detail.Itens, 1)
	assert.Equal(t, "SKU1", detail.Itens[0].Item.Codigo)
}

func TestGetInvoiceDetailItemsAtRoot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"retorno":{"status":"OK","itens":[{"item":{"codigo":"SKU2"}}]}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig("", server.URL))

	detail := client.GetInvoiceDetail("token-de-teste-valido", "888")
	require.NotNil(t, detail)
	require.Len(t, detail.Itens, 1)
	assert.Equal(t, "SKU2", detail.Itens[0].Item.Codigo)
}

func TestGetInvoiceDetailRetriesOnceOn429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"retorno":{"status":"OK","nota_fiscal":{"id":"999","itens":[{"item":{"codigo":"SKU3"}}]}}}`)
	}))
	defer server.Close()

	client := NewClient(testConfig("", server.URL))

	detail := client.GetInvoiceDetail("token-de-teste-valido", "999")
	require.NotNil(t, detail)
	assert.Equal(t, 2, calls)
}

func TestGetInvoiceDetailNeverErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig("", server.URL))

	assert.Nil(t, client.GetInvoiceDetail("token-de-teste-valido", "123"))
}

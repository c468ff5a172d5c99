package tinyclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
)

// GetInvoiceDetail busca o detalhe de uma nota (incluindo os itens).
// Nunca devolve erro: indisponibilidade vira nil e o chamador trata a
// nota como sem itens. Num HTTP 429 espera a pausa configurada e tenta
// exatamente mais uma vez antes de desistir — o Tiny falha quando
// fazemos muitas requisições rápidas.
func (c *TinyClient) GetInvoiceDetail(token, invoiceID string) *tinydomain.DetailInvoice {
	resp, err := c.postDetail(token, invoiceID)
	if err != nil {
		logrus.WithError(err).Warnf("Erro ao buscar detalhes da nota %s", invoiceID)
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()

		delay := time.Duration(c.config.Tiny.RetryDelaySeconds) * time.Second
		if delay <= 0 {
			delay = 2 * time.Second
		}
		time.Sleep(delay)

		resp, err = c.postDetail(token, invoiceID)
		if err != nil {
			logrus.WithError(err).Warnf("Erro ao repetir busca de detalhes da nota %s", invoiceID)
			return nil
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.Warnf("Detalhe da nota %s indisponível (status %s)", invoiceID, resp.Status)
		return nil
	}

	var response tinydomain.DetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		logrus.WithError(err).Warnf("Erro ao decodificar detalhes da nota %s", invoiceID)
		return nil
	}

	retorno := response.Retorno
	if retorno.Status != tinydomain.StatusSucesso && retorno.Status != tinydomain.StatusOK {
		return nil
	}

	detail := retorno.NotaFiscal
	if len(detail.Itens) == 0 && len(retorno.Itens) > 0 {
		// Compatibilidade: versões antigas da API trazem os itens na raiz
		detail.Itens = retorno.Itens
	}

	return &detail
}

// postDetail não usa contexto próprio: o timeout do http.Client cobre
// a requisição inteira, inclusive a leitura do corpo pelo chamador.
func (c *TinyClient) postDetail(token, invoiceID string) (*http.Response, error) {
	form := url.Values{}
	form.Set("token", token)
	form.Set("id", invoiceID)
	form.Set("formato", "JSON")

	req, err := http.NewRequest(http.MethodPost, c.config.Tiny.DetailURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

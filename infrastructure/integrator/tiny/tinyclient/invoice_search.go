package tinyclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
)

// maxStagnantPages limita quantas iterações seguidas toleramos sem que
// o total de páginas restantes diminua. Protege contra um servidor
// patológico que infla numero_paginas a cada resposta.
const maxStagnantPages = 3

type SearchParams struct {
	Token     string
	StartDate time.Time
	EndDate   time.Time
}

// SearchInvoices percorre todas as páginas da pesquisa de notas
// fiscais e devolve os cabeçalhos já desembrulhados. Um erro reportado
// pelo servidor no meio da paginação aborta o laço mas preserva o que
// já foi acumulado (o chamador recebe as páginas lidas junto com um
// *RemoteError); só falha de autenticação descarta tudo.
func (c *TinyClient) SearchInvoices(params SearchParams) ([]tinydomain.Invoice, error) {
	invoices := make([]tinydomain.Invoice, 0)

	page := 1
	totalPages := 1
	stagnant := 0
	prevRemaining := int(^uint(0) >> 1)

	logrus.WithFields(logrus.Fields{
		"data_inicial": params.StartDate.Format("02/01/2006"),
		"data_final":   params.EndDate.Format("02/01/2006"),
	}).Info("Iniciando busca paginada de notas fiscais no Tiny")

	for page <= totalPages {
		retorno, err := c.fetchPage(params, page)
		if err != nil {
			// Falha de transporte ou de decodificação: paramos aqui para
			// não travar tudo, mantendo as páginas já lidas.
			logrus.WithError(err).Warnf("Erro na página %d, interrompendo paginação", page)
			return invoices, &tinydomain.RemoteError{Message: err.Error()}
		}

		if retorno.Status == tinydomain.StatusErro {
			msg := "Erro desconhecido"
			if len(retorno.Erros) > 0 && retorno.Erros[0].Erro != "" {
				msg = retorno.Erros[0].Erro
			}

			switch {
			case tinydomain.IsNoResultsMessage(msg):
				// Período sem vendas não é erro
				return invoices, nil
			case tinydomain.IsAuthenticationMessage(msg):
				return nil, tinydomain.ErrAuthenticationFailed
			default:
				return invoices, &tinydomain.RemoteError{Message: msg}
			}
		}

		notas := unwrapInvoices(retorno.NotasFiscais)
		if len(notas) == 0 {
			break
		}
		invoices = append(invoices, notas...)

		if np := int(retorno.NumeroPaginas); np > 0 {
			totalPages = np
		}

		remaining := totalPages - page
		if remaining >= prevRemaining {
			stagnant++
			if stagnant >= maxStagnantPages {
				logrus.WithFields(logrus.Fields{
					"pagina":         page,
					"numero_paginas": totalPages,
				}).Error("Contagem de páginas do Tiny não converge, abortando paginação")
				return invoices, &tinydomain.RemoteError{
					Message: fmt.Sprintf("paginação estagnada após %d iterações (numero_paginas=%d)", stagnant, totalPages),
				}
			}
		} else {
			stagnant = 0
		}
		prevRemaining = remaining

		page++
	}

	logrus.WithFields(logrus.Fields{
		"notas":   len(invoices),
		"paginas": page - 1,
	}).Info("Busca de notas fiscais concluída")

	return invoices, nil
}

func (c *TinyClient) fetchPage(params SearchParams, page int) (*tinydomain.SearchRetorno, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout+5*time.Second)
	defer cancel()

	form := url.Values{}
	form.Set("token", params.Token)
	form.Set("dataInicial", params.StartDate.Format("02/01/2006"))
	form.Set("dataFinal", params.EndDate.Format("02/01/2006"))
	form.Set("formato", "JSON")
	form.Set("pagina", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Tiny.SearchURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	var response tinydomain.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar a resposta: %w", err)
	}

	return &response.Retorno, nil
}

// unwrapInvoices tolera os dois formatos do Tiny: nota embrulhada em
// {"nota_fiscal": {...}} ou direta.
func unwrapInvoices(wrappers []tinydomain.InvoiceWrapper) []tinydomain.Invoice {
	notas := make([]tinydomain.Invoice, 0, len(wrappers))
	for _, w := range wrappers {
		notas = append(notas, w.NotaFiscal)
	}
	return notas
}

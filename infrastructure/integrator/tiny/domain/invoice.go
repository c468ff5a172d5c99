package tinydomain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Status reportados pelo Tiny no objeto retorno.
const (
	StatusSucesso = "Sucesso"
	StatusOK      = "OK"
	StatusErro    = "Erro"
)

// SearchResponse é o envelope da pesquisa de notas fiscais.
type SearchResponse struct {
	Retorno SearchRetorno `json:"retorno"`
}

type SearchRetorno struct {
	Status        string           `json:"status,omitempty"`
	Erros         []APIError       `json:"erros,omitempty"`
	NumeroPaginas FlexInt          `json:"numero_paginas,omitempty"`
	NotasFiscais  []InvoiceWrapper `json:"notas_fiscais,omitempty"`
}

type APIError struct {
	Erro string `json:"erro,omitempty"`
}

// InvoiceWrapper existe porque o Tiny embrulha cada nota em
// {"nota_fiscal": {...}}; algumas respostas vêm sem o embrulho.
type InvoiceWrapper struct {
	NotaFiscal Invoice `json:"nota_fiscal,omitempty"`
}

func (w *InvoiceWrapper) UnmarshalJSON(data []byte) error {
	type wrapped InvoiceWrapper
	var aux wrapped
	if err := json.Unmarshal(data, &aux); err == nil && aux.NotaFiscal.ID != "" {
		w.NotaFiscal = aux.NotaFiscal
		return nil
	}

	// Sem embrulho: o objeto já é a própria nota
	return json.Unmarshal(data, &w.NotaFiscal)
}

type Invoice struct {
	ID              FlexString `json:"id,omitempty"`
	Numero          FlexString `json:"numero,omitempty"`
	NumeroEcommerce FlexString `json:"numero_ecommerce,omitempty"`
	DataEmissao     string     `json:"data_emissao,omitempty"`
	Nome            string     `json:"nome,omitempty"`
	NomeMunicipio   string     `json:"nome_municipio,omitempty"`
	UF              string     `json:"uf,omitempty"`
	ValorNota       FlexValor  `json:"valor_nota,omitempty"`
	Valor           FlexValor  `json:"valor,omitempty"`
	ValorTotal      FlexValor  `json:"valor_total,omitempty"`
	Obs             string     `json:"obs,omitempty"`
	Cliente         Customer   `json:"cliente,omitempty"`
}

type Customer struct {
	Nome   string `json:"nome,omitempty"`
	Cidade string `json:"cidade,omitempty"`
	UF     string `json:"uf,omitempty"`
}

// Amount resolve o valor da nota entre os campos que o Tiny alterna
// (valor_nota, valor, valor_total), nessa ordem.
func (i Invoice) Amount() decimal.Decimal {
	for _, v := range []FlexValor{i.ValorNota, i.Valor, i.ValorTotal} {
		if !v.Decimal().IsZero() {
			return v.Decimal()
		}
	}
	return decimal.Zero
}

// CustomerName devolve o nome na raiz da nota ou, na falta, o do
// nó cliente.
func (i Invoice) CustomerName() string {
	if i.Nome != "" {
		return i.Nome
	}
	return i.Cliente.Nome
}

// Location devolve cidade/UF do nó cliente com fallback para os campos
// da raiz da nota.
func (i Invoice) Location() (city, state string) {
	city, state = i.Cliente.Cidade, i.Cliente.UF
	if city == "" {
		city = i.NomeMunicipio
	}
	if state == "" {
		state = i.UF
	}
	return city, state
}

// DetailResponse é o envelope do endpoint nota.fiscal.obter.
type DetailResponse struct {
	Retorno DetailRetorno `json:"retorno"`
}

type DetailRetorno struct {
	Status     string        `json:"status,omitempty"`
	Erros      []APIError    `json:"erros,omitempty"`
	NotaFiscal DetailInvoice `json:"nota_fiscal,omitempty"`
	Itens      []ItemWrapper `json:"itens,omitempty"`
}

// DetailInvoice carrega os itens da nota. Conforme a versão da API os
// itens aparecem na raiz do retorno ou aninhados na nota_fiscal; o
// cliente normaliza para cá.
type DetailInvoice struct {
	ID     FlexString    `json:"id,omitempty"`
	Numero FlexString    `json:"numero,omitempty"`
	Itens  []ItemWrapper `json:"itens,omitempty"`
}

type ItemWrapper struct {
	Item Item `json:"item,omitempty"`
}

type Item struct {
	Codigo     string    `json:"codigo,omitempty"`
	Descricao  string    `json:"descricao,omitempty"`
	Quantidade FlexValor `json:"quantidade,omitempty"`
	ValorTotal FlexValor `json:"valor_total,omitempty"`
}

// FlexValor aceita número JSON ou string (inclusive com vírgula
// decimal, padrão BR) e nunca falha: lixo vira zero.
type FlexValor struct {
	value decimal.Decimal
}

func NewFlexValor(d decimal.Decimal) FlexValor {
	return FlexValor{value: d}
}

func (f FlexValor) Decimal() decimal.Decimal {
	return f.value
}

func (f *FlexValor) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if text == "" || text == "null" {
		f.value = decimal.Zero
		return nil
	}

	// Vírgula decimal (padrão BR) vira ponto antes do parse;
	// "1.234,56" perde o separador de milhar primeiro
	if strings.Contains(text, ",") {
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	}

	parsed, err := decimal.NewFromString(text)
	if err != nil {
		f.value = decimal.Zero
		return nil
	}

	f.value = parsed
	return nil
}

func (f FlexValor) MarshalJSON() ([]byte, error) {
	return []byte(f.value.String()), nil
}

// FlexString aceita string ou número JSON e normaliza para string:
// alguns retornos trazem id/numero sem aspas.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = FlexString(bytes.Trim(bytes.TrimSpace(data), `"`))
	if *s == "null" {
		*s = ""
	}
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// FlexInt aceita número ou string numérica; lixo vira zero.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if text == "" || text == "null" {
		*n = 0
		return nil
	}

	parsed, err := decimal.NewFromString(text)
	if err != nil {
		*n = 0
		return nil
	}

	*n = FlexInt(parsed.IntPart())
	return nil
}

package domain

import (
	"strings"
	"unicode"
)

// Channel é o canal comercial pelo qual a venda aconteceu.
type Channel string

const (
	ChannelMercadoLivre Channel = "Mercado Livre"
	ChannelShopee       Channel = "Shopee"
	ChannelSite         Channel = "Site"
	ChannelVendaDireta  Channel = "Venda Direta"
)

// channelRule é uma regra de classificação: a primeira que casar vence.
type channelRule struct {
	name    string
	matches func(ref, obs, nome string) bool
	channel Channel
}

// channelRules é avaliada de cima para baixo. A ordem é contrato:
// referência alfanumérica mista precisa ser testada antes das regras
// puramente numéricas, senão pedidos Shopee longos cairiam como
// Mercado Livre.
var channelRules = []channelRule{
	{
		// Padrão Shopee: letras e números misturados (ex: 260120HU3PR6HQ)
		name: "referencia-alfanumerica",
		matches: func(ref, _, _ string) bool {
			return ref != "" && hasLetter(ref) && hasDigit(ref)
		},
		channel: ChannelShopee,
	},
	{
		// Padrão Mercado Livre: só dígitos e muito longo (ex: 2000011120510065),
		// ou começando com '#'
		name: "referencia-numerica-longa",
		matches: func(ref, _, _ string) bool {
			return strings.HasPrefix(ref, "#") || (isDigits(ref) && len(ref) > 10)
		},
		channel: ChannelMercadoLivre,
	},
	{
		// Padrão Site: só dígitos e curto (ex: 9590)
		name: "referencia-numerica-curta",
		matches: func(ref, _, _ string) bool {
			return isDigits(ref) && len(ref) <= 10
		},
		channel: ChannelSite,
	},
	{
		name: "palavra-chave-shopee",
		matches: func(_, obs, nome string) bool {
			return containsAny(obs, nome, "shopee")
		},
		channel: ChannelShopee,
	},
	{
		name: "palavra-chave-mercado-livre",
		matches: func(_, obs, nome string) bool {
			return containsAny(obs, nome, "mercadolivre", "mercado livre", "ebazar", "meli")
		},
		channel: ChannelMercadoLivre,
	},
	{
		name: "palavra-chave-site",
		matches: func(_, obs, nome string) bool {
			return containsAny(obs, nome, "pagar-me", "woocommerce", "loja virtual")
		},
		channel: ChannelSite,
	},
}

// IdentifyChannel classifica uma venda pelo número do pedido ecommerce
// e, na falta dele, por pistas nas observações e no nome do cliente.
// Total e determinística: sempre devolve um canal.
func IdentifyChannel(ecommerceNumber, notes, customerName string) Channel {
	ref := strings.ToUpper(strings.TrimSpace(ecommerceNumber))
	if ref == "NONE" {
		ref = ""
	}
	obs := strings.ToLower(notes)
	nome := strings.ToLower(customerName)

	for _, rule := range channelRules {
		if rule.matches(ref, obs, nome) {
			return rule.channel
		}
	}

	// Sem referência e sem pista: venda de balcão
	return ChannelVendaDireta
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func containsAny(obs, nome string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(obs, kw) || strings.Contains(nome, kw) {
			return true
		}
	}
	return false
}

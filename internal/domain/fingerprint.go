package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// FingerprintSentinel é devolvido quando a venda não tem dados
// suficientes para uma assinatura. Nunca deve entrar no blacklist:
// duas vendas quebradas distintas colidem nesse valor.
const FingerprintSentinel = "erro"

var issueDateLayouts = []string{
	"02/01/2006", // formato do Tiny
	"2006-01-02", // variante ISO vista em alguns retornos
}

// ParseIssueDate tenta os formatos conhecidos de data de emissão, na
// ordem. Quando nenhum casa, cai para a data corrente de processamento:
// degradação rara e com perda, por isso registrada em log e não
// silenciosa.
func ParseIssueDate(raw string) time.Time {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}

	now := time.Now()
	logrus.WithFields(logrus.Fields{
		"data_emissao": raw,
		"fallback":     now.Format(time.DateOnly),
	}).Warn("Data de emissão ilegível, usando a data de processamento na assinatura")

	return now
}

// MakeFingerprint monta a assinatura única da venda: Data-Cliente-Valor.
// O valor entra em centavos (truncado) para não depender de comparação
// de ponto flutuante; o nome do cliente perde todo espaço interno, de
// modo que grafias iguais a menos de espaçamento colidam de propósito.
func MakeFingerprint(issueDate time.Time, customer string, amount decimal.Decimal) string {
	customer = strings.Join(strings.Fields(customer), "")
	if issueDate.IsZero() || customer == "" {
		return FingerprintSentinel
	}

	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()

	return fmt.Sprintf("%s-%s-%d", issueDate.Format("20060102"), customer, cents)
}

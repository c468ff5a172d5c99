package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMakeFingerprint(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("formato data-cliente-centavos", func(t *testing.T) {
		got := MakeFingerprint(date, "João Silva", decimal.RequireFromString("1234.56"))
		assert.Equal(t, "20240315-JoãoSilva-123456", got)
	})

	t.Run("espaços internos não mudam a assinatura", func(t *testing.T) {
		a := MakeFingerprint(date, "João  Silva", decimal.RequireFromString("1234.56"))
		b := MakeFingerprint(date, " João Silva ", decimal.RequireFromString("1234.56"))
		assert.Equal(t, a, b)
	})

	t.Run("centavos truncados, sem arredondar", func(t *testing.T) {
		got := MakeFingerprint(date, "Maria", decimal.RequireFromString("10.999"))
		assert.Equal(t, "20240315-Maria-1099", got)
	})

	t.Run("cliente vazio produz a sentinela", func(t *testing.T) {
		got := MakeFingerprint(date, "   ", decimal.RequireFromString("10"))
		assert.Equal(t, FingerprintSentinel, got)
	})

	t.Run("data zerada produz a sentinela", func(t *testing.T) {
		got := MakeFingerprint(time.Time{}, "Maria", decimal.RequireFromString("10"))
		assert.Equal(t, FingerprintSentinel, got)
	})
}

func TestParseIssueDate(t *testing.T) {
	t.Run("formato brasileiro", func(t *testing.T) {
		got := ParseIssueDate("15/03/2024")
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("formato ISO", func(t *testing.T) {
		got := ParseIssueDate("2024-03-15")
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("ilegível cai para a data corrente", func(t *testing.T) {
		before := time.Now()
		got := ParseIssueDate("data inválida")
		after := time.Now()

		assert.False(t, got.Before(before))
		assert.False(t, got.After(after))
	})
}

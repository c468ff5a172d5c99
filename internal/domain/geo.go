package domain

import (
	"fmt"
	"strings"

	"github.com/planteforte/dashboard-comercial-api/pkg/utils"
)

// MakeCityKey gera a chave de junção cidade-estado usada dos dois
// lados: na tabela de municípios do IBGE e nas vendas. Qualquer
// divergência de normalização entre os dois lados derruba linhas do
// join em silêncio, então toda construção de chave passa por aqui.
// Ex: ("São Paulo", "SP") -> "SAO PAULO-SP".
func MakeCityKey(city, state string) string {
	return fmt.Sprintf("%s-%s", utils.RemoveAccents(strings.TrimSpace(city)), strings.ToUpper(strings.TrimSpace(state)))
}

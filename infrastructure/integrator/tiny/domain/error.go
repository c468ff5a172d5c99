package tinydomain

import (
	"errors"
	"fmt"
	"strings"
)

// Erros fatais do pipeline: impedem qualquer resultado.
var (
	ErrInvalidPeriod        = errors.New("período de datas inválido")
	ErrInvalidToken         = errors.New("token de API inválido")
	ErrAuthenticationFailed = errors.New("falha de autenticação na API do Tiny")
)

// RemoteError é um erro reportado pelo servidor que aborta a paginação
// mas preserva as páginas já acumuladas: degradação parcial, não falha
// total.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("erro na API do Tiny: %s", e.Message)
}

// IsRemoteError reporta se err (em qualquer nível da cadeia) é um
// RemoteError de degradação parcial.
func IsRemoteError(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}

// As mensagens do Tiny vêm em texto livre (português/inglês), então a
// classificação é por substring, igual dos dois lados da integração.
func IsNoResultsMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "não retornou") ||
		strings.Contains(lower, "nao retornou") ||
		strings.Contains(lower, "no results")
}

func IsAuthenticationMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "autenticação") ||
		strings.Contains(lower, "autenticacao") ||
		strings.Contains(lower, "authentication")
}

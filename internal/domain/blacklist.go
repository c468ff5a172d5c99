package domain

import (
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidFingerprint = errors.New("assinatura de venda inválida para exclusão")

// BlacklistEntry é uma venda marcada para fora das análises.
type BlacklistEntry struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"id_unico"`
	Reason      string    `json:"motivo"`
	CreatedBy   string    `json:"criado_por"`
	CreatedAt   time.Time `json:"criado_em"`
}

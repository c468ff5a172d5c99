package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planteforte/dashboard-comercial-api/infrastructure/repository"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/pkg/apiErrors"
	"github.com/planteforte/dashboard-comercial-api/pkg/log"
	"github.com/planteforte/dashboard-comercial-api/pkg/middleware"
)

type addBlacklistRequest struct {
	Fingerprint string `json:"id_unico"`
	Reason      string `json:"motivo"`
}

// ListBlacklist devolve as vendas excluídas das análises.
func ListBlacklist(repo repository.BlacklistRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		entries, err := repo.List()
		if err != nil {
			logger.WithError(err).Error("blacklist: falha ao listar exclusões")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar exclusões", nil)
			return
		}

		if entries == nil {
			entries = []*domain.BlacklistEntry{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			logger.WithError(err).Error("blacklist: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// AddToBlacklist registra a assinatura de uma venda para exclusão. A
// exclusão vale para qualquer ingestão futura que produza a mesma
// assinatura, o que torna a operação idempotente.
func AddToBlacklist(repo repository.BlacklistRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req addBlacklistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição ilegível", nil)
			return
		}

		if req.Fingerprint == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Campo id_unico é obrigatório", nil)
			return
		}

		entry := &domain.BlacklistEntry{
			Fingerprint: req.Fingerprint,
			Reason:      req.Reason,
		}

		if userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims); ok {
			entry.CreatedBy = userClaims.UserEmail
		}

		if err := repo.Add(entry); err != nil {
			if errors.Is(err, domain.ErrInvalidFingerprint) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Assinatura inválida para exclusão", nil)
				return
			}

			logger.WithError(err).Error("blacklist: falha ao registrar exclusão")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao registrar exclusão", nil)
			return
		}

		logger.WithField("id_unico", entry.Fingerprint).Info("blacklist: venda excluída das análises")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(entry); err != nil {
			logger.WithError(err).Error("blacklist: falha ao serializar resposta")
		}
	})
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/planteforte/dashboard-comercial-api/internal/usecases/reporting"
	"github.com/planteforte/dashboard-comercial-api/pkg/apiErrors"
	"github.com/planteforte/dashboard-comercial-api/pkg/log"
)

// GetProductABC devolve a curva ABC de produtos do período. A análise
// amostra as notas mais recentes porque os itens só existem no endpoint
// de detalhe do Tiny, uma nota por chamada.
func GetProductABC(reporter reporting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		token, filters, ok := dashboardParams(w, r)
		if !ok {
			return
		}

		report, err := reporter.ProductABC(token, filters)
		if err != nil {
			writeIngestError(w, r, err)
			return
		}

		// O corte por limit é só de exibição: as classes já foram
		// calculadas sobre a curva inteira
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
				return
			}
			if limit < len(report.Items) {
				report.Items = report.Items[:limit]
			}
		}

		logger.WithFields(log.Fields{
			"produtos":          len(report.Items),
			"notas_analisadas":  report.SampledNotes,
			"notas_disponiveis": report.AvailableRows,
		}).Info("produtos: curva ABC calculada")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("produtos: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

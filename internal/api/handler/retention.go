package handler

import (
	"encoding/json"
	"net/http"

	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/reporting"
	"github.com/planteforte/dashboard-comercial-api/pkg/apiErrors"
	"github.com/planteforte/dashboard-comercial-api/pkg/log"
)

// GetCustomerRetention cruza os clientes de dois períodos e devolve
// perdidos, novos e retidos com a taxa de retenção.
func GetCustomerRetention(reporter reporting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		token := r.Header.Get(tinyTokenHeader)
		if token == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidTokenTiny, "Token do Tiny ausente no cabeçalho "+tinyTokenHeader, nil)
			return
		}

		window1, ok := periodFilters(w, r, "p1_start", "p1_end")
		if !ok {
			return
		}

		window2, ok := periodFilters(w, r, "p2_start", "p2_end")
		if !ok {
			return
		}

		report, err := reporter.Retention(token, window1, window2)
		if err != nil {
			writeIngestError(w, r, err)
			return
		}

		// Filtro opcional por canal: mantém só os clientes que
		// compraram pelo canal informado em alguma das janelas
		if canal := r.URL.Query().Get("canal"); canal != "" {
			report.Lost = filterByChannel(report.Lost, canal)
			report.New = filterByChannel(report.New, canal)
			report.Retained = filterByChannel(report.Retained, canal)
		}

		logger.WithFields(log.Fields{
			"clientes_p1": report.Window1Count,
			"clientes_p2": report.Window2Count,
			"retidos":     len(report.Retained),
		}).Info("retenção: análise calculada")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("retenção: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func filterByChannel(summaries []domain.CustomerSummary, canal string) []domain.CustomerSummary {
	filtered := make([]domain.CustomerSummary, 0, len(summaries))
	for _, summary := range summaries {
		for _, channel := range summary.Channels {
			if string(channel) == canal {
				filtered = append(filtered, summary)
				break
			}
		}
	}
	return filtered
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	tinydomain "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/tiny/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/ingesting"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/reporting"
	"github.com/planteforte/dashboard-comercial-api/pkg/apiErrors"
	"github.com/planteforte/dashboard-comercial-api/pkg/log"
	"github.com/planteforte/dashboard-comercial-api/pkg/utils"
)

// tinyTokenHeader carrega o token da conta Tiny do cliente. O token não
// fica no servidor: cada requisição traz o da conta consultada.
const tinyTokenHeader = "X-Tiny-Token"

const defaultTopLimit = 10

type salesDashboardResponse struct {
	KPIs      domain.KPIs          `json:"kpis"`
	Channels  []domain.RankedTotal `json:"canais"`
	Daily     []domain.DatePoint   `json:"serie_diaria"`
	TopStates []domain.RankedTotal `json:"top_estados"`
	TopCities []domain.RankedTotal `json:"top_cidades"`
	Partial   bool                 `json:"parcial"`
	Warning   string               `json:"aviso,omitempty"`
}

const partialWarning = "resultados podem estar incompletos: parte das páginas não pôde ser lida"

// GetSalesDashboard monta o painel principal: KPIs, quebra por canal,
// série diária e rankings geográficos do período.
func GetSalesDashboard(ingester ingesting.Service, reporter reporting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		token, filters, ok := dashboardParams(w, r)
		if !ok {
			return
		}

		limit := defaultTopLimit
		if raw := r.URL.Query().Get("top"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro top inválido", nil)
				return
			}
			limit = parsed
		}

		result, err := ingester.Ingest(token, filters)
		if err != nil {
			writeIngestError(w, r, err)
			return
		}

		logger.WithFields(log.Fields{
			"vendas":     len(result.Sales),
			"vendas_geo": len(result.Enriched),
			"parcial":    result.Partial,
		}).Info("dashboard: período ingerido")

		response := salesDashboardResponse{
			KPIs:      reporter.KPIs(result),
			Channels:  reporter.ChannelBreakdown(result),
			Daily:     reporter.DailySeries(result),
			TopStates: reporter.TopStates(result, limit),
			TopCities: reporter.TopCities(result, limit),
			Partial:   result.Partial,
		}
		if result.Partial {
			response.Warning = partialWarning
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.WithError(err).Error("dashboard: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// GetSeasonality devolve a matriz ano x mês de faturamento do período.
func GetSeasonality(reporter reporting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		token, filters, ok := dashboardParams(w, r)
		if !ok {
			return
		}

		report, err := reporter.Seasonality(token, filters)
		if err != nil {
			writeIngestError(w, r, err)
			return
		}

		logger.WithFields(log.Fields{
			"vendas":     report.SalesCount,
			"melhor_mes": int(report.BestMonth),
		}).Info("dashboard: sazonalidade calculada")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("dashboard: falha ao serializar sazonalidade")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// dashboardParams extrai token e período da requisição, respondendo o
// erro adequado quando faltam ou são ilegíveis.
func dashboardParams(w http.ResponseWriter, r *http.Request) (string, *domain.Filters, bool) {
	token := r.Header.Get(tinyTokenHeader)
	if token == "" {
		apiErrors.WriteError(w, apiErrors.ErrInvalidTokenTiny, "Token do Tiny ausente no cabeçalho "+tinyTokenHeader, nil)
		return "", nil, false
	}

	filters, ok := periodFilters(w, r, "start_date", "end_date")
	if !ok {
		return "", nil, false
	}

	return token, filters, true
}

func periodFilters(w http.ResponseWriter, r *http.Request, startParam, endParam string) (*domain.Filters, bool) {
	startRaw := r.URL.Query().Get(startParam)
	endRaw := r.URL.Query().Get(endParam)
	if startRaw == "" || endRaw == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Parâmetros "+startParam+" e "+endParam+" são obrigatórios (AAAA-MM-DD)", nil)
		return nil, false
	}

	startDate, err := utils.ParseDate(startRaw)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro "+startParam+" inválido, use AAAA-MM-DD", nil)
		return nil, false
	}

	endDate, err := utils.ParseDate(endRaw)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro "+endParam+" inválido, use AAAA-MM-DD", nil)
		return nil, false
	}

	return &domain.Filters{StartDate: startDate, EndDate: endDate}, true
}

// writeIngestError traduz os erros da integração com o Tiny para os
// códigos estáveis da API.
func writeIngestError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context())

	switch {
	case errors.Is(err, tinydomain.ErrInvalidToken), errors.Is(err, tinydomain.ErrAuthenticationFailed):
		logger.Warn("dashboard: token do Tiny recusado")
		apiErrors.WriteError(w, apiErrors.ErrInvalidTokenTiny, "Token do Tiny inválido ou recusado pela API", nil)
	case errors.Is(err, tinydomain.ErrInvalidPeriod):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Período de consulta inválido", nil)
	default:
		logger.WithError(err).Error("dashboard: falha na ingestão")
		apiErrors.WriteError(w, apiErrors.ErrExternalService, "Falha ao consultar a API do Tiny", nil)
	}
}

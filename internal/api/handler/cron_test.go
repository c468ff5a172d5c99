package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	ibgemocks "github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/ibge/mocks"
	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/scheduler"
	"github.com/planteforte/dashboard-comercial-api/pkg/apiErrors"
	"github.com/planteforte/dashboard-comercial-api/pkg/middleware"
)

func cronRequest(method, target, cronType string, claims *domain.Claims) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	ctx := r.Context()
	if cronType != "" {
		ctx = context.WithValue(ctx, httprouter.ParamsKey, httprouter.Params{{Key: "type", Value: cronType}})
	}
	if claims != nil {
		ctx = context.WithValue(ctx, middleware.ContextKeyUser, claims)
	}
	return r.WithContext(ctx)
}

// As rotas de cron devem barrar qualquer papel que não seja administrador,
// em linha com a checagem feita dentro dos próprios handlers.
func TestCronRoutesRestrictedToAdmins(t *testing.T) {
	for _, route := range CronJobs(CronJobServices{}) {
		require.Len(t, route.Middlewares, 1, route.Path)

		var reached bool
		guarded := route.Middlewares[0](http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}))

		supervisor := &domain.Claims{UserID: 2, UserRoleID: middleware.RoleSupervisor}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, cronRequest(route.Method, route.Path, "", supervisor))
		assert.Equal(t, http.StatusForbidden, rec.Code, route.Path)
		assert.False(t, reached, route.Path)

		admin := &domain.Claims{UserID: 1, UserRoleID: middleware.RoleAdmin}
		rec = httptest.NewRecorder()
		guarded.ServeHTTP(rec, cronRequest(route.Method, route.Path, "", admin))
		assert.True(t, reached, route.Path)
	}
}

func TestRunCronJobRejectsNonAdmin(t *testing.T) {
	supervisor := &domain.Claims{UserID: 2, UserRoleID: middleware.RoleSupervisor}
	rec := httptest.NewRecorder()
	RunCronJob(CronJobServices{}).ServeHTTP(rec, cronRequest(http.MethodPost, "/v1/cron/municipios/run", "municipios", supervisor))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apiErrors.ErrInsufficientPrivilege, decodeAPIError(t, rec).Code)
}

func TestRunCronJobTriggersMunicipioRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	refreshed := make(chan struct{})
	mockProvider := ibgemocks.NewMockMunicipioProvider(ctrl)
	mockProvider.EXPECT().Refresh().DoAndReturn(func() error {
		close(refreshed)
		return nil
	})

	services := CronJobServices{
		MunicipioRefreshService: scheduler.NewMunicipioRefreshService(mockProvider, &config.Config{}),
	}

	admin := &domain.Claims{UserID: 1, UserRoleID: middleware.RoleAdmin}
	rec := httptest.NewRecorder()
	RunCronJob(services).ServeHTTP(rec, cronRequest(http.MethodPost, "/v1/cron/municipios/run", "municipios", admin))

	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("atualização de municípios não foi disparada")
	}
}

func TestRunCronJobInvalidType(t *testing.T) {
	admin := &domain.Claims{UserID: 1, UserRoleID: middleware.RoleAdmin}
	rec := httptest.NewRecorder()
	RunCronJob(CronJobServices{}).ServeHTTP(rec, cronRequest(http.MethodPost, "/v1/cron/produtos/run", "produtos", admin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
}

func TestGetCronStatusRejectsNonAdmin(t *testing.T) {
	supervisor := &domain.Claims{UserID: 2, UserRoleID: middleware.RoleSupervisor}
	rec := httptest.NewRecorder()
	GetCronStatus(CronJobServices{}).ServeHTTP(rec, cronRequest(http.MethodGet, "/v1/cron/status", "", supervisor))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apiErrors.ErrInsufficientPrivilege, decodeAPIError(t, rec).Code)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/authenticating"
	"github.com/planteforte/dashboard-comercial-api/pkg/apiErrors"
	"github.com/planteforte/dashboard-comercial-api/pkg/log"
	"github.com/planteforte/dashboard-comercial-api/pkg/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// claimsFrom recupera as claims colocadas no contexto pelo middleware
// de autenticação.
func claimsFrom(r *http.Request) (*domain.Claims, bool) {
	claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	return claims, ok
}

// pathUserID lê e valida o parâmetro :id da rota. Quando devolve false a
// resposta de erro já foi escrita.
func pathUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if raw == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do usuário não fornecido", nil)
		return 0, false
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do usuário inválido", nil)
		return 0, false
	}

	return id, true
}

// writeAuthServiceError traduz os erros do caso de uso de autenticação
// para a resposta padronizada da API.
func writeAuthServiceError(w http.ResponseWriter, err error) {
	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		var details any
		if authErr.UserID != 0 {
			details = map[string]any{"user_id": authErr.UserID}
		}
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), details)
		return
	}

	switch {
	case errors.Is(err, authenticating.ErrInvalidCredentials):
		apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "Credenciais inválidas", nil)
	case errors.Is(err, authenticating.ErrUserDisabled):
		apiErrors.WriteError(w, apiErrors.ErrUserDisabled, "Usuário desativado", nil)
	case errors.Is(err, authenticating.ErrUserNotFound):
		apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Usuário não encontrado", nil)
	case errors.Is(err, authenticating.ErrUserLocked):
		apiErrors.WriteError(w, apiErrors.ErrUserLocked, "Usuário bloqueado temporariamente", nil)
	case errors.Is(err, authenticating.ErrUserAlreadyExists):
		apiErrors.WriteError(w, apiErrors.ErrUserAlreadyExists, "Email já cadastrado", nil)
	case errors.Is(err, authenticating.ErrMissingRequiredData):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
	case errors.Is(err, authenticating.ErrWeakPassword):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
	case errors.Is(err, authenticating.ErrNoAdminPrivileges):
		apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, err.Error(), nil)
	case errors.Is(err, authenticating.ErrDatabaseOperation):
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao acessar o banco de dados", nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno do servidor", nil)
	}
}

// Login autentica por email e senha e devolve o JWT de sessão.
func Login(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		token, err := service.LoginUser(req.Email, req.Password)
		if err != nil {
			logger.WithError(err).WithField("email", req.Email).Warn("login recusado")
			writeAuthServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"token": token}); err != nil {
			logger.WithError(err).Error("login: falha ao escrever resposta")
		}
	})
}

// GetMe devolve o perfil do usuário autenticado, sem o hash de senha.
func GetMe(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		user, err := service.GetUserProfile(claims.UserID)
		if err != nil {
			logger.WithError(err).WithField("user_id", claims.UserID).Error("perfil: falha ao consultar usuário")
			writeAuthServiceError(w, err)
			return
		}
		if user == nil {
			apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Usuário não encontrado", nil)
			return
		}

		user.PasswordHash = ""
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(user); err != nil {
			logger.WithError(err).Error("perfil: falha ao escrever resposta")
		}
	})
}

// ChangePassword troca a senha depois de validar a atual. Cada usuário só
// troca a própria senha, independente do papel.
func ChangePassword(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		targetID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		if claims.UserID != targetID {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Não autorizado a alterar a senha de outro usuário", nil)
			return
		}

		var req changePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if err := service.ChangePassword(targetID, req.CurrentPassword, req.NewPassword); err != nil {
			logger.WithError(err).WithField("user_id", targetID).Warn("troca de senha recusada")
			writeAuthServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"message": "Senha alterada com sucesso"}); err != nil {
			logger.WithError(err).Error("troca de senha: falha ao escrever resposta")
		}
	})
}

// GeneratePassword gera uma senha forte para o usuário alvo e a devolve em
// texto claro. O caso de uso confirma que o solicitante é administrador.
func GeneratePassword(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		claims, ok := claimsFrom(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		targetID, ok := pathUserID(w, r)
		if !ok {
			return
		}

		password, err := service.GenerateStrongPassword(claims.UserID, targetID)
		if err != nil {
			logger.WithError(err).WithFields(log.Fields{
				"solicitante": claims.UserID,
				"alvo":        targetID,
			}).Warn("geração de senha recusada")
			writeAuthServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"password": password}); err != nil {
			logger.WithError(err).Error("geração de senha: falha ao escrever resposta")
		}
	})
}

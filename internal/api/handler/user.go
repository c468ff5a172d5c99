package handler

import (
	"encoding/json"
	"net/http"

	"github.com/planteforte/dashboard-comercial-api/internal/domain"
	"github.com/planteforte/dashboard-comercial-api/internal/usecases/authenticating"
	"github.com/planteforte/dashboard-comercial-api/pkg/apiErrors"
	"github.com/planteforte/dashboard-comercial-api/pkg/log"
)

// GetUser devolve o perfil de um usuário pelo ID, sem o hash de senha.
func GetUser(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id, ok := pathUserID(w, r)
		if !ok {
			return
		}

		user, err := service.GetUserProfile(id)
		if err != nil {
			logger.WithError(err).WithField("user_id", id).Error("usuário: falha ao consultar")
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
			logger.WithError(err).Error("usuário: falha ao escrever resposta")
		}
	})
}

// CreateUser registra um novo usuário. Campos obrigatórios, normalização do
// email e duplicidade são validados pelo caso de uso, que também faz o hash
// da senha recebida.
func CreateUser(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var user domain.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		created, err := service.CreateUser(&user)
		if err != nil {
			logger.WithError(err).WithField("email", user.Email).Warn("cadastro recusado")
			writeAuthServiceError(w, err)
			return
		}

		logger.WithField("user_id", created.ID).Info("usuário cadastrado")

		created.PasswordHash = ""
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			logger.WithError(err).Error("cadastro: falha ao escrever resposta")
		}
	})
}

// ListUsers lista todos os usuários. O acesso é restrito pela rota a
// administradores.
func ListUsers(service authenticating.Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		users, err := service.ListUser()
		if err != nil {
			logger.WithError(err).Error("usuários: falha ao listar")
			writeAuthServiceError(w, err)
			return
		}

		for _, user := range users {
			user.PasswordHash = ""
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(users); err != nil {
			logger.WithError(err).Error("usuários: falha ao escrever resposta")
		}
	})
}

// UpdateUser atualiza o cadastro de um usuário. Cada usuário edita o
// próprio perfil; administradores editam qualquer um e são os únicos que
// alteram o papel.
func UpdateUser(service authenticating.Authenticator) http.Handler {
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

		isAdmin := claims.UserRoleID == 1
		if !isAdmin && claims.UserID != targetID {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para editar este usuário", nil)
			return
		}

		var req domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		req.ID = targetID

		if req.RoleID != nil && !isAdmin {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem alterar o tipo de usuário", nil)
			return
		}

		if err := service.UpdateUser(&req); err != nil {
			logger.WithError(err).WithField("user_id", targetID).Error("usuário: falha ao atualizar")
			writeAuthServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"message": "Usuário atualizado com sucesso"}); err != nil {
			logger.WithError(err).Error("usuário: falha ao escrever resposta")
		}
	})
}

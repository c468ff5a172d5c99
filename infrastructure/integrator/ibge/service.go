package ibge

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/planteforte/dashboard-comercial-api/infrastructure/integrator/ibge/ibgeclient"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
)

// MunicipioProvider entrega a tabela de municípios indexada pela chave
// cidade-UF normalizada, usada no join geográfico das vendas.
type MunicipioProvider interface {
	Municipalities() (map[string]domain.Municipality, error)
	Refresh() error
}

type MunicipioService struct {
	client ibgeclient.Client

	mu    sync.RWMutex
	index map[string]domain.Municipality
}

func NewMunicipioService(client ibgeclient.Client) *MunicipioService {
	return &MunicipioService{client: client}
}

// Municipalities devolve o índice em memória, carregando da fonte na
// primeira chamada. A tabela muda raramente, então depois do primeiro
// carregamento só o Refresh agendado a substitui.
func (s *MunicipioService) Municipalities() (map[string]domain.Municipality, error) {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()

	if index != nil {
		return index, nil
	}

	if err := s.Refresh(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index, nil
}

// Refresh recarrega a tabela de municípios. Em caso de falha o índice
// anterior é mantido.
func (s *MunicipioService) Refresh() error {
	municipalities, err := s.client.FetchMunicipalities()
	if err != nil {
		return errors.Wrap(err, "erro ao atualizar tabela de municípios")
	}

	index := make(map[string]domain.Municipality, len(municipalities))
	for _, m := range municipalities {
		index[m.Key] = m
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	logrus.Infof("Tabela de municípios atualizada: %d chaves", len(index))
	return nil
}

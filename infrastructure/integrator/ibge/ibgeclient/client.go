package ibgeclient

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/planteforte/dashboard-comercial-api/internal/config"
	"github.com/planteforte/dashboard-comercial-api/internal/domain"
)

// stateByCode traduz o código numérico de UF do IBGE para a sigla.
var stateByCode = map[int]string{
	11: "RO", 12: "AC", 13: "AM", 14: "RR", 15: "PA", 16: "AP", 17: "TO",
	21: "MA", 22: "PI", 23: "CE", 24: "RN", 25: "PB", 26: "PE", 27: "AL", 28: "SE", 29: "BA",
	31: "MG", 32: "ES", 33: "RJ", 35: "SP", 41: "PR", 42: "SC", 43: "RS",
	50: "MS", 51: "MT", 52: "GO", 53: "DF",
}

type Client interface {
	FetchMunicipalities() ([]domain.Municipality, error)
}

type IBGEClient struct {
	httpClient *http.Client
	config     *config.Config
}

func NewClient(cfg *config.Config) Client {
	return &IBGEClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		config: cfg,
	}
}

// FetchMunicipalities baixa o CSV de municípios brasileiros e monta a
// tabela de referência com a chave cidade-UF já normalizada — a mesma
// normalização aplicada às vendas, senão o join perde linhas.
func (c *IBGEClient) FetchMunicipalities() ([]domain.Municipality, error) {
	logrus.Infof("Carregando municípios do IBGE de %s", c.config.IBGE.URL)

	resp, err := c.httpClient.Get(c.config.IBGE.URL)
	if err != nil {
		return nil, fmt.Errorf("erro ao baixar CSV do IBGE: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download do CSV do IBGE falhou com status: %s", resp.Status)
	}

	municipalities, err := parseCSV(resp.Body)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Carregados %d municípios", len(municipalities))
	return municipalities, nil
}

func parseCSV(r io.Reader) ([]domain.Municipality, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler cabeçalho do CSV: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"nome", "codigo_uf", "latitude", "longitude"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV do IBGE sem a coluna %q", required)
		}
	}

	municipalities := make([]domain.Municipality, 0, 5600)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao ler linha do CSV: %w", err)
		}

		code, err := strconv.Atoi(record[cols["codigo_uf"]])
		if err != nil {
			continue
		}
		uf, ok := stateByCode[code]
		if !ok {
			continue
		}

		lat, errLat := strconv.ParseFloat(record[cols["latitude"]], 64)
		lon, errLon := strconv.ParseFloat(record[cols["longitude"]], 64)
		if errLat != nil || errLon != nil {
			continue
		}

		name := record[cols["nome"]]
		municipalities = append(municipalities, domain.Municipality{
			Key:       domain.MakeCityKey(name, uf),
			Name:      name,
			State:     uf,
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return municipalities, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Server           Server           `mapstructure:",squash"`
	Database         Database         `mapstructure:",squash"`
	Tiny             Tiny             `mapstructure:",squash"`
	IBGE             IBGE             `mapstructure:",squash"`
	SalesCache       SalesCache       `mapstructure:",squash"`
	Auth             Auth             `mapstructure:",squash"`
	MunicipioRefresh MunicipioRefresh `mapstructure:",squash"`
	ProductAnalysis  ProductAnalysis  `mapstructure:",squash"`
	SecretKey        string           `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Tiny concentra os endpoints e limites da API do Tiny ERP.
// O token de acesso nunca entra aqui: ele chega por requisição.
type Tiny struct {
	SearchURL             string `mapstructure:"tiny_api_url"`
	DetailURL             string `mapstructure:"tiny_api_obter_url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout"`
	RetryDelaySeconds     int    `mapstructure:"tiny_retry_delay_seconds"`
}

type IBGE struct {
	URL string `mapstructure:"ibge_url"`
}

type SalesCache struct {
	TTLSeconds int `mapstructure:"cache_ttl"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type MunicipioRefresh struct {
	CronSchedule string `mapstructure:"municipio_refresh_cron"`
	Enabled      bool   `mapstructure:"municipio_refresh_enabled"`
}

type ProductAnalysis struct {
	SampleSize         int `mapstructure:"product_analysis_sample_size"`
	RequestDelayMillis int `mapstructure:"product_analysis_request_delay_millis"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/comercial")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("TINY_API_URL", "https://api.tiny.com.br/api2/notas.fiscais.pesquisa.php")
	viper.SetDefault("TINY_API_OBTER_URL", "https://api.tiny.com.br/api2/nota.fiscal.obter.php")
	viper.SetDefault("REQUEST_TIMEOUT", 20)
	viper.SetDefault("TINY_RETRY_DELAY_SECONDS", 2) // Pausa única antes de repetir após HTTP 429

	viper.SetDefault("IBGE_URL", "https://raw.githubusercontent.com/kelvins/municipios-brasileiros/main/csv/municipios.csv")

	viper.SetDefault("CACHE_TTL", 3600) // 1 hora em segundos

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Defaults para a atualização agendada da tabela de municípios
	viper.SetDefault("MUNICIPIO_REFRESH_CRON", "0 5 * * *") // Todos os dias às 5h da manhã
	viper.SetDefault("MUNICIPIO_REFRESH_ENABLED", true)

	// Defaults para a análise de produtos (leitura de itens nota a nota)
	viper.SetDefault("PRODUCT_ANALYSIS_SAMPLE_SIZE", 50)
	viper.SetDefault("PRODUCT_ANALYSIS_REQUEST_DELAY_MILLIS", 300) // Pausa para não bloquear a API

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}

package config

import (
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds every process-wide setting. It is decoded once at startup
// and passed explicitly into component constructors; business logic never
// reads the environment on its own.
type Config struct {
	Port          string `env:"PORT,default=3000"`
	AllowedOrigin string `env:"ALLOWED_ORIGINS,default=http://localhost:5173"`
	TokenSecret   string `env:"API_TOKEN_SECRET,required"`

	DBHost     string `env:"DB_HOST,default=localhost"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT,default=5432"`

	CompletionAPIKey  string        `env:"OPENROUTER_API_KEY,required"`
	CompletionURL     string        `env:"OPENROUTER_URL,default=https://openrouter.ai/api/v1/chat/completions"`
	CompletionModel   string        `env:"COMPLETION_MODEL,default=cognitivecomputations/dolphin-mistral-24b-venice-edition:free"`
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT,default=30s"`
	RetryAttempts     int           `env:"COMPLETION_RETRIES,default=3"`
	RetryBaseDelay    time.Duration `env:"COMPLETION_RETRY_BASE_DELAY,default=3s"`

	ImageAPIKey  string        `env:"MODELSLAB_API_KEY"`
	ImageURL     string        `env:"IMAGE_API_URL,default=https://modelslab.com/api/v6/realtime/text2img"`
	ImageTimeout time.Duration `env:"IMAGE_TIMEOUT,default=60s"`

	LedgerURL       string        `env:"TON_CENTER_URL,default=https://toncenter.com/api/v3/jetton/transfers"`
	LedgerTimeout   time.Duration `env:"LEDGER_TIMEOUT,default=10s"`
	PaymentWindow   time.Duration `env:"PAYMENT_LOOKBACK_WINDOW,default=10m"`
	WalletAddress   string        `env:"MY_WALLET_ADDRESS,required"`
	WalletUsername  string        `env:"WALLET_USERNAME"`
	AssetIdentifier string        `env:"USDT_JETTON_MASTER,default=EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"`
}

// Load decodes the config from the environment. Missing required variables
// fail startup rather than surfacing later inside a request.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

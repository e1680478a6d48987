package app

import (
	"fmt"

	"github.com/pvzzle/polywatch/internal/feed"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

type Config struct {
	PolyUser       string `env:"POLY_USER,required"`
	TelegramToken  string `env:"TELEGRAM_TOKEN,required"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID,required"`

	PollIntervalSec int `env:"POLL_INTERVAL_SEC"`
	Limit           int `env:"LIMIT"`

	DBPath      string `env:"DB_PATH"`
	PostgresURL string `env:"POSTGRES_URL"`
	DataAPIURL  string `env:"DATA_API_URL"`
}

func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Warning: .env file not found, relying on environment variables")
	}

	config := Config{
		PollIntervalSec: 15,
		Limit:           100,
		DBPath:          "/data/polymarket.sqlite3",
		DataAPIURL:      feed.DefaultBaseURL,
	}

	if err := env.Parse(&config); err != nil {
		return Config{}, err
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	// proxy-кошельки Polymarket — обычные EVM-адреса
	if !common.IsHexAddress(c.PolyUser) {
		return fmt.Errorf("POLY_USER is not a valid address: %q", c.PolyUser)
	}
	if c.PollIntervalSec <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SEC must be positive, got %d", c.PollIntervalSec)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("LIMIT must be positive, got %d", c.Limit)
	}
	return nil
}

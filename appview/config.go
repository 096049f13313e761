package appview

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	ListenAddr   string        `env:"LISTEN_ADDR, default=0.0.0.0:3000"`
	APIEndpoint  string        `env:"API_ENDPOINT, default=http://localhost:8080"`
	GitEndpoint  string        `env:"GIT_ENDPOINT, default=http://localhost:8081"`
	CookieSecret string        `env:"COOKIE_SECRET, required"`
	DbPath       string        `env:"DB_PATH, default=appview.db"`
	SessionTTL   time.Duration `env:"SESSION_TTL, default=72h"`

	// Dev drops the Secure flag from the session cookie.
	Dev   bool `env:"DEV, default=false"`
	Debug bool `env:"DEBUG, default=false"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper("SMSLY_", envconfig.OsLookuper()),
	})
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

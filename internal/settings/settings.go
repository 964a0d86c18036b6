package settings

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings holds process settings read from the environment. Command-line
// flags override them.
type Settings struct {
	DBPath       string   `envconfig:"DB_PATH" default:"radar.db"`
	ConfigPath   string   `envconfig:"CONFIG"`
	StoplistPath string   `envconfig:"STOPLIST"`
	LexiconPath  string   `envconfig:"LEXICON"`
	HTTPAddr     string   `envconfig:"HTTP_ADDR" default:":5000"`
	CorsOrigins  []string `envconfig:"CORS_ORIGINS" default:"*"`
	Workers      int      `envconfig:"WORKERS" default:"0"`
	LogLevel     string   `envconfig:"LOG_LEVEL" default:"info"`
	Development  bool     `envconfig:"DEV" default:"false"`
}

// Load reads an optional .env file, then RADAR_* variables.
func Load() (*Settings, error) {
	_ = godotenv.Load()
	var s Settings
	if err := envconfig.Process("radar", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logger builds the process logger: JSON in production, console in development.
func (s *Settings) Logger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", s.LogLevel, err)
	}

	cfg := zap.NewProductionConfig()
	if s.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

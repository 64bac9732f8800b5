// Package config loads the application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Matcher MatcherConfig  `yaml:"matcher" mapstructure:"matcher"`
	Query   SourceConfig   `yaml:"query" mapstructure:"query"`
	Refs    []SourceConfig `yaml:"refs" mapstructure:"refs"`
	Output  OutputConfig   `yaml:"output" mapstructure:"output"`
	Server  ServerConfig   `yaml:"server" mapstructure:"server"`
	Log     LogConfig      `yaml:"log" mapstructure:"log"`
}

// MatcherConfig configures the resolution engine.
type MatcherConfig struct {
	SimilarityThreshold float64  `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	TopK                int      `yaml:"top_k" mapstructure:"top_k"`
	PhoneStage          bool     `yaml:"phone_stage" mapstructure:"phone_stage"`
	KeywordPruning      bool     `yaml:"keyword_pruning" mapstructure:"keyword_pruning"`
	Workers             int      `yaml:"workers" mapstructure:"workers"`
	PhoneCountryCode    string   `yaml:"phone_country_code" mapstructure:"phone_country_code"`
	SuffixTokens        []string `yaml:"suffix_tokens" mapstructure:"suffix_tokens"`
	SuffixSubstrings    []string `yaml:"suffix_substrings" mapstructure:"suffix_substrings"`
}

// SourceConfig describes one tabular input corpus. File sources set Path;
// Postgres sources set DSN and Table instead, with NameCol/PhoneCol naming
// the table columns.
type SourceConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`
	Path     string `yaml:"path" mapstructure:"path"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"`
	DSN      string `yaml:"dsn" mapstructure:"dsn"`
	Table    string `yaml:"table" mapstructure:"table"`
	NameCol  string `yaml:"name_col" mapstructure:"name_col"`
	PhoneCol string `yaml:"phone_col" mapstructure:"phone_col"`
}

// OutputConfig configures the result writers.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	DB   string `yaml:"db" mapstructure:"db"`
}

// ServerConfig configures the match API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPANY_MATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range Defaults() {
		v.SetDefault(key, val)
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Defaults returns the default settings keyed by viper path. The same map
// feeds SetDefault and the init-config emitter so the two never drift.
func Defaults() map[string]any {
	return map[string]any{
		"matcher.similarity_threshold": 0.55,
		"matcher.top_k":                3,
		"matcher.phone_stage":          true,
		"matcher.keyword_pruning":      true,
		"matcher.workers":              1,
		"matcher.phone_country_code":   "966",
		"output.path":                  "matches.xlsx",
		"server.port":                  8080,
		"log.level":                    "info",
		"log.format":                   "json",
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Package config resolves runtime settings from defaults, an optional
// .env file, an optional YAML config file, FINACC_* environment variables
// and command line flags, later sources winning.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/berrnk/bdz1/pkg/models"
)

const EnvPrefix = "FINACC"

type Config struct {
	DataDir    string       `mapstructure:"data_dir"`
	Format     string       `mapstructure:"format"`
	LedgerFile string       `mapstructure:"ledger_file"`
	LogLevel   string       `mapstructure:"log_level"`
	Server     ServerConfig `mapstructure:"server"`
	Export     ExportConfig `mapstructure:"export"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ExportConfig holds the base names, without extension, of the three
// per-kind export files.
type ExportConfig struct {
	Accounts   string `mapstructure:"accounts"`
	Categories string `mapstructure:"categories"`
	Operations string `mapstructure:"operations"`
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"data-dir":  "data_dir",
	"format":    "format",
	"ledger":    "ledger_file",
	"log-level": "log_level",
	"addr":      "server.addr",
}

func defaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")
	v.SetDefault("format", string(models.YAML))
	v.SetDefault("ledger_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("server.addr", "0.0.0.0:3000")
	v.SetDefault("export.accounts", "accounts")
	v.SetDefault("export.categories", "categories")
	v.SetDefault("export.operations", "operations")
}

// Build loads the configuration. cfgFile may be empty, in which case
// config.yaml is looked up in the working directory and skipped when
// absent. flags may be nil.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := gotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	defaults(v)

	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	f, err := models.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = string(f)
	if c.LedgerFile == "" {
		c.LedgerFile = "ledger" + f.Ext()
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// DocumentFormat is the configured interchange format.
func (c *Config) DocumentFormat() models.Format {
	return models.Format(c.Format)
}

// Level returns the configured log level, info when unparsable.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// LedgerPath is where the CLI keeps its state between runs.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, c.LedgerFile)
}

// ExportPaths returns the accounts, categories and operations file paths
// for an export in format f.
func (c *Config) ExportPaths(f models.Format) (string, string, string) {
	return filepath.Join(c.DataDir, c.Export.Accounts+f.Ext()),
		filepath.Join(c.DataDir, c.Export.Categories+f.Ext()),
		filepath.Join(c.DataDir, c.Export.Operations+f.Ext())
}

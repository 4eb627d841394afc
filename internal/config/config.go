package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SinkKind selects where exams are submitted.
type SinkKind string

const (
	SinkHTTP   SinkKind = "http"
	SinkSQL    SinkKind = "sql"
	SinkDryRun SinkKind = "dry-run"
)

// Config holds settings for one import run. Values are layered: defaults,
// then the YAML file, then EXAMIMPORT_* environment variables. The CLI
// applies explicit flags last.
type Config struct {
	Host     string        `yaml:"host"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`

	Sink     SinkKind `yaml:"sink"`
	DBDriver string   `yaml:"db_driver"` // sqlite|postgres
	DBDSN    string   `yaml:"db_dsn"`

	// Output is the dry-run target; stdout when empty.
	Output string `yaml:"output"`
	Pretty bool   `yaml:"pretty"`

	Format    string `yaml:"format"`
	Sheet     string `yaml:"sheet"`
	Delimiter string `yaml:"delimiter"`
	Encoding  string `yaml:"encoding"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Host:     "http://localhost:8080",
		Username: "admin",
		Timeout:  30 * time.Second,
		Sink:     SinkHTTP,
		DBDriver: "sqlite",
		Format:   "auto",
		Encoding: "utf-8",
		LogLevel: "info",
	}
}

// Load builds a Config from defaults, the optional YAML file at path and
// the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Host = envOr("EXAMIMPORT_HOST", c.Host)
	c.Username = envOr("EXAMIMPORT_USERNAME", c.Username)
	c.Password = envOr("EXAMIMPORT_PASSWORD", c.Password)
	c.Sink = SinkKind(envOr("EXAMIMPORT_SINK", string(c.Sink)))
	c.DBDriver = envOr("EXAMIMPORT_DB_DRIVER", c.DBDriver)
	c.DBDSN = envOr("EXAMIMPORT_DB_DSN", c.DBDSN)
	c.LogLevel = envOr("EXAMIMPORT_LOG_LEVEL", c.LogLevel)
	c.Pretty = envBool("EXAMIMPORT_PRETTY", c.Pretty)
	if v := os.Getenv("EXAMIMPORT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("EXAMIMPORT_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Sink {
	case SinkHTTP:
		if c.Host == "" {
			return errors.New("host is required for the http sink")
		}
		if c.Username == "" || c.Password == "" {
			return errors.New("username and password are required for the http sink")
		}
	case SinkSQL:
		switch c.DBDriver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("unsupported db driver %q (must be sqlite or postgres)", c.DBDriver)
		}
	case SinkDryRun:
	default:
		return fmt.Errorf("invalid sink %q (must be http, sql or dry-run)", c.Sink)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// DelimiterRune decodes the delimiter setting; "\t" and "tab" mean a tab.
func (c Config) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	return r[0], nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}

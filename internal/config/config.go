// Package config reads server settings from flags with environment fallbacks.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/benbeisheim/solochess-backend/internal/engine"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr         string
	AllowOrigins string
	EngineDepth  int
	// EngineDelay is how long the server waits before the automated reply.
	EngineDelay time.Duration
	LogPrefix   string
}

func Default() Config {
	return Config{
		Addr:         ":3000",
		AllowOrigins: "http://localhost:5173",
		EngineDepth:  engine.DefaultDepth,
		EngineDelay:  500 * time.Millisecond,
		LogPrefix:    "solochess: ",
	}
}

// Load parses args (without the program name). Flags win over SOLOCHESS_*
// environment variables, which win over the defaults.
func Load(args []string) (Config, error) {
	def := Default()
	depth, err := getenvInt("SOLOCHESS_DEPTH", def.EngineDepth)
	if err != nil {
		return Config{}, err
	}
	delay, err := getenvDuration("SOLOCHESS_ENGINE_DELAY", def.EngineDelay)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{}
	fs := flag.NewFlagSet("solochess", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", getenv("SOLOCHESS_ADDR", def.Addr), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", getenv("SOLOCHESS_ORIGINS", def.AllowOrigins), "comma-separated CORS origins")
	fs.IntVar(&cfg.EngineDepth, "depth", depth, "engine search depth in plies")
	fs.DurationVar(&cfg.EngineDelay, "engine-delay", delay, "delay before the engine replies")
	fs.StringVar(&cfg.LogPrefix, "log-prefix", getenv("SOLOCHESS_LOG_PREFIX", def.LogPrefix), "log line prefix")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.EngineDepth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d: %w", c.EngineDepth, ErrInvalidConfig)
	}
	if c.EngineDelay < 0 {
		return fmt.Errorf("engine delay must not be negative: %w", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("empty listen address: %w", ErrInvalidConfig)
	}
	// credentialed CORS cannot use a wildcard origin
	for _, o := range c.Origins() {
		if o == "*" {
			return fmt.Errorf("wildcard origin: %w", ErrInvalidConfig)
		}
	}
	return nil
}

// Origins returns the CORS origins as a list.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidConfig)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidConfig)
	}
	return d, nil
}

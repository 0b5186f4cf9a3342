// Package config loads the settings of the clustering service.
//
// Values are layered from lowest to highest priority:
//  1. Defaults in code
//  2. An optional YAML file
//  3. Environment variables prefixed with KMEANS_
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yyyoichi/kmeans_trace/internal/sample"
)

// Environment is the deployment environment. It selects the logger flavor.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// EnvConfigPath names the variable holding the YAML file path when no flag is given.
const EnvConfigPath = "KMEANS_CONFIG"

type Config struct {
	Addr        string      `yaml:"addr"`
	Environment Environment `yaml:"environment"`
	LogLevel    string      `yaml:"log_level"`

	// DemoPoints is the size of a generated demo point set.
	DemoPoints    int   `yaml:"demo_points"`
	// MaxPoints caps both uploaded and generated point sets.
	MaxPoints     int   `yaml:"max_points"`
	MaxClusters   int   `yaml:"max_clusters"`
	MaxIterations int   `yaml:"max_iterations"`
	MaxBodyBytes  int64 `yaml:"max_body_bytes"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns a configuration that runs without any file or environment.
func Default() *Config {
	return &Config{
		Addr:            ":3000",
		Environment:     Development,
		LogLevel:        "info",
		DemoPoints:      sample.DefaultPoints,
		MaxPoints:       10000,
		MaxClusters:     64,
		MaxIterations:   100,
		MaxBodyBytes:    4 << 20,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"*"},
	}
}

// Load builds the configuration from defaults, the YAML file at path and the environment.
// An empty path falls back to $KMEANS_CONFIG; when that is empty too, no file is read.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnvironmentVariables(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnvironmentVariables() error {
	if val := os.Getenv("KMEANS_ADDR"); val != "" {
		c.Addr = val
	}
	if val := os.Getenv("KMEANS_ENV"); val != "" {
		c.Environment = Environment(strings.ToLower(val))
	}
	if val := os.Getenv("KMEANS_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	for name, dst := range map[string]*int{
		"KMEANS_DEMO_POINTS":    &c.DemoPoints,
		"KMEANS_MAX_POINTS":     &c.MaxPoints,
		"KMEANS_MAX_CLUSTERS":   &c.MaxClusters,
		"KMEANS_MAX_ITERATIONS": &c.MaxIterations,
	} {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}
	if val := os.Getenv("KMEANS_ALLOWED_ORIGINS"); val != "" {
		c.AllowedOrigins = strings.Split(val, ",")
		for i := range c.AllowedOrigins {
			c.AllowedOrigins[i] = strings.TrimSpace(c.AllowedOrigins[i])
		}
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("environment must be %q or %q, got %q", Development, Production, c.Environment))
	}
	if c.MaxPoints < 1 {
		errs = append(errs, errors.New("max_points must be positive"))
	}
	if c.DemoPoints < 1 || c.DemoPoints > c.MaxPoints {
		errs = append(errs, fmt.Errorf("demo_points must be in [1, %d]", c.MaxPoints))
	}
	if c.MaxClusters < 1 {
		errs = append(errs, errors.New("max_clusters must be positive"))
	}
	if c.MaxIterations < 1 {
		errs = append(errs, errors.New("max_iterations must be positive"))
	}
	if c.MaxBodyBytes < 1 {
		errs = append(errs, errors.New("max_body_bytes must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	return errors.Join(errs...)
}

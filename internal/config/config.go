// Package config loads the tandem settings from a YAML or JSON file with
// TANDEM_* environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TANDEM_"

// Source kinds.
const (
	SourceMemory = "memory"
	SourceRedis  = "redis"
	SourceHTTP   = "http"
)

// Config is the full tandem configuration.
type Config struct {
	Server      Server      `mapstructure:"server"`
	Coordinator Coordinator `mapstructure:"coordinator"`
	Source      Source      `mapstructure:"source"`

	// Lists holds the two catalogs, list A first. Values may be written as
	// plain strings, which become values whose code and label are equal.
	Lists []Catalog `mapstructure:"lists"`
}

// Server holds the network and logging settings.
type Server struct {
	Addr        string `mapstructure:"addr" env:"ADDR"`
	MetricsAddr string `mapstructure:"metrics_addr" env:"METRICS_ADDR"`
	LogLevel    string `mapstructure:"log_level" env:"LOG_LEVEL"`
}

// Coordinator holds the coordinator and demo combiner settings.
type Coordinator struct {
	PageSize     int           `mapstructure:"page_size" env:"PAGE_SIZE"`
	MessageTTL   time.Duration `mapstructure:"message_ttl" env:"MESSAGE_TTL"`
	CombineDelay time.Duration `mapstructure:"combine_delay" env:"COMBINE_DELAY"`
	QueueSize    int           `mapstructure:"queue_size" env:"QUEUE_SIZE"`
}

// Source selects where the catalogs are read from.
type Source struct {
	Kind        string `mapstructure:"kind" env:"SOURCE"`
	RedisURL    string `mapstructure:"redis_url" env:"REDIS_URL"`
	RedisPrefix string `mapstructure:"redis_prefix" env:"REDIS_PREFIX"`
	UpstreamURL string `mapstructure:"upstream_url" env:"UPSTREAM_URL"`
}

// Catalog is a named list of values.
type Catalog struct {
	Name   string         `mapstructure:"name"`
	Values []domain.Value `mapstructure:"values"`
}

// Default returns the demo configuration: two catalogs served three values
// per page, a 500ms combination and a message visible for two seconds.
func Default() Config {
	return Config{
		Server: Server{
			Addr:     ":3000",
			LogLevel: "info",
		},
		Coordinator: Coordinator{
			PageSize:     domain.DefaultPageSize,
			MessageTTL:   2 * time.Second,
			CombineDelay: 500 * time.Millisecond,
		},
		Source: Source{
			Kind:        SourceMemory,
			RedisPrefix: "tandem:catalog:",
		},
		Lists: []Catalog{
			{Name: "articles", Values: []domain.Value{
				{Code: "art-1", Label: "Getting started"},
				{Code: "art-2", Label: "Pagination basics"},
				{Code: "art-3", Label: "Searching lists"},
				{Code: "art-4", Label: "Concurrent loading"},
				{Code: "art-5", Label: "Stale results"},
				{Code: "art-6", Label: "Mapping values"},
				{Code: "art-7", Label: "Retrying failures"},
				{Code: "art-8", Label: "Transient messages"},
			}},
			{Name: "categories", Values: []domain.Value{
				{Code: "cat-1", Label: "Guides"},
				{Code: "cat-2", Label: "Reference"},
				{Code: "cat-3", Label: "Tutorials"},
				{Code: "cat-4", Label: "Release notes"},
				{Code: "cat-5", Label: "Internals"},
			}},
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path only applies the overrides. The format follows the
// extension: .json is JSON, anything else YAML.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decode(data, strings.ToLower(filepath.Ext(path)) == ".json", &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the TANDEM_* environment variables.
func ApplyEnv(cfg *Config) error {
	opts := env.Options{Prefix: EnvPrefix}
	for _, target := range []any{&cfg.Server, &cfg.Coordinator, &cfg.Source} {
		if err := env.ParseWithOptions(target, opts); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

func decode(data []byte, isJSON bool, cfg *Config) error {
	raw := map[string]any{}
	if isJSON {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToValueHook,
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

var valueType = reflect.TypeOf(domain.Value{})

func stringToValueHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != valueType {
		return data, nil
	}
	s := data.(string)
	return domain.Value{Code: s, Label: s}, nil
}

// Validate reports every inconsistency of the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if len(c.Lists) != 2 {
		errs = append(errs, fmt.Errorf("lists: need exactly 2 catalogs, got %d", len(c.Lists)))
	}
	seen := map[string]bool{}
	for i, l := range c.Lists {
		switch {
		case l.Name == "":
			errs = append(errs, fmt.Errorf("lists[%d]: name is required", i))
		case seen[l.Name]:
			errs = append(errs, fmt.Errorf("lists[%d]: duplicate name %q", i, l.Name))
		}
		seen[l.Name] = true
		for j, v := range l.Values {
			if v.Code == "" {
				errs = append(errs, fmt.Errorf("lists[%d].values[%d]: code is required", i, j))
			}
		}
	}

	if c.Coordinator.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("coordinator.page_size: must be positive, got %d", c.Coordinator.PageSize))
	}
	if c.Coordinator.CombineDelay < 0 {
		errs = append(errs, fmt.Errorf("coordinator.combine_delay: must not be negative"))
	}
	if c.Coordinator.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("coordinator.queue_size: must not be negative"))
	}

	switch c.Source.Kind {
	case SourceMemory:
	case SourceRedis:
		if c.Source.RedisURL == "" {
			errs = append(errs, errors.New("source.redis_url: required for the redis source"))
		}
	case SourceHTTP:
		if c.Source.UpstreamURL == "" {
			errs = append(errs, errors.New("source.upstream_url: required for the http source"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind: unknown %q (memory, redis, http)", c.Source.Kind))
	}

	return errors.Join(errs...)
}

// ListNames returns the catalog names in region order.
func (c Config) ListNames() []string {
	names := make([]string, len(c.Lists))
	for i, l := range c.Lists {
		names[i] = l.Name
	}
	return names
}

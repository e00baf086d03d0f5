// Package config loads the host configuration: a YAML file checked against an
// embedded JSON Schema and overlaid onto defaults.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talgya/econwar/internal/warfare"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://econwar.schemas.local/config.schema.json"

var compiled *jsonschema.Schema

func init() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Errorf("config schema load failed: %w", err))
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Errorf("config schema compile failed: %w", err))
	}
	compiled = s
}

// Config is the host configuration.
type Config struct {
	Seed                    int64   `yaml:"seed"`
	TickIntervalMs          int     `yaml:"tick_interval_ms"`
	SimSecondsPerTick       float64 `yaml:"sim_seconds_per_tick"`
	DBPath                  string  `yaml:"db_path"`
	JournalDir              string  `yaml:"journal_dir"`
	AutosaveEverySimSeconds float64 `yaml:"autosave_every_sim_seconds"`

	Warfare warfare.Config `yaml:"warfare"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Seed:                    42,
		TickIntervalMs:          100,
		SimSecondsPerTick:       1,
		DBPath:                  "data/econwar.db",
		JournalDir:              "data/journal",
		AutosaveEverySimSeconds: 3600,
		Warfare:                 warfare.DefaultConfig(),
	}
}

// Validate checks cross-field constraints the schema cannot express.
func (c Config) Validate() error {
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs)
	}
	if c.SimSecondsPerTick <= 0 {
		return fmt.Errorf("sim_seconds_per_tick must be positive, got %v", c.SimSecondsPerTick)
	}
	if c.AutosaveEverySimSeconds < 0 {
		return fmt.Errorf("autosave_every_sim_seconds is negative")
	}
	if err := c.Warfare.Validate(); err != nil {
		return fmt.Errorf("warfare: %w", err)
	}
	return nil
}

// Load reads path and overlays it onto Default. Keys the file omits keep their
// defaults; default_specializations entries override per faction.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates raw YAML and overlays it onto Default.
func Parse(raw []byte) (Config, error) {
	if err := validateDocument(raw); err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validateDocument runs the schema over raw. YAML is converted to its JSON
// data model first so the validator sees json.Number values and string keys.
func validateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	b, err := json.Marshal(jsonModel(doc))
	if err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// jsonModel rewrites YAML maps with non-string keys into string-keyed maps.
func jsonModel(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = jsonModel(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonModel(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = jsonModel(val)
		}
		return out
	default:
		return v
	}
}

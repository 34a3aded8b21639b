package linter

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/apimlint/apimlint/document"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaJSON string

var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compileSchema(jsonschema.NewCompiler(), "lint-config.json", configSchemaJSON)
})

// LoadConfig loads lint configuration from a YAML reader.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var cfg Config
	if len(root.Content) > 0 {
		if err := validateConfigSchema(&root); err != nil {
			return nil, err
		}
		if err := root.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if len(cfg.Extends) == 0 {
		cfg.Extends = StringList{RulesetAll}
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	if cfg.Categories == nil {
		cfg.Categories = make(map[string]CategoryConfig)
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = OutputFormatText
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigFromFile loads lint configuration from a YAML file.
func LoadConfigFromFile(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

func validateConfigSchema(root *yaml.Node) error {
	schema, err := configSchema()
	if err != nil {
		return fmt.Errorf("failed to load config schema: %w", err)
	}
	value, err := jsonValue(document.ToValue(root))
	if err != nil {
		return ErrInvalidConfig.Wrap(err)
	}
	if err := schema.Validate(value); err != nil {
		return ErrInvalidConfig.Wrapf("%s", schemaErrorMessage(err))
	}
	return nil
}

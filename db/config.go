package db

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"spandb/catalog"
	"spandb/catalog/db_types"
	"spandb/common"
	"spandb/storage/sstable"
)

type Config struct {
	DataDir   string        `yaml:"data_dir"`
	LogLevel  string        `yaml:"log_level"`
	Fsync     bool          `yaml:"fsync"`
	BlockSize int           `yaml:"block_size"`
	Tables    []TableConfig `yaml:"tables"`
}

// TableConfig declares a table that is created when the database is opened, unless it exists already.
type TableConfig struct {
	Name       string            `yaml:"name"`
	Analyzer   string            `yaml:"analyzer"`
	Attributes []AttributeConfig `yaml:"attributes"`
}

type AttributeConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:   "spandb_data",
		LogLevel:  "info",
		BlockSize: sstable.DefaultBlockSize,
	}
}

// LoadConfig reads a yaml config file. Settings missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(common.KindConfiguration, errors.Wrap(err, "error while reading config"), "Config", "Load")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, common.WrapError(common.KindConfiguration, errors.Wrap(err, "error while parsing config"), "Config", "Load")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return common.NewError(common.KindConfiguration, "Config", "Validate", "data_dir is empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return common.NewError(common.KindConfiguration, "Config", "Validate", "unknown log_level %q", c.LogLevel)
	}
	if c.BlockSize < 0 {
		return common.NewError(common.KindConfiguration, "Config", "Validate", "block_size %d is negative", c.BlockSize)
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		key := strings.ToLower(t.Name)
		if seen[key] {
			return common.NewError(common.KindConfiguration, "Config", "Validate", "table %v is declared twice", t.Name)
		}
		seen[key] = true
		if _, err := t.Schema(); err != nil {
			return common.WrapError(common.KindConfiguration, err, "Config", "Validate")
		}
	}
	return nil
}

// Schema builds the table's schema, without _ID which the catalog adds.
func (t TableConfig) Schema() (catalog.Schema, error) {
	if t.Name == "" {
		return nil, common.NewError(common.KindConfiguration, "Config", "Schema", "table name is empty")
	}
	if len(t.Attributes) == 0 {
		return nil, common.NewError(common.KindConfiguration, "Config", "Schema", "table %v has no attributes", t.Name)
	}

	cols := make([]catalog.Column, 0, len(t.Attributes))
	for _, a := range t.Attributes {
		typeID, err := db_types.TypeByName(a.Type)
		if err != nil {
			return nil, common.NewError(common.KindConfiguration, "Config", "Schema", "attribute %v of table %v: %v", a.Name, t.Name, err)
		}
		cols = append(cols, catalog.NewColumn(a.Name, typeID))
	}
	return catalog.NewSchema(cols)
}

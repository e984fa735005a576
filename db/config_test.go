package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spandb/common"
	"spandb/storage/sstable"
)

const testConfig = `
data_dir: /tmp/spandb
log_level: debug
tables:
  - name: books
    attributes:
      - {name: title, type: string}
      - {name: pages, type: integer}
      - {name: review, type: text}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spandb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/spandb", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, sstable.DefaultBlockSize, cfg.BlockSize)
	assert.False(t, cfg.Fsync)
	require.Len(t, cfg.Tables, 1)

	schema, err := cfg.Tables[0].Schema()
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "pages", "review"}, schema.GetColumnNames())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, common.ErrConfiguration)

	_, err = LoadConfig(writeConfig(t, "data_dir: [unclosed"))
	require.ErrorIs(t, err, common.ErrConfiguration)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"negative block size", func(c *Config) { c.BlockSize = -1 }},
		{"table without name", func(c *Config) {
			c.Tables = []TableConfig{{Attributes: []AttributeConfig{{Name: "a", Type: "text"}}}}
		}},
		{"table without attributes", func(c *Config) { c.Tables = []TableConfig{{Name: "t"}} }},
		{"unknown attribute type", func(c *Config) {
			c.Tables = []TableConfig{{Name: "t", Attributes: []AttributeConfig{{Name: "a", Type: "blob"}}}}
		}},
		{"table declared twice", func(c *Config) {
			tc := TableConfig{Name: "t", Attributes: []AttributeConfig{{Name: "a", Type: "text"}}}
			c.Tables = []TableConfig{tc, tc}
		}},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			require.ErrorIs(t, cfg.Validate(), common.ErrConfiguration)
		})
	}
}

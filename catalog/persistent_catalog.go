package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"spandb/catalog/db_types"
	"spandb/common"
)

const (
	manifestFile = "catalog.yaml"
	tablesDir    = "tables"
)

var _ Catalog = &PersistentCatalog{}

// PersistentCatalog stores table definitions in a yaml manifest under its directory and table data in one
// segment directory per table.
type PersistentCatalog struct {
	dir    string
	opts   StoreOptions
	logger log.Logger

	tables map[string]*TableInfo
	l      *sync.Mutex
}

type manifest struct {
	Tables []tableManifest `yaml:"tables"`
}

type tableManifest struct {
	Name       string              `yaml:"name"`
	Directory  string              `yaml:"directory"`
	Analyzer   string              `yaml:"analyzer"`
	Attributes []attributeManifest `yaml:"attributes"`
}

type attributeManifest struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func OpenCatalog(dir string, opts StoreOptions, logger log.Logger) (*PersistentCatalog, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if err := os.MkdirAll(filepath.Join(dir, tablesDir), 0o755); err != nil {
		return nil, common.WrapError(common.KindStorage, errors.Wrap(err, "error while creating data directory"), "Catalog", "Open")
	}

	c := &PersistentCatalog{
		dir:    dir,
		opts:   opts,
		logger: log.With(logger, "component", "catalog"),
		tables: make(map[string]*TableInfo),
		l:      &sync.Mutex{},
	}

	m, err := c.readManifest()
	if err != nil {
		return nil, common.WrapError(common.KindStorage, err, "Catalog", "Open")
	}
	for _, tm := range m.Tables {
		info, err := c.openTable(tm)
		if err != nil {
			return nil, common.WrapError(common.KindStorage, err, "Catalog", "Open")
		}
		c.tables[strings.ToLower(tm.Name)] = info
	}

	level.Debug(c.logger).Log("msg", "catalog opened", "dir", dir, "tables", len(c.tables))
	return c, nil
}

func (c *PersistentCatalog) CreateTable(tableName string, schema Schema, analyzer string) (*TableInfo, error) {
	c.l.Lock()
	defer c.l.Unlock()

	key, tableSchema, analyzer, err := prepareTable(c.tables, tableName, schema, analyzer)
	if err != nil {
		return nil, err
	}

	tm := tableManifest{
		Name:      tableName,
		Directory: filepath.Join(tablesDir, key),
		Analyzer:  analyzer,
	}
	for _, col := range tableSchema.GetColumns() {
		tm.Attributes = append(tm.Attributes, attributeManifest{Name: col.Name, Type: col.TypeId.String()})
	}

	info, err := c.openTable(tm)
	if err != nil {
		return nil, common.WrapError(common.KindStorage, err, "Catalog", "CreateTable")
	}

	c.tables[key] = info
	if err := c.writeManifest(); err != nil {
		delete(c.tables, key)
		return nil, common.WrapError(common.KindStorage, err, "Catalog", "CreateTable")
	}

	level.Info(c.logger).Log("msg", "table created", "table", tableName, "columns", tableSchema.Len(), "analyzer", analyzer)
	return info, nil
}

func (c *PersistentCatalog) GetTable(name string) (*TableInfo, error) {
	c.l.Lock()
	defer c.l.Unlock()

	return getTable(c.tables, name)
}

func (c *PersistentCatalog) DeleteTable(name string) error {
	c.l.Lock()
	defer c.l.Unlock()

	info, err := getTable(c.tables, name)
	if err != nil {
		return err
	}

	key := strings.ToLower(name)
	delete(c.tables, key)
	if err := c.writeManifest(); err != nil {
		c.tables[key] = info
		return common.WrapError(common.KindStorage, err, "Catalog", "DeleteTable")
	}
	if err := info.store.Drop(); err != nil {
		return common.WrapError(common.KindStorage, err, "Catalog", "DeleteTable")
	}

	level.Info(c.logger).Log("msg", "table deleted", "table", info.Name)
	return nil
}

func (c *PersistentCatalog) ListTables() []string {
	c.l.Lock()
	defer c.l.Unlock()

	return listTables(c.tables)
}

// Close is a no-op, inserts are written through.
func (c *PersistentCatalog) Close() error {
	return nil
}

func (c *PersistentCatalog) openTable(tm tableManifest) (*TableInfo, error) {
	cols := make([]Column, 0, len(tm.Attributes))
	for _, a := range tm.Attributes {
		typeID, err := db_types.TypeByName(a.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "table %v", tm.Name)
		}
		cols = append(cols, NewColumn(a.Name, typeID))
	}
	schema, err := NewSchema(cols)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(c.dir, tm.Directory)
	store, err := openSegmentStore(dir, c.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "table %v", tm.Name)
	}

	return &TableInfo{
		Name:      tm.Name,
		Directory: dir,
		Schema:    schema,
		Analyzer:  tm.Analyzer,
		store:     store,
	}, nil
}

func (c *PersistentCatalog) readManifest() (*manifest, error) {
	m := &manifest{}
	data, err := os.ReadFile(filepath.Join(c.dir, manifestFile))
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "error while reading catalog manifest")
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(err, "error while decoding catalog manifest")
	}
	return m, nil
}

// writeManifest replaces the manifest with the current table set. Callers hold c.l.
func (c *PersistentCatalog) writeManifest() error {
	m := manifest{}
	for _, name := range listTables(c.tables) {
		info := c.tables[strings.ToLower(name)]
		rel, err := filepath.Rel(c.dir, info.Directory)
		if err != nil {
			return errors.Wrap(err, "error while resolving table directory")
		}
		tm := tableManifest{Name: info.Name, Directory: rel, Analyzer: info.Analyzer}
		for _, col := range info.Schema.GetColumns() {
			tm.Attributes = append(tm.Attributes, attributeManifest{Name: col.Name, Type: col.TypeId.String()})
		}
		m.Tables = append(m.Tables, tm)
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return errors.Wrap(err, "error while encoding catalog manifest")
	}

	path := filepath.Join(c.dir, manifestFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "error while writing catalog manifest")
	}
	return errors.Wrap(os.Rename(tmp, path), "error while publishing catalog manifest")
}

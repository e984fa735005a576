package catalog

import (
	"sort"
	"strings"
	"sync"

	"spandb/common"
)

// Catalog is the relation manager. It resolves table names to their schema, storage and analyzer.
type Catalog interface {
	CreateTable(tableName string, schema Schema, analyzer string) (*TableInfo, error)
	GetTable(name string) (*TableInfo, error)
	DeleteTable(name string) error
	ListTables() []string
	Close() error
}

var _ Catalog = &InMemCatalog{}

// InMemCatalog keeps every table in memory. Nothing survives Close.
type InMemCatalog struct {
	tables map[string]*TableInfo
	l      *sync.Mutex
}

func (c *InMemCatalog) CreateTable(tableName string, schema Schema, analyzer string) (*TableInfo, error) {
	c.l.Lock()
	defer c.l.Unlock()

	key, tableSchema, analyzer, err := prepareTable(c.tables, tableName, schema, analyzer)
	if err != nil {
		return nil, err
	}

	info := &TableInfo{
		Name:     tableName,
		Schema:   tableSchema,
		Analyzer: analyzer,
		store:    &memStore{},
	}
	c.tables[key] = info
	return info, nil
}

func (c *InMemCatalog) GetTable(name string) (*TableInfo, error) {
	c.l.Lock()
	defer c.l.Unlock()

	return getTable(c.tables, name)
}

func (c *InMemCatalog) DeleteTable(name string) error {
	c.l.Lock()
	defer c.l.Unlock()

	info, err := getTable(c.tables, name)
	if err != nil {
		return err
	}
	delete(c.tables, strings.ToLower(name))
	return info.store.Drop()
}

func (c *InMemCatalog) ListTables() []string {
	c.l.Lock()
	defer c.l.Unlock()

	return listTables(c.tables)
}

func (c *InMemCatalog) Close() error {
	return nil
}

func NewCatalog() *InMemCatalog {
	return &InMemCatalog{
		tables: make(map[string]*TableInfo),
		l:      &sync.Mutex{},
	}
}

// prepareTable validates a table definition and prepends the _ID column when the schema does not start with it.
func prepareTable(tables map[string]*TableInfo, tableName string, schema Schema, analyzer string) (string, Schema, string, error) {
	if strings.TrimSpace(tableName) == "" {
		return "", nil, "", common.NewError(common.KindConfiguration, "Catalog", "CreateTable", "table name is empty")
	}
	key := strings.ToLower(tableName)
	if _, ok := tables[key]; ok {
		return "", nil, "", common.NewError(common.KindStorage, "Catalog", "CreateTable", "table %v already exists", tableName)
	}

	if analyzer == "" {
		analyzer = common.StandardAnalyzer
	}
	if analyzer != common.StandardAnalyzer {
		return "", nil, "", common.NewError(common.KindConfiguration, "Catalog", "CreateTable", "unknown analyzer %v", analyzer)
	}

	cols := schema.GetColumns()
	if len(cols) == 0 || !strings.EqualFold(cols[0].Name, common.IDAttributeName) {
		cols = append([]Column{IDColumn()}, cols...)
	}

	tableSchema, err := NewSchema(cols)
	if err != nil {
		return "", nil, "", err
	}
	return key, tableSchema, analyzer, nil
}

func getTable(tables map[string]*TableInfo, name string) (*TableInfo, error) {
	info, ok := tables[strings.ToLower(name)]
	if !ok {
		return nil, common.NewError(common.KindStorage, "Catalog", "GetTable", "table %v does not exist", name)
	}
	return info, nil
}

func listTables(tables map[string]*TableInfo) []string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

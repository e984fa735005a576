package db

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"spandb/catalog"
	"spandb/catalog/db_types"
	"spandb/common"
	"spandb/execution"
	"spandb/execution/executors"
	"spandb/execution/plans"
)

// loadBatchSize is the number of documents written as one segment by LoadJSONLines.
const loadBatchSize = 1024

type DB struct {
	Ctl     catalog.Catalog
	Metrics *execution.Metrics

	cfg    *Config
	logger log.Logger
	ctx    *execution.ExecutorContext
}

// NewLogger creates a logfmt logger writing to w that drops records below lvl.
func NewLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

// OpenDB opens the catalog under cfg.DataDir and creates the tables cfg declares. Metrics are registered on reg
// when it is not nil.
func OpenDB(cfg *Config, logger log.Logger, reg prometheus.Registerer) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	ctl, err := catalog.OpenCatalog(cfg.DataDir, catalog.StoreOptions{BlockSize: cfg.BlockSize, Fsync: cfg.Fsync}, logger)
	if err != nil {
		return nil, err
	}

	metrics := execution.NewMetrics(reg)
	db := &DB{
		Ctl:     ctl,
		Metrics: metrics,
		cfg:     cfg,
		logger:  log.With(logger, "component", "db"),
		ctx:     execution.NewExecutorContext(ctl, logger, metrics),
	}

	for _, t := range cfg.Tables {
		if _, err := ctl.GetTable(t.Name); err == nil {
			continue
		}
		schema, err := t.Schema()
		if err != nil {
			return nil, err
		}
		if _, err := db.CreateTable(t.Name, schema, t.Analyzer); err != nil {
			return nil, err
		}
	}

	level.Info(db.logger).Log("msg", "database opened", "data_dir", cfg.DataDir, "tables", len(ctl.ListTables()))
	return db, nil
}

func (db *DB) ExecutorContext() *execution.ExecutorContext {
	return db.ctx
}

func (db *DB) CreateTable(name string, schema catalog.Schema, analyzer string) (*catalog.TableInfo, error) {
	return db.Ctl.CreateTable(name, schema, analyzer)
}

// Insert stores rows in table as one batch and returns the generated ids.
func (db *DB) Insert(table string, rows [][]*db_types.Value) ([]string, error) {
	tbl, err := db.Ctl.GetTable(table)
	if err != nil {
		return nil, err
	}
	return tbl.InsertTuplesViaValues(rows)
}

// LoadJSONLines reads one json object per line from r and inserts it into table. Object keys are matched to the
// table's attributes case-insensitively, unknown keys are ignored and every attribute must be present.
func (db *DB) LoadJSONLines(table string, r io.Reader) (int, error) {
	tbl, err := db.Ctl.GetTable(table)
	if err != nil {
		return 0, err
	}
	cols := tbl.Schema.GetColumns()[1:]

	n := 0
	batch := make([][]*db_types.Value, 0, loadBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := tbl.InsertTuplesViaValues(batch); err != nil {
			return err
		}
		n += len(batch)
		level.Info(db.logger).Log("msg", "documents loaded", "table", tbl.Name, "count", len(batch))
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var doc map[string]any
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return n, common.NewError(common.KindSchema, "DB", "LoadJSONLines", "line %d: %v", line, err)
		}
		row, err := documentRow(doc, cols)
		if err != nil {
			return n, common.NewError(common.KindSchema, "DB", "LoadJSONLines", "line %d: %v", line, err)
		}

		batch = append(batch, row)
		if len(batch) == loadBatchSize {
			if err := flush(); err != nil {
				return n, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return n, common.WrapError(common.KindStorage, errors.Wrap(err, "error while reading documents"), "DB", "LoadJSONLines")
	}
	return n, flush()
}

func documentRow(doc map[string]any, cols []catalog.Column) ([]*db_types.Value, error) {
	byName := make(map[string]any, len(doc))
	for k, v := range doc {
		byName[strings.ToLower(k)] = v
	}

	row := make([]*db_types.Value, 0, len(cols))
	for _, col := range cols {
		raw, ok := byName[strings.ToLower(col.Name)]
		if !ok {
			return nil, errors.Errorf("attribute %v is missing", col.Name)
		}
		v, err := db_types.NewValueOfType(col.TypeId, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "attribute %v", col.Name)
		}
		row = append(row, v)
	}
	return row, nil
}

// Execute runs plan to completion and hands its tuples to consumer. A plan that is not a sink gets one added.
func (db *DB) Execute(plan plans.IPlanNode, consumer executors.TupleConsumer) (int, error) {
	if _, ok := plan.(*plans.SinkPlanNode); !ok {
		sink, err := plans.NewSinkPlanNode(plan)
		if err != nil {
			return 0, err
		}
		plan = sink
	}

	exec, err := executors.CreateExecutor(db.ctx, plan, consumer)
	if err != nil {
		return 0, err
	}
	n, err := exec.(*executors.SinkExecutor).Run()
	if err != nil {
		level.Error(db.logger).Log("msg", "query failed", "err", err)
		return n, err
	}

	level.Debug(db.logger).Log("msg", "query finished", "tuples", n)
	return n, nil
}

func (db *DB) Close() error {
	return db.Ctl.Close()
}

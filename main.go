package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"

	"spandb/catalog"
	"spandb/db"
	"spandb/execution/executors"
	"spandb/execution/expressions"
	"spandb/execution/plans"
)

type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ",")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func main() {
	var (
		configPath string
		table      string
		loadPath   string
		outer      string
		inner      string
		matching   string
		attributes arrayFlags
		joinAttr   string
		threshold  int
		mode       string
		limit      int
		offset     int
		outPath    string
		parquetOut string
	)

	flag.StringVar(&configPath, "config", "", "YAML config file, defaults are used when empty")
	flag.StringVar(&table, "table", "", "Table to load documents into and query")
	flag.StringVar(&loadPath, "load", "", "JSON lines file to load into the table before querying")
	flag.StringVar(&outer, "outer", "", "Keyword query of the outer join input")
	flag.StringVar(&inner, "inner", "", "Keyword query of the inner join input")
	flag.StringVar(&matching, "matching", "conjunction", "Keyword matching type: conjunction, phrase or substring")
	flag.Var(&attributes, "attribute", "Attribute the keyword queries search in (repeatable)")
	flag.StringVar(&joinAttr, "join-attribute", "", "Attribute whose spans are joined, the first -attribute when empty")
	flag.IntVar(&threshold, "threshold", 10, "Maximum distance between joined spans")
	flag.StringVar(&mode, "distance", "boundary", "Distance mode: boundary or extent")
	flag.IntVar(&limit, "limit", plans.Unlimited, "Maximum number of join results, -1 for no limit")
	flag.IntVar(&offset, "offset", 0, "Number of join results to skip")
	flag.StringVar(&outPath, "out", "", "File to write result tuples to, stdout when empty")
	flag.StringVar(&parquetOut, "parquet", "", "Parquet file to export the result spans to instead of -out")
	flag.Parse()

	cfg := db.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = db.LoadConfig(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	logger := db.NewLogger(os.Stderr, cfg.LogLevel)

	if table == "" {
		fmt.Fprintf(os.Stderr, "error: -table must be specified\n")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		level.Info(logger).Log("msg", "received shutdown signal")
		cancel()
	}()

	sdb, err := db.OpenDB(cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		level.Error(logger).Log("msg", "failed to open database", "err", err)
		os.Exit(1)
	}
	defer sdb.Close()

	if loadPath != "" {
		if err := load(sdb, table, loadPath); err != nil {
			level.Error(logger).Log("msg", "failed to load documents", "path", loadPath, "err", err)
			os.Exit(1)
		}
	}
	if outer == "" && inner == "" {
		return
	}

	plan, err := buildJoin(table, outer, inner, matching, attributes, joinAttr, threshold, mode, limit, offset)
	if err != nil {
		level.Error(logger).Log("msg", "invalid query", "err", err)
		os.Exit(1)
	}

	var consumer executors.TupleConsumer
	switch {
	case parquetOut != "":
		consumer = executors.NewParquetSpanSink(parquetOut, "")
	case outPath != "":
		consumer = executors.NewFileSink(outPath, nil)
	default:
		consumer = executors.NewFileSink("/dev/stdout", nil)
	}

	n, err := sdb.Execute(plan, &cancellableConsumer{ctx: ctx, TupleConsumer: consumer})
	if err != nil {
		level.Error(logger).Log("msg", "query failed", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "query finished", "results", n)
}

func load(sdb *db.DB, table, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = sdb.LoadJSONLines(table, f)
	return err
}

func buildJoin(table, outer, inner, matching string, attributes []string, joinAttr string, threshold int, mode string, limit, offset int) (plans.IPlanNode, error) {
	if outer == "" || inner == "" {
		return nil, fmt.Errorf("both -outer and -inner must be specified")
	}
	if len(attributes) == 0 {
		return nil, fmt.Errorf("at least one -attribute must be specified")
	}
	if joinAttr == "" {
		joinAttr = attributes[0]
	}

	mt, err := expressions.ParseKeywordMatchingType(matching)
	if err != nil {
		return nil, err
	}
	source := func(query string) (plans.IPlanNode, error) {
		scan, err := plans.NewScanPlanNode(table, nil)
		if err != nil {
			return nil, err
		}
		pred, err := expressions.NewKeywordPredicate(query, attributes, mt, "")
		if err != nil {
			return nil, err
		}
		return plans.NewKeywordMatcherPlanNode(scan, pred, "")
	}

	outerPlan, err := source(outer)
	if err != nil {
		return nil, err
	}
	innerPlan, err := source(inner)
	if err != nil {
		return nil, err
	}
	dm, err := expressions.ParseDistanceMode(mode)
	if err != nil {
		return nil, err
	}
	pred, err := expressions.NewJoinDistancePredicate(joinAttr, threshold, dm)
	if err != nil {
		return nil, err
	}
	return plans.NewJoinPlanNode(outerPlan, innerPlan, pred, plans.WithLimit(limit), plans.WithOffset(offset))
}

// cancellableConsumer stops the query when ctx is done. The sink closes the pipeline when Consume fails.
type cancellableConsumer struct {
	executors.TupleConsumer
	ctx context.Context
}

func (c *cancellableConsumer) Consume(t *catalog.Tuple) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	return c.TupleConsumer.Consume(t)
}

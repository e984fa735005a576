package execution

import (
	"github.com/go-kit/log"

	"spandb/catalog"
)

type ExecutorContext struct {
	Catalog catalog.Catalog
	Logger  log.Logger
	Metrics *Metrics
}

// NewExecutorContext fills in a nop logger and unregistered metrics when logger or metrics are nil.
func NewExecutorContext(catalog catalog.Catalog, logger log.Logger, metrics *Metrics) *ExecutorContext {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &ExecutorContext{
		Catalog: catalog,
		Logger:  logger,
		Metrics: metrics,
	}
}

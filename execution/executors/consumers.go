package executors

import (
	"bufio"
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"

	"spandb/catalog"
	"spandb/catalog/db_types"
	"spandb/common"
)

// TupleCollector keeps every consumed tuple in memory.
type TupleCollector struct {
	schema catalog.Schema
	tuples []*catalog.Tuple
}

func NewTupleCollector() *TupleCollector {
	return &TupleCollector{}
}

func (c *TupleCollector) Open(schema catalog.Schema) error {
	c.schema = schema
	c.tuples = nil
	return nil
}

func (c *TupleCollector) Consume(t *catalog.Tuple) error {
	c.tuples = append(c.tuples, catalog.NewTuple(t.GetValues()...))
	return nil
}

func (c *TupleCollector) Close() error {
	return nil
}

func (c *TupleCollector) GetSchema() catalog.Schema {
	return c.schema
}

func (c *TupleCollector) GetTuples() []*catalog.Tuple {
	return c.tuples
}

// CollectAttribute returns the value of attribute name of every collected tuple.
func (c *TupleCollector) CollectAttribute(name string) ([]*db_types.Value, error) {
	if c.schema == nil {
		return nil, nil
	}
	idx, err := c.schema.GetColIdx(name)
	if err != nil {
		return nil, common.NewError(common.KindSchema, "TupleCollector", "CollectAttribute", "attribute %v does not exist", name)
	}

	values := make([]*db_types.Value, 0, len(c.tuples))
	for _, t := range c.tuples {
		values = append(values, t.GetValue(idx))
	}
	return values, nil
}

// FormatFunc turns a tuple into one line of a FileSink's output, without the line break.
type FormatFunc func(schema catalog.Schema, t *catalog.Tuple) string

// DefaultFormat writes name=value pairs separated by spaces.
func DefaultFormat(schema catalog.Schema, t *catalog.Tuple) string {
	var line []byte
	for i, col := range schema.GetColumns() {
		if i > 0 {
			line = append(line, ' ')
		}
		line = fmt.Appendf(line, "%v=%v", col.Name, t.GetValue(i))
	}
	return string(line)
}

// FileSink writes one line per tuple to a file, truncating it on Open.
type FileSink struct {
	path   string
	format FormatFunc

	schema catalog.Schema
	f      *os.File
	w      *bufio.Writer
}

func NewFileSink(path string, format FormatFunc) *FileSink {
	if format == nil {
		format = DefaultFormat
	}
	return &FileSink{path: path, format: format}
}

func (s *FileSink) Open(schema catalog.Schema) error {
	f, err := os.Create(s.path)
	if err != nil {
		return errors.Wrap(err, "error while creating sink file")
	}
	s.schema = schema
	s.f = f
	s.w = bufio.NewWriter(f)
	return nil
}

func (s *FileSink) Consume(t *catalog.Tuple) error {
	if _, err := s.w.WriteString(s.format(s.schema, t)); err != nil {
		return errors.Wrap(err, "error while writing tuple")
	}
	return errors.Wrap(s.w.WriteByte('\n'), "error while writing tuple")
}

func (s *FileSink) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.w.Flush()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f, s.w = nil, nil
	return errors.Wrap(err, "error while closing sink file")
}

// SpanRow is the parquet row written by ParquetSpanSink, one per span.
type SpanRow struct {
	ID          string `parquet:"id"`
	Attribute   string `parquet:"attribute"`
	Start       int64  `parquet:"start"`
	End         int64  `parquet:"end"`
	Key         string `parquet:"key"`
	Value       string `parquet:"value"`
	TokenOffset int64  `parquet:"token_offset"`
}

// ParquetSpanSink writes the spans of the consumed tuples to a parquet file. Tuples are expected to carry _ID and
// a span list attribute.
type ParquetSpanSink struct {
	path         string
	spanListName string

	idIdx   int
	spanIdx int
	f       *os.File
	w       *parquet.GenericWriter[SpanRow]
	rows    []SpanRow
}

// NewParquetSpanSink creates a sink exporting the spans of attribute spanListName, the default span list when it
// is empty.
func NewParquetSpanSink(path, spanListName string) *ParquetSpanSink {
	if spanListName == "" {
		spanListName = common.SpanListAttributeName
	}
	return &ParquetSpanSink{path: path, spanListName: spanListName}
}

func (s *ParquetSpanSink) Open(schema catalog.Schema) error {
	idIdx, err := schema.GetColIdx(common.IDAttributeName)
	if err != nil {
		return common.NewError(common.KindSchema, "ParquetSpanSink", "Open", "input has no %v attribute", common.IDAttributeName)
	}
	spanIdx, err := schema.GetColIdx(s.spanListName)
	if err != nil || schema.GetColumn(spanIdx).TypeId != db_types.SpanListTypeID {
		return common.NewError(common.KindSchema, "ParquetSpanSink", "Open", "input has no span list attribute %v", s.spanListName)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return errors.Wrap(err, "error while creating parquet file")
	}
	s.idIdx, s.spanIdx = idIdx, spanIdx
	s.f = f
	s.w = parquet.NewGenericWriter[SpanRow](f)
	return nil
}

func (s *ParquetSpanSink) Consume(t *catalog.Tuple) error {
	id, _ := t.GetValue(s.idIdx).AsString()
	spans := t.GetValue(s.spanIdx).AsSpans()

	s.rows = s.rows[:0]
	for _, sp := range spans {
		s.rows = append(s.rows, SpanRow{
			ID:          id,
			Attribute:   sp.AttributeName,
			Start:       int64(sp.Start),
			End:         int64(sp.End),
			Key:         sp.Key,
			Value:       sp.Value,
			TokenOffset: int64(sp.TokenOffset),
		})
	}
	if _, err := s.w.Write(s.rows); err != nil {
		return errors.Wrap(err, "error while writing spans")
	}
	return nil
}

func (s *ParquetSpanSink) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.w.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f, s.w = nil, nil
	return errors.Wrap(err, "error while closing parquet file")
}

package catalog

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"spandb/storage/sstable"
)

const segmentExt = ".sst"

// TupleIterator walks the tuples of a table in insertion order.
type TupleIterator interface {
	Next() bool
	Tuple() *Tuple
	Close() error
}

type tupleStore interface {
	Append(tuples []*Tuple) error
	Scan() (TupleIterator, error)
	Count() int
	Drop() error
}

type StoreOptions struct {
	BlockSize int
	Fsync     bool
}

// memStore keeps tuples in memory and is used by InMemCatalog.
type memStore struct {
	mu     sync.Mutex
	tuples []*Tuple
}

func (m *memStore) Append(tuples []*Tuple) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tuples = append(m.tuples, tuples...)
	return nil
}

func (m *memStore) Scan() (TupleIterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]*Tuple, len(m.tuples))
	copy(snapshot, m.tuples)
	return &sliceIterator{tuples: snapshot, idx: -1}, nil
}

func (m *memStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tuples)
}

func (m *memStore) Drop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tuples = nil
	return nil
}

type sliceIterator struct {
	tuples []*Tuple
	idx    int
}

func (s *sliceIterator) Next() bool {
	if s.idx+1 >= len(s.tuples) {
		s.idx = len(s.tuples)
		return false
	}
	s.idx++
	return true
}

func (s *sliceIterator) Tuple() *Tuple {
	if s.idx < 0 || s.idx >= len(s.tuples) {
		return nil
	}
	return s.tuples[s.idx]
}

func (s *sliceIterator) Close() error {
	return nil
}

// segmentStore persists a table as a directory of immutable sstable segments, one per Append call. Keys are big
// endian sequence numbers so that key order is insertion order, values are snappy compressed serialized tuples.
type segmentStore struct {
	dir  string
	opts StoreOptions

	mu       sync.Mutex
	segments []string
	nextSeq  uint64
	count    int
}

func openSegmentStore(dir string, opts StoreOptions) (*segmentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "error while creating table directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "error while listing table directory")
	}

	s := &segmentStore{dir: dir, opts: opts}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), segmentExt) {
			s.segments = append(s.segments, e.Name())
		}
	}
	sort.Strings(s.segments)

	// recover the sequence counter and the tuple count from the existing segments
	for _, seg := range s.segments {
		r, err := sstable.OpenReader(filepath.Join(dir, seg), sstable.DefaultComparer)
		if err != nil {
			return nil, err
		}
		it := r.Iter(nil)
		for it.Next() {
			s.count++
			s.nextSeq = binary.BigEndian.Uint64(it.Key()) + 1
		}
		err = it.Close()
		if cerr := r.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error while reading segment %v", seg)
		}
	}

	return s, nil
}

func (s *segmentStore) Append(tuples []*Tuple) error {
	if len(tuples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := fmt.Sprintf("%020d%s", s.nextSeq, segmentExt)
	tmpPath := filepath.Join(s.dir, name+".tmp")
	f, err := os.Create(tmpPath)
	if err != nil {
		return errors.Wrap(err, "error while creating segment")
	}

	seq, err := s.writeSegment(f, tuples)
	if err == nil && s.opts.Fsync {
		err = errors.Wrap(f.Sync(), "error while syncing segment")
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "error while closing segment")
	}
	if err == nil {
		err = errors.Wrap(os.Rename(tmpPath, filepath.Join(s.dir, name)), "error while publishing segment")
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	s.segments = append(s.segments, name)
	s.nextSeq = seq
	s.count += len(tuples)
	return nil
}

func (s *segmentStore) writeSegment(f *os.File, tuples []*Tuple) (uint64, error) {
	w := sstable.NewWriter(f, sstable.DefaultComparer, sstable.WithBlockSize(s.opts.BlockSize))

	seq := s.nextSeq
	key := make([]byte, 8)
	var buf []byte
	for _, t := range tuples {
		binary.BigEndian.PutUint64(key, seq)
		buf = t.Serialize(buf[:0])
		if err := w.Set(key, snappy.Encode(nil, buf)); err != nil {
			return 0, err
		}
		seq++
	}

	return seq, w.Close()
}

func (s *segmentStore) Scan() (TupleIterator, error) {
	s.mu.Lock()
	segments := make([]string, len(s.segments))
	copy(segments, s.segments)
	s.mu.Unlock()

	return &segmentIterator{dir: s.dir, segments: segments}, nil
}

func (s *segmentStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *segmentStore) Drop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = nil
	s.count = 0
	return errors.Wrap(os.RemoveAll(s.dir), "error while removing table directory")
}

// segmentIterator opens one segment at a time.
type segmentIterator struct {
	dir      string
	segments []string

	reader *sstable.Reader
	it     sstable.Iterator
	curr   *Tuple
	err    error
}

func (i *segmentIterator) Next() bool {
	if i.err != nil {
		return false
	}

	for {
		if i.it == nil {
			if len(i.segments) == 0 {
				i.curr = nil
				return false
			}
			if i.err = i.openNext(); i.err != nil {
				return false
			}
		}

		if i.it.Next() {
			raw, err := snappy.Decode(nil, i.it.Value())
			if err != nil {
				i.err = errors.Wrap(err, "error while decompressing tuple")
				return false
			}
			if i.curr, err = DeserializeTuple(raw); err != nil {
				i.err = errors.Wrap(err, "error while decoding tuple")
				return false
			}
			return true
		}

		if i.err = i.closeCurrent(); i.err != nil {
			return false
		}
	}
}

func (i *segmentIterator) openNext() error {
	r, err := sstable.OpenReader(filepath.Join(i.dir, i.segments[0]), sstable.DefaultComparer)
	if err != nil {
		return err
	}
	i.segments = i.segments[1:]
	i.reader = r
	i.it = r.Iter(nil)
	return nil
}

func (i *segmentIterator) closeCurrent() error {
	if i.it == nil {
		return nil
	}
	err := i.it.Close()
	if cerr := i.reader.Close(); err == nil {
		err = cerr
	}
	i.it, i.reader = nil, nil
	return err
}

func (i *segmentIterator) Tuple() *Tuple {
	return i.curr
}

func (i *segmentIterator) Close() error {
	cerr := i.closeCurrent()
	i.segments = nil
	i.curr = nil
	if i.err != nil {
		return i.err
	}
	return cerr
}

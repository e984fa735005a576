package sstable

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

var NotFound = errors.New("key not found")

type Reader struct {
	file     io.ReaderAt
	closer   io.Closer
	index    block
	comparer Comparer
}

func (r *Reader) Get(key []byte) (value []byte, err error) {
	tableIt := newTableIter(key, r.file, r.index, r.comparer)
	if !tableIt.Next() || !bytes.Equal(key, tableIt.Key()) {
		err := tableIt.Close()
		if err == nil {
			return nil, NotFound
		}
		return nil, err
	}

	return tableIt.Value(), tableIt.Close()
}

// Iter returns an iterator positioned before the first key >= from. A nil from scans the whole table.
func (r *Reader) Iter(from []byte) Iterator {
	return newTableIter(from, r.file, r.index, r.comparer)
}

// Close closes the underlying file if the reader was opened with OpenReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// NewReader reads the footer and the index block of a table of the given size.
func NewReader(file io.ReaderAt, size int64, cmp Comparer) (*Reader, error) {
	if size < footerLen {
		return nil, errors.New("invalid file, too short to be a table")
	}

	var footer [footerLen]byte
	n, err := file.ReadAt(footer[:], size-int64(len(footer)))
	if err != nil && !(err == io.EOF && n == footerLen) {
		return nil, errors.Wrap(err, "error while reading table footer")
	}

	if string(footer[footerLen-len(magic):footerLen]) != magic {
		return nil, errors.New("invalid file, bad magic number")
	}

	idxBH, n := decodeBlockHandle(footer[:])
	if n == 0 || idxBH.offset+idxBH.length > uint64(size) {
		return nil, errors.New("invalid file, corrupt index block handle")
	}
	idxBlock := make([]byte, idxBH.length)
	if n, err := file.ReadAt(idxBlock, int64(idxBH.offset)); err != nil && !(err == io.EOF && n == len(idxBlock)) {
		return nil, errors.Wrap(err, "error while reading index block")
	}

	return &Reader{
		file:     file,
		index:    idxBlock,
		comparer: cmp,
	}, nil
}

// OpenReader opens the table at path. The returned reader owns the file.
func OpenReader(path string, cmp Comparer) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error while opening table")
	}

	s, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "error while reading file stat")
	}

	r, err := NewReader(f, s.Size(), cmp)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "table %v", path)
	}
	r.closer = f
	return r, nil
}

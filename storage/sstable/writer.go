package sstable

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const footerLen = 48
const magic = "\x57\xfb\x80\x8b\x24\x75\x47\xdb"

const (
	DefaultBlockSize       = 4096
	DefaultRestartInterval = 16
)

var ErrWriterClosed = errors.New("sstable: writer is closed")

type Writer struct {
	writer        io.Writer
	offset        uint64
	err           error
	cmp           Comparer
	prevKey       []byte // holds last key which is written
	restartOffets []uint32
	buf           []byte
	nEntries      int
	nTotal        int

	restartInterval int
	blockSize       int

	// A table is a series of blocks and a block's index entry contains a
	// separator key between one block and the next. Thus, a finished block
	// cannot be written until the first key in the next block is seen.
	// pendingBH is the blockHandle of a finished block that is waiting for
	// the next call to Set. If the writer is not in this state, pendingBH
	// is zero.
	pendingBH blockHandle

	indexEntries []indexEntry
}

func (w *Writer) Set(key, value []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.nTotal > 0 && w.cmp.Compare(w.prevKey, key) >= 0 {
		w.err = fmt.Errorf("sstable: Set called in non-increasing key order: %q, %q", w.prevKey, key)
		return w.err
	}

	w.flushPendingBH(key)
	w.writeEntry(key, value, w.nEntries%w.restartInterval == 0)
	w.nTotal++
	// If the estimated block size is sufficiently large, finish the current block.
	if len(w.buf)+4*(len(w.restartOffets)+1) >= w.blockSize {
		bh, err := w.finishBlock()
		if err != nil {
			w.err = err
			return w.err
		}
		w.pendingBH = bh
	}

	return nil
}

// Len returns the number of entries written so far.
func (w *Writer) Len() int {
	return w.nTotal
}

func (w *Writer) Close() (err error) {
	if w.err != nil {
		return w.err
	}

	// Finish the last data block, or force an empty data block if there
	// aren't any data blocks at all.
	w.flushPendingBH(nil)
	if w.nEntries > 0 || len(w.indexEntries) == 0 {
		bh, err := w.finishBlock()
		if err != nil {
			w.err = err
			return w.err
		}
		w.pendingBH = bh
		w.flushPendingBH(nil)
	}

	tempBuf := make([]byte, footerLen)

	// Write the index block.
	for _, ie := range w.indexEntries {
		n := encodeBlockHandle(tempBuf, ie.bh)
		w.writeEntry(ie.key, tempBuf[:n], true)
	}
	indexBlockHandle, err := w.finishBlock()
	if err != nil {
		w.err = err
		return w.err
	}

	// Write the table footer.
	footer := tempBuf[:footerLen]
	for i := range footer {
		footer[i] = 0
	}

	encodeBlockHandle(footer, indexBlockHandle)
	copy(footer[footerLen-len(magic):], magic)
	if _, err := w.writer.Write(footer); err != nil {
		w.err = errors.Wrap(err, "error while writing table footer")
		return w.err
	}

	// Make any future calls to Set or Close return an error.
	w.err = ErrWriterClosed
	return nil
}

// flushPendingBH adds pendingBH to index block but it is done on memory. index block will be written to io.Writer
// when Close is called.
func (w *Writer) flushPendingBH(key []byte) {
	if w.pendingBH.length == 0 {
		// A valid blockHandle must be non-zero.
		// In particular, it must have a non-zero length.
		return
	}
	sep := w.cmp.Separator(w.prevKey, key)
	w.indexEntries = append(w.indexEntries, indexEntry{w.pendingBH, sep})
	w.pendingBH = blockHandle{}
}

// writeEntry appends a key/value pair, which may also be a restart point.
func (w *Writer) writeEntry(key, value []byte, restart bool) {
	nShared := 0
	if restart {
		w.restartOffets = append(w.restartOffets, uint32(len(w.buf)))
	} else {
		nShared = SharedPrefixLen(w.prevKey, key)
	}

	w.prevKey = append(w.prevKey[:0], key...)
	w.nEntries++
	w.buf = binary.AppendUvarint(w.buf, uint64(nShared))
	w.buf = binary.AppendUvarint(w.buf, uint64(len(key)-nShared))
	w.buf = binary.AppendUvarint(w.buf, uint64(len(value)))
	w.buf = append(w.buf, key[nShared:]...)
	w.buf = append(w.buf, value...)
}

// finishBlock finishes the current block and returns its block handle, which is
// its offset and length in the table.
func (w *Writer) finishBlock() (blockHandle, error) {
	// Every block must have at least one restart point.
	if w.nEntries == 0 {
		w.restartOffets = append(w.restartOffets[:0], 0)
	}

	// encode restartOffsets to the end of buffer
	for _, x := range w.restartOffets {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, x)
	}

	// write NumberOfRestartPoints to the end of buffer
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(w.restartOffets)))

	bh, err := w.writeRawBlock(w.buf)

	// Reset the per-block state.
	w.buf = w.buf[:0]
	w.nEntries = 0
	w.restartOffets = w.restartOffets[:0]

	return bh, err
}

func (w *Writer) writeRawBlock(b []byte) (blockHandle, error) {
	if _, err := w.writer.Write(b); err != nil {
		return blockHandle{}, errors.Wrap(err, "error while writing block")
	}

	bh := blockHandle{w.offset, uint64(len(b))}
	w.offset += uint64(len(b))
	return bh, nil
}

type WriterOption func(w *Writer)

// WithBlockSize sets the size at which data blocks are cut. Values below one restart trailer are ignored.
func WithBlockSize(size int) WriterOption {
	return func(w *Writer) {
		if size > 8 {
			w.blockSize = size
		}
	}
}

func WithRestartInterval(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.restartInterval = n
		}
	}
}

func NewWriter(ioWriter io.Writer, cmp Comparer, opts ...WriterOption) *Writer {
	writer := &Writer{
		writer:          ioWriter,
		cmp:             cmp,
		prevKey:         []byte{},
		restartOffets:   []uint32{},
		buf:             []byte{},
		restartInterval: DefaultRestartInterval,
		blockSize:       DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(writer)
	}

	return writer
}

// indexEntry's value is a block handle and key is a separator between blocks.
type indexEntry struct {
	bh  blockHandle
	key []byte
}

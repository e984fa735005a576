package sstable

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Should_Throw_Error_When_Called_With_Non_Increasing_Keys(t *testing.T) {
	buf := bytes.Buffer{}
	w := NewWriter(&buf, DefaultComparer)
	assert.NoError(t, w.Set(b("a"), b("a")))
	assert.Error(t, w.Set(b("a"), b("a")))

	buf2 := bytes.Buffer{}
	w2 := NewWriter(&buf2, DefaultComparer)
	assert.NoError(t, w2.Set(b("b"), b("b")))
	assert.Error(t, w2.Set(b("a"), b("a")))
}

func TestWriter_Should_Fail_After_Close(t *testing.T) {
	buf := bytes.Buffer{}
	w := NewWriter(&buf, DefaultComparer)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Set(b("a"), b("a")), ErrWriterClosed)
}

func TestWriter(t *testing.T) {
	buf := bytes.Buffer{}
	w := NewWriter(&buf, DefaultComparer)
	n := 10000
	for i := 0; i < n; i++ {
		str := fmt.Sprintf("%05d", i)
		require.NoError(t, w.Set(b(str), b(fmt.Sprintf("val_%05d", i))))
	}

	assert.NoError(t, w.Close())
	assert.Equal(t, n, w.Len())

	data := buf.Bytes()
	reader, err := NewReader(bytes.NewReader(data), int64(len(data)), DefaultComparer)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		str := fmt.Sprintf("%05d", i)
		val, err := reader.Get(b(str))
		require.NoError(t, err)
		assert.Equal(t, b(fmt.Sprintf("val_%05d", i)), val)
	}

	_, err = reader.Get(b("selam"))
	assert.ErrorIs(t, err, NotFound)
}

func TestWriter_Table_Iter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "random.sst")
	file, err := os.Create(path)
	require.NoError(t, err)

	w := NewWriter(file, DefaultComparer, WithBlockSize(512))

	// generate random key value pairs
	n := 5000
	hash := make(map[string][]byte)
	for i := 0; i < n; i++ {
		key := RandStringBytes(5, 50)
		val := RandStringBytes(5, 50)
		hash[string(key)] = val
	}

	keys := make([]string, 0, len(hash))
	for k := range hash {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		require.NoError(t, w.Set(b(k), hash[k]))
	}
	require.NoError(t, w.Close())
	require.NoError(t, file.Close())

	reader, err := OpenReader(path, DefaultComparer)
	require.NoError(t, err)
	defer reader.Close()

	for k, v := range hash {
		val, err := reader.Get(b(k))
		require.NoError(t, err)
		assert.Equal(t, v, val)
	}

	// full scan must report every key exactly once in order
	it := reader.Iter(nil)
	i := 0
	for it.Next() {
		require.Less(t, i, len(keys))
		assert.Equal(t, keys[i], string(it.Key()))
		assert.Equal(t, hash[keys[i]], it.Value())
		i++
	}
	assert.NoError(t, it.Close())
	assert.Equal(t, len(keys), i)
}

func TestReader_Iter_From_Middle(t *testing.T) {
	buf := bytes.Buffer{}
	w := NewWriter(&buf, DefaultComparer, WithBlockSize(64))
	for i := 0; i < 100; i++ {
		require.NoError(t, w.Set(b(fmt.Sprintf("%03d", i*2)), b("v")))
	}
	require.NoError(t, w.Close())

	data := buf.Bytes()
	reader, err := NewReader(bytes.NewReader(data), int64(len(data)), DefaultComparer)
	require.NoError(t, err)

	it := reader.Iter(b("051"))
	require.True(t, it.Next())
	assert.Equal(t, "052", string(it.Key()))

	count := 1
	for it.Next() {
		count++
	}
	assert.Equal(t, 74, count)
}

func TestReader_Empty_Table(t *testing.T) {
	buf := bytes.Buffer{}
	w := NewWriter(&buf, DefaultComparer)
	require.NoError(t, w.Close())

	data := buf.Bytes()
	reader, err := NewReader(bytes.NewReader(data), int64(len(data)), DefaultComparer)
	require.NoError(t, err)

	it := reader.Iter(nil)
	assert.False(t, it.Next())
	assert.False(t, it.Next())
	assert.NoError(t, it.Close())

	_, err = reader.Get(b("a"))
	assert.ErrorIs(t, err, NotFound)
}

func TestReader_Bad_Magic(t *testing.T) {
	data := make([]byte, footerLen+10)
	_, err := NewReader(bytes.NewReader(data), int64(len(data)), DefaultComparer)
	assert.Error(t, err)

	_, err = NewReader(bytes.NewReader(data[:10]), 10, DefaultComparer)
	assert.Error(t, err)
}

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func RandStringBytes(min, max int) []byte {
	l := rand.Intn(max - min)
	l += min
	b := make([]byte, l)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}
	return b
}

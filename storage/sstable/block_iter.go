package sstable

// blockIter is an iterator over a single block of data.
type blockIter struct {
	block       block
	blockOffset uint
	key, val    []byte
	err         error

	// positioned is set when the iterator already points at an entry that Next has not reported yet.
	done, positioned bool
}

func (i *blockIter) Next() bool {
	if i.done || i.err != nil {
		return false
	}
	if i.positioned {
		i.positioned = false
		return true
	}
	if len(i.block) == int(i.blockOffset) {
		i.Close()
		return false
	}

	if i.key == nil {
		i.key = make([]byte, 0, 256)
	}

	n, sharedLen, _, _, nonSharedKey, val, err := i.block.readEntry(i.blockOffset)
	if err != nil {
		i.err = err
		return false
	}

	i.key = append(i.key[:sharedLen], nonSharedKey...)
	i.val = val
	i.blockOffset += uint(n)
	return true
}

func (i *blockIter) Key() []byte {
	if i.key == nil {
		return nil
	}

	return i.key[:len(i.key):len(i.key)]
}

func (i *blockIter) Value() []byte {
	if i.val == nil {
		return nil
	}

	return i.val[:len(i.val):len(i.val)]
}

func (i *blockIter) Close() error {
	i.key = nil
	i.val = nil
	i.done = true
	return i.err
}

func newBlockIter(block []byte) *blockIter {
	return &blockIter{
		block: block,
	}
}

// newBlockIterFrom returns an iterator whose first Next reports the first entry with a key >= key.
func newBlockIterFrom(block []byte, key []byte, cmp Comparer) (*blockIter, error) {
	bit := newBlockIter(block)

	for bit.Next() {
		if cmp.Compare(bit.key, key) >= 0 {
			bit.positioned = true
			break
		}
	}
	if bit.err != nil {
		return nil, bit.err
	}

	return bit, nil
}

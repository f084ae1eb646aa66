package golomb

// BitWriter packs codewords MSB first into a growing byte buffer.
// Whole bytes are appended as soon as they fill; at most 7 bits are
// ever pending in the accumulator between calls.
type BitWriter struct {
	buf       []byte
	bitBuf    uint64
	bitsInBuf uint
	written   uint64
	finished  bool
}

// Creates a new bitwriter with room for sizeHint bytes.
func NewBitWriter(sizeHint int) *BitWriter {
	ret := new(BitWriter)
	if sizeHint > 0 {
		ret.buf = make([]byte, 0, sizeHint)
	}
	return ret
}

// Writes the low 'count' bits of value, up to 64.
func (w *BitWriter) PutBits(value uint64, count uint) {
	if count > 64 {
		panic("golomb: more than 64 bits in one write")
	}
	if w.finished {
		panic("golomb: write after Finish")
	}

	w.written += uint64(count)
	for count > 0 {
		n := count
		if n > 56 {
			n = 56
		}
		count -= n

		w.bitBuf = w.bitBuf<<n | (value>>count)&(uint64(1)<<n-1)
		w.bitsInBuf += n
		for w.bitsInBuf >= 8 {
			w.bitsInBuf -= 8
			w.buf = append(w.buf, byte(w.bitBuf>>w.bitsInBuf))
		}
		w.bitBuf &= uint64(1)<<w.bitsInBuf - 1
	}
}

// Writes a single bit.
func (w *BitWriter) PutBit(bit uint) {
	w.PutBits(uint64(bit&1), 1)
}

// Writes n zero bits.
func (w *BitWriter) PutZeros(n uint64) {
	for n > 0 {
		c := n
		if c > 56 {
			c = 56
		}
		w.PutBits(0, uint(c))
		n -= c
	}
}

// Bits returns the number of bits emitted so far, excluding padding.
func (w *BitWriter) Bits() uint64 {
	return w.written
}

// Len returns the number of bytes the stream occupies so far, counting
// a partially filled last byte.
func (w *BitWriter) Len() int {
	return len(w.buf) + int((w.bitsInBuf+7)/8)
}

// Finish pads the last byte with zero bits, then pads with zero bytes up to
// a multiple of wordSize bytes, and returns the finalized buffer. The
// writer must not be used afterwards.
func (w *BitWriter) Finish(wordSize int) []byte {
	if w.finished {
		return w.buf
	}
	if w.bitsInBuf > 0 {
		w.buf = append(w.buf, byte(w.bitBuf<<(8-w.bitsInBuf)))
		w.bitBuf = 0
		w.bitsInBuf = 0
	}
	if wordSize > 1 {
		for len(w.buf)%wordSize != 0 {
			w.buf = append(w.buf, 0)
		}
	}
	w.finished = true
	return w.buf
}

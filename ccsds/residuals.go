package ccsds

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var residualPool = sync.Pool{
	New: func() any {
		b := make([]uint16, 0)
		return &b
	},
}

// ResidualStore holds the mapped prediction residuals of one image in
// band-sequential order. Its buffer is pooled: call Release once the
// residuals are no longer needed.
type ResidualStore struct {
	desc   ImageDescriptor
	buf    *[]uint16
	values []uint16
}

func newResidualStore(desc ImageDescriptor) *ResidualStore {
	n := desc.Samples()

	bp := residualPool.Get().(*[]uint16)
	if cap(*bp) < n {
		*bp = make([]uint16, n)
	}

	return &ResidualStore{
		desc:   desc,
		buf:    bp,
		values: (*bp)[:n],
	}
}

// At returns the residual of sample (z, y, x).
func (s *ResidualStore) At(z int, y int, x int) uint16 {
	return s.values[bsqIndex(&s.desc, z, y, x)]
}

// Len returns the number of residuals, X*Y*Z.
func (s *ResidualStore) Len() int {
	return len(s.values)
}

// Values returns the residuals in band-sequential order. The slice is
// only valid until Release.
func (s *ResidualStore) Values() []uint16 {
	return s.values
}

// Release returns the buffer to the pool. It is safe to call more than once.
func (s *ResidualStore) Release() {
	if s.buf == nil {
		return
	}
	residualPool.Put(s.buf)
	s.buf = nil
	s.values = nil
}

// Dump writes every residual as a 16-bit little-endian value, band by band.
func (s *ResidualStore) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var tmp [2]byte
	for _, v := range s.values {
		binary.LittleEndian.PutUint16(tmp[:], v)
		_, err := bw.Write(tmp[:])
		if err != nil {
			return fmt.Errorf("%w: residual dump: %s", ErrIO, err.Error())
		}
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("%w: residual dump: %s", ErrIO, err.Error())
	}

	return nil
}

// DumpZstd writes the same stream as Dump inside a zstd frame.
func (s *ResidualStore) DumpZstd(w io.Writer) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("%w: residual dump: %s", ErrIO, err.Error())
	}

	err = s.Dump(enc)
	if err != nil {
		enc.Close()
		return err
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("%w: residual dump: %s", ErrIO, err.Error())
	}

	return nil
}

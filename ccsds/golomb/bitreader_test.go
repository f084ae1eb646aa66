package golomb

type bitReader struct {
	buf       []byte
	pos       int
	bitBuf    uint64
	bitsInBuf uint
}

// Creates a new bitreader.
func newBitReader(buf []byte) *bitReader {
	ret := new(bitReader)
	ret.buf = buf
	return ret
}

// Reads 'count' bits, up to 32. Reading past the end yields zero bits.
func (r *bitReader) u(count uint) uint64 {
	if count > 32 {
		panic("more than 32 bits")
	}
	for count > r.bitsInBuf {
		r.bitBuf <<= 8
		if r.pos < len(r.buf) {
			r.bitBuf |= uint64(r.buf[r.pos])
		}
		r.bitsInBuf += 8
		r.pos++
	}
	r.bitsInBuf -= count
	return (r.bitBuf >> r.bitsInBuf) & (uint64(1)<<count - 1)
}

// Counts zeros up to and including the terminating one, giving up after limit zeros.
func (r *bitReader) fs(limit uint64) (uint64, bool) {
	n := uint64(0)
	for n < limit {
		if r.u(1) == 1 {
			return n, true
		}
		n++
	}
	return n, false
}

func decodeSamples(buf []byte, p Params, kInit []uint, order []int) []uint32 {
	r := newBitReader(buf)
	kMax := uint(0)
	if p.DynamicRange > 2 {
		kMax = p.DynamicRange - 2
	}
	kMax = minUint(kMax, p.UMax)

	states := make([]State, len(kInit))
	for i, k := range kInit {
		states[i] = NewState(k, p.Y0)
	}

	out := make([]uint32, 0, len(order))
	for _, z := range order {
		s := &states[z]
		if p.RefInterval > 0 && s.t == p.RefInterval {
			s.reset()
		}

		var delta uint32
		if s.t == 0 {
			delta = uint32(r.u(p.DynamicRange))
		} else {
			k := s.k(kMax)
			q, ok := r.fs(uint64(p.UMax))
			if ok {
				delta = uint32(q<<k | r.u(k))
			} else {
				delta = uint32(r.u(p.DynamicRange))
			}
		}
		s.update(delta, p.YStar)
		s.t++
		out = append(out, delta)
	}

	return out
}

func decodeBlocks(buf []byte, c *BlockCoder, n int) []uint32 {
	r := newBitReader(buf)
	j := len(c.block)
	out := make([]uint32, 0, n+j)
	segPos := 0

	for len(out) < n {
		id := r.u(c.idLen)
		switch {
		case id == 0 && r.u(1) == 0:
			code, _ := r.fs(1 << 20)
			var blocks int
			switch {
			case code < 4:
				blocks = int(code) + 1
			case code == 4:
				blocks = c.segBlocks - segPos
			default:
				blocks = int(code)
			}
			for b := 0; b < blocks; b++ {
				for i := 0; i < j; i++ {
					out = append(out, 0)
				}
			}
			segPos = (segPos + blocks) % c.segBlocks
			continue
		case id == 0:
			for i := 0; i < j; i += 2 {
				g, _ := r.fs(1 << 40)
				s := uint64(0)
				for (s+1)*(s+2)/2 <= g {
					s++
				}
				b := g - s*(s+1)/2
				out = append(out, uint32(s-b), uint32(b))
			}
		case id == uint64(1)<<c.idLen-1:
			for i := 0; i < j; i++ {
				out = append(out, uint32(r.u(c.p.DynamicRange)))
			}
		default:
			k := uint(id - 1)
			start := len(out)
			for i := 0; i < j; i++ {
				q, _ := r.fs(1 << 20)
				out = append(out, uint32(q<<k))
			}
			for i := 0; i < j; i++ {
				out[start+i] |= uint32(r.u(k))
			}
		}
		segPos = (segPos + 1) % c.segBlocks
	}

	return out[:n]
}

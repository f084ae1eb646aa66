package golomb

import (
	"errors"
	"fmt"
)

// Code option kinds, in tie-break order.
const (
	optZeroBlock = iota
	optSecondExtension
	optFundamental
	optSplit
	optNoCompression
)

// Zero-block runs never span more than this many blocks.
const maxSegmentBlocks = 64

// BlockParams configures a BlockCoder.
//
// See: CCSDS 121.0-B-2, 3. Adaptive Entropy Coder
type BlockParams struct {
	DynamicRange uint // D
	BlockSize    int  // J, one of 8, 16, 32, 64
	Restricted   bool // reduced option set, D <= 4 only
	RefInterval  int  // samples between forced zero-run terminations
}

// BlockCoder selects, per block of J mapped residuals, the code option
// giving the shortest output and writes it with its option identifier.
type BlockCoder struct {
	w         *BitWriter
	p         BlockParams
	idLen     uint
	kMax      uint
	maxDelta  uint32
	block     []uint32
	fill      int
	zeroRun   uint64
	segPos    int
	segBlocks int
}

// NewBlockCoder creates a block-adaptive coder writing to w.
func NewBlockCoder(w *BitWriter, p BlockParams) (*BlockCoder, error) {
	if w == nil {
		return nil, errors.New("golomb: nil bit writer")
	}
	switch p.BlockSize {
	case 8, 16, 32, 64:
	default:
		return nil, fmt.Errorf("golomb: invalid block size %d", p.BlockSize)
	}
	if p.DynamicRange < 1 || p.DynamicRange > 16 {
		return nil, fmt.Errorf("golomb: invalid dynamic range %d", p.DynamicRange)
	}
	if p.Restricted && p.DynamicRange > 4 {
		return nil, fmt.Errorf("golomb: restricted option set needs D <= 4, got %d", p.DynamicRange)
	}

	ret := new(BlockCoder)
	ret.w = w
	ret.p = p
	ret.maxDelta = uint32(uint64(1)<<p.DynamicRange - 1)
	ret.block = make([]uint32, p.BlockSize)

	switch {
	case p.Restricted:
		ret.idLen = 2
	case p.DynamicRange <= 8:
		ret.idLen = 3
	default:
		ret.idLen = 4
	}

	// IDs: 0 low entropy, 1 FS, 2.. split k, all ones no compression.
	ret.kMax = uint(1)<<ret.idLen - 3
	if p.DynamicRange > 1 {
		ret.kMax = minUint(ret.kMax, p.DynamicRange-1)
	} else {
		ret.kMax = 0
	}

	ret.segBlocks = maxSegmentBlocks
	if p.RefInterval > 0 {
		seg := p.RefInterval / p.BlockSize
		if seg < 1 {
			seg = 1
		}
		if seg < ret.segBlocks {
			ret.segBlocks = seg
		}
	}

	return ret, nil
}

// Encode buffers one mapped residual, coding the block once it is full.
func (c *BlockCoder) Encode(delta uint32) error {
	if delta > c.maxDelta {
		return fmt.Errorf("%w: %d > %d", ErrRange, delta, c.maxDelta)
	}

	c.block[c.fill] = delta
	c.fill++
	if c.fill == len(c.block) {
		c.codeBlock()
	}

	return nil
}

// Flush zero-pads and codes a partial final block, then terminates any
// pending zero-block run.
func (c *BlockCoder) Flush() {
	if c.fill > 0 {
		for i := c.fill; i < len(c.block); i++ {
			c.block[i] = 0
		}
		c.fill = len(c.block)
		c.codeBlock()
	}
	if c.zeroRun > 0 {
		c.putZeroRun(true)
	}
}

func (c *BlockCoder) codeBlock() {
	c.fill = 0

	zero := true
	for _, d := range c.block {
		if d != 0 {
			zero = false
			break
		}
	}

	if zero {
		c.zeroRun++
		c.segPos++
		if c.segPos == c.segBlocks {
			c.putZeroRun(true)
			c.segPos = 0
		}
		return
	}

	if c.zeroRun > 0 {
		c.putZeroRun(false)
	}

	opt, k := c.selectOption()
	c.putBlock(opt, k)

	c.segPos++
	if c.segPos == c.segBlocks {
		c.segPos = 0
	}
}

// Zero-block run: counts 1..4 as FS(n-1), a run reaching the end of the
// segment as FS(4) when n >= 5, anything else as FS(n).
func (c *BlockCoder) putZeroRun(endOfSegment bool) {
	c.w.PutBits(0, c.idLen)
	c.w.PutBit(0)

	n := c.zeroRun
	switch {
	case n <= 4:
		putFS(c.w, n-1)
	case endOfSegment:
		putFS(c.w, 4)
	default:
		putFS(c.w, n)
	}

	c.zeroRun = 0
}

func secondExtension(a uint32, b uint32) uint64 {
	s := uint64(a) + uint64(b)
	return s*(s+1)/2 + uint64(b)
}

// Picks the cheapest option for the current block. Costs exclude the
// option identifier, which has the same length for every option.
func (c *BlockCoder) selectOption() (int, uint) {
	j := uint64(len(c.block))

	var fs uint64
	for _, d := range c.block {
		fs += uint64(d) + 1
	}

	bestOpt := optFundamental
	bestK := uint(0)
	best := fs

	// Selector bit plus one FS codeword per pair.
	se := uint64(1)
	for i := 0; i < len(c.block); i += 2 {
		se += secondExtension(c.block[i], c.block[i+1]) + 1
	}
	if se <= best {
		bestOpt = optSecondExtension
		best = se
	}

	for k := uint(1); k <= c.kMax; k++ {
		cost := j * uint64(k)
		for _, d := range c.block {
			cost += uint64(d>>k) + 1
		}
		if cost < best {
			bestOpt = optSplit
			bestK = k
			best = cost
		}
	}

	if j*uint64(c.p.DynamicRange) < best {
		bestOpt = optNoCompression
		bestK = 0
	}

	return bestOpt, bestK
}

func (c *BlockCoder) putBlock(opt int, k uint) {
	switch opt {
	case optSecondExtension:
		c.w.PutBits(0, c.idLen)
		c.w.PutBit(1)
		for i := 0; i < len(c.block); i += 2 {
			putFS(c.w, secondExtension(c.block[i], c.block[i+1]))
		}
	case optFundamental:
		c.w.PutBits(1, c.idLen)
		for _, d := range c.block {
			putFS(c.w, uint64(d))
		}
	case optSplit:
		c.w.PutBits(uint64(k+1), c.idLen)
		for _, d := range c.block {
			putFS(c.w, uint64(d>>k))
		}
		for _, d := range c.block {
			c.w.PutBits(uint64(d), k)
		}
	case optNoCompression:
		c.w.PutBits(uint64(1)<<c.idLen-1, c.idLen)
		for _, d := range c.block {
			c.w.PutBits(uint64(d), c.p.DynamicRange)
		}
	}
}

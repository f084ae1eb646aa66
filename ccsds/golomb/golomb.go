// Package golomb implements the entropy coding stage: a bit writer, the
// sample-adaptive Golomb-power-of-2 coder and the block-adaptive Rice coder.
package golomb

import (
	"errors"
	"fmt"
)

// ErrRange is returned when a mapped residual does not fit the D-bit
// alphabet the coder was configured for.
var ErrRange = errors.New("golomb: mapped residual out of range")

// Params configures a SampleCoder.
//
// See: CCSDS 123.0-B-1, 5.4.3.2. Sample-Adaptive Entropy Coder
type Params struct {
	DynamicRange uint // D
	UMax         uint // unary length limit
	YStar        uint // rescaling counter size, gamma*
	Y0           uint // initial count exponent, gamma_0
	RefInterval  int  // samples per band between state resets, 0 = never
}

// State is the adaptive statistic of one band.
type State struct {
	accumulator uint64
	counter     uint64
	t           int
	k_init      uint
	y0          uint
}

// NewState returns the initial statistic for accumulator constant kInit.
func NewState(kInit uint, y0 uint) State {
	s := State{k_init: kInit, y0: y0}
	s.reset()
	return s
}

func (s *State) reset() {
	s.counter = uint64(1) << s.y0
	s.accumulator = ((uint64(3)<<(s.k_init+6) - 49) * s.counter) >> 7
	s.t = 0
}

// Largest k <= kMax with counter * 2^k <= accumulator + 49/128 * counter.
func (s *State) k(kMax uint) uint {
	rhs := s.accumulator + (49*s.counter)>>7
	if 2*s.counter > rhs {
		return 0
	}

	k := uint(0)
	for k < kMax && s.counter<<(k+1) <= rhs {
		k++
	}

	return k
}

func (s *State) update(delta uint32, yStar uint) {
	if s.counter < uint64(1)<<yStar-1 {
		s.accumulator += uint64(delta)
		s.counter++
	} else {
		s.accumulator = (s.accumulator + uint64(delta) + 1) >> 1
		s.counter = (s.counter + 1) >> 1
	}
}

// SampleCoder encodes mapped residuals with a per-band adaptive code
// parameter. Bands are independent; within a band samples must be fed in
// increasing t.
type SampleCoder struct {
	w        *BitWriter
	p        Params
	states   []State
	kMax     uint
	maxDelta uint32
}

// NewSampleCoder creates a coder writing to w, with one accumulator
// constant per band in kInit.
func NewSampleCoder(w *BitWriter, p Params, kInit []uint) (*SampleCoder, error) {
	if w == nil {
		return nil, errors.New("golomb: nil bit writer")
	}
	if p.DynamicRange < 1 || p.DynamicRange > 32 {
		return nil, fmt.Errorf("golomb: invalid dynamic range %d", p.DynamicRange)
	}
	if p.UMax < 1 || p.UMax > 32 {
		return nil, fmt.Errorf("golomb: invalid u_max %d", p.UMax)
	}
	if p.Y0 < 1 || p.YStar <= p.Y0 || p.YStar > 11 {
		return nil, fmt.Errorf("golomb: invalid counter exponents y_0=%d y_star=%d", p.Y0, p.YStar)
	}
	if len(kInit) == 0 {
		return nil, errors.New("golomb: no initial k")
	}

	ret := new(SampleCoder)
	ret.w = w
	ret.p = p
	ret.maxDelta = uint32(uint64(1)<<p.DynamicRange - 1)

	// k is bounded by both D-2 and u_max.
	ret.kMax = 0
	if p.DynamicRange > 2 {
		ret.kMax = p.DynamicRange - 2
	}
	ret.kMax = minUint(ret.kMax, p.UMax)

	ret.states = make([]State, len(kInit))
	for i, k := range kInit {
		if k > ret.kMax {
			return nil, fmt.Errorf("golomb: initial k %d for band %d exceeds %d", k, i, ret.kMax)
		}
		ret.states[i] = NewState(k, p.Y0)
	}

	return ret, nil
}

// K returns the code parameter the next sample of band z will be coded with.
func (c *SampleCoder) K(z int) uint {
	return c.states[z].k(c.kMax)
}

// Encode writes the codeword for mapped residual delta of band z.
func (c *SampleCoder) Encode(z int, delta uint32) error {
	if delta > c.maxDelta {
		return fmt.Errorf("%w: %d > %d in band %d", ErrRange, delta, c.maxDelta, z)
	}

	s := &c.states[z]
	if c.p.RefInterval > 0 && s.t == c.p.RefInterval {
		s.reset()
	}

	// The first sample after a (re)start is sent verbatim, but still
	// counts towards the statistic.
	if s.t == 0 {
		c.w.PutBits(uint64(delta), c.p.DynamicRange)
	} else {
		c.putCodeword(delta, s.k(c.kMax))
	}
	s.update(delta, c.p.YStar)
	s.t++

	return nil
}

func (c *SampleCoder) putCodeword(delta uint32, k uint) {
	q := uint64(delta >> k)
	if q < uint64(c.p.UMax) {
		putFS(c.w, q)
		if k > 0 {
			c.w.PutBits(uint64(delta), k)
		}
		return
	}

	// Escape: capped unary prefix, then the residual in D bits.
	c.w.PutZeros(uint64(c.p.UMax))
	c.w.PutBits(uint64(delta), c.p.DynamicRange)
}

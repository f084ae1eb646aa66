package ccsds

import (
	"fmt"
	"math"
)

// ImageDescriptor describes the geometry and sample format of one image.
// It is supplied by the caller for every run and never modified.
type ImageDescriptor struct {
	X int // samples per line
	Y int // lines
	Z int // bands

	DynamicRange uint // D, bits per sample, 1..16
	Signed       bool

	// Layout of the sample source. InterleavingDepth is the band group
	// size M for BI: 1 gives BIL, Z gives BIP.
	Interleaving      Interleaving
	InterleavingDepth int
	ByteOrder         ByteOrder
}

type sampleRange struct {
	s_min int64
	s_max int64
	s_mid int64
}

func (d ImageDescriptor) sampleRange() sampleRange {
	if d.Signed {
		return sampleRange{
			s_min: -(int64(1) << (d.DynamicRange - 1)),
			s_max: int64(1)<<(d.DynamicRange-1) - 1,
			s_mid: 0,
		}
	}
	return sampleRange{
		s_min: 0,
		s_max: int64(1)<<d.DynamicRange - 1,
		s_mid: int64(1) << (d.DynamicRange - 1),
	}
}

// Samples returns X*Y*Z.
func (d ImageDescriptor) Samples() int {
	return d.X * d.Y * d.Z
}

// SampleWidth returns the number of bytes one sample occupies in the
// sample source.
func (d ImageDescriptor) SampleWidth() int {
	if d.DynamicRange <= 8 {
		return 1
	}
	return 2
}

// Validate checks the descriptor on its own. Dimensions whose sample count
// overflows an int give ErrAllocation, anything else invalid ErrConfig.
func (d ImageDescriptor) Validate() error {
	if d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
		return fmt.Errorf("%w: invalid dimensions: %dx%dx%d", ErrConfig, d.X, d.Y, d.Z)
	}
	if d.X > math.MaxInt/d.Y || d.X*d.Y > math.MaxInt/d.Z {
		return fmt.Errorf("%w: %dx%dx%d samples overflow", ErrAllocation, d.X, d.Y, d.Z)
	}
	if d.DynamicRange < 1 || d.DynamicRange > maxDynamicRange {
		return fmt.Errorf("%w: invalid dynamic range: %d", ErrConfig, d.DynamicRange)
	}
	if err := validateInterleaving(d.Interleaving, d.InterleavingDepth, d.Z); err != nil {
		return fmt.Errorf("%w: input %s", ErrConfig, err.Error())
	}
	if d.ByteOrder != LittleEndian && d.ByteOrder != BigEndian {
		return fmt.Errorf("%w: invalid byte order: %d", ErrConfig, d.ByteOrder)
	}

	return nil
}

func validateInterleaving(order Interleaving, depth int, z int) error {
	switch order {
	case BSQ:
		return nil
	case BI:
		if depth < 1 || depth > z {
			return fmt.Errorf("interleaving depth %d not in [1, %d]", depth, z)
		}
		return nil
	}
	return fmt.Errorf("interleaving %d unknown", order)
}

// PredictorConfig holds the tunable prediction parameters of a run.
//
// See: CCSDS 123.0-B-1, 4. Predictor
type PredictorConfig struct {
	PredBands int          // P, previous bands used for prediction, 0..15
	Full      bool         // full (directional) or reduced prediction mode
	LocalSum  LocalSumMode // neighbour- or column-oriented local sums

	RegisterSize     uint // R, 32..64
	WeightResolution uint // Omega, 4..19

	// Weight update scaling exponent schedule: starts at WeightInitial,
	// grows by one every WeightInterval samples, stops at WeightFinal.
	WeightInterval int
	WeightInitial  int
	WeightFinal    int

	// UpdatePeriod > 1 restricts weight updates to samples with
	// t mod UpdatePeriod == 0. 0 and 1 update on every sample.
	UpdatePeriod int

	// Optional user weights, one row per band of Q-bit signed values.
	// nil selects the default initialization.
	WeightInitResolution uint
	WeightInitTable      [][]int
}

// DefaultPredictorConfig returns the flight configuration for desc.
func DefaultPredictorConfig(desc ImageDescriptor) PredictorConfig {
	p := desc.Z
	if p > maxPredBands {
		p = maxPredBands
	}

	return PredictorConfig{
		PredBands:        p,
		Full:             desc.X != 1,
		LocalSum:         NeighbourOriented,
		RegisterSize:     32,
		WeightResolution: 4,
		WeightInterval:   16,
		WeightInitial:    -1,
		WeightFinal:      3,
	}
}

// Single column images have no horizontal context: full prediction and
// neighbour-oriented sums are replaced by their reduced/column forms no
// matter what was asked for.
func (c PredictorConfig) effective(desc ImageDescriptor) PredictorConfig {
	if desc.X == 1 {
		c.Full = false
		c.LocalSum = ColumnOriented
	}
	return c
}

// Number of weights of band z: P*_z spectral, plus 3 directional in full mode.
func (c PredictorConfig) weightCount(z int) int {
	n := z
	if n > c.PredBands {
		n = c.PredBands
	}
	if c.Full {
		n += 3
	}
	return n
}

func (c PredictorConfig) validate(desc ImageDescriptor) error {
	if c.WeightResolution < minWeightResolution || c.WeightResolution > maxWeightResolution {
		return fmt.Errorf("%w: weight resolution %d not in [%d, %d]", ErrConfig, c.WeightResolution, minWeightResolution, maxWeightResolution)
	}

	if c.PredBands < 0 || c.PredBands > maxPredBands {
		return fmt.Errorf("%w: prediction bands %d not in [0, %d]", ErrConfig, c.PredBands, maxPredBands)
	} else if c.PredBands > desc.Z {
		return fmt.Errorf("%w: prediction bands %d > %d bands", ErrConfig, c.PredBands, desc.Z)
	}

	minR := desc.DynamicRange + c.WeightResolution + 2
	if minR < minRegisterSize {
		minR = minRegisterSize
	}
	if c.RegisterSize < minR || c.RegisterSize > maxRegisterSize {
		return fmt.Errorf("%w: register size %d not in [%d, %d]", ErrConfig, c.RegisterSize, minR, maxRegisterSize)
	}

	if c.WeightInterval < minWeightInterval || c.WeightInterval > maxWeightInterval || c.WeightInterval&(c.WeightInterval-1) != 0 {
		return fmt.Errorf("%w: weight interval %d is not a power of two in [%d, %d]", ErrConfig, c.WeightInterval, minWeightInterval, maxWeightInterval)
	}

	if c.WeightInitial < minWeightExponent || c.WeightFinal > maxWeightExponent || c.WeightInitial > c.WeightFinal {
		return fmt.Errorf("%w: weight exponents [%d, %d] not within [%d, %d]", ErrConfig, c.WeightInitial, c.WeightFinal, minWeightExponent, maxWeightExponent)
	}

	if c.UpdatePeriod < 0 {
		return fmt.Errorf("%w: negative update period %d", ErrConfig, c.UpdatePeriod)
	}

	if c.LocalSum != NeighbourOriented && c.LocalSum != ColumnOriented {
		return fmt.Errorf("%w: invalid local sum mode: %d", ErrConfig, c.LocalSum)
	}

	if c.WeightInitTable == nil {
		return nil
	}

	// 4.6.3. Custom weight initialization
	q := c.WeightInitResolution
	if q < 3 || q > c.WeightResolution+3 {
		return fmt.Errorf("%w: weight init resolution %d not in [3, %d]", ErrConfig, q, c.WeightResolution+3)
	}
	if len(c.WeightInitTable) != desc.Z {
		return fmt.Errorf("%w: weight init table has %d rows, want %d", ErrConfig, len(c.WeightInitTable), desc.Z)
	}
	lo, hi := -(1 << (q - 1)), 1<<(q-1)-1
	for z, row := range c.WeightInitTable {
		if len(row) != c.weightCount(z) {
			return fmt.Errorf("%w: weight init table row %d has %d entries, want %d", ErrConfig, z, len(row), c.weightCount(z))
		}
		for i, v := range row {
			if v < lo || v > hi {
				return fmt.Errorf("%w: weight init table entry (%d, %d) = %d not in [%d, %d]", ErrConfig, z, i, v, lo, hi)
			}
		}
	}

	return nil
}

// EncoderConfig holds the tunable entropy coder parameters of a run.
type EncoderConfig struct {
	Mode EncoderMode

	// Sample-adaptive coder.
	UMax  uint  // unary length limit, 8..32
	YStar uint  // rescaling counter size gamma*, [max(4, Y0+1), 9]
	Y0    uint  // initial count exponent gamma_0, 1..8
	K     int   // accumulator initialization constant, or KUnset
	KInit []int // per-band accumulator constants, overrides K

	// Block-adaptive coder.
	BlockSize  int  // J: 8, 16, 32 or 64
	Restricted bool // reduced code option set, D <= 4 only

	// Samples per band between adaptive state resets. In block mode it
	// also bounds zero-block segments.
	RefInterval int

	OutInterleaving      Interleaving
	OutInterleavingDepth int
	OutWordSize          int // bytes, the bitstream is padded to a multiple of it
}

// DefaultEncoderConfig returns the flight configuration for desc.
func DefaultEncoderConfig(desc ImageDescriptor) EncoderConfig {
	k := 0
	if desc.DynamicRange > 2 {
		k = int(desc.DynamicRange) - 2
	}
	if k > 6 {
		k = 6
	}

	return EncoderConfig{
		Mode:                 SampleAdaptive,
		UMax:                 18,
		YStar:                6,
		Y0:                   1,
		K:                    k,
		BlockSize:            16,
		RefInterval:          4096,
		OutInterleaving:      BSQ,
		OutInterleavingDepth: desc.Z,
		OutWordSize:          1,
	}
}

// Largest accumulator constant allowed for desc.
func (c EncoderConfig) kLimit(desc ImageDescriptor) int {
	k := 0
	if desc.DynamicRange > 2 {
		k = int(desc.DynamicRange) - 2
	}
	if k > int(c.UMax) {
		k = int(c.UMax)
	}
	return k
}

func (c EncoderConfig) validate(desc ImageDescriptor) error {
	if c.RefInterval <= 0 {
		return fmt.Errorf("%w: reference interval must be positive, got %d", ErrConfig, c.RefInterval)
	}
	if c.OutWordSize < 1 || c.OutWordSize > maxOutWordSize {
		return fmt.Errorf("%w: output word size %d not in [1, %d]", ErrConfig, c.OutWordSize, maxOutWordSize)
	}
	if err := validateInterleaving(c.OutInterleaving, c.OutInterleavingDepth, desc.Z); err != nil {
		return fmt.Errorf("%w: output %s", ErrConfig, err.Error())
	}

	switch c.Mode {
	case SampleAdaptive:
		if c.UMax < minUMax || c.UMax > maxUMax {
			return fmt.Errorf("%w: u_max %d not in [%d, %d]", ErrConfig, c.UMax, minUMax, maxUMax)
		}
		if c.Y0 < 1 || c.Y0 > maxY0 {
			return fmt.Errorf("%w: y_0 %d not in [1, %d]", ErrConfig, c.Y0, maxY0)
		}
		minYStar := c.Y0 + 1
		if minYStar < 4 {
			minYStar = 4
		}
		if c.YStar < minYStar || c.YStar > maxYStar {
			return fmt.Errorf("%w: y_star %d not in [%d, %d]", ErrConfig, c.YStar, minYStar, maxYStar)
		}

		limit := c.kLimit(desc)
		if c.KInit != nil {
			if len(c.KInit) != desc.Z {
				return fmt.Errorf("%w: k_init has %d entries, want %d", ErrConfig, len(c.KInit), desc.Z)
			}
			for z, k := range c.KInit {
				if k < 0 || k > limit {
					return fmt.Errorf("%w: k_init[%d] = %d not in [0, %d]", ErrConfig, z, k, limit)
				}
			}
		} else if c.K == KUnset {
			return fmt.Errorf("%w: neither k nor k_init given", ErrConfig)
		} else if c.K < 0 || c.K > limit {
			return fmt.Errorf("%w: k %d not in [0, %d]", ErrConfig, c.K, limit)
		}
	case BlockAdaptive:
		switch c.BlockSize {
		case 8, 16, 32, 64:
		default:
			return fmt.Errorf("%w: invalid block size: %d", ErrConfig, c.BlockSize)
		}
		if c.Restricted && desc.DynamicRange > 4 {
			return fmt.Errorf("%w: restricted code options need D <= 4, got %d", ErrConfig, desc.DynamicRange)
		}
	default:
		return fmt.Errorf("%w: invalid encoder mode: %d", ErrConfig, c.Mode)
	}

	return nil
}

// Accumulator constant for every band.
func (c EncoderConfig) initialK(desc ImageDescriptor) []uint {
	ret := make([]uint, desc.Z)
	for z := range ret {
		if c.KInit != nil {
			ret[z] = uint(c.KInit[z])
		} else {
			ret[z] = uint(c.K)
		}
	}
	return ret
}

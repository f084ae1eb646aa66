package ccsds

// Internal constants.
const (
	// 4.2. Number of Bands for Prediction
	maxPredBands = 15

	// 4.6. Weights, 4.7. Prediction Calculation, 4.8. Weight Update
	minWeightResolution = 4
	maxWeightResolution = 19
	minRegisterSize     = 32
	maxRegisterSize     = 64
	minWeightInterval   = 1 << 4
	maxWeightInterval   = 1 << 11
	minWeightExponent   = -6
	maxWeightExponent   = 9

	maxDynamicRange = 16

	// 5.4.3.2. Sample-Adaptive Entropy Coder
	minUMax        = 8
	maxUMax        = 32
	maxY0          = 8
	maxYStar       = 9
	maxOutWordSize = 8
)

// API constants.

// DefaultMaxSamples caps the residual buffer of a single run.
const DefaultMaxSamples = 1 << 30

// KUnset marks an EncoderConfig without a scalar accumulator constant.
const KUnset = -1

// Interleaving is the order samples are laid out in, on input or output.
type Interleaving int

// Interleavings.
const (
	BSQ Interleaving = iota // band-sequential
	BI                      // band-interleaved, depth M
)

func (i Interleaving) String() string {
	switch i {
	case BSQ:
		return "BSQ"
	case BI:
		return "BI"
	}
	return "unknown"
}

// ByteOrder of two-byte samples in the source buffer.
type ByteOrder int

// Byte orders.
const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// LocalSumMode selects how the local sum is formed.
//
// See: 4.4. Local Sums
type LocalSumMode int

// Local sum modes.
const (
	NeighbourOriented LocalSumMode = iota
	ColumnOriented
)

func (m LocalSumMode) String() string {
	if m == ColumnOriented {
		return "column"
	}
	return "neighbour"
}

// EncoderMode selects the entropy coder.
type EncoderMode int

// Encoder modes.
const (
	SampleAdaptive EncoderMode = iota
	BlockAdaptive
)

func (m EncoderMode) String() string {
	if m == BlockAdaptive {
		return "block"
	}
	return "sample"
}

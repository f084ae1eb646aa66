// Package ccsds implements an onboard lossless compressor for multispectral
// and hyperspectral images: the adaptive predictor of CCSDS 123.0-B-1
// followed by a sample-adaptive or block-adaptive entropy coder.
//
// The output is a bare bitstream. Image geometry and coder configuration
// are not embedded and must be conveyed out of band.
package ccsds

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dwbuiten/go-ccsds123/ccsds/golomb"
)

// Compressor compresses images of one geometry with one configuration.
// It holds no per-image state, so a single Compressor may be used for any
// number of sequential runs.
type Compressor struct {
	desc       ImageDescriptor
	pcfg       PredictorConfig
	ecfg       EncoderConfig
	logger     *log.Logger
	dump       io.Writer
	dumpZstd   io.Writer
	maxSamples int
}

// Result is a finalized bitstream and its statistics.
type Result struct {
	Data []byte
	Stats
}

// Stats describes one compression run.
type Stats struct {
	CompressedBytes    int     // including padding
	CompressedBits     uint64  // excluding padding
	Rate               float64 // compressed bits per sample
	PredictionDuration time.Duration
	EncodingDuration   time.Duration
	Duration           time.Duration
}

// Option configures a Compressor.
type Option func(*Compressor)

// WithLogger sets the logger used to report recoverable failures. The
// default is the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Compressor) {
		c.logger = l
	}
}

// WithResidualDump writes the mapped residuals of every run to w, as
// 16-bit little-endian values in band-sequential order. Write failures
// are logged and do not fail the run.
func WithResidualDump(w io.Writer) Option {
	return func(c *Compressor) {
		c.dump = w
	}
}

// WithResidualDumpZstd is like WithResidualDump, but the dump is zstd
// compressed.
func WithResidualDumpZstd(w io.Writer) Option {
	return func(c *Compressor) {
		c.dumpZstd = w
	}
}

// WithMaxSamples caps the number of samples of an image. The default is
// DefaultMaxSamples.
func WithMaxSamples(n int) Option {
	return func(c *Compressor) {
		c.maxSamples = n
	}
}

// NewCompressor validates the descriptor and both configurations against
// each other. Nothing is allocated for an invalid combination.
//
// For single column images, full prediction and neighbour-oriented local
// sums are replaced by reduced prediction and column-oriented sums.
func NewCompressor(desc ImageDescriptor, pcfg PredictorConfig, ecfg EncoderConfig, opts ...Option) (*Compressor, error) {
	err := desc.Validate()
	if err != nil {
		return nil, err
	}

	pcfg = pcfg.effective(desc)
	err = pcfg.validate(desc)
	if err != nil {
		return nil, err
	}

	err = ecfg.validate(desc)
	if err != nil {
		return nil, err
	}

	ret := new(Compressor)
	ret.desc = desc
	ret.pcfg = pcfg
	ret.ecfg = ecfg
	ret.logger = log.Default()
	ret.maxSamples = DefaultMaxSamples
	for _, opt := range opts {
		opt(ret)
	}

	if ret.maxSamples <= 0 {
		return nil, fmt.Errorf("%w: invalid sample limit: %d", ErrConfig, ret.maxSamples)
	}
	if desc.Samples() > ret.maxSamples {
		return nil, fmt.Errorf("%w: %d samples exceed the limit of %d", ErrAllocation, desc.Samples(), ret.maxSamples)
	}

	return ret, nil
}

// PredictorConfig returns the predictor configuration in effect, after
// single column forcing.
func (c *Compressor) PredictorConfig() PredictorConfig {
	return c.pcfg
}

// Predict runs the predictor alone over band-sequential samples. The
// caller must Release the returned store.
func (c *Compressor) Predict(samples []int32) (*ResidualStore, error) {
	if len(samples) != c.desc.Samples() {
		return nil, fmt.Errorf("%w: got %d samples, want %d", ErrConfig, len(samples), c.desc.Samples())
	}

	r := c.desc.sampleRange()
	for i, s := range samples {
		if int64(s) < r.s_min || int64(s) > r.s_max {
			return nil, fmt.Errorf("%w: sample %d = %d outside [%d, %d]", ErrConfig, i, s, r.s_min, r.s_max)
		}
	}

	ret := newResidualStore(c.desc)
	newPredictor(c.desc, c.pcfg).run(samples, ret.values)

	return ret, nil
}

// Compress compresses band-sequential samples into a finalized bitstream.
func (c *Compressor) Compress(samples []int32) (*Result, error) {
	start := time.Now()

	rs, err := c.Predict(samples)
	if err != nil {
		return nil, err
	}
	defer rs.Release()

	ret := new(Result)
	ret.PredictionDuration = time.Since(start)

	c.dumpResiduals(rs)

	encodeStart := time.Now()
	w := golomb.NewBitWriter(rs.Len())
	err = encodeResiduals(&c.desc, &c.ecfg, rs, w)
	if err != nil {
		return nil, err
	}
	ret.Data = w.Finish(c.ecfg.OutWordSize)
	ret.EncodingDuration = time.Since(encodeStart)

	ret.CompressedBytes = len(ret.Data)
	ret.CompressedBits = w.Bits()
	ret.Rate = float64(ret.CompressedBytes*8) / float64(rs.Len())
	ret.Duration = time.Since(start)

	return ret, nil
}

// CompressTo compresses samples and writes the bitstream to w.
func (c *Compressor) CompressTo(w io.Writer, samples []int32) (*Stats, error) {
	res, err := c.Compress(samples)
	if err != nil {
		return nil, err
	}

	_, err = w.Write(res.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIO, err.Error())
	}

	return &res.Stats, nil
}

func (c *Compressor) dumpResiduals(rs *ResidualStore) {
	if c.dump != nil {
		err := rs.Dump(c.dump)
		if err != nil {
			c.logger.Printf("residual dump failed: %s", err.Error())
		}
	}
	if c.dumpZstd != nil {
		err := rs.DumpZstd(c.dumpZstd)
		if err != nil {
			c.logger.Printf("compressed residual dump failed: %s", err.Error())
		}
	}
}

package ccsds

import (
	"fmt"

	"github.com/dwbuiten/go-ccsds123/ccsds/golomb"
)

// encodeResiduals entropy codes every residual of rs into w, in the output
// interleaving order of cfg.
//
// See: CCSDS 123.0-B-1, 5. Entropy Coder
func encodeResiduals(desc *ImageDescriptor, cfg *EncoderConfig, rs *ResidualStore, w *golomb.BitWriter) error {
	var encode func(z int, delta uint32) error
	var flush func()

	switch cfg.Mode {
	case SampleAdaptive:
		c, err := golomb.NewSampleCoder(w, golomb.Params{
			DynamicRange: desc.DynamicRange,
			UMax:         cfg.UMax,
			YStar:        cfg.YStar,
			Y0:           cfg.Y0,
			RefInterval:  cfg.RefInterval,
		}, cfg.initialK(*desc))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrConfig, err.Error())
		}
		encode = c.Encode
	case BlockAdaptive:
		c, err := golomb.NewBlockCoder(w, golomb.BlockParams{
			DynamicRange: desc.DynamicRange,
			BlockSize:    cfg.BlockSize,
			Restricted:   cfg.Restricted,
			RefInterval:  cfg.RefInterval,
		})
		if err != nil {
			return fmt.Errorf("%w: %s", ErrConfig, err.Error())
		}
		encode = func(z int, delta uint32) error {
			return c.Encode(delta)
		}
		flush = c.Flush
	default:
		return fmt.Errorf("%w: invalid encoder mode: %d", ErrConfig, cfg.Mode)
	}

	err := traverse(desc.X, desc.Y, desc.Z, cfg.OutInterleaving, cfg.OutInterleavingDepth, func(z int, y int, x int) error {
		err := encode(z, uint32(rs.At(z, y, x)))
		if err != nil {
			return fmt.Errorf("%w: sample (%d, %d, %d): %w", ErrInvariant, z, y, x, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if flush != nil {
		flush()
	}

	return nil
}

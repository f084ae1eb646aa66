package ccsds

import (
	"fmt"
)

// LoadSamples decodes a raw sample buffer laid out as described by desc
// into band-sequential samples. Samples take one byte for D <= 8 and two
// bytes otherwise; signed samples are two's complement in that width.
func LoadSamples(desc ImageDescriptor, buf []byte) ([]int32, error) {
	err := desc.Validate()
	if err != nil {
		return nil, err
	}

	width := desc.SampleWidth()
	n := desc.Samples()
	if len(buf) != n*width {
		return nil, fmt.Errorf("%w: sample buffer is %d bytes, want %d", ErrConfig, len(buf), n*width)
	}

	ret := make([]int32, n)
	r := desc.sampleRange()
	pos := 0
	err = traverse(desc.X, desc.Y, desc.Z, desc.Interleaving, desc.InterleavingDepth, func(z int, y int, x int) error {
		var v int32
		if width == 1 {
			if desc.Signed {
				v = int32(int8(buf[pos]))
			} else {
				v = int32(buf[pos])
			}
		} else {
			var u uint16
			if desc.ByteOrder == BigEndian {
				u = uint16(buf[pos])<<8 | uint16(buf[pos+1])
			} else {
				u = uint16(buf[pos+1])<<8 | uint16(buf[pos])
			}
			if desc.Signed {
				v = int32(int16(u))
			} else {
				v = int32(u)
			}
		}
		pos += width

		if int64(v) < r.s_min || int64(v) > r.s_max {
			return fmt.Errorf("%w: sample %d at (%d, %d, %d) outside [%d, %d]", ErrConfig, v, z, y, x, r.s_min, r.s_max)
		}
		ret[bsqIndex(&desc, z, y, x)] = v

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

package ccsds

import (
	"fmt"
	"sync"
)

// Packet is one image slot of a capture: its descriptor and samples in,
// its bitstream and statistics out. Nil configurations select the
// defaults for the descriptor.
type Packet struct {
	Descriptor ImageDescriptor
	Predictor  *PredictorConfig
	Encoder    *EncoderConfig
	Samples    []int32

	Data  []byte
	Stats Stats
	Err   error
}

func (p *Packet) compress(opts []Option) error {
	pcfg := DefaultPredictorConfig(p.Descriptor)
	if p.Predictor != nil {
		pcfg = *p.Predictor
	}
	ecfg := DefaultEncoderConfig(p.Descriptor)
	if p.Encoder != nil {
		ecfg = *p.Encoder
	}

	c, err := NewCompressor(p.Descriptor, pcfg, ecfg, opts...)
	if err != nil {
		return err
	}

	res, err := c.Compress(p.Samples)
	if err != nil {
		return err
	}

	p.Data = res.Data
	p.Stats = res.Stats

	return nil
}

// CompressPackets compresses every packet, one goroutine per packet, and
// records the outcome in each. Options apply to every packet; any dump
// writer given must be safe for concurrent use. The first failure, in
// packet order, is returned.
func CompressPackets(packets []*Packet, opts ...Option) error {
	wg := new(sync.WaitGroup)
	for i := 0; i < len(packets); i++ {
		wg.Add(1)
		go func(wg *sync.WaitGroup, p *Packet) {
			p.Err = p.compress(opts)
			wg.Done()
		}(wg, packets[i])
	}
	wg.Wait()

	for i, p := range packets {
		if p.Err != nil {
			return fmt.Errorf("packet %d failed: %w", i, p.Err)
		}
	}

	return nil
}

package ccsds

// predictor runs the adaptive predictor over one image and produces its
// mapped residuals.
//
// See: CCSDS 123.0-B-1, 4. Predictor
type predictor struct {
	desc    ImageDescriptor
	cfg     PredictorConfig
	r       sampleRange
	weights *weightAdapter

	// Central local differences of the last PredBands+1 bands, indexed by
	// z mod (PredBands+1). Every band only looks back PredBands bands at
	// the same position, and positions are visited in increasing z.
	diffs [][]int32
	u     []int64
}

func newPredictor(desc ImageDescriptor, cfg PredictorConfig) *predictor {
	ret := new(predictor)
	ret.desc = desc
	ret.cfg = cfg
	ret.r = desc.sampleRange()
	ret.weights = newWeightAdapter(&ret.desc, &ret.cfg)

	area := desc.X * desc.Y
	if cfg.PredBands > 0 {
		ret.diffs = make([][]int32, cfg.PredBands+1)
		for i := range ret.diffs {
			ret.diffs[i] = make([]int32, area)
		}
	}
	ret.u = make([]int64, cfg.weightCount(desc.Z-1))

	return ret
}

// run predicts every sample of the BSQ buffer samples, in the input
// interleaving order, and stores the mapped residuals into out.
func (p *predictor) run(samples []int32, out []uint16) {
	d := &p.desc
	// Traversal cannot fail: the callback never returns an error.
	_ = traverse(d.X, d.Y, d.Z, d.Interleaving, d.InterleavingDepth, func(z int, y int, x int) error {
		out[bsqIndex(d, z, y, x)] = p.sample(samples, z, y, x)
		return nil
	})
}

func (p *predictor) sample(samples []int32, z int, y int, x int) uint16 {
	scaled, sigma, u := p.predict(samples, z, y, x)
	s := int64(samples[bsqIndex(&p.desc, z, y, x)])
	p.commit(z, y, x, s, scaled, sigma, u)

	return uint16(mapResidual(s, scaled>>1, scaled, p.r))
}

// predict returns the scaled predicted sample of (z, y, x), with the local
// sum and local difference vector it was derived from. Only samples that
// precede (z, y, x) in any interleaving order are read.
func (p *predictor) predict(samples []int32, z int, y int, x int) (int64, int64, []int64) {
	area := p.desc.X * p.desc.Y
	plane := samples[z*area : (z+1)*area]
	t := y*p.desc.X + x

	pstar := z
	if pstar > p.cfg.PredBands {
		pstar = p.cfg.PredBands
	}

	if t == 0 {
		if pstar > 0 {
			return 2 * int64(samples[(z-1)*area]), 0, nil
		}
		return 2 * p.r.s_mid, 0, nil
	}

	sigma := localSum(plane, x, y, p.desc.X, p.cfg.LocalSum)

	u := p.u[:0]
	if p.cfg.Full {
		dN, dW, dNW := directionalDiffs(plane, x, y, p.desc.X, sigma)
		u = append(u, dN, dW, dNW)
	}
	for i := 1; i <= pstar; i++ {
		u = append(u, int64(p.diffs[(z-i)%len(p.diffs)][t]))
	}

	w := p.weights.vector(z)
	var dHat int64
	for i := range u {
		dHat += w[i] * u[i]
	}

	return scaledPrediction(dHat, sigma, p.r, p.cfg.WeightResolution, p.cfg.RegisterSize), sigma, u
}

// commit records sample s of (z, y, x) once predicted: its central local
// difference for the following bands, and the weight update.
func (p *predictor) commit(z int, y int, x int, s int64, scaled int64, sigma int64, u []int64) {
	t := y*p.desc.X + x

	if t == 0 {
		if p.diffs != nil {
			p.diffs[z%len(p.diffs)][0] = 0
		}
		return
	}

	if p.diffs != nil {
		p.diffs[z%len(p.diffs)][t] = int32(4*s - sigma)
	}
	p.weights.update(z, t, 2*s-scaled, u)
}

package ccsds

// weightAdapter owns the weight vectors of every band and applies the
// sign-algorithm update after each predicted sample.
type weightAdapter struct {
	omega    uint
	min      int64
	max      int64
	nuMin    int
	nuMax    int
	interval int
	rhoBase  int // D - Omega
	width    int
	period   int
	weights  [][]int64
}

func newWeightAdapter(desc *ImageDescriptor, cfg *PredictorConfig) *weightAdapter {
	ret := new(weightAdapter)
	ret.omega = cfg.WeightResolution
	ret.min = -(int64(1) << (cfg.WeightResolution + 2))
	ret.max = int64(1)<<(cfg.WeightResolution+2) - 1
	ret.nuMin = cfg.WeightInitial
	ret.nuMax = cfg.WeightFinal
	ret.interval = cfg.WeightInterval
	ret.rhoBase = int(desc.DynamicRange) - int(cfg.WeightResolution)
	ret.width = desc.X
	ret.period = cfg.UpdatePeriod

	ret.weights = make([][]int64, desc.Z)
	for z := 0; z < desc.Z; z++ {
		ret.weights[z] = make([]int64, cfg.weightCount(z))
		if cfg.WeightInitTable != nil {
			ret.initCustom(z, cfg.WeightInitTable[z], cfg.WeightInitResolution)
		} else {
			ret.initDefault(z, cfg.Full)
		}
	}

	return ret
}

// See: 4.6.2. Default Weight Initialization
func (a *weightAdapter) initDefault(z int, full bool) {
	w := a.weights[z]
	first := 0
	if full {
		// Directional weights start at zero.
		first = 3
	}

	prev := (int64(7) << a.omega) >> 3
	for i := first; i < len(w); i++ {
		w[i] = prev
		prev >>= 3
	}
}

// See: 4.6.3. Custom Weight Initialization
func (a *weightAdapter) initCustom(z int, table []int, q uint) {
	bias := int64(-1)
	if a.omega+2 >= q {
		bias += int64(1) << (a.omega + 2 - q)
	}

	for i, v := range table {
		a.weights[z][i] = clip(int64(v)<<(a.omega+3-q)+bias, a.min, a.max)
	}
}

func (a *weightAdapter) vector(z int) []int64 {
	return a.weights[z]
}

// Weight update scaling exponent rho for sample t.
func (a *weightAdapter) exponent(t int) int {
	nu := a.nuMin
	if t > a.width {
		nu += (t - a.width) / a.interval
	}
	if nu > a.nuMax {
		nu = a.nuMax
	}
	return nu + a.rhoBase
}

// Updates the weights of band z after sample t > 0 predicted with local
// difference vector u and scaled prediction error e.
//
// See: 4.8. Weight Update
func (a *weightAdapter) update(z int, t int, e int64, u []int64) {
	if a.period > 1 && t%a.period != 0 {
		return
	}

	rho := a.exponent(t)
	w := a.weights[z]
	for i := range w {
		v := u[i]
		if e < 0 {
			v = -v
		}

		var step int64
		if rho >= 0 {
			step = (v + int64(1)<<uint(rho)) >> uint(rho+1)
		} else {
			step = (v<<uint(-rho) + 1) >> 1
		}

		w[i] = clip(w[i]+step, a.min, a.max)
	}
}

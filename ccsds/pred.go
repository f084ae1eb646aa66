package ccsds

func clip(v int64, lo int64, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Reduces v to an R-bit two's complement value, mod*_R in 4.7.
func modR(v int64, r uint) int64 {
	if r >= 64 {
		return v
	}
	half := int64(1) << (r - 1)
	return ((v + half) & (int64(1)<<r - 1)) - half
}

// Local sum of sample t = y*width + x of one band, t > 0. Neighbours
// outside the image are never read: the first line and the first and last
// columns use the boundary forms.
//
// See: 4.4. Local Sums
func localSum(plane []int32, x int, y int, width int, mode LocalSumMode) int64 {
	t := y*width + x

	if y == 0 {
		return 4 * int64(plane[t-1])
	}

	n := int64(plane[t-width])
	if mode == ColumnOriented {
		return 4 * n
	}

	if x == 0 {
		return 2 * (n + int64(plane[t-width+1]))
	} else if x == width-1 {
		return int64(plane[t-1]) + int64(plane[t-width-1]) + 2*n
	}

	return int64(plane[t-1]) + int64(plane[t-width-1]) + n + int64(plane[t-width+1])
}

// Directional local differences d^N, d^W, d^NW for full prediction mode.
//
// See: 4.5. Local Differences
func directionalDiffs(plane []int32, x int, y int, width int, sigma int64) (int64, int64, int64) {
	if y == 0 {
		return 0, 0, 0
	}

	t := y*width + x
	dN := 4*int64(plane[t-width]) - sigma
	if x == 0 {
		return dN, dN, dN
	}

	return dN, 4*int64(plane[t-1]) - sigma, 4*int64(plane[t-width-1]) - sigma
}

// Scaled predicted sample from the predicted central difference dHat.
//
// See: 4.7. Prediction Calculation
func scaledPrediction(dHat int64, sigma int64, r sampleRange, omega uint, register uint) int64 {
	v := modR(dHat+(sigma-4*r.s_mid)<<omega, register)
	v = v>>(omega+1) + 2*r.s_mid + 1
	return clip(v, 2*r.s_min, 2*r.s_max+1)
}

// Maps the prediction residual of sample s to an unsigned integer.
//
// See: 4.9. Mapped Prediction Residual
func mapResidual(s int64, pred int64, scaled int64, r sampleRange) uint32 {
	delta := s - pred
	theta := pred - r.s_min
	if r.s_max-pred < theta {
		theta = r.s_max - pred
	}

	mag := abs64(delta)
	if mag > theta {
		return uint32(mag + theta)
	}
	if (scaled&1 == 0 && delta >= 0) || (scaled&1 == 1 && delta <= 0) {
		return uint32(2 * mag)
	}
	return uint32(2*mag - 1)
}

// Inverse of mapResidual.
func unmapResidual(delta uint32, pred int64, scaled int64, r sampleRange) int64 {
	theta := pred - r.s_min
	if r.s_max-pred < theta {
		theta = r.s_max - pred
	}

	d := int64(delta)
	if d > 2*theta {
		// Only one side of the prediction has room for this magnitude.
		if pred-r.s_min == theta {
			return pred + d - theta
		}
		return pred - (d - theta)
	}

	odd := scaled&1 == 1
	if d&1 == 0 {
		if odd {
			return pred - d/2
		}
		return pred + d/2
	}

	if odd {
		return pred + (d+1)/2
	}
	return pred - (d+1)/2
}

package golomb

func minUint(a uint, b uint) uint {
	if a > b {
		return b
	}
	return a
}

// Writes value in fundamental sequence form: value zeros, then a one.
func putFS(w *BitWriter, value uint64) {
	w.PutZeros(value)
	w.PutBit(1)
}

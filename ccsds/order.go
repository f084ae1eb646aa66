package ccsds

// traverse calls fn for every sample coordinate of an x*y*z image, in
// the given interleaving order. BSQ visits band by band. BI visits line
// by line and, within a line, groups of depth bands pixel by pixel: depth
// 1 is BIL and depth z is BIP. Iteration stops at the first error.
func traverse(x int, y int, z int, order Interleaving, depth int, fn func(z int, y int, x int) error) error {
	if order == BSQ {
		for k := 0; k < z; k++ {
			for j := 0; j < y; j++ {
				for i := 0; i < x; i++ {
					err := fn(k, j, i)
					if err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	for j := 0; j < y; j++ {
		for group := 0; group < z; group += depth {
			end := group + depth
			if end > z {
				end = z
			}
			for i := 0; i < x; i++ {
				for k := group; k < end; k++ {
					err := fn(k, j, i)
					if err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

// Index of sample (z, y, x) in a BSQ buffer.
func bsqIndex(desc *ImageDescriptor, z int, y int, x int) int {
	return (z*desc.Y+y)*desc.X + x
}

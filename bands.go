package main

import (
	"fmt"
	"image"
	"os"

	"github.com/dwbuiten/go-ccsds123/ccsds"
	"golang.org/x/image/tiff"
)

// loadTIFFBands reads one grayscale TIFF per band into band-sequential
// samples. All bands must share their dimensions. Unless d is non-zero,
// the dynamic range is 8 for 8-bit bands and 16 if any band is 16-bit.
// TIFF grayscale is unsigned, so signed samples are refused.
func loadTIFFBands(paths []string, d uint, signed bool) (ccsds.ImageDescriptor, []int32, error) {
	var desc ccsds.ImageDescriptor
	var samples []int32
	wide := false

	if signed {
		return desc, nil, fmt.Errorf("TIFF bands are unsigned, -signed does not apply")
	}

	for z, path := range paths {
		img, err := decodeTIFF(path)
		if err != nil {
			return desc, nil, err
		}

		b := img.Bounds()
		if z == 0 {
			desc.X = b.Dx()
			desc.Y = b.Dy()
			desc.Z = len(paths)
			samples = make([]int32, 0, desc.X*desc.Y*desc.Z)
		} else if b.Dx() != desc.X || b.Dy() != desc.Y {
			return desc, nil, fmt.Errorf("band %s is %dx%d, want %dx%d", path, b.Dx(), b.Dy(), desc.X, desc.Y)
		}

		switch p := img.(type) {
		case *image.Gray:
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					samples = append(samples, int32(p.GrayAt(x, y).Y))
				}
			}
		case *image.Gray16:
			wide = true
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					samples = append(samples, int32(p.Gray16At(x, y).Y))
				}
			}
		default:
			return desc, nil, fmt.Errorf("band %s is not grayscale (%T)", path, img)
		}
	}

	desc.DynamicRange = d
	if d == 0 {
		desc.DynamicRange = 8
		if wide {
			desc.DynamicRange = 16
		}
	}

	return desc, samples, nil
}

func decodeTIFF(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %s", path, err.Error())
	}

	return img, nil
}

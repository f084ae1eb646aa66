package main

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

func writeTIFF(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	err = tiff.Encode(f, img, nil)
	if err != nil {
		t.Fatalf("tiff.Encode: %v", err)
	}
}

func TestLoadTIFFBands(t *testing.T) {
	dir := t.TempDir()

	a := image.NewGray(image.Rect(0, 0, 3, 2))
	b := image.NewGray16(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			a.SetGray(x, y, color.Gray{Y: uint8(10*y + x)})
			b.SetGray16(x, y, color.Gray16{Y: uint16(1000*y + x)})
		}
	}
	pa := filepath.Join(dir, "a.tif")
	pb := filepath.Join(dir, "b.tif")
	writeTIFF(t, pa, a)
	writeTIFF(t, pb, b)

	desc, samples, err := loadTIFFBands([]string{pa, pb}, 0, false)
	if err != nil {
		t.Fatalf("loadTIFFBands: %v", err)
	}
	if desc.X != 3 || desc.Y != 2 || desc.Z != 2 || desc.DynamicRange != 16 {
		t.Fatalf("got descriptor %+v", desc)
	}
	want := []int32{0, 1, 2, 10, 11, 12, 0, 1, 2, 1000, 1001, 1002}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, samples[i], want[i])
		}
	}

	desc, _, err = loadTIFFBands([]string{pa}, 5, false)
	if err != nil {
		t.Fatalf("loadTIFFBands: %v", err)
	}
	if desc.DynamicRange != 5 {
		t.Fatalf("dynamic range: got %d, want 5", desc.DynamicRange)
	}
}

func TestLoadTIFFBands_SizeMismatch(t *testing.T) {
	dir := t.TempDir()
	pa := filepath.Join(dir, "a.tif")
	pb := filepath.Join(dir, "b.tif")
	writeTIFF(t, pa, image.NewGray(image.Rect(0, 0, 4, 4)))
	writeTIFF(t, pb, image.NewGray(image.Rect(0, 0, 4, 3)))

	_, _, err := loadTIFFBands([]string{pa, pb}, 0, false)
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestLoadTIFFBands_RejectsSigned(t *testing.T) {
	dir := t.TempDir()
	pa := filepath.Join(dir, "a.tif")
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 200})
	writeTIFF(t, pa, img)

	_, _, err := loadTIFFBands([]string{pa}, 0, true)
	if err == nil {
		t.Fatalf("expected an error for signed TIFF input")
	}
}

func TestCloseDumps(t *testing.T) {
	dir := t.TempDir()

	var files []*os.File
	for _, name := range []string{"plain.bin", "packed.zst"} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		files = append(files, f)
	}

	closeDumps(files)
	for _, f := range files {
		_, err := f.Write([]byte{0})
		if !errors.Is(err, os.ErrClosed) {
			t.Fatalf("%s: got %v, want %v", f.Name(), err, os.ErrClosed)
		}
	}
}

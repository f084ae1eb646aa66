// Command go-ccsds123 compresses a raw or per-band TIFF multispectral
// image into a headerless CCSDS 123 bitstream.
//
// Usage:
//
//	go-ccsds123 [options] -x W -y H -z B -d D input.raw
//	go-ccsds123 [options] band0.tif band1.tif ...
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dwbuiten/go-ccsds123/ccsds"
)

func parseOrder(s string, z int, depth int) (ccsds.Interleaving, int, error) {
	switch strings.ToLower(s) {
	case "bsq":
		return ccsds.BSQ, z, nil
	case "bil":
		return ccsds.BI, 1, nil
	case "bip":
		return ccsds.BI, z, nil
	case "bi":
		if depth <= 0 {
			return 0, 0, fmt.Errorf("bi order needs a positive depth")
		}
		return ccsds.BI, depth, nil
	}
	return 0, 0, fmt.Errorf("unknown order %q (use bsq/bil/bip/bi)", s)
}

func isTIFF(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".tif" || ext == ".tiff"
}

func createOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

// Dump failures never fail a run, so neither do their close errors.
func closeDumps(files []*os.File) {
	for _, f := range files {
		err := f.Close()
		if err != nil {
			log.Println(err)
		}
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("go-ccsds123: ")

	// Image
	x := flag.Int("x", 0, "samples per line (raw input)")
	y := flag.Int("y", 0, "lines (raw input)")
	z := flag.Int("z", 0, "bands (raw input)")
	d := flag.Uint("d", 0, "dynamic range in bits, 1-16 (TIFF input: 0 = from the files)")
	signed := flag.Bool("signed", false, "signed samples")
	order := flag.String("order", "bsq", "raw input order: bsq/bil/bip/bi")
	depth := flag.Int("depth", 0, "band group size for -order bi")
	bigEndian := flag.Bool("be", false, "big-endian 16-bit raw samples")

	// Predictor
	predBands := flag.Int("p", -1, "bands used for prediction, 0-15 (-1 = default)")
	reduced := flag.Bool("reduced", false, "reduced prediction mode")
	column := flag.Bool("column", false, "column-oriented local sums")
	register := flag.Uint("r", 32, "register size, 32-64")
	omega := flag.Uint("omega", 4, "weight resolution, 4-19")
	tinc := flag.Int("tinc", 16, "weight update interval, power of two 16-2048")
	nuMin := flag.Int("numin", -1, "initial weight update exponent")
	nuMax := flag.Int("numax", 3, "final weight update exponent")
	period := flag.Int("period", 0, "update weights every N samples (0 = every sample)")

	// Encoder
	mode := flag.String("mode", "sample", "entropy coder: sample/block")
	umax := flag.Uint("umax", 18, "unary length limit, 8-32")
	ystar := flag.Uint("ystar", 6, "rescaling counter size")
	y0 := flag.Uint("y0", 1, "initial count exponent")
	k := flag.Int("k", ccsds.KUnset, "accumulator initialization constant (-1 = default)")
	blockSize := flag.Int("j", 16, "block size: 8/16/32/64")
	restricted := flag.Bool("restricted", false, "restricted code options (D <= 4)")
	ref := flag.Int("ref", 4096, "reference interval in samples")
	outOrder := flag.String("out-order", "bsq", "output order: bsq/bil/bip/bi")
	outDepth := flag.Int("out-depth", 0, "band group size for -out-order bi")
	word := flag.Int("word", 1, "output word size in bytes, 1-8")

	// Output
	output := flag.String("o", "", `output path (default: <input>.c123, "-" for stdout)`)
	dump := flag.String("dump", "", "write mapped residuals (16-bit LE, BSQ) to this file")
	dumpZstd := flag.String("dump-zstd", "", "write zstd compressed mapped residuals to this file")

	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatalln("missing input file")
	}

	var desc ccsds.ImageDescriptor
	var samples []int32
	var err error
	if isTIFF(flag.Arg(0)) {
		desc, samples, err = loadTIFFBands(flag.Args(), *d, *signed)
		if err != nil {
			log.Fatalln(err)
		}
	} else {
		desc = ccsds.ImageDescriptor{
			X:            *x,
			Y:            *y,
			Z:            *z,
			DynamicRange: *d,
			Signed:       *signed,
			ByteOrder:    ccsds.LittleEndian,
		}
		if *bigEndian {
			desc.ByteOrder = ccsds.BigEndian
		}
		desc.Interleaving, desc.InterleavingDepth, err = parseOrder(*order, *z, *depth)
		if err != nil {
			log.Fatalln(err)
		}

		buf, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalln(err)
		}
		samples, err = ccsds.LoadSamples(desc, buf)
		if err != nil {
			log.Fatalln(err)
		}
	}

	pcfg := ccsds.DefaultPredictorConfig(desc)
	if *predBands >= 0 {
		pcfg.PredBands = *predBands
	}
	if *reduced {
		pcfg.Full = false
	}
	if *column {
		pcfg.LocalSum = ccsds.ColumnOriented
	}
	pcfg.RegisterSize = *register
	pcfg.WeightResolution = *omega
	pcfg.WeightInterval = *tinc
	pcfg.WeightInitial = *nuMin
	pcfg.WeightFinal = *nuMax
	pcfg.UpdatePeriod = *period

	ecfg := ccsds.DefaultEncoderConfig(desc)
	switch strings.ToLower(*mode) {
	case "sample":
		ecfg.Mode = ccsds.SampleAdaptive
	case "block":
		ecfg.Mode = ccsds.BlockAdaptive
	default:
		log.Fatalf("unknown mode %q (use sample/block)", *mode)
	}
	ecfg.UMax = *umax
	ecfg.YStar = *ystar
	ecfg.Y0 = *y0
	if *k != ccsds.KUnset {
		ecfg.K = *k
	}
	ecfg.BlockSize = *blockSize
	ecfg.Restricted = *restricted
	ecfg.RefInterval = *ref
	ecfg.OutWordSize = *word
	ecfg.OutInterleaving, ecfg.OutInterleavingDepth, err = parseOrder(*outOrder, desc.Z, *outDepth)
	if err != nil {
		log.Fatalln(err)
	}

	var opts []ccsds.Option
	var dumps []*os.File
	if *dump != "" {
		f, err := os.Create(*dump)
		if err != nil {
			log.Println(err)
		} else {
			dumps = append(dumps, f)
			opts = append(opts, ccsds.WithResidualDump(f))
		}
	}
	if *dumpZstd != "" {
		f, err := os.Create(*dumpZstd)
		if err != nil {
			log.Println(err)
		} else {
			dumps = append(dumps, f)
			opts = append(opts, ccsds.WithResidualDumpZstd(f))
		}
	}

	c, err := ccsds.NewCompressor(desc, pcfg, ecfg, opts...)
	if err != nil {
		closeDumps(dumps)
		log.Fatalln(err)
	}

	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(flag.Arg(0), filepath.Ext(flag.Arg(0))) + ".c123"
	}
	out, err := createOutput(outPath)
	if err != nil {
		closeDumps(dumps)
		log.Fatalln(err)
	}

	stats, err := c.CompressTo(out, samples)
	closeDumps(dumps)
	if err != nil {
		log.Fatalln(err)
	}
	if outPath != "-" {
		err = out.Close()
		if err != nil {
			log.Fatalln(err)
		}
	}

	log.Printf("%dx%dx%d, %d bits: %d bytes, %.3f bits/sample", desc.X, desc.Y, desc.Z, desc.DynamicRange, stats.CompressedBytes, stats.Rate)
	log.Printf("prediction %s, encoding %s, total %s", stats.PredictionDuration, stats.EncodingDuration, stats.Duration)
}

package ccsds

import (
	"errors"
	"testing"
)

func TestLoadSamples(t *testing.T) {
	for _, tc := range []struct {
		name string
		desc ImageDescriptor
		buf  []byte
		want []int32
	}{
		{
			name: "bsq_8bit",
			desc: ImageDescriptor{X: 2, Y: 1, Z: 2, DynamicRange: 8},
			buf:  []byte{1, 2, 3, 4},
			want: []int32{1, 2, 3, 4},
		},
		{
			name: "bip_8bit",
			desc: ImageDescriptor{X: 2, Y: 1, Z: 2, DynamicRange: 8, Interleaving: BI, InterleavingDepth: 2},
			buf:  []byte{1, 3, 2, 4},
			want: []int32{1, 2, 3, 4},
		},
		{
			name: "bil_12bit_le",
			desc: ImageDescriptor{X: 2, Y: 2, Z: 2, DynamicRange: 12, Interleaving: BI, InterleavingDepth: 1},
			buf:  []byte{1, 0, 2, 0, 5, 0, 6, 0, 3, 0, 4, 0, 7, 0, 0xff, 0x0f},
			want: []int32{1, 2, 3, 4, 5, 6, 7, 4095},
		},
		{
			name: "bsq_16bit_be",
			desc: ImageDescriptor{X: 2, Y: 1, Z: 1, DynamicRange: 16, ByteOrder: BigEndian},
			buf:  []byte{0x12, 0x34, 0xff, 0xfe},
			want: []int32{0x1234, 0xfffe},
		},
		{
			name: "signed_8bit",
			desc: ImageDescriptor{X: 3, Y: 1, Z: 1, DynamicRange: 8, Signed: true},
			buf:  []byte{0x80, 0xff, 0x7f},
			want: []int32{-128, -1, 127},
		},
		{
			name: "signed_10bit_le",
			desc: ImageDescriptor{X: 2, Y: 1, Z: 1, DynamicRange: 10, Signed: true},
			buf:  []byte{0x00, 0xfe, 0xff, 0x01},
			want: []int32{-512, 511},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LoadSamples(tc.desc, tc.buf)
			if err != nil {
				t.Fatalf("LoadSamples: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d samples, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("sample %d: got %d, want %d", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestLoadSamples_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		desc ImageDescriptor
		buf  []byte
	}{
		{name: "short", desc: ImageDescriptor{X: 2, Y: 2, Z: 1, DynamicRange: 8}, buf: []byte{1, 2, 3}},
		{name: "16bit_odd_length", desc: ImageDescriptor{X: 2, Y: 1, Z: 1, DynamicRange: 16}, buf: []byte{1, 2, 3}},
		{name: "out_of_range", desc: ImageDescriptor{X: 1, Y: 1, Z: 1, DynamicRange: 4}, buf: []byte{16}},
		{name: "out_of_range_wide", desc: ImageDescriptor{X: 1, Y: 1, Z: 1, DynamicRange: 12}, buf: []byte{0, 0x10}},
		{name: "signed_out_of_range", desc: ImageDescriptor{X: 1, Y: 1, Z: 1, DynamicRange: 4, Signed: true}, buf: []byte{0xf0}},
		{name: "bad_descriptor", desc: ImageDescriptor{X: 0, Y: 1, Z: 1, DynamicRange: 8}, buf: nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSamples(tc.desc, tc.buf)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("got %v, want %v", err, ErrConfig)
			}
		})
	}
}

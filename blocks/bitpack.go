package blocks

import "io"

// packIndices stores each palette index in bpp bits, least significant bit
// first, with no padding between cells.
func packIndices(stream []uint32, bpp uint8) []byte {
	out := make([]byte, (len(stream)*int(bpp)+7)/8)
	bit := 0
	for _, idx := range stream {
		for b := uint8(0); b < bpp; b++ {
			if idx>>b&1 == 1 {
				out[bit>>3] |= 1 << (bit & 7)
			}
			bit++
		}
	}
	return out
}

// unpackIndices reverses packIndices for a grid of n cells.
func unpackIndices(payload []byte, n int, bpp uint8) ([]uint32, error) {
	if uint64(len(payload))*8 < uint64(n)*uint64(bpp) {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]uint32, n)
	bit := 0
	for i := range out {
		var idx uint32
		for b := uint8(0); b < bpp; b++ {
			idx |= uint32(payload[bit>>3]>>(bit&7)&1) << b
			bit++
		}
		out[i] = idx
	}
	return out, nil
}

// bitsFor is the width needed to store indices below n, at least 1.
func bitsFor(n int) uint8 {
	b := uint8(1)
	for (1 << b) < n {
		b++
	}
	return b
}

package blocks

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

const (
	encDense = 0 // bit-packed palette indices
	encRuns  = 1 // uvarint (length, index) pairs

	compZlib = 0x40
	compZstd = 0x80
	encMask  = 0x3F
)

type encoded struct {
	encoding uint8
	payload  []byte
}

// gridIndex builds the first-seen palette of cube and its index stream in storage order.
func gridIndex(cube *BlockCube) ([]string, []uint32) {
	table := make(map[string]uint32)
	var palette []string
	stream := make([]uint32, len(cube.ids))
	for i, id := range cube.ids {
		idx, ok := table[id]
		if !ok {
			idx = uint32(len(palette))
			table[id] = idx
			palette = append(palette, id)
		}
		stream[i] = idx
	}
	return palette, stream
}

func encodeRuns(stream []uint32) []byte {
	var out []byte
	for i := 0; i < len(stream); {
		j := i + 1
		for j < len(stream) && stream[j] == stream[i] {
			j++
		}
		out = binary.AppendUvarint(out, uint64(j-i))
		out = binary.AppendUvarint(out, uint64(stream[i]))
		i = j
	}
	return out
}

func decodeRuns(payload []byte, n int) ([]uint32, error) {
	out := make([]uint32, 0, n)
	pos := 0
	for pos < len(payload) {
		length, k := binary.Uvarint(payload[pos:])
		if k <= 0 {
			return nil, io.ErrUnexpectedEOF
		}
		pos += k
		idx, k := binary.Uvarint(payload[pos:])
		if k <= 0 || idx > math.MaxUint32 {
			return nil, io.ErrUnexpectedEOF
		}
		pos += k
		if length > uint64(n-len(out)) {
			return nil, fmt.Errorf("run overflows grid of %d cells", n)
		}
		for ; length > 0; length-- {
			out = append(out, uint32(idx))
		}
	}
	if len(out) != n {
		return nil, fmt.Errorf("runs cover %d of %d cells", len(out), n)
	}
	return out, nil
}

func zlibCompress(b []byte) []byte {
	var buf bytes.Buffer
	zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	_, _ = zw.Write(b)
	_ = zw.Close()
	return buf.Bytes()
}

func zlibDecompress(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func zstdCompress(b []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(b, nil), nil
}

func zstdDecompress(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}

// bestEncoding tries every layout raw and compressed and keeps the smallest.
func bestEncoding(stream []uint32, bpp uint8) encoded {
	candidates := []encoded{
		{encoding: encDense, payload: packIndices(stream, bpp)},
		{encoding: encRuns, payload: encodeRuns(stream)},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.payload) < len(best.payload) {
			best = c
		}
	}
	for _, c := range candidates {
		if zb := zlibCompress(c.payload); len(zb) < len(best.payload) {
			best = encoded{encoding: c.encoding | compZlib, payload: zb}
		}
		if zb, err := zstdCompress(c.payload); err == nil && len(zb) < len(best.payload) {
			best = encoded{encoding: c.encoding | compZstd, payload: zb}
		}
	}
	return best
}

func decodePayload(enc uint8, payload []byte, n int, bpp uint8) ([]uint32, error) {
	var err error
	switch {
	case enc&compZstd != 0:
		payload, err = zstdDecompress(payload)
	case enc&compZlib != 0:
		payload, err = zlibDecompress(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("decompress grid payload: %w", err)
	}
	switch enc & encMask {
	case encDense:
		return unpackIndices(payload, n, bpp)
	case encRuns:
		return decodeRuns(payload, n)
	}
	return nil, fmt.Errorf("unknown grid encoding: %d", enc&encMask)
}
